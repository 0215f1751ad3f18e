package dto

import (
	"time"

	"github.com/google/uuid"
)

type FileResponse struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	MimeType  string    `json:"mimeType,omitempty"`
	URL       string    `json:"url,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
