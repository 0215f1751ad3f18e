package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/services"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadToTask รับ multipart form: field "file" + optional field "tag"
func (h *FileHandler) UploadToTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequestResponse(c, "Missing file")
	}

	tag := models.FileTag(c.FormValue("tag", string(models.FileTagSubmission)))
	if !tag.Valid() {
		return utils.BadRequestResponse(c, "tag must be initial or submission")
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.WarnContext(ctx, "Failed to open uploaded file", "error", err)
		return utils.BadRequestResponse(c, "Unreadable file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploaderID := user.ID
	file, err := h.fileService.UploadToTask(ctx, taskID, &uploaderID, tag,
		fileHeader.Filename, contentType, fileHeader.Size, src)
	if err != nil {
		return err
	}

	return utils.CreatedResponse(c, dto.FileToResponse(file, tag))
}

func (h *FileHandler) Download(c *fiber.Ctx) error {
	ctx := c.UserContext()

	fileID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid file ID")
	}

	content, file, err := h.fileService.Download(ctx, fileID)
	if err != nil {
		return err
	}
	defer content.Close()

	c.Set("Content-Type", file.MimeType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	return c.SendStream(content)
}

func (h *FileHandler) ListTaskFiles(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, err := paramUUID(c, "id")
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	taskFiles, err := h.fileService.ListTaskFiles(ctx, taskID)
	if err != nil {
		return err
	}

	responses := make([]dto.FileResponse, len(taskFiles))
	for i, tf := range taskFiles {
		responses[i] = dto.FileToResponse(&tf.File, tf.Tag)
	}
	return utils.SuccessResponse(c, responses)
}
