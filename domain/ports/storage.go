package ports

import "io"

// StoragePort คือ interface หลักสำหรับ storage
// ทำให้เปลี่ยน storage provider ได้ง่าย (Local, S3/MinIO)
type StoragePort interface {
	// UploadFile อัปโหลดไฟล์ไปยัง storage
	// path: เส้นทางที่จะเก็บไฟล์ (เช่น "attachments/uuid/report.pdf")
	// return: URL ที่เข้าถึงไฟล์ได้
	UploadFile(file io.Reader, path string, contentType string) (string, error)

	// DeleteFile ลบไฟล์จาก storage
	DeleteFile(path string) error

	// DeleteFolder ลบไฟล์ทั้งหมดใน prefix (ใช้ตอน purge group)
	DeleteFolder(prefix string) error

	// GetFileURL รับ URL สำหรับเข้าถึงไฟล์
	GetFileURL(path string) string

	// GetFileContent อ่านไฟล์จาก storage
	// return: io.ReadCloser, contentType, error
	GetFileContent(path string) (io.ReadCloser, string, error)

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
