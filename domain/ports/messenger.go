package ports

import "context"

// Profile ข้อมูล user จาก messaging platform
type Profile struct {
	UserID      string
	DisplayName string
	PictureURL  string
}

// MessengerPort - interface สำหรับคุยกับ messaging platform
// (reply/push ข้อความ, ดึง profile) ทำให้สลับ provider หรือ mock ใน test ได้
type MessengerPort interface {
	// ReplyText ตอบกลับ event ด้วย reply token (ใช้ได้ครั้งเดียว)
	ReplyText(ctx context.Context, replyToken, text string) error

	// PushText ส่งข้อความหา user หรือ group โดยตรง
	PushText(ctx context.Context, to, text string) error

	// GetProfile ดึง display name / รูป ของ user
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// VerifySignature ตรวจ HMAC signature ของ webhook body
	VerifySignature(body []byte, signature string) bool
}
