package dto

// Webhook payload จาก messaging platform
// โครงเดียวกับ LINE Messaging API: body เดียวมีหลาย event

type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

type WebhookEvent struct {
	Type       string           `json:"type"` // message, postback, join, leave, memberJoined, memberLeft
	WebhookEventID string       `json:"webhookEventId"`
	ReplyToken string           `json:"replyToken,omitempty"`
	Timestamp  int64            `json:"timestamp"`
	Source     WebhookSource    `json:"source"`
	Message    *WebhookMessage  `json:"message,omitempty"`
	Postback   *WebhookPostback `json:"postback,omitempty"`
	DeliveryContext struct {
		IsRedelivery bool `json:"isRedelivery"`
	} `json:"deliveryContext"`
}

type WebhookSource struct {
	Type    string `json:"type"` // user, group
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"` // text, image, file
	Text string `json:"text,omitempty"`
}

// WebhookPostback.Data เป็น query string เช่น
// "action=submit&taskId=<uuid>" หรือ "action=reject&taskId=<uuid>&days=3"
type WebhookPostback struct {
	Data string `json:"data"`
}
