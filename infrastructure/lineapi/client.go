package lineapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"linetask/domain/ports"
	"linetask/pkg/logger"
)

const apiBase = "https://api.line.me/v2/bot"

// Config สำหรับ LINE Messaging API
type Config struct {
	ChannelSecret      string
	ChannelAccessToken string
}

// Client - LINE implementation ของ MessengerPort
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) ports.MessengerPort {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// VerifySignature ตรวจ HMAC-SHA256 ของ webhook body กับ channel secret
func (c *Client) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.cfg.ChannelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	payload := map[string]interface{}{
		"replyToken": replyToken,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	return c.post(ctx, "/message/reply", payload)
}

func (c *Client) PushText(ctx context.Context, to, text string) error {
	payload := map[string]interface{}{
		"to": to,
		"messages": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	return c.post(ctx, "/message/push", payload)
}

func (c *Client) GetProfile(ctx context.Context, userID string) (*ports.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", apiBase+"/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ChannelAccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile API returned status %d", resp.StatusCode)
	}

	var body struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
		PictureURL  string `json:"pictureUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &ports.Profile{
		UserID:      body.UserID,
		DisplayName: body.DisplayName,
		PictureURL:  body.PictureURL,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", apiBase+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ChannelAccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "failed to call messaging API", "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.ErrorContext(ctx, "messaging API error", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("messaging API returned status %d", resp.StatusCode)
	}
	return nil
}
