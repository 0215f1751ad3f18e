package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"linetask/domain/dto"
	"linetask/domain/models"
	"linetask/domain/ports"
	"linetask/domain/services"
	"linetask/infrastructure/redis"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

const signatureHeader = "X-Line-Signature"

// WebhookHandler รับ event จาก messaging platform
// ตอบ 200 เสมอหลัง signature ผ่าน - event ที่ process ไม่ได้แค่ log
type WebhookHandler struct {
	messenger       ports.MessengerPort
	redis           *redis.Client
	userService     services.UserService
	groupService    services.GroupService
	workflowService services.WorkflowService
	dedupTTL        time.Duration
}

func NewWebhookHandler(
	messenger ports.MessengerPort,
	redisClient *redis.Client,
	userService services.UserService,
	groupService services.GroupService,
	workflowService services.WorkflowService,
	dedupTTL time.Duration,
) *WebhookHandler {
	return &WebhookHandler{
		messenger:       messenger,
		redis:           redisClient,
		userService:     userService,
		groupService:    groupService,
		workflowService: workflowService,
		dedupTTL:        dedupTTL,
	}
}

func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	ctx := c.UserContext()

	body := c.Body()
	signature := c.Get(signatureHeader)
	if !h.messenger.VerifySignature(body, signature) {
		logger.WarnContext(ctx, "webhook signature mismatch", "ip", c.IP())
		return utils.UnauthorizedResponse(c, "Invalid signature")
	}

	var req dto.WebhookRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "webhook body unparseable", "error", err)
		return utils.BadRequestResponse(c, "Invalid webhook body")
	}

	for i := range req.Events {
		event := &req.Events[i]
		if h.alreadySeen(ctx, event) {
			continue
		}
		if err := h.dispatch(ctx, event); err != nil {
			logger.ErrorContext(ctx, "webhook event failed",
				"event_type", event.Type, "event_id", event.WebhookEventID, "error", err)
		}
	}

	return utils.SuccessResponse(c, fiber.Map{"events": len(req.Events)})
}

// alreadySeen กัน redelivery: SetNX กับ event id ภายใน TTL
func (h *WebhookHandler) alreadySeen(ctx context.Context, event *dto.WebhookEvent) bool {
	if h.redis == nil || event.WebhookEventID == "" {
		return false
	}
	fresh, err := h.redis.MarkEventSeen(ctx, event.WebhookEventID, h.dedupTTL)
	if err != nil {
		// redis down ไม่ควร block webhook - ยอมเสี่ยง process ซ้ำ
		logger.WarnContext(ctx, "event dedup unavailable", "error", err)
		return false
	}
	if !fresh {
		logger.InfoContext(ctx, "duplicate webhook event skipped",
			"event_id", event.WebhookEventID, "redelivery", event.DeliveryContext.IsRedelivery)
	}
	return !fresh
}

func (h *WebhookHandler) dispatch(ctx context.Context, event *dto.WebhookEvent) error {
	switch event.Type {
	case "join", "memberJoined":
		return h.handleJoin(ctx, event)
	case "leave":
		return h.groupService.Deactivate(ctx, event.Source.GroupID)
	case "postback":
		return h.handlePostback(ctx, event)
	case "message":
		return h.handleMessage(ctx, event)
	}
	return nil
}

func (h *WebhookHandler) handleJoin(ctx context.Context, event *dto.WebhookEvent) error {
	if event.Source.GroupID == "" {
		return nil
	}
	if _, err := h.groupService.EnsureGroup(ctx, event.Source.GroupID); err != nil {
		return err
	}
	if event.Type == "join" && event.ReplyToken != "" {
		return h.messenger.ReplyText(ctx, event.ReplyToken,
			"สวัสดีครับ ผมคือบอทจัดการงานของกลุ่มนี้ พิมพ์ \"งาน\" เพื่อดูรายการงานได้เลย")
	}
	return nil
}

// handleMessage รองรับ command ง่ายๆ จากข้อความ text
func (h *WebhookHandler) handleMessage(ctx context.Context, event *dto.WebhookEvent) error {
	if event.Message == nil || event.Message.Type != "text" {
		return nil
	}
	text := strings.TrimSpace(event.Message.Text)

	switch {
	case text == "งาน" || strings.EqualFold(text, "tasks"):
		return h.replyGroupTasks(ctx, event)
	}
	return nil
}

func (h *WebhookHandler) replyGroupTasks(ctx context.Context, event *dto.WebhookEvent) error {
	if event.Source.GroupID == "" || event.ReplyToken == "" {
		return nil
	}
	group, err := h.groupService.GetByLineGroupID(ctx, event.Source.GroupID)
	if err != nil {
		return err
	}

	tasks, _, err := h.workflowService.ListGroupTasks(ctx, group.ID, 0, 10)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		return h.messenger.ReplyText(ctx, event.ReplyToken, "ยังไม่มีงานในกลุ่มนี้ครับ")
	}

	var b strings.Builder
	b.WriteString("งานของกลุ่ม:\n")
	for _, t := range tasks {
		if t.Status.Terminal() {
			continue
		}
		fmt.Fprintf(&b, "• %s [%s] กำหนดส่ง %s\n",
			t.Title, statusThai(t.Status), t.DueTime.Format("02/01 15:04"))
	}
	return h.messenger.ReplyText(ctx, event.ReplyToken, strings.TrimRight(b.String(), "\n"))
}

// handlePostback แปลง data query string เป็น workflow operation
// เช่น "action=submit&taskId=<uuid>"
func (h *WebhookHandler) handlePostback(ctx context.Context, event *dto.WebhookEvent) error {
	if event.Postback == nil {
		return nil
	}
	values, err := url.ParseQuery(event.Postback.Data)
	if err != nil {
		return fmt.Errorf("bad postback data: %w", err)
	}

	action := values.Get("action")
	taskID, err := uuid.Parse(values.Get("taskId"))
	if err != nil {
		return fmt.Errorf("bad postback taskId: %w", err)
	}

	switch action {
	case "submit":
		return h.postbackSubmit(ctx, event, taskID)
	case "approve":
		return h.postbackApprove(ctx, event, taskID)
	case "reject":
		days, _ := strconv.Atoi(values.Get("days"))
		return h.postbackReject(ctx, event, taskID, days)
	case "complete":
		return h.postbackComplete(ctx, event, taskID)
	case "extend":
		return h.postbackExtend(ctx, event, taskID)
	}
	return nil
}

// resolveSubmitter: user id ที่ resolve ไม่ได้กลายเป็น guest tag
// guest ไม่ถูก join กับ users table
func (h *WebhookHandler) resolveSubmitter(ctx context.Context, event *dto.WebhookEvent) models.Submitter {
	if event.Source.UserID == "" {
		return models.GuestSubmitter(utils.GenerateGuestTag())
	}
	user, err := h.userService.EnsureChatUser(ctx, event.Source.UserID)
	if err != nil {
		logger.WarnContext(ctx, "could not resolve chat user, falling back to guest",
			"line_user_id", event.Source.UserID, "error", err)
		return models.GuestSubmitter(utils.GenerateGuestTag())
	}
	return models.IdentifiedSubmitter(user.ID.String())
}

func (h *WebhookHandler) postbackSubmit(ctx context.Context, event *dto.WebhookEvent, taskID uuid.UUID) error {
	submitter := h.resolveSubmitter(ctx, event)
	task, err := h.workflowService.RecordSubmission(ctx, taskID, submitter, nil, "", nil)
	if err != nil {
		return h.replyError(ctx, event, err)
	}
	return h.reply(ctx, event, fmt.Sprintf("รับงาน \"%s\" เรียบร้อย รอตรวจครับ", task.Title))
}

func (h *WebhookHandler) postbackApprove(ctx context.Context, event *dto.WebhookEvent, taskID uuid.UUID) error {
	user, err := h.userService.EnsureChatUser(ctx, event.Source.UserID)
	if err != nil {
		return err
	}
	task, err := h.workflowService.ApproveReview(ctx, taskID, user.ID)
	if err != nil {
		return h.replyError(ctx, event, err)
	}
	return h.reply(ctx, event, fmt.Sprintf("อนุมัติงาน \"%s\" แล้วครับ 🎉", task.Title))
}

func (h *WebhookHandler) postbackReject(ctx context.Context, event *dto.WebhookEvent, taskID uuid.UUID, days int) error {
	user, err := h.userService.EnsureChatUser(ctx, event.Source.UserID)
	if err != nil {
		return err
	}
	task, err := h.workflowService.RejectAndExtend(ctx, taskID, user.ID, "", days)
	if err != nil {
		return h.replyError(ctx, event, err)
	}
	return h.reply(ctx, event, fmt.Sprintf("ตีกลับงาน \"%s\" กำหนดส่งใหม่ %s ครับ",
		task.Title, task.DueTime.Format("02/01 15:04")))
}

func (h *WebhookHandler) postbackComplete(ctx context.Context, event *dto.WebhookEvent, taskID uuid.UUID) error {
	user, err := h.userService.EnsureChatUser(ctx, event.Source.UserID)
	if err != nil {
		return err
	}
	task, err := h.workflowService.CompleteTask(ctx, taskID, user.ID)
	if err != nil {
		return h.replyError(ctx, event, err)
	}
	return h.reply(ctx, event, fmt.Sprintf("ปิดงาน \"%s\" เรียบร้อยครับ ✅", task.Title))
}

func (h *WebhookHandler) postbackExtend(ctx context.Context, event *dto.WebhookEvent, taskID uuid.UUID) error {
	submitter := h.resolveSubmitter(ctx, event)
	task, err := h.workflowService.RequestExtension(ctx, taskID, submitter, "")
	if err != nil {
		return h.replyError(ctx, event, err)
	}
	return h.reply(ctx, event, fmt.Sprintf("ส่งคำขอเลื่อนกำหนดงาน \"%s\" แล้ว รอหัวหน้างานอนุมัติครับ", task.Title))
}

func (h *WebhookHandler) reply(ctx context.Context, event *dto.WebhookEvent, text string) error {
	if event.ReplyToken == "" {
		return nil
	}
	return h.messenger.ReplyText(ctx, event.ReplyToken, text)
}

// replyError แปลง domain error เป็นข้อความอ่านง่ายในแชท
func (h *WebhookHandler) replyError(ctx context.Context, event *dto.WebhookEvent, err error) error {
	logger.WarnContext(ctx, "postback rejected", "error", err)
	if event.ReplyToken == "" {
		return err
	}
	return h.messenger.ReplyText(ctx, event.ReplyToken, "ทำรายการไม่สำเร็จ: "+userFacingMessage(err))
}

func userFacingMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, "] "); i >= 0 {
		msg = msg[i+2:]
	}
	return msg
}

func statusThai(s models.Status) string {
	switch s {
	case models.StatusPending:
		return "รอเริ่ม"
	case models.StatusInProgress:
		return "กำลังทำ"
	case models.StatusSubmitted:
		return "รอตรวจ"
	case models.StatusApproved, models.StatusReviewed:
		return "ผ่านแล้ว"
	case models.StatusCompleted:
		return "เสร็จสิ้น"
	case models.StatusRejected:
		return "ถูกตีกลับ"
	case models.StatusOverdue:
		return "เลยกำหนด"
	case models.StatusCancelled:
		return "ยกเลิก"
	}
	return string(s)
}
