package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// NoticeHandler exposes the notice board and its live stream.
type NoticeHandler struct {
	service service.NoticeService
	logger  zerolog.Logger
}

// NewNoticeHandler constructs the handler.
func NewNoticeHandler(service service.NoticeService, logger zerolog.Logger) *NoticeHandler {
	return &NoticeHandler{
		service: service,
		logger:  logger.With().Str("component", "notice_handler").Logger(),
	}
}

// Register attaches student notice routes, including the websocket stream.
func (h *NoticeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := middleware.ContextWithCorrelation(context.Background(), middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.stream))
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches notice publishing.
func (h *NoticeHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.publish)
}

func (h *NoticeHandler) list(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	notices, err := h.service.List(c.Context(), studentID, c.Query("category"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notices retrieved", notices)
}

func (h *NoticeHandler) get(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	noticeID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notice, err := h.service.Get(c.Context(), studentID, noticeID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notice retrieved", notice)
}

func (h *NoticeHandler) publish(c *fiber.Ctx) error {
	var payload dto.NoticeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	notice, err := h.service.Publish(c.Context(), staffIdentity(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notice published", notice)
}

func (h *NoticeHandler) stream(conn *websocket.Conn) {
	studentID, ok := conn.Locals("user_id").(uint)
	if !ok || studentID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user id missing"))
		_ = conn.Close()
		return
	}

	base, _ := conn.Locals("request_ctx").(context.Context)
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	defer cancel()

	logger := h.logger.With().Uint("student_id", studentID).Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).Logger()

	notices, err := h.service.Stream(ctx, studentID)
	if err != nil {
		logger.Warn().Err(err).Msg("notice stream rejected")
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "stream unavailable"))
		_ = conn.Close()
		return
	}

	// The client never sends data; a read error means it went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Info().Msg("notice stream connected")
	for notice := range notices {
		if err := conn.WriteJSON(notice); err != nil {
			logger.Debug().Err(err).Msg("notice stream write failed")
			cancel()
			break
		}
	}
	// Drain so the producer can observe cancellation and close the channel.
	for range notices {
	}
	logger.Info().Msg("notice stream disconnected")
}

func (h *NoticeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, service.ErrNoticeEmpty), errors.Is(err, service.ErrInvalidDate):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoticeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "notice not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		return internalError(h.logger, c, err)
	}
}
