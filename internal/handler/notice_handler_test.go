package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/service"
)

type stubNoticeService struct {
	list          dto.NoticeListResponse
	notice        dto.NoticeResponse
	err           error
	lastCategory  string
	lastNotice    uint
	lastPublisher string
	lastPayload   dto.NoticeCreateRequest
}

func (s *stubNoticeService) List(_ context.Context, _ uint, category string) (dto.NoticeListResponse, error) {
	s.lastCategory = category
	return s.list, s.err
}

func (s *stubNoticeService) Get(_ context.Context, _ uint, noticeID uint) (dto.NoticeResponse, error) {
	s.lastNotice = noticeID
	return s.notice, s.err
}

func (s *stubNoticeService) Publish(_ context.Context, publishedBy string, payload dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	s.lastPublisher = publishedBy
	s.lastPayload = payload
	return dto.NoticeResponse{ID: 3, Title: payload.Title, PublishedBy: publishedBy}, s.err
}

func (s *stubNoticeService) Stream(context.Context, uint) (<-chan dto.NoticeResponse, error) {
	ch := make(chan dto.NoticeResponse)
	close(ch)
	return ch, s.err
}

func newNoticeApp(svc service.NoticeService, userID uint, role string) *fiber.App {
	h := handler.NewNoticeHandler(svc, zerolog.Nop())
	return newApp(userID, role, func(router fiber.Router) {
		h.Register(router.Group("/notices"))
		h.RegisterAdmin(router.Group("/admin/notices"))
	})
}

func TestNoticeHandlerListPassesCategory(t *testing.T) {
	svc := &stubNoticeService{list: dto.NoticeListResponse{
		Count: 1,
		Data:  []dto.NoticeResponse{{ID: 1, Title: "Exam schedule", Category: "Exam"}},
	}}

	resp, payload := doJSON(t, newNoticeApp(svc, 33, "student"), http.MethodGet, "/api/v1/notices?category=Exam", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Exam", svc.lastCategory)

	var data dto.NoticeListResponse
	decodeData(t, payload, &data)
	require.Equal(t, 1, data.Count)
}

func TestNoticeHandlerGetNotFound(t *testing.T) {
	svc := &stubNoticeService{err: service.ErrNoticeNotFound}

	resp, payload := doJSON(t, newNoticeApp(svc, 33, "student"), http.MethodGet, "/api/v1/notices/12", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "notice not found", payload.Message)
	require.Equal(t, uint(12), svc.lastNotice)
}

func TestNoticeHandlerPublishRecordsStaffIdentity(t *testing.T) {
	svc := &stubNoticeService{}

	resp, payload := doJSON(t, newNoticeApp(svc, 7, "admin"), http.MethodPost, "/api/v1/admin/notices", map[string]interface{}{
		"title":        "Library closed",
		"content":      "<p>Closed on Friday</p>",
		"category":     "Holiday",
		"all_students": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "admin:7", svc.lastPublisher)
	require.True(t, svc.lastPayload.AllStudents)
}

func TestNoticeHandlerPublishEmptyAfterSanitising(t *testing.T) {
	svc := &stubNoticeService{err: service.ErrNoticeEmpty}

	resp, payload := doJSON(t, newNoticeApp(svc, 7, "admin"), http.MethodPost, "/api/v1/admin/notices", map[string]interface{}{
		"title":    "Script",
		"content":  "<script>alert(1)</script>",
		"category": "General",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, service.ErrNoticeEmpty.Error(), payload.Message)
}

func TestNoticeHandlerStreamRequiresUpgrade(t *testing.T) {
	svc := &stubNoticeService{}

	req, err := http.NewRequest(http.MethodGet, "/api/v1/notices/ws", nil)
	require.NoError(t, err)
	resp, err := newNoticeApp(svc, 33, "student").Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
	require.Zero(t, svc.lastNotice)
}
