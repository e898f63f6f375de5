package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/repository"
	"github.com/noah-isme/student-portal-api/internal/service"
)

type stubFeeService struct {
	list        dto.FeeListResponse
	bySemester  []dto.FeeAccountResponse
	receipt     dto.PaymentReceiptResponse
	err         error
	lastStudent uint
	lastFee     uint
	lastPayment dto.PaymentRequest
	lastCreate  dto.FeeAccountCreateRequest
}

func (s *stubFeeService) List(_ context.Context, studentID uint) (dto.FeeListResponse, error) {
	s.lastStudent = studentID
	return s.list, s.err
}

func (s *stubFeeService) BySemester(_ context.Context, studentID uint, _ int) ([]dto.FeeAccountResponse, error) {
	s.lastStudent = studentID
	return s.bySemester, s.err
}

func (s *stubFeeService) Pay(_ context.Context, studentID, feeID uint, payload dto.PaymentRequest) (dto.PaymentReceiptResponse, error) {
	s.lastStudent = studentID
	s.lastFee = feeID
	s.lastPayment = payload
	return s.receipt, s.err
}

func (s *stubFeeService) Create(_ context.Context, payload dto.FeeAccountCreateRequest) (dto.FeeAccountResponse, error) {
	s.lastCreate = payload
	return dto.FeeAccountResponse{ID: 1, Semester: payload.Semester, AcademicYear: payload.AcademicYear}, s.err
}

func newFeeApp(svc service.FeeService) *fiber.App {
	h := handler.NewFeeHandler(svc, nil, zerolog.Nop())
	return newApp(33, "student", func(router fiber.Router) {
		h.Register(router.Group("/fees"))
		h.RegisterAdmin(router.Group("/admin/fees"))
	})
}

func TestFeeHandlerListUsesTokenStudent(t *testing.T) {
	svc := &stubFeeService{list: dto.FeeListResponse{
		Summary: dto.FeeSummaryResponse{TotalAmount: 1000, TotalPaid: 400, TotalPending: 600},
	}}

	resp, payload := doJSON(t, newFeeApp(svc), http.MethodGet, "/api/v1/fees", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, uint(33), svc.lastStudent)

	var data dto.FeeListResponse
	decodeData(t, payload, &data)
	require.Equal(t, 600.0, data.Summary.TotalPending)
}

func TestFeeHandlerPayRecordsPayment(t *testing.T) {
	svc := &stubFeeService{receipt: dto.PaymentReceiptResponse{Payment: dto.PaymentResponse{ReceiptNumber: "RCP-1"}}}

	resp, payload := doJSON(t, newFeeApp(svc), http.MethodPost, "/api/v1/fees/7/pay", map[string]interface{}{
		"amount":         250,
		"payment_method": "UPI",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "payment recorded", payload.Message)
	require.Equal(t, uint(7), svc.lastFee)
	require.Equal(t, uint(33), svc.lastStudent)
	require.Equal(t, 250.0, svc.lastPayment.Amount)
	require.Equal(t, "UPI", svc.lastPayment.PaymentMethod)
}

func TestFeeHandlerPayErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid amount", fmt.Errorf("apply payment: %w", ledger.ErrInvalidAmount), fiber.StatusBadRequest},
		{"invalid method", ledger.ErrInvalidPaymentMethod, fiber.StatusBadRequest},
		{"not owner", service.ErrNotOwner, fiber.StatusForbidden},
		{"missing", service.ErrFeeNotFound, fiber.StatusNotFound},
		{"conflict", fmt.Errorf("fee 7: %w", repository.ErrVersionConflict), fiber.StatusConflict},
		{"unexpected", fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubFeeService{err: tc.err}
			resp, payload := doJSON(t, newFeeApp(svc), http.MethodPost, "/api/v1/fees/7/pay", map[string]interface{}{
				"amount":         0,
				"payment_method": "Cash",
			})
			require.Equal(t, tc.status, resp.StatusCode)
			require.False(t, payload.Success)
			require.NotEmpty(t, payload.Message)
		})
	}
}

func TestFeeHandlerRejectsBadIdentifiers(t *testing.T) {
	svc := &stubFeeService{}
	app := newFeeApp(svc)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/fees/abc/pay", map[string]interface{}{"amount": 1})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/fees/semester/0", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFeeHandlerRequiresUser(t *testing.T) {
	svc := &stubFeeService{}
	h := handler.NewFeeHandler(svc, nil, zerolog.Nop())
	app := newApp(0, "", func(router fiber.Router) { h.Register(router.Group("/fees")) })

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/fees", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.False(t, payload.Success)
	require.Zero(t, svc.lastStudent)
}

func TestFeeHandlerCreateAccount(t *testing.T) {
	svc := &stubFeeService{}
	resp, payload := doJSON(t, newFeeApp(svc), http.MethodPost, "/api/v1/admin/fees", map[string]interface{}{
		"student_id":    5,
		"semester":      3,
		"academic_year": "2024-25",
		"fee_breakdown": map[string]interface{}{"tuition_fee": 900, "lab_fee": 100},
		"due_date":      "2024-04-01T00:00:00Z",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, uint(5), svc.lastCreate.StudentID)
	require.Equal(t, 900.0, svc.lastCreate.Breakdown.TuitionFee)
}
