package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/repository"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// LibraryHandler exposes book loans, renewals and circulation desk actions.
type LibraryHandler struct {
	service service.LibraryService
	logger  zerolog.Logger
}

// NewLibraryHandler constructs the handler.
func NewLibraryHandler(service service.LibraryService, logger zerolog.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		logger:  logger.With().Str("component", "library_handler").Logger(),
	}
}

// Register attaches student library routes.
func (h *LibraryHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
	router.Post("/:id/renew", h.renew)
}

// RegisterAdmin attaches circulation desk routes.
func (h *LibraryHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.issue)
	router.Post("/:id/return", h.returnBook)
	router.Post("/:id/lost", h.markLost)
}

func (h *LibraryHandler) overview(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := h.service.Overview(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "library records retrieved", overview)
}

func (h *LibraryHandler) renew(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	loanID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	loan, err := h.service.Renew(c.Context(), studentID, loanID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "book renewed", loan)
}

func (h *LibraryHandler) issue(c *fiber.Ctx) error {
	var payload dto.LoanIssueRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	loan, err := h.service.Issue(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "book issued", loan)
}

func (h *LibraryHandler) returnBook(c *fiber.Ctx) error {
	return h.close(c, h.service.Return, "book returned")
}

func (h *LibraryHandler) markLost(c *fiber.Ctx) error {
	return h.close(c, h.service.MarkLost, "book marked as lost")
}

type closeLoanFunc func(ctx context.Context, loanID uint, payload dto.LoanCloseRequest) (dto.LoanResponse, error)

func (h *LibraryHandler) close(c *fiber.Ctx, closeLoan closeLoanFunc, message string) error {
	loanID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LoanCloseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return invalidBody(c)
		}
	}

	loan, err := closeLoan(c.Context(), loanID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, message, loan)
}

func (h *LibraryHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, ledger.ErrRenewalNotAllowed), errors.Is(err, ledger.ErrLoanClosed), errors.Is(err, service.ErrInvalidDate):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return utils.SendError(c, fiber.StatusForbidden, "library record belongs to another student")
	case errors.Is(err, service.ErrLoanNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "library record not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, repository.ErrVersionConflict):
		return utils.SendError(c, fiber.StatusConflict, "library record was modified concurrently, please retry")
	default:
		return internalError(h.logger, c, err)
	}
}
