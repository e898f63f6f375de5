package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every portal endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

const (
	defaultSuccessMessage = "success"
	defaultErrorMessage   = "error"
)

// SendSuccess sends a 200 envelope.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success envelope with the given status, e.g. 201 after a create.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, fiber.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

// OK sends a 200 envelope carrying metadata such as cache or paging hints.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return write(c, fiber.StatusOK, fiber.StatusOK, APIResponse{Success: true, Data: data, Message: message, Meta: meta})
}

// SendError sends a failure envelope without details.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail sends a failure envelope with optional details, e.g. per-field validation errors.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return write(c, status, fiber.StatusInternalServerError, APIResponse{Message: message, Details: details})
}

func write(c *fiber.Ctx, status, fallback int, body APIResponse) error {
	if status == 0 {
		status = fallback
	}
	if body.Message == "" {
		body.Message = defaultErrorMessage
		if body.Success {
			body.Message = defaultSuccessMessage
		}
	}
	return c.Status(status).JSON(body)
}
