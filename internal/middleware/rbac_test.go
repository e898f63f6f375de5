package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func roleApp(role interface{}, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(guard)
	app.Get("/records", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func statusFor(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/records", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireStaffAdmitsTeachersAndAdmins(t *testing.T) {
	require.Equal(t, fiber.StatusOK, statusFor(t, roleApp("admin", RequireStaff())))
	require.Equal(t, fiber.StatusOK, statusFor(t, roleApp(" Teacher ", RequireStaff())))
	require.Equal(t, fiber.StatusForbidden, statusFor(t, roleApp("student", RequireStaff())))
}

func TestRequireStudentRejectsStaff(t *testing.T) {
	require.Equal(t, fiber.StatusOK, statusFor(t, roleApp("student", RequireStudent())))
	require.Equal(t, fiber.StatusForbidden, statusFor(t, roleApp("admin", RequireStudent())))
}

func TestRequireRoleWithoutRoleIsUnauthorized(t *testing.T) {
	require.Equal(t, fiber.StatusUnauthorized, statusFor(t, roleApp(nil, RequireStudent())))
	require.Equal(t, fiber.StatusUnauthorized, statusFor(t, roleApp(42, RequireStaff())))
}

func TestIsStaff(t *testing.T) {
	require.True(t, isStaff(RoleAdmin))
	require.True(t, isStaff(RoleTeacher))
	require.False(t, isStaff(RoleStudent))
	require.False(t, isStaff(""))
}
