package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/config"
	"github.com/noah-isme/student-portal-api/internal/handler"
)

func TestHealthCheck(t *testing.T) {
	cfg := config.Config{AppName: "Student Portal API", AppEnv: "test"}

	app := fiber.New()
	app.Get("/api/v1/health", handler.HealthCheck(cfg, map[string]handler.HealthProbe{
		"database": func(context.Context) error { return nil },
	}))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, payload.Success)

	var data handler.HealthResponse
	decodeData(t, payload, &data)
	assert.Equal(t, "ok", data.Status)
	assert.Equal(t, cfg.AppName, data.Service)
	assert.Equal(t, cfg.AppEnv, data.Environment)
	assert.Equal(t, "up", data.Dependencies["database"])
	assert.WithinDuration(t, time.Now().UTC(), data.Timestamp, 2*time.Second)
}

func TestHealthCheckDegraded(t *testing.T) {
	app := fiber.New()
	app.Get("/health", handler.HealthCheck(config.Config{AppName: "Student Portal API"}, map[string]handler.HealthProbe{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}))

	resp, payload := doJSON(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var data handler.HealthResponse
	decodeData(t, payload, &data)
	require.Equal(t, "degraded", data.Status)
	require.Equal(t, "down", data.Dependencies["redis"])
	require.Equal(t, "up", data.Dependencies["database"])
}
