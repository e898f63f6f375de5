package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/ledger"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "portal", cfg.EventsChannel)
	require.Equal(t, "*", cfg.CORSAllowOrigins)
	require.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
	require.Equal(t, 2*time.Minute, cfg.NoticesCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	require.Equal(t, 3, cfg.LedgerMaxRetries)
	require.Equal(t, ledger.DefaultLoanPolicy(), cfg.LoanPolicy())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_APP_PORT", ":9090")
	t.Setenv("PORTAL_LIBRARY_FINE_PER_DAY", "2.5")
	t.Setenv("PORTAL_LIBRARY_MAX_RENEWALS", "4")
	t.Setenv("PORTAL_LEDGER_MAX_RETRIES", "5")
	t.Setenv("PORTAL_DASHBOARD_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	require.Equal(t, 5, cfg.LedgerMaxRetries)

	policy := cfg.LoanPolicy()
	require.Equal(t, 2.5, policy.FinePerDay)
	require.Equal(t, 4, policy.MaxRenewals)
	require.Equal(t, ledger.DefaultExtensionDays, policy.ExtensionDays)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_NOTICES_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
