package app

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_DRIVER", "INVITE_TTL", "INVITE_ALLOW_ADMINS", "MAIL_DRIVER", "GOOGLE_CLIENT_ID"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, service.DefaultInviteTTL, cfg.InviteTTL)
	require.Equal(t, service.DefaultOperationTimeout, cfg.OperationTimeout)
	require.False(t, cfg.InviteAllowAdmins)
	require.Equal(t, "log", cfg.MailDriver)
	require.Equal(t, "tenantry_session", cfg.SessionCookie)
	require.False(t, cfg.GoogleSignIn())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INVITE_TTL", "48h")
	t.Setenv("INVITE_ALLOW_ADMINS", "true")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")
	t.Setenv("OPERATION_TIMEOUT", "not-a-duration")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "https://api.test/v1/oauth/google/callback")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.InviteTTL)
	require.True(t, cfg.InviteAllowAdmins)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, service.DefaultOperationTimeout, cfg.OperationTimeout)
	require.True(t, cfg.GoogleSignIn())
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TENANTRY_FLAG", "yes")
	require.True(t, getEnvBoolOrDefault("TENANTRY_FLAG", true))

	t.Setenv("TENANTRY_FLAG", "0")
	require.False(t, getEnvBoolOrDefault("TENANTRY_FLAG", true))
}
