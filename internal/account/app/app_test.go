package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Env:                  "test",
		LogLevel:             "error",
		DatabaseDriver:       "sqlite",
		DatabaseFile:         filepath.Join(dir, "tenantry.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionKeyFile:       filepath.Join(dir, "session.pem"),
		SessionIssuer:        "tenantry-test",
		SessionTTL:           time.Hour,
		SessionCookie:        "tenantry_session",
		MailDriver:           "log",
		AppURL:               "https://app.tenantry.test",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func TestNew_ServesAccountFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	application, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(application.closeBackends)

	srv := httptest.NewServer(application.router)
	t.Cleanup(srv.Close)

	client := accountsdk.NewClient(srv.URL)
	res, err := client.SignUp(ctx, accountsdk.SignUpRequest{Email: "owner@acme.test", Password: "secret1"})
	require.NoError(t, err)

	owner := client.WithToken(res.AccessToken)
	sent, err := owner.SendInvite(ctx, accountsdk.SendInviteRequest{Email: "bob@acme.test"})
	require.NoError(t, err)
	require.True(t, sent.Delivered)

	ready, err := client.Readiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}

func TestNew_ReusesKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := testConfig(t)

	first, err := New(ctx, cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(first.router)
	res, err := accountsdk.NewClient(srv.URL).SignUp(ctx, accountsdk.SignUpRequest{Email: "owner@acme.test", Password: "secret1"})
	require.NoError(t, err)
	srv.Close()
	first.closeBackends()

	// Same pepper and signing key: the old session and password still work.
	second, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(second.closeBackends)
	srv = httptest.NewServer(second.router)
	t.Cleanup(srv.Close)

	client := accountsdk.NewClient(srv.URL)
	_, err = client.WithToken(res.AccessToken).Session(ctx)
	require.NoError(t, err)
	_, err = client.Login(ctx, accountsdk.LoginRequest{Email: "owner@acme.test", Password: "secret1"})
	require.NoError(t, err)
}

func TestNew_RejectsBadDrivers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.DatabaseDriver = "mysql"
	_, err := New(ctx, cfg)
	require.ErrorContains(t, err, "DATABASE_DRIVER")

	cfg = testConfig(t)
	cfg.DatabaseDriver = "postgres"
	_, err = New(ctx, cfg)
	require.ErrorContains(t, err, "DATABASE_URL")

	cfg = testConfig(t)
	cfg.MailDriver = "smtp"
	_, err = New(ctx, cfg)
	require.ErrorContains(t, err, "SMTP_HOST")
}

func TestSweep(t *testing.T) {
	t.Parallel()

	application, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	report := application.Sweep(context.Background())
	require.Zero(t, report.ExpiredInvites)
	require.Zero(t, report.OrphanBusinesses)
	require.Nil(t, application.db)
}

func TestInitHTTP_CookieSecurity(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Env = "dev"
	application, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(application.closeBackends)

	require.False(t, application.router.Cookie.Secure)
	require.Equal(t, "tenantry_session", application.router.Cookie.Name)
	require.Equal(t, ":0", application.server.Addr)

	rec := httptest.NewRecorder()
	application.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
