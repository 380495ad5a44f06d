package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accountsdk.HealthResponse	"status, checks"
//	@Router			/livez [get]
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accountsdk.HealthResponse{
			Status: "ok",
			Checks: map[string]string{
				"uptime":  time.Since(startTime).Round(time.Second).String(),
				"version": version,
			},
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe: 503 while the database is unreachable.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	accountsdk.HealthResponse	"status, checks"
//	@Failure		503	{object}	accountsdk.HealthResponse	"status, checks - service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"database": "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, accountsdk.HealthResponse{Status: status, Checks: checks})
	}
}
