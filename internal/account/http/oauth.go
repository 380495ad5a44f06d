package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

type OAuthHandler struct {
	Workflow *service.Workflow
	Cookie   SessionCookie

	// AppURL is the frontend origin. Without one the callback answers JSON.
	AppURL string
}

// HandleStart godoc
//
//	@Summary		Start OAuth Sign In
//	@Description	Redirect to the identity provider. return_to must be a local path.
//	@Tags			OAuth
//	@Param			provider	path	string	true	"Provider"	Enums(google)
//	@Param			return_to	query	string	false	"Path to land on afterwards"
//	@Success		302
//	@Failure		400	{object}	accountsdk.ErrorResponse
//	@Router			/v1/oauth/{provider}/start [get]
func (h *OAuthHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	target, err := h.Workflow.StartOAuth(r.Context(), r.PathValue("provider"), r.URL.Query().Get("return_to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		OAuth Callback
//	@Description	Complete the provider flow. A second account for an email that already has one is folded into
//	@Description	the existing account. Redirects to the next onboarding step, or answers JSON when no app URL is set.
//	@Tags			OAuth
//	@Produce		json
//	@Param			provider	path		string	true	"Provider"	Enums(google)
//	@Param			state		query		string	true	"OAuth state"
//	@Param			code		query		string	true	"Authorization code"
//	@Success		200			{object}	accountsdk.SessionResponse
//	@Success		302
//	@Failure		400			{object}	accountsdk.ErrorResponse
//	@Router			/v1/oauth/{provider}/callback [get]
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		slogx.FromContext(r.Context()).Warn("oauth provider returned an error", "error", e)
		writeError(w, r, domain.ErrNotAuthenticated)
		return
	}

	res, err := h.Workflow.OAuthCallback(r.Context(), r.PathValue("provider"), q.Get("state"), q.Get("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	setSession(w, h.Cookie, res.Session)
	if h.AppURL == "" {
		httpx.WriteJSON(w, http.StatusOK, sessionResponse(res))
		return
	}

	// A saved return path only applies once onboarding is done.
	path := routeOf(res.Next)
	if res.Next == domain.RouteDashboard && res.ReturnTo != "" {
		path = res.ReturnTo
	}
	httpx.NoCache(w)
	http.Redirect(w, r, strings.TrimRight(h.AppURL, "/")+path, http.StatusFound)
}
