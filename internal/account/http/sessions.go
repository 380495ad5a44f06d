package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
)

type SessionHandler struct {
	Workflow *service.Workflow
	Cookie   SessionCookie
}

// HandleSignUp godoc
//
//	@Summary		Sign Up
//	@Description	Create a password account and bootstrap its business with the caller as owner.
//	@Description	A failure after the account exists is reported as partial_failure with the business id.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SignUpRequest	true	"Sign-up request"
//	@Success		201		{object}	accountsdk.SessionResponse
//	@Failure		400		{object}	accountsdk.ErrorResponse	"validation"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"duplicate_email"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"partial_failure"
//	@Router			/v1/signup [post]
func (h *SessionHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.SignUpRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := h.Workflow.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setSession(w, h.Cookie, res.Session)
	out := sessionResponse(res.AuthResult)
	out.BusinessID = res.Business.ID
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// HandleLogin godoc
//
//	@Summary		Password Sign In
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	accountsdk.SessionResponse
//	@Failure		401		{object}	accountsdk.ErrorResponse	"invalid_credentials"
//	@Router			/v1/login [post]
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := h.Workflow.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setSession(w, h.Cookie, res.Session)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(res))
}

// HandleLogout godoc
//
//	@Summary	Sign Out
//	@Tags		Sessions
//	@Success	204
//	@Router		/v1/logout [post]
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if h.Cookie.Name != "" {
		httpx.ClearSessionCookie(w, h.Cookie.Name, h.Cookie.Secure)
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus godoc
//
//	@Summary		Session Status
//	@Description	Classify the caller: which onboarding step comes next.
//	@Tags			Sessions
//	@Produce		json
//	@Success		200	{object}	accountsdk.StatusResponse
//	@Failure		401	{object}	accountsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/session [get]
func (h *SessionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	cls, err := h.Workflow.Status(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}

	methods := make([]string, 0, len(sess.Methods))
	for _, m := range sess.Methods {
		methods = append(methods, string(m))
	}

	out := accountsdk.StatusResponse{
		UserID:           sess.UserID,
		Email:            sess.Email,
		Methods:          methods,
		HasEmailIdentity: cls.HasEmailIdentity,
		PasswordSet:      cls.PasswordSet,
		Invited:          cls.Invited,
		Status:           string(cls.Status),
		Next:             string(cls.Status.Route()),
		IsOwner:          cls.IsOwner(),
	}
	if cls.Membership != nil {
		out.BusinessID = cls.Membership.BusinessID
		out.Role = cls.Membership.Role.String()
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSetPassword godoc
//
//	@Summary		Set Password
//	@Description	Password step of onboarding. Passwords shorter than 6 characters are rejected before anything changes.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SetPasswordRequest	true	"New password and confirmation"
//	@Success		200		{object}	accountsdk.NextResponse
//	@Failure		400		{object}	accountsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/password [post]
func (h *SessionHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.SetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	cls, err := h.Workflow.SetPassword(r.Context(), sessionFrom(r.Context()), req.Password, req.Confirm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.NextResponse{Next: string(cls.Status.Route())})
}

func sessionResponse(res service.AuthResult) accountsdk.SessionResponse {
	out := accountsdk.SessionResponse{
		AccessToken: res.Session.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.Session.Session.ExpiresAt,
		UserID:      res.Session.Session.UserID,
		Next:        string(res.Next),
	}
	if m := res.Classification.Membership; m != nil {
		out.BusinessID = m.BusinessID
	}
	return out
}

// routeOf is the default landing path for a route.
func routeOf(next domain.Route) string {
	return "/" + string(next)
}
