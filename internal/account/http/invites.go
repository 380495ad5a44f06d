package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
)

type InviteHandler struct {
	Workflow *service.Workflow
	Cookie   SessionCookie
}

// HandleSend godoc
//
//	@Summary		Send Invitation
//	@Description	Invite an email into the caller's business. Repeating the request for the same email returns the
//	@Description	outstanding invite without a token and without another mail. A failed mail still leaves the
//	@Description	invite in place and reports delivered=false.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SendInviteRequest	true	"Invite request"
//	@Success		201		{object}	accountsdk.SendInviteResponse
//	@Success		200		{object}	accountsdk.ErrorResponse	"already_member (benign)"
//	@Failure		400		{object}	accountsdk.ErrorResponse
//	@Failure		403		{object}	accountsdk.ErrorResponse	"not_authorized"
//	@Security		BearerAuth
//	@Router			/v1/invite [post]
func (h *InviteHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.SendInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleMember.String()
	}

	issued, err := h.Workflow.SendInvite(r.Context(), sessionFrom(r.Context()), req.Email, req.Role)
	var derr *domain.DeliveryError
	if err != nil && !(errors.As(err, &derr) && issued.Invite.ID != "") {
		writeError(w, r, err)
		return
	}

	inv := issued.Invite
	httpx.WriteJSON(w, http.StatusCreated, accountsdk.SendInviteResponse{
		ID:           inv.ID,
		Email:        inv.Email,
		Role:         inv.Role.String(),
		BusinessName: inv.BusinessName,
		SentAt:       inv.SentAt,
		ExpiresAt:    inv.ExpiresAt,
		Token:        issued.Token,
		Deduplicated: issued.Deduped,
		Delivered:    inv.DeliveredAt != nil,
	})
}

// HandleFetch godoc
//
//	@Summary		Look Up Invitation
//	@Description	Public, read-only view of an outstanding invite.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	accountsdk.InviteView
//	@Failure		404		{object}	accountsdk.ErrorResponse
//	@Router			/v1/invite/{token} [get]
func (h *InviteHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	view, err := h.Workflow.FetchInvite(r.Context(), r.PathValue("token"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.InviteView{
		Email:        view.Email,
		Role:         view.Role.String(),
		InviterEmail: view.InviterEmail,
		BusinessName: view.BusinessName,
		ExpiresAt:    view.ExpiresAt,
	})
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation
//	@Description	Redeem an invite for the signed-in caller, whose email must match the invite.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	accountsdk.AcceptInviteResponse
//	@Failure		403		{object}	accountsdk.ErrorResponse
//	@Failure		404		{object}	accountsdk.ErrorResponse
//	@Failure		409		{object}	accountsdk.ErrorResponse	"member of another business"
//	@Security		BearerAuth
//	@Router			/v1/invite/{token}/accept [post]
func (h *InviteHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	res, err := h.Workflow.AcceptInvite(r.Context(), sessionFrom(r.Context()), r.PathValue("token"))
	switch {
	case err != nil && domain.IsBenign(err) && res.BusinessID != "":
		writeBenign(w, err, res.BusinessID)
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.AcceptInviteResponse{
		BusinessID: res.BusinessID,
		Role:       res.Role.String(),
		Next:       string(res.Next),
	})
}

// HandleClaim godoc
//
//	@Summary		Claim Invitation
//	@Description	Create a password account for the invited email, accept the invite and sign in.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Invite token"
//	@Param			request	body		accountsdk.ClaimInviteRequest	true	"Password and confirmation"
//	@Success		201		{object}	accountsdk.SessionResponse
//	@Failure		400		{object}	accountsdk.ErrorResponse
//	@Failure		404		{object}	accountsdk.ErrorResponse
//	@Failure		409		{object}	accountsdk.ErrorResponse	"duplicate_email"
//	@Router			/v1/invite/{token}/claim [post]
func (h *InviteHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ClaimInviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := h.Workflow.ClaimInvite(r.Context(), r.PathValue("token"), req.Password, req.Confirm)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setSession(w, h.Cookie, res.Session)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(res))
}

// HandleList godoc
//
//	@Summary	List Outstanding Invitations
//	@Tags		Invitations
//	@Produce	json
//	@Success	200	{object}	accountsdk.ListInvitesResponse
//	@Failure	403	{object}	accountsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/business/invites [get]
func (h *InviteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Workflow.ListInvites(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	out := accountsdk.ListInvitesResponse{Invites: make([]accountsdk.InviteSummary, 0, len(invs))}
	for _, inv := range invs {
		out.Invites = append(out.Invites, accountsdk.InviteSummary{
			ID:           inv.ID,
			Email:        inv.Email,
			Role:         inv.Role.String(),
			InviterEmail: inv.InviterEmail,
			SentAt:       inv.SentAt,
			ExpiresAt:    inv.ExpiresAt,
			Delivered:    inv.DeliveredAt != nil,
			Expired:      inv.State(now) == domain.InviteExpired,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary	Revoke Invitation
//	@Tags		Invitations
//	@Param		id	path	string	true	"Invite ID"
//	@Success	204
//	@Failure	403	{object}	accountsdk.ErrorResponse
//	@Failure	404	{object}	accountsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/business/invites/{id} [delete]
func (h *InviteHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Workflow.RevokeInvite(r.Context(), sessionFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
