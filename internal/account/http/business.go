package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
)

type BusinessHandler struct {
	Workflow *service.Workflow
}

// HandleOnboarding godoc
//
//	@Summary		Complete Company Onboarding
//	@Description	Create the caller's business. Requires the password step to be done first.
//	@Tags			Business
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.OnboardingRequest	true	"Company details"
//	@Success		201		{object}	accountsdk.OnboardingResponse
//	@Success		200		{object}	accountsdk.ErrorResponse	"already_member (benign)"
//	@Failure		400		{object}	accountsdk.ErrorResponse
//	@Failure		500		{object}	accountsdk.ErrorResponse	"partial_failure with business_id"
//	@Security		BearerAuth
//	@Router			/v1/onboarding/company [post]
func (h *BusinessHandler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.OnboardingRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	res, err := h.Workflow.CompleteOnboarding(r.Context(), sessionFrom(r.Context()), domain.BusinessAttrs{
		Name:     req.Name,
		Industry: req.Industry,
		Size:     req.Size,
	})
	switch {
	case err != nil && domain.IsBenign(err) && res.Business.ID != "":
		writeBenign(w, err, res.Business.ID)
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.OnboardingResponse{
		BusinessID: res.Business.ID,
		Next:       string(res.Next),
	})
}

// HandleGet godoc
//
//	@Summary	Get Business
//	@Tags		Business
//	@Produce	json
//	@Success	200	{object}	accountsdk.BusinessResponse
//	@Failure	404	{object}	accountsdk.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/business [get]
func (h *BusinessHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	biz, m, err := h.Workflow.Business(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, businessResponse(biz, m))
}

// HandleUpdate godoc
//
//	@Summary		Update Business
//	@Description	Owners only. Omitted fields are left unchanged.
//	@Tags			Business
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdateBusinessRequest	true	"Fields to change"
//	@Success		200		{object}	accountsdk.BusinessResponse
//	@Failure		400		{object}	accountsdk.ErrorResponse
//	@Failure		403		{object}	accountsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/business [patch]
func (h *BusinessHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.UpdateBusinessRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	sess := sessionFrom(r.Context())
	biz, err := h.Workflow.UpdateBusiness(r.Context(), sess, service.BusinessPatch{
		Name:     req.Name,
		Industry: req.Industry,
		Size:     req.Size,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Only owners get this far.
	httpx.WriteJSON(w, http.StatusOK, businessResponse(biz, domain.Membership{Role: domain.RoleOwner}))
}

func businessResponse(b domain.Business, m domain.Membership) accountsdk.BusinessResponse {
	return accountsdk.BusinessResponse{
		ID:       b.ID,
		Name:     b.Name,
		Slug:     b.Slug,
		Industry: b.Industry,
		Size:     b.Size,
		Role:     m.Role.String(),
	}
}
