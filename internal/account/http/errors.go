package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[domain.Kind]errorMapping{
	domain.KindNotAuthenticated:   {http.StatusUnauthorized, "unauthorized"},
	domain.KindInvalidCredentials: {http.StatusUnauthorized, "invalid_grant"},
	domain.KindNotAuthorized:      {http.StatusForbidden, "forbidden"},
	domain.KindNotFound:           {http.StatusNotFound, "not_found"},
	domain.KindAlreadyAccepted:    {http.StatusOK, "already_accepted"},
	domain.KindAlreadyMember:      {http.StatusOK, "already_member"},
	domain.KindValidation:         {http.StatusBadRequest, "invalid_request"},
	domain.KindDuplicateEmail:     {http.StatusConflict, "email_taken"},
	domain.KindConflict:           {http.StatusConflict, "conflict"},
	domain.KindTransport:          {http.StatusServiceUnavailable, "temporarily_unavailable"},
	domain.KindPartialFailure:     {http.StatusInternalServerError, "partial_failure"},
	domain.KindInternal:           {http.StatusInternalServerError, "server_error"},
}

// writeError answers with the status and body for err's kind. Benign kinds
// answer 200 with benign=true. Transport and internal faults get a generic
// description; the cause is logged instead.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	m, ok := errorMappings[kind]
	if !ok {
		kind, m = domain.KindInternal, errorMappings[domain.KindInternal]
	}

	resp := accountsdk.ErrorResponse{
		Error:            m.code,
		ErrorDescription: err.Error(),
		Kind:             string(kind),
		Benign:           domain.IsBenign(err),
	}

	log := slogx.FromContext(r.Context())
	switch kind {
	case domain.KindTransport:
		log.Error("dependency failure", slog.Any("error", err))
		resp.ErrorDescription = "A dependency is unavailable. Please retry."
	case domain.KindPartialFailure:
		resp.ErrorDescription = "The request was only partly completed and has been logged for follow-up."
		var pf *domain.PartialFailureError
		if errors.As(err, &pf) {
			resp.BusinessID = pf.BusinessID
			if pf.Err != nil {
				resp.ErrorDescription = "The request was only partly completed (" + pf.Step + ": " +
					string(domain.KindOf(pf.Err)) + ") and has been logged for follow-up."
			}
		}
	case domain.KindInternal:
		log.Error("unhandled error", slog.Any("error", err))
		resp.ErrorDescription = "Internal server error"
	}

	httpx.WriteJSON(w, m.status, resp)
}

// badRequest reports a body that could not be decoded.
func badRequest(w http.ResponseWriter, err error) {
	httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: err.Error(),
		Kind:             accountsdk.KindValidation,
	})
}

// writeBenign reports an "already done" outcome together with the business
// the caller ended up in.
func writeBenign(w http.ResponseWriter, err error, businessID string) {
	kind := domain.KindOf(err)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.ErrorResponse{
		Error:            errorMappings[kind].code,
		ErrorDescription: err.Error(),
		Kind:             string(kind),
		Benign:           true,
		BusinessID:       businessID,
	})
}
