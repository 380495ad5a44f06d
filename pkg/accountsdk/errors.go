package accountsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Wire values of ErrorResponse.Kind.
const (
	KindNotAuthenticated   = "not_authenticated"
	KindNotAuthorized      = "not_authorized"
	KindNotFound           = "not_found"
	KindAlreadyAccepted    = "already_accepted"
	KindAlreadyMember      = "already_member"
	KindValidation         = "validation"
	KindDuplicateEmail     = "duplicate_email"
	KindInvalidCredentials = "invalid_credentials"
	KindConflict           = "conflict"
	KindTransport          = "transport"
	KindPartialFailure     = "partial_failure"
	KindRateLimited        = "rate_limited"
	KindInternal           = "internal"
)

// APIError is returned by Client for every error response.
type APIError struct {
	StatusCode int
	ErrorResponse
}

func (e *APIError) Error() string {
	if e.ErrorDescription != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.ErrorDescription)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Kind)
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsBenign reports whether err is an "already done" outcome.
func IsBenign(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Benign
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, &apiErr.ErrorResponse); err != nil || apiErr.Kind == "" {
		apiErr.Kind = KindInternal
		apiErr.ErrorResponse.Error = http.StatusText(resp.StatusCode)
		apiErr.ErrorDescription = string(body)
	}
	return apiErr
}
