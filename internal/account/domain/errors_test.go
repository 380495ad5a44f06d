package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{"nil", nil, ""},
		{"sentinel", domain.ErrNotAuthorized, domain.KindNotAuthorized},
		{"wrapped sentinel", fmt.Errorf("%w: bad role", domain.ErrValidation), domain.KindValidation},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.KindTransport},
		{"transport", domain.Transport("store.get", errors.New("boom")), domain.KindTransport},
		{"unknown", errors.New("boom"), domain.KindInternal},
		{
			"partial failure wins over inner transport",
			&domain.PartialFailureError{Step: "owner_membership", Err: domain.Transport("x", errors.New("y"))},
			domain.KindPartialFailure,
		},
		{"delivery", &domain.DeliveryError{InviteID: "i", Err: errors.New("smtp")}, domain.KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.KindOf(tt.err))
		})
	}
}

func TestTransportKeepsKindedErrors(t *testing.T) {
	t.Parallel()

	err := domain.Transport("store.get", domain.ErrNotFound)
	require.Same(t, domain.ErrNotFound, err)
}

func TestIsBenign(t *testing.T) {
	t.Parallel()

	require.True(t, domain.IsBenign(domain.ErrAlreadyAccepted))
	require.True(t, domain.IsBenign(fmt.Errorf("accept: %w", domain.ErrAlreadyMember)))
	require.False(t, domain.IsBenign(domain.ErrConflict))
	require.False(t, domain.IsBenign(nil))
}
