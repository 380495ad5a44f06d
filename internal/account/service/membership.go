package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/idx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxBusinessName = 100
	maxIndustry     = 64
)

// BusinessPatch is a partial update. Nil fields are left untouched.
type BusinessPatch struct {
	Name     *string
	Industry *string
	Size     *string
}

type MembershipService struct {
	Store   store.Store
	Metrics *metrics.Metrics

	sanitizer *bluemonday.Policy
}

func NewMembershipService(st store.Store, m *metrics.Metrics) *MembershipService {
	return &MembershipService{Store: st, Metrics: m, sanitizer: bluemonday.StrictPolicy()}
}

// GetMembership returns nil without error when the user belongs nowhere.
func (s *MembershipService) GetMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	m, err := s.Store.Members().GetMembershipByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Transport("membership.get", err)
	}
	return &m, nil
}

// GetRole returns "" when the user has no membership.
func (s *MembershipService) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	m, err := s.GetMembership(ctx, userID)
	if err != nil || m == nil {
		return "", err
	}
	return m.Role, nil
}

func (s *MembershipService) GetBusiness(ctx context.Context, id string) (domain.Business, error) {
	b, err := s.Store.Businesses().GetBusinessByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Business{}, domain.ErrBusinessNotFound
	}
	if err != nil {
		return domain.Business{}, domain.Transport("membership.get_business", err)
	}
	return b, nil
}

// CreateBusiness inserts the business and then the owner membership. The two
// writes are separate: when the second fails the business is left without
// members and a PartialFailureError carrying its id is returned. Housekeeping
// removes such orphans after a grace period. Losing the owner insert to a
// concurrent call deletes the new business and returns AlreadyMember.
func (s *MembershipService) CreateBusiness(ctx context.Context, ownerID string, attrs domain.BusinessAttrs) (domain.Business, error) {
	log := slogx.FromContext(ctx)

	attrs, err := s.CleanAttrs(attrs, false)
	if err != nil {
		return domain.Business{}, err
	}

	existing, err := s.GetMembership(ctx, ownerID)
	if err != nil {
		return domain.Business{}, err
	}
	if existing != nil {
		return domain.Business{}, domain.ErrAlreadyMember
	}

	now := time.Now().UTC()
	biz := domain.Business{
		ID:        idx.NewAt(now).String(),
		Name:      attrs.Name,
		Slug:      businessSlug(attrs.Name),
		Industry:  attrs.Industry,
		Size:      attrs.Size,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Businesses().CreateBusiness(ctx, biz); err != nil {
		log.Error("failed to create business", slog.String("user_id", ownerID), slog.Any("error", err))
		return domain.Business{}, domain.Transport("membership.create_business", err)
	}

	err = s.Store.Members().CreateMembership(ctx, domain.Membership{
		UserID:     ownerID,
		BusinessID: biz.ID,
		Role:       domain.RoleOwner,
		CreatedAt:  now,
	})
	if err != nil {
		cause := domain.Transport("membership.create_owner", err)
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent request gave the owner a membership first.
			derr := s.Store.Businesses().DeleteBusiness(ctx, biz.ID)
			if derr == nil {
				log.Warn("owner already has a membership, discarded new business",
					slog.String("business_id", biz.ID),
					slog.String("user_id", ownerID),
				)
				return domain.Business{}, domain.ErrAlreadyMember
			}
			err = errors.Join(err, derr)
			cause = domain.ErrAlreadyMember
		}
		log.Error("business created without owner membership",
			slog.String("step", "owner_membership"),
			slog.String("business_id", biz.ID),
			slog.String("user_id", ownerID),
			slog.Any("error", err),
		)
		s.Metrics.PartialFailure("owner_membership")
		return biz, &domain.PartialFailureError{
			Step:       "owner_membership",
			BusinessID: biz.ID,
			UserID:     ownerID,
			Err:        cause,
		}
	}

	log.Info("business created",
		slog.String("business_id", biz.ID),
		slog.String("owner_id", ownerID),
	)
	return biz, nil
}

// AddMember inserts a membership. A user who already belongs somewhere gets
// AlreadyMember and nothing is written.
func (s *MembershipService) AddMember(ctx context.Context, businessID, userID string, role domain.Role) error {
	err := s.Store.Members().CreateMembership(ctx, domain.Membership{
		UserID:     userID,
		BusinessID: businessID,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.ErrAlreadyMember
	}
	return storeErr("membership.add_member", err)
}

// UpdateBusiness applies patch. Authorization is the caller's job.
func (s *MembershipService) UpdateBusiness(ctx context.Context, businessID string, patch BusinessPatch) (domain.Business, error) {
	biz, err := s.GetBusiness(ctx, businessID)
	if err != nil {
		return domain.Business{}, err
	}

	attrs := domain.BusinessAttrs{Name: biz.Name, Industry: biz.Industry, Size: biz.Size}
	if patch.Name != nil {
		attrs.Name = *patch.Name
	}
	if patch.Industry != nil {
		attrs.Industry = *patch.Industry
	}
	if patch.Size != nil {
		attrs.Size = *patch.Size
	}
	attrs, err = s.CleanAttrs(attrs, false)
	if err != nil {
		return domain.Business{}, err
	}

	if attrs.Name != biz.Name {
		biz.Slug = businessSlug(attrs.Name)
	}
	biz.Name, biz.Industry, biz.Size = attrs.Name, attrs.Industry, attrs.Size

	if err := s.Store.Businesses().UpdateBusiness(ctx, biz); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Business{}, domain.ErrBusinessNotFound
		}
		return domain.Business{}, domain.Transport("membership.update_business", err)
	}

	slogx.FromContext(ctx).Info("business updated", slog.String("business_id", biz.ID))
	return biz, nil
}

// CleanAttrs strips markup and whitespace and validates lengths. complete
// additionally requires industry and size, as the onboarding form does.
func (s *MembershipService) CleanAttrs(a domain.BusinessAttrs, complete bool) (domain.BusinessAttrs, error) {
	a.Name = s.clean(a.Name)
	a.Industry = s.clean(a.Industry)
	a.Size = strings.TrimSpace(a.Size)

	switch {
	case a.Name == "":
		return a, fmt.Errorf("%w: company name is required", domain.ErrValidation)
	case utf8.RuneCountInString(a.Name) > maxBusinessName:
		return a, fmt.Errorf("%w: company name is too long", domain.ErrValidation)
	case utf8.RuneCountInString(a.Industry) > maxIndustry:
		return a, fmt.Errorf("%w: industry is too long", domain.ErrValidation)
	case a.Size != "" && !domain.ValidSize(a.Size):
		return a, fmt.Errorf("%w: size must be one of %s", domain.ErrValidation, strings.Join(domain.CompanySizes, ", "))
	case complete && (a.Industry == "" || a.Size == ""):
		return a, fmt.Errorf("%w: industry and size are required", domain.ErrValidation)
	}
	return a, nil
}

func (s *MembershipService) clean(v string) string {
	p := s.sanitizer
	if p == nil {
		p = bluemonday.StrictPolicy()
	}
	return strings.Join(strings.Fields(html.UnescapeString(p.Sanitize(v))), " ")
}

func businessSlug(name string) string {
	if sl := slug.Make(name); sl != "" {
		return sl
	}
	return "business"
}
