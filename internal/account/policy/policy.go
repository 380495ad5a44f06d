// Package policy is the single place role checks live. Callers ask
// CanInvite / CanEditBusiness / CanGrant and never compare role strings.
package policy

import (
	_ "embed"
	"fmt"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var modelText string

const (
	ObjectBusiness = "business"
	ObjectInvite   = "invite"
)

const (
	ActionEdit   = "edit"
	ActionCreate = "create"
	ActionList   = "list"
	ActionRevoke = "revoke"
)

// Options tune the seeded policy.
type Options struct {
	// AllowAdminInvites lets admins invite, list and revoke member invites.
	AllowAdminInvites bool
}

type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

func New(opts Options) (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load policy model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(seed(opts)); err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}
	return &Policy{enforcer: e}, nil
}

func seed(opts Options) [][]string {
	owner := subject(domain.RoleOwner)
	admin := subject(domain.RoleAdmin)

	rules := [][]string{
		{owner, ObjectBusiness, ActionEdit},
		{owner, ObjectInvite, ActionCreate},
		{owner, ObjectInvite, ActionList},
		{owner, ObjectInvite, ActionRevoke},
		{owner, ObjectInvite, grant(domain.RoleAdmin)},
		{owner, ObjectInvite, grant(domain.RoleMember)},
	}
	if opts.AllowAdminInvites {
		rules = append(rules,
			[]string{admin, ObjectInvite, ActionCreate},
			[]string{admin, ObjectInvite, ActionList},
			[]string{admin, ObjectInvite, ActionRevoke},
			[]string{admin, ObjectInvite, grant(domain.RoleMember)},
		)
	}
	return rules
}

func subject(r domain.Role) string { return "role:" + string(r) }
func grant(r domain.Role) string   { return "grant:" + string(r) }

func (p *Policy) allowed(role domain.Role, obj, act string) bool {
	if role == "" {
		return false
	}
	ok, err := p.enforcer.Enforce(subject(role), obj, act)
	return err == nil && ok
}

func (p *Policy) CanInvite(role domain.Role) bool {
	return p.allowed(role, ObjectInvite, ActionCreate)
}

func (p *Policy) CanEditBusiness(role domain.Role) bool {
	return p.allowed(role, ObjectBusiness, ActionEdit)
}

// CanGrant reports whether inviter may hand out target. Ownership is never granted by invite.
func (p *Policy) CanGrant(inviter, target domain.Role) bool {
	return p.CanInvite(inviter) && p.allowed(inviter, ObjectInvite, grant(target))
}

func (p *Policy) CanListInvites(role domain.Role) bool {
	return p.allowed(role, ObjectInvite, ActionList)
}

func (p *Policy) CanRevokeInvite(role domain.Role) bool {
	return p.allowed(role, ObjectInvite, ActionRevoke)
}
