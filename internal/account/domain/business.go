package domain

import (
	"fmt"
	"strings"
	"time"
)

type Business struct {
	ID        string
	Name      string
	Slug      string
	Industry  string
	Size      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusinessAttrs are the owner-editable fields of a business.
type BusinessAttrs struct {
	Name     string
	Industry string
	Size     string
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole accepts owner, admin or member in any case. Empty means member.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleMember, nil
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

func (r Role) String() string { return string(r) }

type Membership struct {
	UserID     string
	BusinessID string
	Role       Role
	CreatedAt  time.Time
}

// CompanySizes are the accepted headcount buckets.
var CompanySizes = []string{"1-10", "11-50", "51-200", "201+"}

// ValidSize reports whether s is one of CompanySizes.
func ValidSize(s string) bool {
	for _, v := range CompanySizes {
		if v == s {
			return true
		}
	}
	return false
}
