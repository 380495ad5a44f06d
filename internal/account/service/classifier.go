package service

import "github.com/aussiebroadwan/tenantry/internal/account/domain"

// Classify derives the onboarding state of a session. It is a pure function
// of its arguments.
//
// A password step is needed by accounts that neither came from an invite nor
// can sign in with a password. Company onboarding is needed by everyone else
// who has no membership yet.
func Classify(sess *domain.Session, membership *domain.Membership) domain.Classification {
	if sess == nil {
		return domain.Classification{Status: domain.StatusUnauthenticated}
	}

	c := domain.Classification{
		HasEmailIdentity: sess.HasMethod(domain.ProviderEmail),
		PasswordSet:      sess.Metadata.PasswordSet,
		Invited:          sess.Metadata.Invited != "",
		Membership:       membership,
	}

	needsPassword := !c.Invited && !(c.HasEmailIdentity || c.PasswordSet)
	switch {
	case needsPassword:
		c.Status = domain.StatusNeedsPassword
	case membership == nil:
		c.Status = domain.StatusNeedsOnboarding
	default:
		c.Status = domain.StatusReady
	}
	return c
}
