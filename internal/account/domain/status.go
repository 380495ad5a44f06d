package domain

// AccountStatus is the single onboarding state derived from a session.
type AccountStatus string

const (
	StatusUnauthenticated AccountStatus = "unauthenticated"
	StatusNeedsPassword   AccountStatus = "needs_password"
	StatusNeedsOnboarding AccountStatus = "needs_onboarding"
	StatusReady           AccountStatus = "ready"
)

// Route is the next step a client should be sent to.
type Route string

const (
	RouteLogin      Route = "login"
	RoutePassword   Route = "password"
	RouteOnboarding Route = "onboarding"
	RouteDashboard  Route = "dashboard"
)

func (s AccountStatus) Route() Route {
	switch s {
	case StatusNeedsPassword:
		return RoutePassword
	case StatusNeedsOnboarding:
		return RouteOnboarding
	case StatusReady:
		return RouteDashboard
	default:
		return RouteLogin
	}
}

// Classification is the flag set the status was derived from.
type Classification struct {
	HasEmailIdentity bool
	PasswordSet      bool
	Invited          bool
	Membership       *Membership
	Status           AccountStatus
}

func (c Classification) IsOwner() bool {
	return c.Membership != nil && c.Membership.Role == RoleOwner
}
