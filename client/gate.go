package client

import "github.com/Hawaly/comptaStory/internal/auth"

// GateState is the shared state machine all role gates run:
// Pending while the first resolution is in flight, then exactly one of
// Unauthenticated, Authorized or Unauthorized.
type GateState int

const (
	Pending GateState = iota
	Unauthenticated
	Authorized
	Unauthorized
)

func (s GateState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a gate against a state
// snapshot. Redirect is empty when no navigation is required, so the
// caller can render a loading placeholder during Pending without
// flicker.
type Decision struct {
	State     GateState
	IsLoading bool
	User      *auth.User
	Redirect  string
}

// Gate conditions navigation on the current user's role. The three
// variants differ only in their role predicate and fallback path.
type Gate struct {
	name     string
	allow    func(*auth.User) bool // nil allows any authenticated user
	fallback string                // redirect target when role check fails
}

// RequireAuth redirects to login when not loading and no user is
// present. No role check.
func RequireAuth() Gate {
	return Gate{name: "auth"}
}

// RequireAdmin admits role_id 1; other authenticated users are sent to
// the client portal.
func RequireAdmin() Gate {
	return Gate{
		name:     "admin",
		allow:    func(u *auth.User) bool { return u.IsAdmin() },
		fallback: ClientPortalPath,
	}
}

// RequireClient admits role_id 2; other authenticated users are sent
// to the dashboard.
func RequireClient() Gate {
	return Gate{
		name:     "client",
		allow:    func(u *auth.User) bool { return u.IsClient() },
		fallback: DefaultDashboardPath,
	}
}

// Evaluate runs the state machine on one snapshot. While loading the
// gate stays Pending and never redirects, so no decision is taken
// before the first resolution completes.
func (g Gate) Evaluate(s State) Decision {
	if s.IsLoading {
		return Decision{State: Pending, IsLoading: true, User: s.User}
	}

	if s.User == nil {
		return Decision{State: Unauthenticated, Redirect: LoginPath}
	}

	if g.allow != nil && !g.allow(s.User) {
		return Decision{State: Unauthorized, User: s.User, Redirect: g.fallback}
	}

	return Decision{State: Authorized, User: s.User}
}

// Watch evaluates the gate against the current state and again on
// every transition, performing redirects through nav. A consumer that
// was Authorized re-enters Unauthenticated after logout. Returns a
// cancel func.
func Watch(c *Context, g Gate, nav Navigator) func() {
	apply := func(s State) {
		if d := g.Evaluate(s); d.Redirect != "" {
			nav.Navigate(d.Redirect)
		}
	}

	cancel := c.Subscribe(apply)
	apply(c.State())
	return cancel
}
