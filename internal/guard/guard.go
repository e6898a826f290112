// Package guard decides whether navigation into protected pages is admitted.
// The decision is re-derived on every navigation so that a logout revokes
// access the next time the operator moves between pages; nothing about a
// previous admission is cached.
package guard

// Session is the slice of the session store the guard consumes.
type Session interface {
	Loading() bool
	IsAuthenticated() bool
}

// State is the guard's view of one navigation attempt.
type State int

const (
	// StateLoading means the startup session check has not settled; render a
	// waiting indicator and make no navigation decision.
	StateLoading State = iota
	// StateAuthenticated admits the nested protected content.
	StateAuthenticated
	// StateUnauthenticated redirects to the login entry point.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one navigation.
type Decision struct {
	State State
	// RedirectToLogin is set when the navigation must land on the login page.
	RedirectToLogin bool
	// From is the originally requested page, captured so login flows may
	// offer to return there. Nothing returns automatically.
	From string
}

// Guard evaluates protected navigation against a session.
type Guard struct {
	session Session
	from    string
}

// New creates a guard over the given session.
func New(session Session) *Guard {
	return &Guard{session: session}
}

// Evaluate derives the admission decision for a navigation to the requested
// page. While the session check is loading no decision is made.
func (g *Guard) Evaluate(requested string) Decision {
	if g.session.Loading() {
		return Decision{State: StateLoading}
	}
	if !g.session.IsAuthenticated() {
		g.from = requested
		return Decision{State: StateUnauthenticated, RedirectToLogin: true, From: requested}
	}
	return Decision{State: StateAuthenticated}
}

// CapturedFrom returns the page captured by the most recent redirect, or ""
// when no redirect has happened.
func (g *Guard) CapturedFrom() string {
	return g.from
}

// ClearCapturedFrom drops the captured page, e.g. after the operator used or
// dismissed it.
func (g *Guard) ClearCapturedFrom() {
	g.from = ""
}
