// Package nav gates navigation between portal pages on the session state:
// a pure route guard, a router that remembers where a redirected visitor was
// headed, and a revalidation hook that runs on every navigation.
package nav

import "github.com/edumundo/portal/internal/portal/session"

// Default destinations.
const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
)

// Route describes one page's access requirements.
type Route struct {
	Path  string
	Title string

	// RequireAuth pages redirect anonymous visitors to the login page,
	// carrying the originally requested path.
	RequireAuth bool

	// GuestOnly pages (login, register) redirect authenticated visitors
	// away: back to the preserved origin if one exists, else the default
	// landing page.
	GuestOnly bool
}

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// DecisionLoading: the session is still resolving; render a neutral
	// loading indicator and make no redirect decision yet.
	DecisionLoading Decision = iota

	// DecisionAllow: render the page.
	DecisionAllow

	// DecisionRedirect: go elsewhere, possibly preserving the origin.
	DecisionRedirect
)

// Outcome carries a redirect target and the origin worth restoring later.
type Outcome struct {
	Decision Decision

	// RedirectTo is set only for DecisionRedirect.
	RedirectTo string

	// From is the originally requested path to restore after login. Set
	// only when redirecting an anonymous visitor off a protected page.
	From string
}

// Evaluate decides whether the session may enter route. storedFrom is a
// previously preserved origin, consulted when bouncing an authenticated
// visitor off a guest-only page.
//
// The guard never touches the network and never mutates anything; callers
// own acting on the outcome.
func Evaluate(snap session.Snapshot, route Route, storedFrom string) Outcome {
	if snap.State == session.StateInitializing {
		// deciding now could flash a redirect the resolved session would
		// not have made
		return Outcome{Decision: DecisionLoading}
	}

	if route.RequireAuth && snap.State != session.StateAuthenticated {
		return Outcome{Decision: DecisionRedirect, RedirectTo: LoginPath, From: route.Path}
	}

	if route.GuestOnly && snap.State == session.StateAuthenticated {
		to := storedFrom
		if to == "" {
			to = DefaultPath
		}
		return Outcome{Decision: DecisionRedirect, RedirectTo: to}
	}

	return Outcome{Decision: DecisionAllow}
}
