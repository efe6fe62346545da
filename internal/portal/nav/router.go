package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/session"
)

// ErrUnknownRoute reports navigation to a path with no registered route.
type ErrUnknownRoute struct {
	Path string
}

func (e *ErrUnknownRoute) Error() string {
	return fmt.Sprintf("unknown route %q", e.Path)
}

// Router resolves navigations against the route table and the session
// state. It remembers the origin of a login redirect so a successful login
// can return the visitor to where they were headed.
type Router struct {
	mgr   *session.Manager
	reval *Revalidator
	log   logging.Logger

	mu      sync.Mutex
	routes  map[string]Route
	current Route
	from    string
}

func NewRouter(mgr *session.Manager, reval *Revalidator, log logging.Logger) *Router {
	return &Router{mgr: mgr, reval: reval, log: log, routes: make(map[string]Route)}
}

// Register adds a route to the table.
func (r *Router) Register(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route.Path] = route
}

// Current returns the route the visitor is on.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate moves to path: the revalidation hook runs first, then the guard
// decides. Redirects are followed until a page renders (the table is
// acyclic by construction: protected pages bounce to /login and guest pages
// bounce to a protected page, at most twice).
func (r *Router) Navigate(ctx context.Context, path string) (Route, Outcome, error) {
	r.reval.OnNavigate(ctx)

	const maxRedirects = 3

	for i := 0; i < maxRedirects; i++ {
		r.mu.Lock()
		route, ok := r.routes[path]
		storedFrom := r.from
		r.mu.Unlock()
		if !ok {
			return Route{}, Outcome{}, &ErrUnknownRoute{Path: path}
		}

		outcome := Evaluate(r.mgr.Snapshot(), route, storedFrom)

		switch outcome.Decision {
		case DecisionLoading:
			return route, outcome, nil

		case DecisionAllow:
			r.mu.Lock()
			r.current = route
			r.mu.Unlock()
			return route, outcome, nil

		case DecisionRedirect:
			r.log.Debug(ctx, "redirecting", "from", path, "to", outcome.RedirectTo)
			r.mu.Lock()
			if outcome.From != "" {
				r.from = outcome.From
			} else if storedFrom != "" && outcome.RedirectTo == storedFrom {
				// the preserved origin is being restored; consume it
				r.from = ""
			}
			r.mu.Unlock()
			path = outcome.RedirectTo
		}
	}

	return Route{}, Outcome{}, fmt.Errorf("redirect loop while navigating to %q", path)
}

// Resume navigates to the preserved origin of a login redirect, or to the
// default landing page when none was stored. Called after a successful
// login.
func (r *Router) Resume(ctx context.Context) (Route, Outcome, error) {
	r.mu.Lock()
	target := r.from
	r.from = ""
	r.mu.Unlock()

	if target == "" {
		target = DefaultPath
	}
	return r.Navigate(ctx, target)
}
