package nav

import (
	"context"
	"sync/atomic"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/session"
)

// Revalidator re-checks the credential on every navigation event, covering
// the window between startup validation and the next full restart: a token
// that expires mid-visit ends the session on the next page change.
type Revalidator struct {
	svc *session.Service
	mgr *session.Manager
	log logging.Logger

	// inFlight guards against duplicate profile fetches when navigations
	// arrive faster than the first fetch resolves.
	inFlight atomic.Bool
}

func NewRevalidator(svc *session.Service, mgr *session.Manager, log logging.Logger) *Revalidator {
	return &Revalidator{svc: svc, mgr: mgr, log: log}
}

// OnNavigate runs the check for one navigation event.
//
//   - no stored token: nothing to do
//   - expired token: force logout, whether or not a user is populated
//   - token but no settled user: confirm it once; failure forces logout
//
// Forced logout is deliberate recovery, not an error: nothing is surfaced
// to the visitor beyond the session ending.
func (r *Revalidator) OnNavigate(ctx context.Context) {
	if !r.svc.IsAuthenticated(ctx) {
		return
	}

	if r.svc.IsTokenExpired(ctx) {
		r.log.Info(ctx, "token expired mid-visit, logging out")
		r.mgr.Logout(ctx)
		return
	}

	if r.mgr.Snapshot().User != nil {
		return
	}

	if !r.inFlight.CompareAndSwap(false, true) {
		// a confirmation fetch is already running for an earlier navigation
		return
	}
	defer r.inFlight.Store(false)

	_ = r.mgr.ConfirmUser(ctx)
}
