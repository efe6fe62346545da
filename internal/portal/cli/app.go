// Package cli is the terminal front end of the portal: a handful of pages
// navigated through the router, so every page change passes through the
// route guard and the revalidation hook.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/config"
	"github.com/edumundo/portal/internal/portal/nav"
	"github.com/edumundo/portal/internal/portal/session"
	"github.com/edumundo/portal/internal/portal/store"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	store   store.Store
	svc     *session.Service
	session *session.Manager
	router  *nav.Router
	reader  *bufio.Reader
}

// NewApp wires the full session stack: credential store, HTTP client,
// session service and manager, revalidator, router, route table.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	ctx := context.Background()

	st := store.Open(ctx, cfg, log)
	client := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)
	svc := session.NewService(client, st, log)
	mgr := session.NewManager(svc, log)
	reval := nav.NewRevalidator(svc, mgr, log)
	router := nav.NewRouter(mgr, reval, log)

	for _, r := range []nav.Route{
		{Path: "/", Title: "Home"},
		{Path: nav.LoginPath, Title: "Log in", GuestOnly: true},
		{Path: "/register", Title: "Create account", GuestOnly: true},
		{Path: nav.DefaultPath, Title: "Dashboard", RequireAuth: true},
		{Path: "/profile", Title: "My profile", RequireAuth: true},
		{Path: "/forgot-password", Title: "Forgot password", GuestOnly: true},
	} {
		router.Register(r)
	}

	return &App{
		config:  cfg,
		log:     log,
		store:   st,
		svc:     svc,
		session: mgr,
		router:  router,
		reader:  bufio.NewReader(os.Stdin),
	}
}

// Run resolves the stored session, lands on the home page, and hands
// control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.store.Close() }()

	a.session.Initialize(ctx)
	_ = a.Go(ctx, "/")

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == session.StateAuthenticated
}

// status renders the prompt suffix: current page plus the signed-in email.
func (a *App) status() string {
	s := a.router.Current().Path
	if snap := a.session.Snapshot(); snap.User != nil {
		s = fmt.Sprintf("%s %s", s, snap.User.Email)
	}
	return s
}
