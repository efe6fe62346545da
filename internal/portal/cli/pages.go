package cli

import (
	"fmt"
	"strings"

	"github.com/edumundo/portal/internal/portal/nav"
)

// renderPage prints the page the router settled on. Page bodies are thin on
// purpose; the interesting part is which page the guard let through.
func (a *App) renderPage(route nav.Route, outcome nav.Outcome) {
	if outcome.Decision == nav.DecisionLoading {
		printlnFn("Loading session...")
		return
	}

	printlnFn(fmt.Sprintf("== %s (%s) ==", route.Title, route.Path))

	switch route.Path {
	case "/":
		printlnFn("Study abroad, the easy way. Type 'help' for commands.")

	case nav.LoginPath:
		printlnFn("Type 'login' to sign in, or 'register' to create an account.")

	case "/register":
		printlnFn("Type 'register' to create an account.")

	case "/forgot-password":
		printlnFn("Type 'forgot' to request a reset email, or 'reset' if you already have a token.")

	case nav.DefaultPath:
		snap := a.session.Snapshot()
		if snap.User != nil {
			name := strings.TrimSpace(snap.User.FirstName)
			if name == "" {
				name = snap.User.Email
			}
			printlnFn(fmt.Sprintf("Hello, %s! Your applications and courses live here.", name))
		}

	case "/profile":
		snap := a.session.Snapshot()
		if snap.User != nil {
			printlnFn("Email:", snap.User.Email)
			if snap.User.PreferredLanguage != "" {
				printlnFn("Language:", snap.User.PreferredLanguage)
			}
			printlnFn("Type 'lang <code>' to switch language, 'passwd' to change password.")
		}
	}
}
