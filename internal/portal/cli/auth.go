package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Go navigates to path and renders whatever page the guard lets through.
func (a *App) Go(ctx context.Context, path string) error {
	route, outcome, err := a.router.Navigate(ctx, path)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	a.renderPage(route, outcome)
	return nil
}

// Login runs the login page flow: prompt for credentials, authenticate,
// then return to wherever the visitor was originally headed.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		// a rejected login is shown inline; the session is unchanged
		printlnFn("Login failed:", err.Error())
		return err
	}
	printlnFn("Welcome back!")

	route, outcome, err := a.router.Resume(ctx)
	if err != nil {
		return err
	}
	a.renderPage(route, outcome)
	return nil
}

// Register runs the account-creation flow. Names are optional.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := GetSimpleText(a.reader, "First name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Last name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword("Choose a password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, email, password, firstName, lastName); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}
	printlnFn("Account created. A verification email is on its way.")

	route, outcome, err := a.router.Resume(ctx)
	if err != nil {
		return err
	}
	a.renderPage(route, outcome)
	return nil
}

// Logout ends the session and lands back on the home page.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return a.Go(ctx, "/")
}

// WhoAmI prints the authenticated identity.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		printlnFn("Not signed in.")
		return nil
	}
	u := snap.User
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Email
	}
	printlnFn(fmt.Sprintf("%s <%s>", name, u.Email))
	if len(u.Roles) > 0 {
		printlnFn("Roles:", strings.Join(u.Roles, ", "))
	}
	if exp, ok := a.sessionExpiry(ctx); ok {
		printlnFn("Session expires:", exp)
	}
	return nil
}

func (a *App) sessionExpiry(ctx context.Context) (string, bool) {
	exp, ok := a.svc.TokenExpirationTime(ctx)
	if !ok {
		return "", false
	}
	return exp.Local().Format("2006-01-02 15:04"), true
}
