package cli

import (
	"context"
	"os"
)

// Language switches the account's preferred language and patches the local
// profile without a full re-fetch.
func (a *App) Language(ctx context.Context, code string) error {
	if err := a.session.UpdateLanguage(ctx, code); err != nil {
		printlnFn("Could not update language:", err.Error())
		return err
	}
	printlnFn("Language updated to", code)
	return nil
}

// ChangePassword changes the password of the signed-in account.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := GetPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	next, err := GetPassword("New password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.svc.ChangePassword(ctx, current, next); err != nil {
		printlnFn("Could not change password:", err.Error())
		return err
	}
	printlnFn("Password changed.")
	return nil
}

// ForgotPassword requests a reset email.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter your account email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.svc.ForgotPassword(ctx, email); err != nil {
		printlnFn("Request failed:", err.Error())
		return err
	}
	printlnFn("If that address exists, a reset link has been sent.")
	return nil
}

// ResetPassword completes a reset with the emailed token.
func (a *App) ResetPassword(ctx context.Context) error {
	resetToken, err := GetSimpleText(a.reader, "Paste the reset token from the email", os.Stdout)
	if err != nil {
		return err
	}
	next, err := GetPassword("New password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.svc.ResetPassword(ctx, resetToken, next); err != nil {
		printlnFn("Reset failed:", err.Error())
		return err
	}
	printlnFn("Password reset. You can log in now.")
	return nil
}

// VerifyEmail confirms the address with the emailed token.
func (a *App) VerifyEmail(ctx context.Context) error {
	verifyToken, err := GetSimpleText(a.reader, "Paste the verification token from the email", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.svc.VerifyEmail(ctx, verifyToken); err != nil {
		printlnFn("Verification failed:", err.Error())
		return err
	}
	printlnFn("Email verified.")
	return nil
}

// ResendVerification asks the service to send the verification email again.
func (a *App) ResendVerification(ctx context.Context) error {
	if err := a.svc.ResendVerification(ctx); err != nil {
		printlnFn("Request failed:", err.Error())
		return err
	}
	printlnFn("Verification email sent.")
	return nil
}
