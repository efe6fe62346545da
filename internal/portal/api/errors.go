package api

import "errors"

// GenericAuthMessage is shown when the service rejects an operation without
// supplying its own message.
const GenericAuthMessage = "authentication failed, please try again"

// AuthError is any rejected credential operation: bad login, duplicate
// registration, invalid reset token, expired session on revalidation. It
// always carries a display-ready message; the UI shows it inline and the
// application keeps running.
type AuthError struct {
	Message string
	// Err is the underlying transport or decode error, when one exists.
	Err error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError builds an AuthError, substituting the generic message when
// the server supplied none.
func NewAuthError(message string, err error) *AuthError {
	if message == "" {
		message = GenericAuthMessage
	}
	return &AuthError{Message: message, Err: err}
}

// AsAuthError unwraps err into an *AuthError, if it is one.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	ok := errors.As(err, &ae)
	return ae, ok
}
