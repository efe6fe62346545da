package api

// User is the authenticated principal as returned by the authentication
// service.
type User struct {
	ID                int64    `json:"id"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName,omitempty"`
	LastName          string   `json:"lastName,omitempty"`
	Roles             []string `json:"roles"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
}

// Clone returns a deep copy so callers can hand out users without sharing
// the roles slice.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

// Credentials is the normalized outcome of a successful login or
// registration: both halves are always present, regardless of which response
// shape the server used.
type Credentials struct {
	User  *User
	Token string
}

// envelope is the generic `{success, message, data}` wrapper the service
// puts around most responses.
type envelope struct {
	Success *bool         `json:"success,omitempty"`
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
	Data    *envelopeData `json:"data,omitempty"`
	// bare-token login shape: the token sits at the top level
	Token string `json:"token,omitempty"`
}

type envelopeData struct {
	User              *User  `json:"user,omitempty"`
	Token             string `json:"token,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

func (e *envelope) succeeded() bool {
	return e.Success == nil || *e.Success
}

// displayMessage picks the server-provided human-readable message, if any.
func (e *envelope) displayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
