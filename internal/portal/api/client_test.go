package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLogin_CombinedShape(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req["email"])
		require.Equal(t, "secret", req["password"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "tok-combined",
				"user":  map[string]any{"id": 7, "email": "a@b.com", "roles": []string{"student"}},
			},
		})
	}))

	creds, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-combined", creds.Token)
	require.Equal(t, int64(7), creds.User.ID)
	require.Equal(t, []string{"student"}, creds.User.Roles)
}

func TestLogin_BareTokenShapeFollowsUpWithMe(t *testing.T) {
	t.Parallel()

	var meCalls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, map[string]any{"token": "tok-bare"})
		case "/auth/me":
			meCalls++
			require.Equal(t, "Bearer tok-bare", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"user": map[string]any{"id": 7, "email": "a@b.com"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	creds, err := c.Login(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, 1, meCalls)
	require.Equal(t, "tok-bare", creds.Token)
	require.Equal(t, "a@b.com", creds.User.Email)
	// roles container is always present, even when the server omits it
	require.NotNil(t, creds.User.Roles)
	require.Empty(t, creds.User.Roles)
}

func TestLogin_ServerMessagePropagates(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "invalid email or password",
		})
	}))

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid email or password", ae.Message)
}

func TestLogin_GenericMessageWhenServerSilent(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Login(context.Background(), "a@b.com", "secret")
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, GenericAuthMessage, ae.Message)
}

func TestLogin_SuccessFalseWithOKStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "error": "account locked"})
	}))

	_, err := c.Login(context.Background(), "a@b.com", "secret")
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "account locked", ae.Message)
}

func TestLogin_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, 20*time.Millisecond)
	_, err := c.Login(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	_, ok := AsAuthError(err)
	require.True(t, ok, "timeouts must surface as the same error kind")
}

func TestRegister_SendsOptionalNames(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Marta", req["firstName"])
		require.Equal(t, "Iriarte", req["lastName"])

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "tok-new",
				"user":  map[string]any{"id": 11, "email": "m@i.com", "roles": []string{}},
			},
		})
	}))

	creds, err := c.Register(context.Background(), "m@i.com", "secret", "Marta", "Iriarte")
	require.NoError(t, err)
	require.Equal(t, "tok-new", creds.Token)
	require.Equal(t, int64(11), creds.User.ID)
}

func TestCurrentUser_Rejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "token expired"})
	}))

	_, err := c.CurrentUser(context.Background(), "stale")
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, "token expired", ae.Message)
}

func TestUpdateLanguage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/update-language", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "es", req["language"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"preferredLanguage": "es"},
		})
	}))

	lang, err := c.UpdateLanguage(context.Background(), "tok", "es")
	require.NoError(t, err)
	require.Equal(t, "es", lang)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)
		require.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "new"},
		})
	}))

	tok, err := c.RefreshToken(context.Background(), "old")
	require.NoError(t, err)
	require.Equal(t, "new", tok)
}

func TestFireAndReportOperations(t *testing.T) {
	t.Parallel()

	var gotPaths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	}))

	ctx := context.Background()
	require.NoError(t, c.ForgotPassword(ctx, "a@b.com"))
	require.NoError(t, c.ResetPassword(ctx, "reset-tok", "newpass"))
	require.NoError(t, c.ChangePassword(ctx, "tok", "old", "new"))
	require.NoError(t, c.VerifyEmail(ctx, "verify-tok"))
	require.NoError(t, c.ResendVerification(ctx, "tok"))

	require.Equal(t, []string{
		"/auth/forgot-password",
		"/auth/reset-password",
		"/auth/change-password",
		"/auth/verify-email",
		"/auth/resend-verification",
	}, gotPaths)
}
