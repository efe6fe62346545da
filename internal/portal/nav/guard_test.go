package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/session"
)

func authedSnap() session.Snapshot {
	return session.Snapshot{
		State: session.StateAuthenticated,
		User:  &api.User{ID: 42, Email: "a@b.com", Roles: []string{"student"}},
		Token: "tok",
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	profile := Route{Path: "/profile", RequireAuth: true}
	login := Route{Path: LoginPath, GuestOnly: true}
	home := Route{Path: "/"}

	tests := []struct {
		name       string
		snap       session.Snapshot
		route      Route
		storedFrom string
		want       Outcome
	}{
		{
			name:  "initializing renders loading, no redirect",
			snap:  session.Snapshot{State: session.StateInitializing, Loading: true},
			route: profile,
			want:  Outcome{Decision: DecisionLoading},
		},
		{
			name:  "anonymous on protected page redirects to login with origin",
			snap:  session.Snapshot{State: session.StateAnonymous},
			route: profile,
			want:  Outcome{Decision: DecisionRedirect, RedirectTo: LoginPath, From: "/profile"},
		},
		{
			name:  "authenticated on protected page renders",
			snap:  authedSnap(),
			route: profile,
			want:  Outcome{Decision: DecisionAllow},
		},
		{
			name:  "authenticated on guest page bounces to default landing",
			snap:  authedSnap(),
			route: login,
			want:  Outcome{Decision: DecisionRedirect, RedirectTo: DefaultPath},
		},
		{
			name:       "authenticated on guest page honors preserved origin",
			snap:       authedSnap(),
			route:      login,
			storedFrom: "/profile",
			want:       Outcome{Decision: DecisionRedirect, RedirectTo: "/profile"},
		},
		{
			name:  "anonymous on guest page renders",
			snap:  session.Snapshot{State: session.StateAnonymous},
			route: login,
			want:  Outcome{Decision: DecisionAllow},
		},
		{
			name:  "neutral page renders for anyone",
			snap:  session.Snapshot{State: session.StateAnonymous},
			route: home,
			want:  Outcome{Decision: DecisionAllow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(tt.snap, tt.route, tt.storedFrom)
			require.Equal(t, tt.want, got)
		})
	}
}
