package nav

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/session"
)

func TestRevalidator_NoTokenIsNoOp(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	h := newHarness(t, f)
	ctx := context.Background()
	h.mgr.Initialize(ctx)

	h.reval.OnNavigate(ctx)

	assert.Zero(t, calls(f))
	assert.Equal(t, session.StateAnonymous, h.mgr.Snapshot().State)
}

func TestRevalidator_ExpiredTokenForcesLogout(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{CurrentUserRet: testUser()}
	h := newHarness(t, f)
	ctx := context.Background()

	// a session established with a short-lived token that ran out mid-visit
	require.NoError(t, h.store.Write(ctx, expiredToken(t), testUser()))

	h.reval.OnNavigate(ctx)

	snap := h.mgr.Snapshot()
	assert.Equal(t, session.StateAnonymous, snap.State)
	assert.Nil(t, snap.User)

	tok, err := h.store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok, "store cleared by the forced logout")
}

func TestRevalidator_ConfirmsUnsettledSession(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{CurrentUserRet: testUser()}
	h := newHarness(t, f)
	ctx := context.Background()

	// a token landed in the store but startup validation has not settled
	require.NoError(t, h.store.WriteToken(ctx, freshToken(t)))

	h.reval.OnNavigate(ctx)

	snap := h.mgr.Snapshot()
	assert.Equal(t, session.StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "a@b.com", snap.User.Email)
	assert.Equal(t, 1, calls(f))
}

func TestRevalidator_ConfirmationFailureForcesLogout(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{CurrentUserErr: api.NewAuthError("token revoked", nil)}
	h := newHarness(t, f)
	ctx := context.Background()

	require.NoError(t, h.store.WriteToken(ctx, freshToken(t)))

	h.reval.OnNavigate(ctx)

	snap := h.mgr.Snapshot()
	assert.Equal(t, session.StateAnonymous, snap.State)

	tok, err := h.store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRevalidator_NoDuplicateConcurrentFetches(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	f := &fakeAPI{CurrentUserRet: testUser(), CurrentUserBlock: block}
	h := newHarness(t, f)
	ctx := context.Background()

	require.NoError(t, h.store.WriteToken(ctx, freshToken(t)))

	// first navigation starts a confirmation fetch and blocks inside it
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.reval.OnNavigate(ctx)
	}()
	require.Eventually(t, func() bool { return calls(f) == 1 }, time.Second, time.Millisecond)

	// further navigations land while the fetch is still in flight
	for i := 0; i < 4; i++ {
		h.reval.OnNavigate(ctx)
	}

	close(block)
	wg.Wait()

	assert.Equal(t, 1, calls(f), "rapid navigations must not stack fetches")
	assert.Equal(t, session.StateAuthenticated, h.mgr.Snapshot().State)
}

func TestRevalidator_SettledSessionSkipsFetch(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{CurrentUserRet: testUser(), LoginRet: &api.Credentials{User: testUser(), Token: freshToken(t)}}
	h := newHarness(t, f)
	ctx := context.Background()

	h.mgr.Initialize(ctx)
	require.NoError(t, h.mgr.Login(ctx, "a@b.com", "secret"))

	before := calls(f)
	h.reval.OnNavigate(ctx)
	assert.Equal(t, before, calls(f), "populated user needs no re-fetch")
}
