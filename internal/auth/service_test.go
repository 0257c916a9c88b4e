package auth_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/secretos/internal/auth"
	"github.com/sujalbistaa/secretos/internal/cache"
	"github.com/sujalbistaa/secretos/internal/db/dbtest"
	"github.com/sujalbistaa/secretos/internal/repository"
)

var cheapParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newService(t *testing.T) (*auth.Service, *clock) {
	t.Helper()
	gdb := dbtest.New(t)
	tokens := cache.New[string, uint](time.Hour, time.Hour)
	t.Cleanup(tokens.Close)

	clk := &clock{t: time.Now()}
	svc := auth.NewService(
		repository.NewAdminUserRepository(gdb),
		auth.NewMemorySessionStore(tokens),
		"test-backend-key",
		time.Minute,
		time.Hour,
		auth.WithClock(clk.Now),
		auth.WithHashParams(cheapParams),
	)

	created, err := svc.EnsureAdmin(context.Background(), "Admin@Example.com", "correct horse")
	require.NoError(t, err)
	require.True(t, created)
	return svc, clk
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.EnsureAdmin(context.Background(), "admin@example.com", "other")
	require.NoError(t, err)
	require.False(t, created)

	_, err = svc.EnsureAdmin(context.Background(), "", "x")
	require.Error(t, err)
}

func TestSignInWithPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sess, err := svc.SignInWithPassword(ctx, "admin@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)
	require.NotEmpty(t, sess.RefreshToken)
	require.Equal(t, "admin@example.com", sess.User.Email)

	claims, err := svc.Verify(sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims.Email)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, id)
}

func TestSignInWithPassword_InvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"admin@example.com", "wrong"},
		{"nobody@example.com", "correct horse"},
	} {
		_, err := svc.SignInWithPassword(ctx, tc.email, tc.password)
		var authErr *auth.Error
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, http.StatusBadRequest, authErr.Status)
		require.Equal(t, "Invalid login credentials", authErr.Message)
	}
}

func TestVerify_ExpiredAndForged(t *testing.T) {
	svc, clk := newService(t)

	sess, err := svc.SignInWithPassword(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Verify(sess.AccessToken + "x")
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Verify("")
	require.ErrorIs(t, err, auth.ErrInvalidToken)

	clk.Advance(2 * time.Minute)
	_, err = svc.Verify(sess.AccessToken)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	sess, err := svc.SignInWithPassword(ctx, "admin@example.com", "correct horse")
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	next, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, sess.RefreshToken, next.RefreshToken)

	_, err = svc.Verify(next.AccessToken)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestSignOut_RevokesRefreshToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	sess, err := svc.SignInWithPassword(ctx, "admin@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, sess.RefreshToken))
	_, err = svc.Refresh(ctx, sess.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
