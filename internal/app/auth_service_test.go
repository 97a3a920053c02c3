package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/app"
	"userhub/internal/pkg/jwtutil"
)

const testSecret = "unit-test-signing-secret"

func newAuthService(store app.UserStore, publisher app.SignupPublisher) *app.AuthService {
	return app.NewAuthService(store, publisher, testSecret, time.Hour)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a token that resolves to the created user", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		result, err := svc.Register(ctx, app.RegisterInput{
			Username: "alice",
			Password: "Secr3t!pass",
			Email:    "a@x.com",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Token)

		claims, err := jwtutil.ParseToken(testSecret, result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.Hex(), claims.UserID)

		stored, err := store.GetByID(ctx, claims.UserID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "alice", stored.Username)
	})

	t.Run("normalizes username and email", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		result, err := svc.Register(ctx, app.RegisterInput{
			Username: "  bob  ",
			Password: "Secr3t!pass",
			Email:    " Bob@X.COM ",
		})
		require.NoError(t, err)
		assert.Equal(t, "bob", result.User.Username)
		assert.Equal(t, "bob@x.com", result.User.Email)
	})

	t.Run("never stores the plaintext password", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		result, err := svc.Register(ctx, app.RegisterInput{
			Username: "carol",
			Password: "Secr3t!pass",
			Email:    "c@x.com",
		})
		require.NoError(t, err)
		assert.NotEqual(t, "Secr3t!pass", result.User.PasswordHash)
		assert.NotEmpty(t, result.User.PasswordHash)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		svc := newAuthService(newFakeStore(), nil)

		cases := []app.RegisterInput{
			{Username: "", Password: "Secr3t!pass", Email: "a@x.com"},
			{Username: "alice", Password: "short", Email: "a@x.com"},
			{Username: "alice", Password: "Secr3t!pass", Email: "not-an-email"},
			{Username: "alice", Password: "Secr3t!pass", Email: "missing@tld"},
		}
		for _, input := range cases {
			_, err := svc.Register(ctx, input)
			assert.ErrorIs(t, err, app.ErrInvalidInput, "input %+v", input)
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		_, err := svc.Register(ctx, app.RegisterInput{Username: "dave", Password: "Secr3t!pass", Email: "d1@x.com"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, app.RegisterInput{Username: "dave", Password: "Secr3t!pass", Email: "d2@x.com"})
		assert.ErrorIs(t, err, app.ErrUsernameExists)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		_, err := svc.Register(ctx, app.RegisterInput{Username: "erin", Password: "Secr3t!pass", Email: "e@x.com"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, app.RegisterInput{Username: "erin2", Password: "Secr3t!pass", Email: "e@x.com"})
		assert.ErrorIs(t, err, app.ErrEmailExists)
	})

	t.Run("concurrent duplicate registrations yield one success", func(t *testing.T) {
		store := newFakeStore()
		svc := newAuthService(store, nil)

		const attempts = 8
		errs := make([]error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Register(ctx, app.RegisterInput{
					Username: "race",
					Password: "Secr3t!pass",
					Email:    "race@x.com",
				})
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
			} else {
				assert.True(t,
					err == app.ErrUsernameExists || err == app.ErrEmailExists,
					"unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, successes)
	})

	t.Run("publishes a signup event", func(t *testing.T) {
		store := newFakeStore()
		publisher := &fakePublisher{}
		svc := newAuthService(store, publisher)

		result, err := svc.Register(ctx, app.RegisterInput{Username: "frank", Password: "Secr3t!pass", Email: "f@x.com"})
		require.NoError(t, err)

		events := publisher.published()
		require.Len(t, events, 1)
		assert.Equal(t, result.User.ID.Hex(), events[0].UserID)
		assert.Equal(t, "frank", events[0].Username)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newAuthService(store, nil)

	_, err := svc.Register(ctx, app.RegisterInput{Username: "alice", Password: "Secr3t!pass", Email: "a@x.com"})
	require.NoError(t, err)

	t.Run("correct password returns a verifiable token", func(t *testing.T) {
		result, err := svc.Login(ctx, app.LoginInput{Username: "alice", Password: "Secr3t!pass"})
		require.NoError(t, err)

		claims, err := jwtutil.ParseToken(testSecret, result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.Hex(), claims.UserID)
	})

	t.Run("wrong password and unknown username are indistinguishable", func(t *testing.T) {
		_, errWrongPassword := svc.Login(ctx, app.LoginInput{Username: "alice", Password: "wrong-password"})
		_, errUnknownUser := svc.Login(ctx, app.LoginInput{Username: "nobody", Password: "Secr3t!pass"})

		assert.ErrorIs(t, errWrongPassword, app.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownUser, app.ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword, errUnknownUser)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := svc.Login(ctx, app.LoginInput{Username: "", Password: ""})
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})
}
