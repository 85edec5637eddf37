package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/dto/request"
	"watchmate/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username string) *request.RegisterRequest {
	return &request.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "secret-pass",
		Password2: "secret-pass",
	}
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.Len(t, resp.Token, 32)

	user, err := f.repo.User.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret-pass", user.PasswordHash))
}

func TestAuthService_RegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   *request.RegisterRequest
		field string
	}{
		{
			name:  "duplicate username",
			req:   &request.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret-pass", Password2: "secret-pass"},
			field: "username",
		},
		{
			name:  "duplicate email",
			req:   &request.RegisterRequest{Username: "bob", Email: "ALICE@example.com", Password: "secret-pass", Password2: "secret-pass"},
			field: "email",
		},
		{
			name:  "password mismatch",
			req:   &request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret-pass", Password2: "other-pass"},
			field: "password2",
		},
		{
			name:  "short password",
			req:   &request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short", Password2: "short"},
			field: "password",
		},
		{
			name:  "password over bcrypt limit",
			req:   &request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("p", 80), Password2: strings.Repeat("p", 80)},
			field: "password",
		},
		{
			name:  "bad email",
			req:   &request.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "secret-pass", Password2: "secret-pass"},
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Auth.Register(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAuthService_RegisterConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Auth.Register(ctx, registerRequest("carol"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "unexpected error: %v", err)
		assert.Equal(t, msgUsernameTaken, verr.Fields["username"])
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegistrationConflict(t *testing.T) {
	var verr *ValidationError

	err := registrationConflict(fmt.Errorf("create user: %w", &repository.ConflictError{Constraint: repository.ConstraintUserEmail}))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, msgEmailTaken, verr.Fields["email"])

	err = registrationConflict(fmt.Errorf("create user: %w", &repository.ConflictError{Constraint: repository.ConstraintUsername}))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, msgUsernameTaken, verr.Fields["username"])

	boom := errors.New("connection reset")
	assert.Same(t, boom, registrationConflict(boom))
}

func TestAuthService_LoginReusesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	resp, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.Token, resp.Token)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "nobody", Password: "secret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	user, err := f.svc.Auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, f.svc.Auth.Logout(ctx, resp.Token))

	_, err = f.svc.Auth.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = f.svc.Auth.Logout(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// a later login issues a fresh key
	again, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret-pass"})
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token, again.Token)
}

func TestAuthService_AuthenticateUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Auth.Authenticate(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Auth.EnsureAdmin(ctx, utils.AdminConfig{}))

	admin := utils.AdminConfig{Username: "root", Email: "root@example.com", Password: "admin-pass"}
	require.NoError(t, f.svc.Auth.EnsureAdmin(ctx, admin))
	require.NoError(t, f.svc.Auth.EnsureAdmin(ctx, admin))

	user, err := f.repo.User.FindByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin())

	resp, err := f.svc.Auth.Login(ctx, &request.LoginRequest{Username: "root", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)

	err = f.svc.Auth.EnsureAdmin(ctx, utils.AdminConfig{Username: "other", Password: "short"})
	assert.Error(t, err)
}

func TestUserService_GetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	caller := f.user(t, "alice", entity.RoleUser)

	resp, err := f.svc.User.GetProfile(ctx, caller.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	_, err = f.svc.User.GetProfile(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
