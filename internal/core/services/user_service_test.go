package services_test

import (
	"context"
	"testing"

	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"
	"digital-library/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileAndPassword(t *testing.T) {
	ctx := context.Background()
	auth, db := newAuthService(t)
	users := services.NewUserService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	registered := register(t, auth, "alice", "alice@example.com")

	profile, err := users.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = users.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = users.ChangePassword(ctx, registered.User.ID, &services.ChangePasswordInput{OldPassword: "nope", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, domain.ErrOldPasswordWrong)

	err = users.ChangePassword(ctx, registered.User.ID, &services.ChangePasswordInput{OldPassword: "secret123", NewPassword: "abc"})
	assert.Equal(t, domain.KindInvalid, domain.KindOf(err))

	require.NoError(t, users.ChangePassword(ctx, registered.User.ID, &services.ChangePasswordInput{OldPassword: "secret123", NewPassword: "newsecret"}))

	_, err = auth.Login(ctx, &services.LoginInput{Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = auth.Login(ctx, &services.LoginInput{Email: "alice@example.com", Password: "newsecret"})
	assert.NoError(t, err)

	_, err = auth.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}
