package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), "test-secret", 15*24*time.Hour)
}

func TestLoginRoundTrip(t *testing.T) {
	auth := newAuthService(t)
	require.NoError(t, auth.SeedAdmin("admin", "s3cret"))

	token, user, err := auth.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, token)

	caller, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.UserID)
	assert.Equal(t, "admin", caller.Username)
}

func TestLoginFailures(t *testing.T) {
	auth := newAuthService(t)
	require.NoError(t, auth.SeedAdmin("admin", "s3cret"))

	_, _, err := auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login("", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newAuthService(t)
	_, err := auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// A token signed with a different secret must not validate.
	other := NewAuthService(newTestDB(t), "other-secret", time.Hour)
	require.NoError(t, other.SeedAdmin("admin", "pw"))
	token, _, err := other.Login("admin", "pw")
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedAdminIdempotent(t *testing.T) {
	auth := newAuthService(t)
	require.NoError(t, auth.SeedAdmin("admin", "s3cret"))
	require.NoError(t, auth.SeedAdmin("admin", "different"))

	// The original password still works; the seed never overwrites.
	_, _, err := auth.Login("admin", "s3cret")
	assert.NoError(t, err)
}

func TestProfileUpdate(t *testing.T) {
	auth := newAuthService(t)
	require.NoError(t, auth.SeedAdmin("admin", "s3cret"))

	updated, err := auth.UpdateProfile("admin", ProfileInput{
		Name:     "Store Owner",
		Address:  "Main St 1",
		Phone:    "0123456789",
		Age:      35,
		Logo:     "logo.png",
		Password: "newpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Store Owner", updated.Name)

	_, _, err = auth.Login("admin", "newpass")
	assert.NoError(t, err)
	_, _, err = auth.Login("admin", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	profile, err := auth.GetPublicProfile()
	require.NoError(t, err)
	assert.Equal(t, "Store Owner", profile.Name)
	assert.Equal(t, "logo.png", profile.Logo)

	_, err = auth.GetProfile("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
