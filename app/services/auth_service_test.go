package services_test

import (
	"testing"
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/auth"
	"github.com/ephremw/gebeya/pkg/crypt"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()
	db := testkit.OpenDB(t)
	return services.NewAuthService(repositories.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := newAuthService(t)

	user, pair, err := svc.Register("Abel Girma", "abel@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "user", user.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	// Only the digest of the refresh token lands in the database.
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, crypt.Hash(pair.RefreshToken), stored.RefreshToken)

	_, _, err = svc.Login("abel@example.com", "s3cret-pass")
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register("Abel Girma", "abel@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Register("Someone Else", "abel@example.com", "other-pass")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register("Abel Girma", "abel@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Login("abel@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	_, pair, err := svc.Register("Abel Girma", "abel@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The spent token no longer opens a session.
	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidSession)

	_, _, err = svc.Refresh(next.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutEndsSession(t *testing.T) {
	svc, _ := newAuthService(t)

	user, pair, err := svc.Register("Abel Girma", "abel@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(user.ID))

	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidSession)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, db := newAuthService(t)

	user, _, err := svc.Register("Abel Girma", "abel@example.com", "old-pass")
	require.NoError(t, err)

	// Plant a known code the way ForgotPassword would.
	expiry := time.Now().Add(10 * time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"reset_code":        crypt.Hash("123456"),
		"reset_code_expiry": expiry,
	}).Error)

	require.NoError(t, svc.VerifyResetCode("abel@example.com", "123456"))
	assert.ErrorIs(t, svc.VerifyResetCode("abel@example.com", "654321"), services.ErrInvalidResetCode)

	require.NoError(t, svc.ResetPassword("abel@example.com", "123456", "new-pass"))

	_, _, err = svc.Login("abel@example.com", "old-pass")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = svc.Login("abel@example.com", "new-pass")
	require.NoError(t, err)

	// The code is single use.
	assert.ErrorIs(t, svc.ResetPassword("abel@example.com", "123456", "again"),
		services.ErrInvalidResetCode)
}

func TestExpiredResetCodeRejected(t *testing.T) {
	svc, db := newAuthService(t)

	user, _, err := svc.Register("Abel Girma", "abel@example.com", "old-pass")
	require.NoError(t, err)

	expiry := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"reset_code":        crypt.Hash("123456"),
		"reset_code_expiry": expiry,
	}).Error)

	assert.ErrorIs(t, svc.VerifyResetCode("abel@example.com", "123456"), services.ErrInvalidResetCode)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	// Silent no-op so the endpoint cannot probe for accounts.
	require.NoError(t, svc.ForgotPassword("nobody@example.com"))
}
