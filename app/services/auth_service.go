package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ephremw/gebeya/app/jobs"
	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/auth"
	"github.com/ephremw/gebeya/pkg/crypt"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/queue"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken       = errors.New("email is already registered")
	ErrInvalidSession   = errors.New("invalid or expired session")
	ErrInvalidResetCode = errors.New("invalid or expired reset code")
)

const resetCodeTTL = 15 * time.Minute

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements registration, login, session refresh and the
// emailed password-reset flow.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt-hashed password and logs them in.
func (s *AuthService) Register(name, email, password string) (models.User, TokenPair, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, TokenPair{}, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hashed, Role: "user"}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.issueTokens(&user)
	return user, pair, err
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(&user)
	return user, pair, err
}

// Refresh rotates the refresh token: the presented token is spent and a
// new pair is issued, so a stolen token works at most once.
func (s *AuthService) Refresh(refreshToken string) (models.User, TokenPair, error) {
	user, err := s.users.FindByRefreshToken(crypt.Hash(refreshToken), time.Now())
	if err != nil {
		return models.User{}, TokenPair{}, ErrInvalidSession
	}

	pair, err := s.issueTokens(&user)
	return user, pair, err
}

// Logout drops the stored refresh token, ending the session server-side.
func (s *AuthService) Logout(userID uint) error {
	return s.users.ClearRefreshToken(userID)
}

// issueTokens mints an access JWT and stores the digest of a new opaque
// refresh token on the user row.
func (s *AuthService) issueTokens(user *models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, digest, err := auth.GenerateRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}

	expiry := time.Now().Add(auth.RefreshTokenTTL)
	user.RefreshToken = digest
	user.RefreshTokenExpiry = &expiry
	if err := s.users.Update(user); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ForgotPassword generates a 6-digit code, stores its digest with a 15
// minute expiry, and emails the code through the queue. Unknown emails are
// a silent no-op so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code, err := sixDigitCode()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(resetCodeTTL)
	user.ResetCode = crypt.Hash(code)
	user.ResetCodeExpiry = &expiry
	if err := s.users.Update(&user); err != nil {
		return err
	}

	if err := queue.Dispatch(&jobs.ResetCodeEmail{Email: user.Email, Code: code}); err != nil {
		logger.Error("auth: dispatch reset email", "error", err)
		return err
	}
	return nil
}

// VerifyResetCode checks a code without spending it, so the UI can gate
// the new-password form.
func (s *AuthService) VerifyResetCode(email, code string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return ErrInvalidResetCode
	}
	if !s.resetCodeValid(&user, code) {
		return ErrInvalidResetCode
	}
	return nil
}

// ResetPassword spends a valid code and sets the new password. All
// sessions are revoked by clearing the refresh token.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return ErrInvalidResetCode
	}
	if !s.resetCodeValid(&user, code) {
		return ErrInvalidResetCode
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.Password = hashed
	user.ResetCode = ""
	user.ResetCodeExpiry = nil
	user.RefreshToken = ""
	user.RefreshTokenExpiry = nil
	return s.users.Update(&user)
}

func (s *AuthService) resetCodeValid(user *models.User, code string) bool {
	if user.ResetCode == "" || user.ResetCodeExpiry == nil {
		return false
	}
	if time.Now().After(*user.ResetCodeExpiry) {
		return false
	}
	return user.ResetCode == crypt.Hash(code)
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
