package controllers

import (
	"errors"
	"net/http"

	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/auth"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
)

const refreshCookie = "refresh_token"

// AuthController handles registration, login, session refresh and the
// password-reset flow.
type AuthController struct {
	service *services.AuthService
	users   *repositories.UserRepository
}

func NewAuthController(service *services.AuthService, users *repositories.UserRepository) *AuthController {
	return &AuthController{service: service, users: users}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates an account and logs the new user straight in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Error(w, http.StatusConflict, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not create account")
		return
	}

	setAuthCookies(w, pair)
	response.Created(w, map[string]interface{}{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token pair.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.service.Login(req.Email, req.Password)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
		return
	}

	setAuthCookies(w, pair)
	response.Success(w, map[string]interface{}{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"nullable"`
}

// Refresh rotates the session. The refresh token is read from the cookie
// for browser clients, or from the body for API clients.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if _, err := bind.JSON(r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		response.Unauthorized(w)
		return
	}

	user, pair, err := c.service.Refresh(token)
	if err != nil {
		clearAuthCookies(w)
		response.Error(w, http.StatusUnauthorized, services.ErrInvalidSession.Error())
		return
	}

	setAuthCookies(w, pair)
	response.Success(w, map[string]interface{}{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout revokes the refresh token and clears the session cookies.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	if err := c.service.Logout(userID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not log out")
		return
	}
	clearAuthCookies(w)
	response.Message(w, "Logged out")
}

// CheckAccess reports whether the presented token is still valid. The
// storefront calls it on load to decide between guest and account views.
func (c *AuthController) CheckAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	role, _ := middleware.RoleFromCtx(r)
	response.Success(w, map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, err := c.users.FindByID(userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword emails a reset code. The response is identical whether or
// not the address exists.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ForgotPassword(req.Email); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not start password reset")
		return
	}
	response.Message(w, "If that email is registered, a reset code has been sent")
}

type verifyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,digits=6"`
}

// VerifyResetCode checks a reset code without consuming it.
func (c *AuthController) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req verifyResetRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.VerifyResetCode(req.Email, req.Code); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, services.ErrInvalidResetCode.Error())
		return
	}
	response.Message(w, "Code is valid")
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,digits=6"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPassword consumes a valid code and sets the new password.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ResetPassword(req.Email, req.Code, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetCode) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not reset password")
		return
	}
	response.Message(w, "Password updated, please log in")
}

func setAuthCookies(w http.ResponseWriter, pair services.TokenPair) {
	secure := config.AppEnv() == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/api/auth",
		MaxAge:   int(auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: middleware.AccessCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: "", Path: "/api/auth", MaxAge: -1, HttpOnly: true})
}
