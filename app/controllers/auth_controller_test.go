package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ephremw/gebeya/app/controllers"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/router"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testkit.OpenDB(t)
	users := repositories.NewUserRepository(db)
	ctrl := controllers.NewAuthController(services.NewAuthService(users), users)

	r := router.New()
	r.Post("/api/auth/register", "", ctrl.Register)
	r.Post("/api/auth/login", "", ctrl.Login)
	r.Post("/api/auth/refresh-token", "", ctrl.Refresh)
	return r.Handler()
}

func TestRegisterSetsSessionCookies(t *testing.T) {
	h := newAuthRouter(t)

	rec := postJSON(t, h, "/api/auth/register",
		`{"name": "Sara Tesfaye", "email": "sara@example.com", "password": "s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access := byName["access_token"]
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)

	refresh := byName["refresh_token"]
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/auth", refresh.Path)
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthRouter(t)

	rec := postJSON(t, h, "/api/auth/register",
		`{"name": "S", "email": "not-an-email", "password": "short"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	h := newAuthRouter(t)
	payload := `{"name": "Sara Tesfaye", "email": "sara@example.com", "password": "s3cret-pass"}`

	rec := postJSON(t, h, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	h := newAuthRouter(t)

	rec := postJSON(t, h, "/api/auth/login",
		`{"email": "nobody@example.com", "password": "whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshFromCookie(t *testing.T) {
	h := newAuthRouter(t)

	rec := postJSON(t, h, "/api/auth/register",
		`{"name": "Sara Tesfaye", "email": "sara@example.com", "password": "s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			refresh = c
		}
	}
	require.NotNil(t, refresh)

	rec = postJSON(t, h, "/api/auth/refresh-token", "", refresh)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The spent cookie no longer refreshes.
	rec = postJSON(t, h, "/api/auth/refresh-token", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshWithoutToken(t *testing.T) {
	h := newAuthRouter(t)

	rec := postJSON(t, h, "/api/auth/refresh-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
