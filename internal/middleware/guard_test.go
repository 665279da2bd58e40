package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/account-service/internal/model"
	"github.com/iliyamo/account-service/internal/repository"
	"github.com/iliyamo/account-service/internal/utils"
)

func setupGuard(t *testing.T) (*echo.Echo, *utils.TokenManager, *model.User, *model.User) {
	t.Helper()
	store := repository.NewMemoryRepo()
	ctx := context.Background()
	alice := &model.User{Username: "alice", Email: "alice@example.com", Role: model.RoleUser, IsActive: true}
	root := &model.User{Username: "root", Email: "root@example.com", Role: model.RoleAdmin, IsActive: true}
	require.NoError(t, store.Create(ctx, alice))
	require.NoError(t, store.Create(ctx, root))

	tokens := utils.NewTokenManager("guard-secret", "", 30*time.Minute)
	e := echo.New()
	auth := e.Group("", Authenticate(tokens, store))
	auth.GET("/me", func(c echo.Context) error {
		u, _ := CurrentUser(c)
		return c.String(http.StatusOK, u.Email)
	})
	auth.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "admin area")
	}, RequireRole(model.RoleAdmin))
	return e, tokens, alice, root
}

func do(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateResolvesUser(t *testing.T) {
	e, tokens, alice, _ := setupGuard(t)
	tok, err := tokens.Issue(alice.ID)
	require.NoError(t, err)

	rec := do(e, "/me", "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", rec.Body.String())

	rec = do(e, "/me", "bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejects(t *testing.T) {
	e, tokens, _, _ := setupGuard(t)
	ghost, err := tokens.Issue(404)
	require.NoError(t, err)
	expired, err := utils.NewTokenManager("guard-secret", "", time.Minute).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		Issue(1)
	require.NoError(t, err)
	forged, err := utils.NewTokenManager("other-secret", "", time.Minute).Issue(1)
	require.NoError(t, err)

	cases := map[string]string{
		"no header":       "",
		"wrong scheme":    "Basic YWxpY2U6cHc=",
		"empty token":     "Bearer ",
		"garbage":         "Bearer not-a-jwt",
		"unknown subject": "Bearer " + ghost.Token,
		"expired":         "Bearer " + expired.Token,
		"wrong secret":    "Bearer " + forged.Token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, "/me", header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}
}

func TestRequireRole(t *testing.T) {
	e, tokens, alice, root := setupGuard(t)
	userTok, err := tokens.Issue(alice.ID)
	require.NoError(t, err)
	adminTok, err := tokens.Issue(root.ID)
	require.NoError(t, err)

	rec := do(e, "/admin", "Bearer "+userTok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, "/admin", "Bearer "+adminTok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole(model.RoleAdmin))

	rec := do(e, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestElapsed(t *testing.T) {
	e := echo.New()
	var got time.Duration
	e.GET("/", func(c echo.Context) error {
		time.Sleep(2 * time.Millisecond)
		got = Elapsed(c)
		return c.NoContent(http.StatusOK)
	}, RequestTimer())

	do(e, "/", "")
	assert.GreaterOrEqual(t, got, 2*time.Millisecond)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Zero(t, Elapsed(c))
}
