package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/sweetshop/internal/config"
	"github.com/Skotchmaster/sweetshop/internal/models"
)

var testSecret = []byte("test-secret")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func contextWithAuth(e *echo.Echo, header string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := SignAccessToken(42, models.RoleCustomer, testSecret)
	require.NoError(t, err)

	userID, err := ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, uint(42), userID)
}

func TestParseAccessTokenRejections(t *testing.T) {
	valid, err := SignAccessToken(42, models.RoleCustomer, testSecret)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	// Signed with HS256 but the wrong key family check still applies.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": valid + "x",
		"expired":      expired,
		"alg none":     unsigned,
	} {
		_, err := ParseAccessToken(raw, testSecret)
		require.Error(t, err, name)
		// One opaque message for every failure mode.
		require.EqualError(t, err, "invalid token", name)
	}

	_, err = ParseAccessToken(valid, []byte("other-secret"))
	require.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	db := newTestDB(t)
	gate := &Gate{DB: db, JWTSecret: testSecret}
	e := echo.New()
	h := gate.RequireAuth(okHandler)

	user := seedUser(t, db, "asha@example.com", models.RoleCustomer, true)
	token, err := SignAccessToken(user.ID, user.Role, testSecret)
	require.NoError(t, err)

	requireHTTPError(t, h(contextWithAuth(e, "")), http.StatusUnauthorized)
	requireHTTPError(t, h(contextWithAuth(e, "Basic abc")), http.StatusUnauthorized)
	requireHTTPError(t, h(contextWithAuth(e, "Bearer garbage")), http.StatusUnauthorized)

	c := contextWithAuth(e, "Bearer "+token)
	require.NoError(t, h(c))
	require.Equal(t, user.ID, c.Get("userID"))
	require.Equal(t, models.RoleCustomer, c.Get("role"))
	require.Equal(t, "asha@example.com", c.Get("email"))
}

func TestRequireAuthInactiveUser(t *testing.T) {
	db := newTestDB(t)
	gate := &Gate{DB: db, JWTSecret: testSecret}
	e := echo.New()
	h := gate.RequireAuth(okHandler)

	user := seedUser(t, db, "gone@example.com", models.RoleCustomer, false)
	token, err := SignAccessToken(user.ID, user.Role, testSecret)
	require.NoError(t, err)

	requireHTTPError(t, h(contextWithAuth(e, "Bearer "+token)), http.StatusUnauthorized)

	// A token for an account that no longer exists is equally dead.
	orphan, err := SignAccessToken(9999, models.RoleCustomer, testSecret)
	require.NoError(t, err)
	requireHTTPError(t, h(contextWithAuth(e, "Bearer "+orphan)), http.StatusUnauthorized)
}

func TestAdminOnly(t *testing.T) {
	gate := &Gate{}
	e := echo.New()
	h := gate.AdminOnly(okHandler)

	c := contextWithAuth(e, "")
	c.Set("role", models.RoleCustomer)
	requireHTTPError(t, h(c), http.StatusForbidden)

	c = contextWithAuth(e, "")
	c.Set("role", models.RoleAdmin)
	require.NoError(t, h(c))
}

func TestDashboardOnly(t *testing.T) {
	gate := &Gate{AdminEmails: []string{"ops@example.com"}}
	e := echo.New()
	h := gate.DashboardOnly(okHandler)

	c := contextWithAuth(e, "")
	c.Set("role", models.RoleAdmin)
	require.NoError(t, h(c))

	// Allow-listed operator email passes regardless of role, case-insensitively.
	c = contextWithAuth(e, "")
	c.Set("role", models.RoleCustomer)
	c.Set("email", "OPS@example.com")
	require.NoError(t, h(c))

	c = contextWithAuth(e, "")
	c.Set("role", models.RoleCustomer)
	c.Set("email", "someone@example.com")
	requireHTTPError(t, h(c), http.StatusForbidden)
}
