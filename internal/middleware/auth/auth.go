package auth

import (
	"net/http"
	"strings"

	"github.com/Skotchmaster/sweetshop/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Gate authenticates bearer tokens and resolves them to active accounts.
type Gate struct {
	DB          *gorm.DB
	JWTSecret   []byte
	AdminEmails []string
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			return echo.NewHTTPError(http.StatusUnauthorized, "no authentication token, access denied")
		}

		userID, err := ParseAccessToken(raw, g.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is not valid")
		}

		var user models.User
		if err := g.DB.First(&user, userID).Error; err != nil || !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found or inactive")
		}

		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("email", user.Email)

		return next(c)
	}
}

func (g *Gate) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "access denied, admin rights required")
		}
		return next(c)
	}
}

// DashboardOnly admits admins plus the configured allow-list of dashboard
// operator emails. The list is policy data, not logic.
func (g *Gate) DashboardOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role == models.RoleAdmin {
			return next(c)
		}
		email, _ := c.Get("email").(string)
		for _, allowed := range g.AdminEmails {
			if strings.EqualFold(email, allowed) {
				return next(c)
			}
		}
		return echo.NewHTTPError(http.StatusForbidden, "access denied, admin rights required")
	}
}
