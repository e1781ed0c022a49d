package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Skotchmaster/sweetshop/internal/mykafka"
	"github.com/labstack/echo/v4"
)

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"success": false,
		"message": message,
	})
}

// GetUserID reads the account id the auth gate stored on the context.
func GetUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, fmt.Errorf("no authenticated user in context")
	}
	return id, nil
}

func GetRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func forbidden(c echo.Context) error {
	return respondError(c, http.StatusForbidden, "access denied")
}
