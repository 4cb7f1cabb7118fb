package storeapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

type loginPayload struct {
	Password string `json:"password"`
}

// adminLogin is a UI gate, not an authz boundary: a plain comparison against
// the configured admin password, exchanged for a bearer token so the admin
// endpoints can be grouped behind jwt middleware.
func (s *Server) adminLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if s.cfg.Web.AdminPassword == "" || payload.Password != s.cfg.Web.AdminPassword {
		return fail(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Wrong password", nil)
	}
	if s.cfg.Web.JwtSecret == "" {
		// open deployment: admin routes are not gated, no token needed
		return c.JSON(http.StatusOK, map[string]string{"token": ""})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(12 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"token": signed})
}
