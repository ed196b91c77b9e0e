package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/port"
)

const userLocalKey = "authUser"

// Authenticate verifies the Bearer token and loads the caller into the
// request context. Missing, malformed, or expired tokens get a 401.
func Authenticate(users port.UserRepository, jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return httpx.UnauthorizedResponse(c, "Authentication token not provided")
		}

		claims := jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return jwtSecret, nil
		})
		if err != nil || !parsed.Valid {
			return httpx.UnauthorizedResponse(c, "Invalid or expired token")
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			return httpx.UnauthorizedResponse(c, "Invalid token subject")
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			return httpx.UnauthorizedResponse(c, "User not found")
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireAdmin is the capability gate for administrative routes. It must run
// after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			return httpx.ForbiddenResponse(c, "Admin privileges required")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller stashed by Authenticate.
func CurrentUser(c *fiber.Ctx) domain.User {
	user, _ := c.Locals(userLocalKey).(domain.User)
	return user
}
