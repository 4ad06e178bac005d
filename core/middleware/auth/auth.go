package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber.Ctx locals key holding the authenticated user id.
const UserIDKey = "user_id"

// APIKeyHeader carries the service API key.
const APIKeyHeader = "X-API-Key"

// Config holds the secrets checked by the middleware. Empty values disable a check.
type Config struct {
	// ApiKey is compared in constant time with the X-API-Key header.
	ApiKey string
	// ApiKeyHash is a bcrypt hash compared with the X-API-Key header; it wins over ApiKey.
	ApiKeyHash string
	// JWTSecret verifies bearer tokens.
	JWTSecret string
}

// New returns a middleware that checks the API key and, when a bearer token is
// sent, stores the user id it carries under UserIDKey.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKeyHash != "" || cfg.ApiKey != "" {
			key := c.Get(APIKeyHeader)
			if key == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "missing api key")
			}
			if !validKey(cfg, key) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid api key")
			}
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || cfg.JWTSecret == "" {
			return c.Next()
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid auth header format")
		}
		claims, err := ParseToken(parts[1], cfg.JWTSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		userID, err := claims.UserID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// Required rejects requests that carry no authenticated user.
func Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserID(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication credentials were not provided")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDKey).(uint)
	return id, ok && id != 0
}

func validKey(cfg Config, key string) bool {
	if cfg.ApiKeyHash != "" {
		return CheckKey(key, cfg.ApiKeyHash)
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) == 1
}
