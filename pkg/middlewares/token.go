package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenUserID resolved caller id, set c.locals name
	TokenUserID = "UserID"
)

// TokenResolver resolve a raw token to the caller id
type TokenResolver interface {
	Resolve(token string) (uint, error)
}

// JWTMiddleware Authorization: Bearer 優先, 其次 query auth, 最後 cookie auth_token
func JWTMiddleware(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))

		if tokenStr == "" {
			tokenStr = c.Query(QueryToken)
		}

		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Missing token",
			})
		}

		userID, err := resolver.Resolve(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
			})
		}

		c.Locals(TokenUserID, userID)
		return c.Next()
	}
}

// UserID get caller id set by JWTMiddleware
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(TokenUserID).(uint)
	return id, ok && id != 0
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
