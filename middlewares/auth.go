package middlewares

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func jwtError(c *fiber.Ctx, msg string, err error) error {
	if err != nil {
		slog.Error(fmt.Sprintf("Access token error: %v", err))
	}

	return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{"error": []string{msg}})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)

	if len(header) <= 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

// AuthProtected decrypts and verifies the bearer token and stores it,
// along with its claims, in the request locals.
func AuthProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)

		if len(token) < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{"Invalid access token."},
			})
		}

		claims, err := utils.ParseJWEClaims(token)
		if err != nil {
			sentry.CaptureException(err)
			return jwtError(c, "Invalid or expired access token.", err)
		}

		c.Locals(utils.AccessTokenContextKey(), token)
		c.Locals(utils.ClaimsContextKey(), claims)

		return c.Next()
	}
}

// ValidateAccessToken must run after AuthProtected.
func ValidateAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := helpers.Claims(c)
		now := time.Now().In(utils.DefaultLocation())

		if err := claims.Validate(utils.TokenTypeAccess, now); err != nil {
			return jwtError(c, err.Error(), err)
		}

		revoked, err := helpers.IsTokenRevoked(c.UserContext(), utils.TokenTypeAccess, claims.ID)
		if err != nil {
			return jwtError(c, "Could not validate access token.", err)
		}

		if revoked {
			return jwtError(c, "Revoked access token.", nil)
		}

		if !helpers.UserExists(claims.User.ID, claims.User.Email) {
			return jwtError(c, "The access token is not valid.", nil)
		}

		return c.Next()
	}
}

// ValidateRefreshToken checks the refresh token cookie against the access
// token of the same request.
func ValidateRefreshToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		refreshJWE := c.Cookies(utils.RefreshTokenContextKey())
		if len(refreshJWE) < 1 {
			return jwtError(c, "The refresh token is not valid.", nil)
		}

		refreshClaims, err := utils.ParseJWEClaims(refreshJWE)
		if err != nil {
			sentry.CaptureException(err)
			return jwtError(c, "Invalid refresh token.", err)
		}

		now := time.Now().In(utils.DefaultLocation())

		if err := refreshClaims.Validate(utils.TokenTypeRefresh, now); err != nil {
			return jwtError(c, err.Error(), err)
		}

		revoked, err := helpers.IsTokenRevoked(c.UserContext(), utils.TokenTypeRefresh, refreshClaims.ID)
		if err != nil {
			return jwtError(c, "Could not validate refresh token.", err)
		}

		if revoked {
			return jwtError(c, "Revoked refresh token.", nil)
		}

		accessClaims := helpers.Claims(c)

		if accessClaims.User.ID != refreshClaims.User.ID {
			return jwtError(c, "The subject is not valid.", nil)
		}

		if refreshClaims.Expiry.Time().Before(accessClaims.Expiry.Time()) {
			return jwtError(c, "The refresh token is no longer valid.", nil)
		}

		c.Locals(utils.RefreshTokenContextKey(), refreshClaims)

		return c.Next()
	}
}

func CheckPermissions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := helpers.GetUserID(c)

		if helpers.HasPermission(id, c.Path(), c.Method()) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(&fiber.Map{
			"error": []string{"You are not allowed to access this resource."},
		})
	}
}

func AuthLimiter() fiber.Handler {
	cfg := limiter.Config{
		Max:        25,
		Expiration: 5 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(&fiber.Map{"error": []string{"Too many requests received within a short amount of time."}})
		},
	}

	return limiter.New(cfg)
}
