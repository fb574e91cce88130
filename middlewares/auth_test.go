package middlewares

import (
	"net/http/httptest"
	"testing"

	"alfredoramos.mx/site-builder/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"Bearer":           "",
		"Bearer ":          "",
		"Basic dXNlcjpwdw": "",
		"Bearer abc.def":   "abc.def",
		"bearer  abc.def ": "abc.def",
	}

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(bearerToken(c))
	})

	for header, want := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, header)

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		body := make([]byte, 64)
		n, _ := resp.Body.Read(body)
		resp.Body.Close()

		if got := string(body[:n]); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestAuthProtectedRequiresToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthProtected(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestValidateAccessTokenRejectsRefreshTokens(t *testing.T) {
	id := uuid.New()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(utils.ClaimsContextKey(), &utils.CustomJwtClaims{
			Type: utils.TokenTypeRefresh,
			User: utils.UserClaimData{ID: id, Email: "owner@example.com"},
		})

		return c.Next()
	}, ValidateAccessToken(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
	}
}
