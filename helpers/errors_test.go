package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"alfredoramos.mx/site-builder/structure"
	"github.com/gofiber/fiber/v2"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{structure.ErrNotFound, fiber.StatusNotFound},
		{fmt.Errorf("Could not get version: %w", structure.ErrNotFound), fiber.StatusNotFound},
		{structure.ErrForbidden, fiber.StatusForbidden},
		{&structure.ValidationError{}, fiber.StatusBadRequest},
		{structure.ErrConflict, fiber.StatusConflict},
		{errors.New("pq: relation does not exist"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got, _ := ErrorStatus(tc.err); got != tc.want {
			t.Errorf("ErrorStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorResponse(t *testing.T) {
	verr := &structure.ValidationError{}
	verr.Add("pages.0.name", "The page name is required.")

	errs := map[string]error{
		"/missing":    structure.ErrNotFound,
		"/validation": verr,
		"/broken":     errors.New("pq: connection refused"),
	}

	app := fiber.New()
	for path, err := range errs {
		err := err
		app.Get(path, func(c *fiber.Ctx) error {
			return ErrorResponse(c, err)
		})
	}

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/missing", fiber.StatusNotFound, `{"error":["The requested resource could not be found."]}`},
		{"/validation", fiber.StatusBadRequest, `{"error":{"pages.0.name":["The page name is required."]}}`},
		{"/broken", fiber.StatusInternalServerError, `{"error":["Something went wrong."]}`},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.status)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}

			var got, want any
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode body %s: %v", body, err)
			}

			_ = json.Unmarshal([]byte(tc.body), &want)

			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("body = %s, want %s", body, tc.body)
			}
		})
	}
}
