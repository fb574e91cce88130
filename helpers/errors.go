package helpers

import (
	"errors"
	"fmt"
	"log/slog"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/structure"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

var (
	MsgNotFound = &i18n.Message{
		ID:    "ErrorNotFound",
		Other: "The requested resource could not be found.",
	}
	MsgForbidden = &i18n.Message{
		ID:    "ErrorForbidden",
		Other: "You are not allowed to access this resource.",
	}
	MsgValidation = &i18n.Message{
		ID:    "ErrorValidation",
		Other: "The submitted data is invalid.",
	}
	MsgConflict = &i18n.Message{
		ID:    "ErrorConflict",
		Other: "The website structure has changed since it was last read. Reload it and try again.",
	}
	MsgUnexpected = &i18n.Message{
		ID:    "ErrorUnexpected",
		Other: "Something went wrong.",
	}
)

// ErrorStatus maps an error kind to its HTTP status and message.
func ErrorStatus(err error) (int, *i18n.Message) {
	switch {
	case errors.Is(err, structure.ErrNotFound):
		return fiber.StatusNotFound, MsgNotFound
	case errors.Is(err, structure.ErrForbidden):
		return fiber.StatusForbidden, MsgForbidden
	case errors.Is(err, structure.ErrValidation):
		return fiber.StatusBadRequest, MsgValidation
	case errors.Is(err, structure.ErrConflict):
		return fiber.StatusConflict, MsgConflict
	}

	return fiber.StatusInternalServerError, MsgUnexpected
}

// ErrorResponse writes the error envelope. Unexpected errors are reported
// to Sentry and never leak their text to the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status, msg := ErrorStatus(err)

	verr := &structure.ValidationError{}
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		return c.Status(status).JSON(&fiber.Map{"error": verr.Fields})
	}

	if status == fiber.StatusInternalServerError {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err))
	}

	return c.Status(status).JSON(&fiber.Map{"error": []string{app.Translate(c, msg, nil)}})
}
