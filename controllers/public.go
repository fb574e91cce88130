package controllers

import (
	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"github.com/gofiber/fiber/v2"
)

func GetPublicSite(c *fiber.Ctx) error {
	raw, err := helpers.CachedPublicSite(c.UserContext(), app.DB(), app.Cache(), c.Params("slug"))
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	return c.Status(fiber.StatusOK).Send(raw)
}
