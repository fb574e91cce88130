package routes

import (
	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"github.com/gofiber/fiber/v2"
)

func RegisterErrorHandlers(g fiber.Router) {
	// 404 Handler
	g.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{"error": []string{app.Translate(c, helpers.MsgNotFound, nil)}})
	})
}
