package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"alfredoramos.mx/site-builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterTemplateRoutes(g fiber.Router) {
	g.Use(middlewares.AuthProtected(), middlewares.ValidateAccessToken(), middlewares.CheckPermissions())

	g.Get("/all", controllers.GetTemplates).Name("api.templates.all")
	g.Get("/:id", controllers.GetTemplate).Name("api.templates.get")
}
