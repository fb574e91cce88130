package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterPublicRoutes(g fiber.Router) {
	g.Get("/sites/:slug", controllers.GetPublicSite).Name("api.public.sites.get")
}
