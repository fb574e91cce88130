package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"alfredoramos.mx/site-builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterSystemRoutes(g fiber.Router) {
	// Public
	g.Get("/csrf", controllers.GetCsrf).Name("api.system.csrf")

	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateAccessToken(), middlewares.CheckPermissions())
	g.Post("/cache/purge", controllers.PurgeCache).Name("api.system.cache.purge")
	g.Post("/cache/warm", controllers.WarmCache).Name("api.system.cache.warm")
}
