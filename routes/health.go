package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"github.com/gofiber/fiber/v2"
)

func RegisterHealthCheckRoutes(g fiber.Router) {
	g.Get("/health", controllers.HealthCheck).Name("api.health")
}
