package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"alfredoramos.mx/site-builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterBusinessRoutes(g fiber.Router) {
	g.Use(middlewares.AuthProtected(), middlewares.ValidateAccessToken(), middlewares.CheckPermissions())

	g.Get("/all", controllers.GetBusinesses).Name("api.businesses.all")
	g.Post("/add", controllers.AddBusiness).Name("api.businesses.add")
	g.Get("/:id", middlewares.BusinessOwner(), controllers.GetBusiness).Name("api.businesses.get")
	g.Patch("/:id", middlewares.BusinessOwner(), controllers.UpdateBusiness).Name("api.businesses.update")
	g.Delete("/:id", middlewares.BusinessOwner(), controllers.DeleteBusiness).Name("api.businesses.delete")
}
