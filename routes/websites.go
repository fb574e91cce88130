package routes

import (
	"alfredoramos.mx/site-builder/controllers"
	"alfredoramos.mx/site-builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterWebsiteRoutes(g fiber.Router) {
	g.Use(middlewares.AuthProtected(), middlewares.ValidateAccessToken(), middlewares.CheckPermissions())

	g.Get("/all", controllers.GetWebsites).Name("api.websites.all")
	g.Post("/add", controllers.AddWebsite).Name("api.websites.add")

	// Owned website
	w := g.Group("/:id", middlewares.WebsiteOwner())
	w.Get("", controllers.GetWebsite).Name("api.websites.get")
	w.Patch("", controllers.UpdateWebsite).Name("api.websites.update")
	w.Delete("", controllers.DeleteWebsite).Name("api.websites.delete")
	w.Patch("/publish", controllers.PublishWebsite).Name("api.websites.publish")
	w.Patch("/unpublish", controllers.UnpublishWebsite).Name("api.websites.unpublish")

	// Structure and versions
	w.Get("/structure", controllers.GetStructure).Name("api.websites.structure")
	w.Put("/structure", controllers.ReplaceStructure).Name("api.websites.structure.replace")
	w.Get("/versions", controllers.GetVersions).Name("api.websites.versions")
	w.Get("/versions/:version", controllers.GetVersion).Name("api.websites.versions.get")
	w.Get("/versions/:version/diff", controllers.DiffVersion).Name("api.websites.versions.diff")
	w.Post("/versions/:version/restore", controllers.RestoreVersion).Name("api.websites.versions.restore")
}
