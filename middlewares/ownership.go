package middlewares

import (
	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	BusinessContextKey string = "business"
	WebsiteContextKey  string = "website"
)

// BusinessOwner loads the business named by the :id route parameter. It
// responds 404 for unknown businesses and 403 for someone else's.
func BusinessOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return helpers.ErrorResponse(c, structure.ErrNotFound)
		}

		business, err := helpers.OwnedBusiness(c.UserContext(), app.DB(), helpers.GetUserID(c), id)
		if err != nil {
			return helpers.ErrorResponse(c, err)
		}

		c.Locals(BusinessContextKey, business)

		return c.Next()
	}
}

// WebsiteOwner resolves the website named by :id through its business.
func WebsiteOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return helpers.ErrorResponse(c, structure.ErrNotFound)
		}

		website, err := helpers.OwnedWebsite(c.UserContext(), app.DB(), helpers.GetUserID(c), id)
		if err != nil {
			return helpers.ErrorResponse(c, err)
		}

		c.Locals(WebsiteContextKey, website)

		return c.Next()
	}
}

func Business(c *fiber.Ctx) *models.Business {
	business, _ := c.Locals(BusinessContextKey).(*models.Business)
	return business
}

func Website(c *fiber.Ctx) *models.Website {
	website, _ := c.Locals(WebsiteContextKey).(*models.Website)
	return website
}
