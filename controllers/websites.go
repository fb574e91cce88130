package controllers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/middlewares"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/tasks"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetWebsites(c *fiber.Ctx) error {
	businessID, err := uuid.Parse(c.Query("business_id"))
	if err != nil {
		verr := &structure.ValidationError{}
		verr.Add("business_id", "The business is required.")
		return helpers.ErrorResponse(c, verr)
	}

	if _, err := helpers.OwnedBusiness(c.UserContext(), app.DB(), helpers.GetUserID(c), businessID); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	query := app.DB().WithContext(c.UserContext()).Model(&models.Website{}).
		Where("business_id = @business_id", sql.Named("business_id", businessID))

	return helpers.PaginateQuery([]models.Website{}, query, c, helpers.PaginatedItemOpts{RouteName: "api.websites.all"})
}

func GetWebsite(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(middlewares.Website(c))
}

func AddWebsite(c *fiber.Ctx) error {
	input := helpers.WebsiteCreateInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The website data is invalid."},
		})
	}

	website, err := helpers.CreateWebsite(c.UserContext(), app.DB(), helpers.GetUserID(c), input)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(website)
}

func UpdateWebsite(c *fiber.Ctx) error {
	input := helpers.WebsiteUpdateInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The website data is invalid."},
		})
	}

	website := middlewares.Website(c)
	previousSlug := website.Slug

	if err := helpers.UpdateWebsite(c.UserContext(), app.DB(), website, input); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	invalidatePublicCache(c, previousSlug, website.Slug)

	return c.Status(fiber.StatusOK).JSON(website)
}

func DeleteWebsite(c *fiber.Ctx) error {
	website := middlewares.Website(c)

	if err := helpers.DeleteWebsite(c.UserContext(), app.DB(), website); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	invalidatePublicCache(c, website.Slug)

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func PublishWebsite(c *fiber.Ctx) error {
	website := middlewares.Website(c)

	changed, err := helpers.PublishWebsite(c.UserContext(), app.DB(), website)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	if changed {
		invalidatePublicCache(c, website.Slug)

		if err := tasks.NewWebsitePublished(website.ID, helpers.GetUserID(c)); err != nil {
			slog.Error(fmt.Sprintf("Could not notify website publication: %v", err))
		}
	}

	return c.Status(fiber.StatusOK).JSON(website)
}

func UnpublishWebsite(c *fiber.Ctx) error {
	website := middlewares.Website(c)

	changed, err := helpers.UnpublishWebsite(c.UserContext(), app.DB(), website)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	if changed {
		invalidatePublicCache(c, website.Slug)
	}

	return c.Status(fiber.StatusOK).JSON(website)
}

// invalidatePublicCache never fails the request, a stale entry expires on
// its own.
func invalidatePublicCache(c *fiber.Ctx, slugs ...string) {
	ctx, cancel := context.WithTimeout(c.UserContext(), cacheTimeout)
	defer cancel()

	if err := helpers.InvalidatePublicCache(ctx, app.Cache(), slugs...); err != nil {
		sentry.CaptureException(err)
		slog.Error(err.Error())
	}
}
