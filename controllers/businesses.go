package controllers

import (
	"database/sql"
	"fmt"
	"log/slog"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/middlewares"
	"alfredoramos.mx/site-builder/models"
	"github.com/gofiber/fiber/v2"
)

func GetBusinesses(c *fiber.Ctx) error {
	query := app.DB().WithContext(c.UserContext()).Model(&models.Business{}).
		Where("owner_id = @owner_id", sql.Named("owner_id", helpers.GetUserID(c)))

	return helpers.PaginateQuery([]models.Business{}, query, c, helpers.PaginatedItemOpts{RouteName: "api.businesses.all"})
}

func GetBusiness(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(middlewares.Business(c))
}

func AddBusiness(c *fiber.Ctx) error {
	input := helpers.BusinessInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The business data is invalid."},
		})
	}

	business, err := helpers.CreateBusiness(c.UserContext(), app.DB(), helpers.GetUserID(c), input)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(business)
}

func UpdateBusiness(c *fiber.Ctx) error {
	input := helpers.BusinessInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The business data is invalid."},
		})
	}

	business := middlewares.Business(c)

	if err := helpers.UpdateBusiness(c.UserContext(), app.DB(), business, input); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(business)
}

func DeleteBusiness(c *fiber.Ctx) error {
	slugs, err := helpers.DeleteBusiness(c.UserContext(), app.DB(), middlewares.Business(c))
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	invalidatePublicCache(c, slugs...)

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}
