package controllers

import (
	"database/sql"
	"errors"
	"strings"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GetTemplates(c *fiber.Ctx) error {
	query := app.DB().WithContext(c.UserContext()).Model(&models.Template{}).
		Omit("structure").
		Where("active = @active", sql.Named("active", true))

	if category := strings.TrimSpace(c.Query("category")); len(category) > 0 {
		query = query.Where("LOWER(category) = @category", sql.Named("category", strings.ToLower(category)))
	}

	return helpers.PaginateQuery([]models.Template{}, query, c, helpers.PaginatedItemOpts{RouteName: "api.templates.all"})
}

func GetTemplate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.ErrorResponse(c, structure.ErrNotFound)
	}

	active := true
	tpl := &models.Template{}
	if err := app.DB().WithContext(c.UserContext()).Where(&models.Template{ID: id, Active: &active}).First(tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = structure.ErrNotFound
		}

		return helpers.ErrorResponse(c, err)
	}

	pages, err := helpers.TemplatePages(tpl)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"id":          tpl.ID,
		"name":        tpl.Name,
		"slug":        tpl.Slug,
		"category":    tpl.Category,
		"description": tpl.Description,
		"preview_url": tpl.PreviewURL,
		"pages":       pages,
	})
}
