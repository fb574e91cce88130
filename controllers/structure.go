package controllers

import (
	"fmt"
	"log/slog"
	"strconv"

	"alfredoramos.mx/site-builder/app"
	"alfredoramos.mx/site-builder/helpers"
	"alfredoramos.mx/site-builder/middlewares"
	"alfredoramos.mx/site-builder/structure"
	"github.com/gofiber/fiber/v2"
)

type replaceStructureInput struct {
	Pages           *[]structure.PageInput `json:"pages"`
	ExpectedVersion *int                   `json:"expectedVersion,omitempty"`
}

// validate rejects bodies without a pages list. An explicit empty list
// clears the website.
func (in replaceStructureInput) validate() error {
	if in.Pages == nil {
		verr := &structure.ValidationError{}
		verr.Add("pages", "The list of pages is required.")

		return verr
	}

	return nil
}

func versionParam(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(c.Params("version"))
	if err != nil || n < 1 {
		return 0, structure.ErrNotFound
	}

	return n, nil
}

func GetStructure(c *fiber.Ctx) error {
	s, err := structure.NewManager(app.DB()).Structure(c.UserContext(), middlewares.Website(c).ID)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(s)
}

func ReplaceStructure(c *fiber.Ctx) error {
	input := replaceStructureInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The website structure is invalid."},
		})
	}

	if err := input.validate(); err != nil {
		return helpers.ErrorResponse(c, err)
	}

	website := middlewares.Website(c)

	s, err := structure.NewManager(app.DB()).ReplaceStructure(
		c.UserContext(),
		website.ID,
		helpers.GetUserID(c),
		*input.Pages,
		structure.ReplaceOptions{ExpectedVersion: input.ExpectedVersion},
	)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	if website.IsPublished() {
		invalidatePublicCache(c, website.Slug)
	}

	return c.Status(fiber.StatusOK).JSON(s)
}

func GetVersions(c *fiber.Ctx) error {
	versions, err := structure.NewManager(app.DB()).Versions(c.UserContext(), middlewares.Website(c).ID)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{"data": versions})
}

func GetVersion(c *fiber.Ctx) error {
	n, err := versionParam(c)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	snapshot, err := structure.NewManager(app.DB()).Version(c.UserContext(), middlewares.Website(c).ID, n)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(snapshot)
}

func DiffVersion(c *fiber.Ctx) error {
	n, err := versionParam(c)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	var against *int

	if raw := c.Query("against"); len(raw) > 0 && raw != "current" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 {
			verr := &structure.ValidationError{}
			verr.Add("against", "The version to compare against is invalid.")
			return helpers.ErrorResponse(c, verr)
		}

		against = &m
	}

	diff, err := structure.NewManager(app.DB()).Diff(c.UserContext(), middlewares.Website(c).ID, n, against)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(diff)
}

func RestoreVersion(c *fiber.Ctx) error {
	n, err := versionParam(c)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	website := middlewares.Website(c)

	s, err := structure.NewManager(app.DB()).RestoreVersion(c.UserContext(), website.ID, helpers.GetUserID(c), n)
	if err != nil {
		return helpers.ErrorResponse(c, err)
	}

	if website.IsPublished() {
		invalidatePublicCache(c, website.Slug)
	}

	return c.Status(fiber.StatusOK).JSON(s)
}
