package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type templateSeed struct {
	Name        string                `yaml:"name"`
	Slug        string                `yaml:"slug"`
	Category    string                `yaml:"category"`
	Description string                `yaml:"description"`
	PreviewURL  string                `yaml:"preview_url"`
	Pages       []structure.PageInput `yaml:"pages"`
}

type templateSeedContainer struct {
	Templates []templateSeed `yaml:"templates"`
}

func setupRoles(database *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleSuperAdmin, Title: "Super administrator"},
		{Name: models.RoleAdmin, Title: "Administrator"},
		{Name: models.RoleUser, Title: "User"},
	}

	for _, r := range roles {
		role := &models.Role{}

		if err := database.Where(&models.Role{Name: r.Name}).Attrs(&models.Role{Title: r.Title}).FirstOrCreate(role).Error; err != nil {
			slog.Error(fmt.Sprintf("Could not create %s role: %v", r.Name, err))
			continue
		}
	}
}

// SeedTemplates loads the template catalog from a YAML file. Existing
// templates, matched by slug, are left untouched.
func SeedTemplates(database *gorm.DB, file string) error {
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("Could not read templates file: %w", err)
	}

	c := &templateSeedContainer{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("Could not decode templates file: %w", err)
	}

	errs := []error{}

	for _, seed := range c.Templates {
		if err := structure.ValidatePages(seed.Pages); err != nil {
			errs = append(errs, fmt.Errorf("Invalid template '%s': %w", seed.Slug, err))
			continue
		}

		pages, err := utils.ToJSON(seed.Pages)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		tpl := &models.Template{}
		if err := database.Where(&models.Template{Slug: seed.Slug}).
			Attrs(&models.Template{
				Name:        seed.Name,
				Category:    utils.ToStringPtr(seed.Category),
				Description: utils.ToStringPtr(seed.Description),
				PreviewURL:  utils.ToStringPtr(seed.PreviewURL),
				Structure:   datatypes.JSON(pages),
			}).
			FirstOrCreate(tpl).Error; err != nil {
			errs = append(errs, fmt.Errorf("Could not create template '%s': %w", seed.Slug, err))
		}
	}

	return errors.Join(errs...)
}

func SetupDefaultData() {
	setupRoles(DB())

	if err := SeedTemplates(DB(), filepath.Join("seeds", "templates.yml")); err != nil {
		slog.Error(fmt.Sprintf("Could not seed templates: %v", err))
	}
}
