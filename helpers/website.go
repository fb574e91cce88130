package helpers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSlugAttempts int = 20

type WebsiteCreateInput struct {
	BusinessID uuid.UUID `json:"businessId"`
	TemplateID uuid.UUID `json:"templateId"`
	Name       string    `json:"name"`
	Slug       *string   `json:"slug,omitempty"`
}

type WebsiteUpdateInput struct {
	Name     *string             `json:"name,omitempty"`
	Slug     *string             `json:"slug,omitempty"`
	Settings *structure.Document `json:"settings,omitempty"`
	SEO      *structure.Document `json:"seo,omitempty"`
}

// OwnedWebsite resolves a website through its business. A website whose
// business was deleted does not exist anymore.
func OwnedWebsite(ctx context.Context, db *gorm.DB, userID uuid.UUID, id uuid.UUID) (*models.Website, error) {
	website := &models.Website{}

	if err := db.WithContext(ctx).Where("id = @id", sql.Named("id", id)).First(website).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, structure.ErrNotFound
		}

		return nil, fmt.Errorf("Could not get website: %w", err)
	}

	business, err := OwnedBusiness(ctx, db, userID, website.BusinessID)
	if err != nil {
		return nil, err
	}

	website.Business = business

	return website, nil
}

// CreateWebsite instantiates a template into a new draft website. The
// template pages are enhanced for the business category before they are
// written.
func CreateWebsite(ctx context.Context, db *gorm.DB, userID uuid.UUID, in WebsiteCreateInput) (*models.Website, error) {
	verr := &structure.ValidationError{}
	name := strings.TrimSpace(in.Name)

	if len(name) < 1 || len(name) > 150 {
		verr.Add("name", "The website name must be between 1 and 150 characters long.")
	}

	if in.TemplateID == uuid.Nil {
		verr.Add("templateId", "The template is required.")
	}

	if in.Slug != nil && !utils.IsValidSlug(*in.Slug) {
		verr.Add("slug", "The slug may only contain lowercase letters, numbers and dashes.")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	business, err := OwnedBusiness(ctx, db, userID, in.BusinessID)
	if err != nil {
		return nil, err
	}

	tpl := &models.Template{}
	active := true
	if err := db.WithContext(ctx).Where(&models.Template{ID: in.TemplateID, Active: &active}).First(tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, structure.ErrNotFound
		}

		return nil, fmt.Errorf("Could not get template: %w", err)
	}

	pages, err := TemplatePages(tpl)
	if err != nil {
		return nil, err
	}

	pages = EnhancePages(pages, business.GetCategory())

	website := &models.Website{
		BusinessID: business.ID,
		TemplateID: &tpl.ID,
		Name:       name,
	}

	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := availableSlug(ctx, tx, in.Slug, name)
		if err != nil {
			return err
		}

		website.Slug = slug

		if err := tx.Create(website).Error; err != nil {
			return err
		}

		return structure.NewWriter().Replace(ctx, tx, website.ID, pages)
	}); err != nil {
		if errors.Is(err, structure.ErrValidation) {
			return nil, err
		}

		return nil, fmt.Errorf("Could not create website: %w", err)
	}

	website.Business = business

	return website, nil
}

func UpdateWebsite(ctx context.Context, db *gorm.DB, website *models.Website, in WebsiteUpdateInput) error {
	changes := map[string]any{}
	verr := &structure.ValidationError{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)

		if len(name) < 1 || len(name) > 150 {
			verr.Add("name", "The website name must be between 1 and 150 characters long.")
		}

		changes["name"] = name
	}

	if in.Slug != nil && *in.Slug != website.Slug {
		if !utils.IsValidSlug(*in.Slug) {
			verr.Add("slug", "The slug may only contain lowercase letters, numbers and dashes.")
		} else if taken, err := SlugTaken(ctx, db, *in.Slug); err != nil {
			return err
		} else if taken {
			verr.Add("slug", "This slug has been taken.")
		}

		changes["slug"] = *in.Slug
	}

	if in.Settings != nil {
		changes["settings"] = in.Settings.JSON()
	}

	if in.SEO != nil {
		changes["seo"] = in.SEO.JSON()
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	if len(changes) < 1 {
		return nil
	}

	if err := db.WithContext(ctx).Model(&models.Website{}).Where("id = @id", sql.Named("id", website.ID)).Updates(changes).Error; err != nil {
		return fmt.Errorf("Could not update website: %w", err)
	}

	return reloadWebsite(ctx, db, website)
}

// DeleteWebsite soft deletes the website. Its version history is kept.
func DeleteWebsite(ctx context.Context, db *gorm.DB, website *models.Website) error {
	if err := db.WithContext(ctx).Delete(website).Error; err != nil {
		return fmt.Errorf("Could not delete website: %w", err)
	}

	return nil
}

// PublishWebsite moves a draft to PUBLISHED and stamps published_at. It
// reports whether the status changed, publishing twice is a no-op.
func PublishWebsite(ctx context.Context, db *gorm.DB, website *models.Website) (bool, error) {
	now := time.Now().In(utils.DefaultLocation())

	return setWebsiteStatus(ctx, db, website, models.WebsiteStatusPublished, &now)
}

// UnpublishWebsite moves a website back to DRAFT and clears published_at.
func UnpublishWebsite(ctx context.Context, db *gorm.DB, website *models.Website) (bool, error) {
	return setWebsiteStatus(ctx, db, website, models.WebsiteStatusDraft, nil)
}

func setWebsiteStatus(ctx context.Context, db *gorm.DB, website *models.Website, status string, publishedAt *time.Time) (bool, error) {
	res := db.WithContext(ctx).Model(&models.Website{}).
		Where("id = @id AND status <> @status", sql.Named("id", website.ID), sql.Named("status", status)).
		Updates(map[string]any{"status": status, "published_at": publishedAt})
	if res.Error != nil {
		return false, fmt.Errorf("Could not change website status: %w", res.Error)
	}

	if err := reloadWebsite(ctx, db, website); err != nil {
		return false, err
	}

	return res.RowsAffected > 0, nil
}

func reloadWebsite(ctx context.Context, db *gorm.DB, website *models.Website) error {
	business := website.Business

	if err := db.WithContext(ctx).Where("id = @id", sql.Named("id", website.ID)).First(website).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return structure.ErrNotFound
		}

		return fmt.Errorf("Could not reload website: %w", err)
	}

	website.Business = business

	return nil
}

// SlugTaken also counts deleted websites, their slugs are never reused.
func SlugTaken(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64

	if err := db.WithContext(ctx).Unscoped().Model(&models.Website{}).
		Where("slug = @slug", sql.Named("slug", slug)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("Could not check slug availability: %w", err)
	}

	return count > 0, nil
}

// availableSlug keeps a requested slug as is and derives one from the
// name otherwise, adding a numeric suffix until it is free.
func availableSlug(ctx context.Context, db *gorm.DB, requested *string, name string) (string, error) {
	if requested != nil {
		taken, err := SlugTaken(ctx, db, *requested)
		if err != nil {
			return "", err
		}

		if taken {
			verr := &structure.ValidationError{}
			verr.Add("slug", "This slug has been taken.")
			return "", verr
		}

		return *requested, nil
	}

	base := utils.Slugify(name)
	if len(base) < utils.MinSlugLength {
		base = strings.Trim(base+"-site", "-")
	}

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base

		if i > 1 {
			suffix := fmt.Sprintf("-%d", i)
			candidate = strings.TrimRight(base[:min(len(base), utils.MaxSlugLength-len(suffix))], "-") + suffix
		}

		taken, err := SlugTaken(ctx, db, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}

	random, err := utils.RandomString(6)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s", base[:min(len(base), utils.MaxSlugLength-7)], strings.ToLower(random)), nil
}
