package helpers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

func (in BusinessInput) Validate(creating bool) error {
	verr := &structure.ValidationError{}

	if in.Name == nil && creating {
		verr.Add("name", "The business name is required.")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)

		if len(name) < 1 {
			verr.Add("name", "The business name is required.")
		} else if len(name) > 150 {
			verr.Add("name", "The business name is longer than the length allowed.")
		}
	}

	if in.Category != nil && len(*in.Category) > 100 {
		verr.Add("category", "The business category is longer than the length allowed.")
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// OwnedBusiness returns ErrNotFound for unknown businesses and ErrForbidden
// when the business belongs to someone else.
func OwnedBusiness(ctx context.Context, db *gorm.DB, userID uuid.UUID, id uuid.UUID) (*models.Business, error) {
	business := &models.Business{}

	if err := db.WithContext(ctx).Where("id = @id", sql.Named("id", id)).First(business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, structure.ErrNotFound
		}

		return nil, fmt.Errorf("Could not get business: %w", err)
	}

	if business.OwnerID != userID {
		return nil, structure.ErrForbidden
	}

	return business, nil
}

func CreateBusiness(ctx context.Context, db *gorm.DB, userID uuid.UUID, in BusinessInput) (*models.Business, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}

	business := &models.Business{
		OwnerID:     userID,
		Name:        strings.TrimSpace(*in.Name),
		Category:    cleanStringPtr(in.Category),
		Description: cleanStringPtr(in.Description),
	}
	if err := db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, fmt.Errorf("Could not create business: %w", err)
	}

	return business, nil
}

func UpdateBusiness(ctx context.Context, db *gorm.DB, business *models.Business, in BusinessInput) error {
	if err := in.Validate(false); err != nil {
		return err
	}

	changes := map[string]any{}

	if in.Name != nil {
		changes["name"] = strings.TrimSpace(*in.Name)
	}

	if in.Category != nil {
		changes["category"] = cleanStringPtr(in.Category)
	}

	if in.Description != nil {
		changes["description"] = cleanStringPtr(in.Description)
	}

	if len(changes) < 1 {
		return nil
	}

	if err := db.WithContext(ctx).Model(business).Updates(changes).Error; err != nil {
		return fmt.Errorf("Could not update business: %w", err)
	}

	return db.WithContext(ctx).Where("id = @id", sql.Named("id", business.ID)).First(business).Error
}

// DeleteBusiness soft deletes the business and its websites.
func DeleteBusiness(ctx context.Context, db *gorm.DB, business *models.Business) ([]string, error) {
	slugs := []string{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Website{}).
			Where("business_id = @business_id", sql.Named("business_id", business.ID)).
			Pluck("slug", &slugs).Error; err != nil {
			return err
		}

		if err := tx.Where("business_id = @business_id", sql.Named("business_id", business.ID)).Delete(&models.Website{}).Error; err != nil {
			return err
		}

		return tx.Delete(business).Error
	})
	if err != nil {
		return nil, fmt.Errorf("Could not delete business: %w", err)
	}

	return slugs, nil
}

func cleanStringPtr(s *string) *string {
	if s == nil {
		return nil
	}

	return utils.ToStringPtr(*s)
}
