package structure

import (
	"context"
	"database/sql"
	"fmt"

	"alfredoramos.mx/site-builder/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Replace discards every page and component of the website and inserts the
// given tree. It must run inside the caller's transaction, any error leaves
// the transaction to be rolled back.
func (w *Writer) Replace(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID, pages []PageInput) error {
	db := tx.WithContext(ctx)

	pageIDs := db.Model(&models.Page{}).Select("id").Where("website_id = @website_id", sql.Named("website_id", websiteID))

	if err := db.Where("page_id IN (?)", pageIDs).Delete(&models.Component{}).Error; err != nil {
		return fmt.Errorf("Could not delete page components: %w", err)
	}

	if err := db.Where("website_id = @website_id", sql.Named("website_id", websiteID)).Delete(&models.Page{}).Error; err != nil {
		return fmt.Errorf("Could not delete website pages: %w", err)
	}

	for i, p := range pages {
		page := &models.Page{
			WebsiteID: websiteID,
			Name:      p.Name,
			Path:      p.Path,
			SortOrder: orDefault(p.SortOrder, i),
			Meta:      p.Meta.JSON(),
		}
		if err := db.Create(page).Error; err != nil {
			return fmt.Errorf("Could not create page '%s': %w", p.Path, err)
		}

		if len(p.Components) < 1 {
			continue
		}

		components := make([]models.Component, 0, len(p.Components))

		for j, c := range p.Components {
			components = append(components, models.Component{
				PageID:     page.ID,
				Type:       c.Type,
				OrderIndex: orDefault(c.OrderIndex, j),
				Props:      c.Props.JSON(),
				Styles:     c.Styles.JSON(),
			})
		}

		if err := db.Create(&components).Error; err != nil {
			return fmt.Errorf("Could not create components for page '%s': %w", p.Path, err)
		}
	}

	return nil
}

func orDefault(v *int, position int) int {
	if v == nil {
		return position
	}

	return *v
}
