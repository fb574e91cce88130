package structure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alfredoramos.mx/site-builder/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Read loads the website and its tree. Pages are ordered by sort order and
// components by order index, both using the insertion id as tie-break.
func (r *Reader) Read(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID) (*Structure, error) {
	db := tx.WithContext(ctx)

	website, err := r.website(db, websiteID)
	if err != nil {
		return nil, err
	}

	pages := []models.Page{}
	if err := db.Where("website_id = @website_id", sql.Named("website_id", websiteID)).
		Order("sort_order ASC, id ASC").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("Could not read website pages: %w", err)
	}

	byPage := map[uint][]Component{}

	if len(pages) > 0 {
		ids := make([]uint, 0, len(pages))

		for _, p := range pages {
			ids = append(ids, p.ID)
		}

		components := []models.Component{}
		if err := db.Where("page_id IN @page_ids", sql.Named("page_ids", ids)).
			Order("order_index ASC, id ASC").
			Find(&components).Error; err != nil {
			return nil, fmt.Errorf("Could not read page components: %w", err)
		}

		for _, c := range components {
			byPage[c.PageID] = append(byPage[c.PageID], Component{
				ID:         c.ID,
				Type:       c.Type,
				OrderIndex: c.OrderIndex,
				Props:      DecodeDocument(c.Props),
				Styles:     DecodeDocument(c.Styles),
			})
		}
	}

	s := &Structure{
		Website: websiteInfo(website),
		Pages:   make([]Page, 0, len(pages)),
	}

	for _, p := range pages {
		components := byPage[p.ID]

		if components == nil {
			components = []Component{}
		}

		s.Pages = append(s.Pages, Page{
			ID:         p.ID,
			Name:       p.Name,
			Path:       p.Path,
			SortOrder:  p.SortOrder,
			Meta:       DecodeDocument(p.Meta),
			Components: components,
		})
	}

	return s, nil
}

// Exists reports ErrNotFound for unknown or deleted websites.
func (r *Reader) Exists(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID) error {
	_, err := r.website(tx.WithContext(ctx), websiteID)
	return err
}

func (r *Reader) website(db *gorm.DB, websiteID uuid.UUID) (*models.Website, error) {
	website := &models.Website{}
	if err := db.Where("id = @id", sql.Named("id", websiteID)).First(website).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("Could not read website: %w", err)
	}

	return website, nil
}

func websiteInfo(w *models.Website) WebsiteInfo {
	return WebsiteInfo{
		ID:         w.ID,
		BusinessID: w.BusinessID,
		TemplateID: w.TemplateID,
		Name:       w.Name,
		Slug:       w.Slug,
		Status:     w.Status,
		Settings:   DecodeDocument(w.Settings),
		SEO:        DecodeDocument(w.SEO),
	}
}
