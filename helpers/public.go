package helpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"alfredoramos.mx/site-builder/models"
	"alfredoramos.mx/site-builder/structure"
	"alfredoramos.mx/site-builder/utils"
	"github.com/redis/rueidis"
	"gorm.io/gorm"
)

func publicCacheKey(slug string) string {
	return fmt.Sprintf("public:site:%s", slug)
}

// PublicSite renders the structure of a published website. Drafts and
// unknown slugs are reported as ErrNotFound.
func PublicSite(ctx context.Context, db *gorm.DB, slug string) (*structure.Structure, error) {
	if !utils.IsValidSlug(slug) {
		return nil, structure.ErrNotFound
	}

	website := &models.Website{}
	if err := db.WithContext(ctx).
		Where("slug = @slug AND status = @status", sql.Named("slug", slug), sql.Named("status", models.WebsiteStatusPublished)).
		First(website).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, structure.ErrNotFound
		}

		return nil, fmt.Errorf("Could not get public website: %w", err)
	}

	s, err := structure.NewReader().Read(ctx, db.WithContext(ctx), website.ID)
	if err != nil {
		return nil, err
	}

	SanitizeStructure(s)

	return s, nil
}

// CachedPublicSite returns the encoded public structure, rendering and
// caching it on a miss. Cache failures fall back to the database.
func CachedPublicSite(ctx context.Context, db *gorm.DB, cache rueidis.Client, slug string) ([]byte, error) {
	key := publicCacheKey(slug)

	cached, err := cache.Do(ctx, cache.B().Get().Key(key).Build()).AsBytes()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not get cached public website '%s': %v", slug, err))
	}

	if len(cached) > 0 {
		return cached, nil
	}

	return renderPublicSite(ctx, db, cache, slug)
}

func renderPublicSite(ctx context.Context, db *gorm.DB, cache rueidis.Client, slug string) ([]byte, error) {
	s, err := PublicSite(ctx, db, slug)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("Could not encode public website: %w", err)
	}

	if err := cache.Do(ctx, cache.B().Set().Key(publicCacheKey(slug)).Value(rueidis.BinaryString(raw)).Ex(utils.PublicCacheTTL()).Build()).Error(); err != nil {
		slog.Error(fmt.Sprintf("Could not save public website '%s' to cache: %v", slug, err))
	}

	return raw, nil
}

func InvalidatePublicCache(ctx context.Context, cache rueidis.Client, slugs ...string) error {
	if len(slugs) < 1 {
		return nil
	}

	keys := make([]string, 0, len(slugs))

	for _, slug := range slugs {
		keys = append(keys, publicCacheKey(slug))
	}

	if err := cache.Do(ctx, cache.B().Del().Key(keys...).Build()).Error(); err != nil {
		return fmt.Errorf("Could not invalidate public cache: %w", err)
	}

	return nil
}

// WarmPublicCache renders every published website into the cache and
// returns how many were stored.
func WarmPublicCache(ctx context.Context, db *gorm.DB, cache rueidis.Client) (int, error) {
	slugs := []string{}

	if err := db.WithContext(ctx).Model(&models.Website{}).
		Where("status = @status", sql.Named("status", models.WebsiteStatusPublished)).
		Order("published_at DESC").
		Pluck("slug", &slugs).Error; err != nil {
		return 0, fmt.Errorf("Could not list published websites: %w", err)
	}

	warmed := 0
	errs := []error{}

	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}

		if _, err := renderPublicSite(ctx, db, cache, slug); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slug, err))
			continue
		}

		warmed++
	}

	return warmed, errors.Join(errs...)
}
