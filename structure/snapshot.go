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

// SnapshotStore keeps the append-only version history of websites. The
// unique (website_id, version_number) index turns a concurrent duplicate
// number into a storage error.
type SnapshotStore struct{}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Create(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID, userID uuid.UUID, st *Structure) (*models.WebsiteVersion, error) {
	doc, err := EncodeSnapshot(st)
	if err != nil {
		return nil, err
	}

	latest, err := s.Latest(ctx, tx, websiteID)
	if err != nil {
		return nil, err
	}

	version := &models.WebsiteVersion{
		WebsiteID:     websiteID,
		VersionNumber: latest + 1,
		Snapshot:      doc,
		CreatedByID:   userID,
	}
	if err := tx.WithContext(ctx).Create(version).Error; err != nil {
		return nil, fmt.Errorf("Could not create version %d: %w", version.VersionNumber, err)
	}

	return version, nil
}

// Latest returns the highest version number of the website, 0 when it has
// no history yet.
func (s *SnapshotStore) Latest(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID) (int, error) {
	latest := 0

	if err := tx.WithContext(ctx).Model(&models.WebsiteVersion{}).
		Where("website_id = @website_id", sql.Named("website_id", websiteID)).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&latest).Error; err != nil {
		return 0, fmt.Errorf("Could not get latest version: %w", err)
	}

	return latest, nil
}

// List returns version metadata only, newest first.
func (s *SnapshotStore) List(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID) ([]VersionInfo, error) {
	versions := []VersionInfo{}

	if err := tx.WithContext(ctx).Model(&models.WebsiteVersion{}).
		Select("id", "website_id", "version_number", "created_by_id", "created_at").
		Where("website_id = @website_id", sql.Named("website_id", websiteID)).
		Order("version_number DESC").
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("Could not list versions: %w", err)
	}

	return versions, nil
}

func (s *SnapshotStore) Get(ctx context.Context, tx *gorm.DB, websiteID uuid.UUID, versionNumber int) (*Snapshot, error) {
	version := &models.WebsiteVersion{}

	if err := tx.WithContext(ctx).
		Where("website_id = @website_id AND version_number = @version_number", sql.Named("website_id", websiteID), sql.Named("version_number", versionNumber)).
		First(version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("Could not get version %d: %w", versionNumber, err)
	}

	website, pages := DecodeSnapshot(version.Snapshot)

	return &Snapshot{
		VersionInfo: VersionInfo{
			ID:            version.ID,
			WebsiteID:     version.WebsiteID,
			VersionNumber: version.VersionNumber,
			CreatedByID:   version.CreatedByID,
			CreatedAt:     version.CreatedAt,
		},
		SchemaVersion: CurrentSchemaVersion,
		Website:       website,
		Pages:         pages,
	}, nil
}
