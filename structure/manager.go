package structure

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Manager is the only way structural changes reach a website. Every change
// first stores the structure it is about to overwrite, all within one
// transaction.
type Manager struct {
	db        *gorm.DB
	reader    *Reader
	writer    *Writer
	snapshots *SnapshotStore
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:        db,
		reader:    NewReader(),
		writer:    NewWriter(),
		snapshots: NewSnapshotStore(),
	}
}

func (m *Manager) Structure(ctx context.Context, websiteID uuid.UUID) (*Structure, error) {
	return m.reader.Read(ctx, m.db, websiteID)
}

func (m *Manager) ReplaceStructure(ctx context.Context, websiteID uuid.UUID, userID uuid.UUID, pages []PageInput, opts ReplaceOptions) (*Structure, error) {
	if err := ValidatePages(pages); err != nil {
		return nil, err
	}

	var result *Structure

	if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := m.reader.Read(ctx, tx, websiteID)
		if err != nil {
			return err
		}

		if opts.ExpectedVersion != nil {
			latest, err := m.snapshots.Latest(ctx, tx, websiteID)
			if err != nil {
				return err
			}

			if latest != *opts.ExpectedVersion {
				return ErrConflict
			}
		}

		if _, err := m.snapshots.Create(ctx, tx, websiteID, userID, current); err != nil {
			return err
		}

		if err := m.writer.Replace(ctx, tx, websiteID, pages); err != nil {
			return err
		}

		result, err = m.reader.Read(ctx, tx, websiteID)

		return err
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (m *Manager) RestoreVersion(ctx context.Context, websiteID uuid.UUID, userID uuid.UUID, versionNumber int) (*Structure, error) {
	var result *Structure

	if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := m.reader.Exists(ctx, tx, websiteID); err != nil {
			return err
		}

		target, err := m.snapshots.Get(ctx, tx, websiteID, versionNumber)
		if err != nil {
			return err
		}

		current, err := m.reader.Read(ctx, tx, websiteID)
		if err != nil {
			return err
		}

		if _, err := m.snapshots.Create(ctx, tx, websiteID, userID, current); err != nil {
			return err
		}

		if err := m.writer.Replace(ctx, tx, websiteID, InputsFromPages(target.Pages)); err != nil {
			return err
		}

		result, err = m.reader.Read(ctx, tx, websiteID)

		return err
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (m *Manager) Versions(ctx context.Context, websiteID uuid.UUID) ([]VersionInfo, error) {
	if err := m.reader.Exists(ctx, m.db, websiteID); err != nil {
		return nil, err
	}

	return m.snapshots.List(ctx, m.db, websiteID)
}

func (m *Manager) Version(ctx context.Context, websiteID uuid.UUID, versionNumber int) (*Snapshot, error) {
	if err := m.reader.Exists(ctx, m.db, websiteID); err != nil {
		return nil, err
	}

	return m.snapshots.Get(ctx, m.db, websiteID, versionNumber)
}
