package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrImmutableVersion = errors.New("Website versions cannot be modified.")

// WebsiteVersion is an append-only snapshot of a website structure taken
// right before it was overwritten.
type WebsiteVersion struct {
	ID            uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	WebsiteID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_website_version" json:"website_id"`
	VersionNumber int            `gorm:"not null;uniqueIndex:idx_website_version;check:version_number > 0" json:"version_number"`
	Snapshot      datatypes.JSON `gorm:"not null" json:"-"`
	CreatedByID   uuid.UUID      `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (v *WebsiteVersion) BeforeCreate(tx *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

func (v *WebsiteVersion) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableVersion
}

func (v *WebsiteVersion) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableVersion
}
