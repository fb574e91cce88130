package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a reusable website layout. Structure holds the list of pages
// in the same shape the builder sends when replacing a website structure.
type Template struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Slug        string         `gorm:"size:150;not null;unique" json:"slug"`
	Category    *string        `gorm:"size:100;index" json:"category"`
	Description *string        `gorm:"type:text" json:"description"`
	PreviewURL  *string        `gorm:"type:text" json:"preview_url"`
	Active      *bool          `gorm:"not null;default:true" json:"active"`
	Structure   datatypes.JSON `gorm:"not null" json:"structure,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)

	if len(t.Structure) < 1 {
		t.Structure = datatypes.JSON("[]")
	}

	return nil
}

func (t Template) GetID() uuid.UUID {
	return t.ID
}

func (t Template) GetCreatedAt() time.Time {
	return t.CreatedAt
}
