package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Category    *string        `gorm:"size:100" json:"category"`
	Description *string        `gorm:"type:text" json:"description"`
	Websites    []Website      `json:"-"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

func (b Business) GetID() uuid.UUID {
	return b.ID
}

func (b Business) GetCreatedAt() time.Time {
	return b.CreatedAt
}

func (b Business) GetCategory() string {
	if b.Category == nil {
		return ""
	}

	return *b.Category
}
