package models

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRecovery struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	Hash      string         `gorm:"not null;unique" json:"hash"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	User      User           `json:"user"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ar *AccountRecovery) BeforeCreate(tx *gorm.DB) error {
	ensureID(&ar.ID)
	return nil
}

func (ar AccountRecovery) URL() string {
	return fmt.Sprintf("%s/auth/recover?hash=%s", os.Getenv("APP_DOMAIN"), ar.Hash)
}
