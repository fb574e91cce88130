package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleSuperAdmin string = "superadmin"
	RoleAdmin      string = "admin"
	RoleUser       string = "user"
)

type Role struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	Title     string         `gorm:"size:50;not null" json:"title"`
	Name      string         `gorm:"size:50;not null;unique" json:"name"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r Role) GetID() uuid.UUID {
	return r.ID
}

func (r Role) GetCreatedAt() time.Time {
	return r.CreatedAt
}

type UserRole struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	User      User           `json:"-"`
	RoleID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"role_id"`
	Role      Role           `json:"role"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	ensureID(&ur.ID)
	return nil
}
