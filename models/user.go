package models

import (
	"strings"
	"time"

	"alfredoramos.mx/site-builder/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	FirstName          *string        `gorm:"size:100" json:"first_name"`
	LastName           *string        `gorm:"size:100" json:"last_name"`
	Email              string         `gorm:"size:100;not null;unique" json:"email"`
	Password           string         `gorm:"size:255;not null" json:"-"`
	Active             *bool          `gorm:"not null;default:true" json:"active"`
	LastLogin          *time.Time     `json:"-"`
	LastPasswordChange *time.Time     `json:"-"`
	Businesses         []Business     `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt          time.Time      `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt          time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Scrambles the password so a soft-deleted account can never log in again.
func (u *User) BeforeDelete(tx *gorm.DB) error {
	password, err := utils.RandomPassword(35)
	if err != nil {
		return err
	}

	active := false
	now := time.Now().In(utils.DefaultLocation())

	return tx.Model(&User{}).Where("id = ?", u.ID).Updates(&User{
		Password:           utils.HashPassword(password),
		Active:             &active,
		LastPasswordChange: &now,
	}).Error
}

func (u User) GetID() uuid.UUID {
	return u.ID
}

func (u User) GetCreatedAt() time.Time {
	return u.CreatedAt
}

func (u User) IsActive() bool {
	return u.Active != nil && *u.Active
}

func (u User) GetFullName() string {
	parts := []string{}

	if u.FirstName != nil {
		parts = append(parts, strings.TrimSpace(*u.FirstName))
	}

	if u.LastName != nil {
		parts = append(parts, strings.TrimSpace(*u.LastName))
	}

	n := strings.TrimSpace(strings.Join(parts, " "))

	if len(n) < 1 {
		n = strings.Split(u.Email, "@")[0]
	}

	return n
}
