package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WebsiteStatusDraft     string = "DRAFT"
	WebsiteStatusPublished string = "PUBLISHED"
)

type Website struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique" json:"id"`
	BusinessID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"business_id"`
	Business    *Business      `json:"-"`
	TemplateID  *uuid.UUID     `gorm:"type:uuid" json:"template_id"`
	Template    *Template      `json:"-"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Slug        string         `gorm:"size:100;not null;unique" json:"slug"`
	Status      string         `gorm:"size:20;not null;default:DRAFT;check:status IN ('DRAFT','PUBLISHED')" json:"status"`
	Settings    datatypes.JSON `gorm:"not null" json:"settings"`
	SEO         datatypes.JSON `gorm:"column:seo;not null" json:"seo"`
	PublishedAt *time.Time     `json:"published_at"`
	Pages       []Page         `json:"-"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (w *Website) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)

	if len(w.Status) < 1 {
		w.Status = WebsiteStatusDraft
	}

	if len(w.Settings) < 1 {
		w.Settings = datatypes.JSON("{}")
	}

	if len(w.SEO) < 1 {
		w.SEO = datatypes.JSON("{}")
	}

	return nil
}

func (w Website) GetID() uuid.UUID {
	return w.ID
}

func (w Website) GetCreatedAt() time.Time {
	return w.CreatedAt
}

func (w Website) IsPublished() bool {
	return w.Status == WebsiteStatusPublished
}
