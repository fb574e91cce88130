package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pages and components are replaced as a whole on every structural change,
// so they are hard-deleted and keep auto-increment keys that follow
// insertion order.
type Page struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	WebsiteID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"website_id"`
	Name       string         `gorm:"size:150;not null" json:"name"`
	Path       string         `gorm:"size:255;not null" json:"path"`
	SortOrder  int            `gorm:"not null;default:0" json:"sort_order"`
	Meta       datatypes.JSON `gorm:"not null" json:"meta"`
	Components []Component    `json:"components"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"-"`
}

type Component struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PageID     uint           `gorm:"not null;index" json:"page_id"`
	Type       string         `gorm:"size:100;not null" json:"type"`
	OrderIndex int            `gorm:"not null;default:0" json:"order_index"`
	Props      datatypes.JSON `gorm:"not null" json:"props"`
	Styles     datatypes.JSON `gorm:"not null" json:"styles"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"-"`
}
