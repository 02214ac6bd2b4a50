package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // User who receives the notification
	EntityID   string    `gorm:"type:varchar(100)" json:"entity_id"`      // Team ID or donation ID the event refers to
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"` // 'team' or 'donation'
	Type       string    `gorm:"type:varchar(50);not null" json:"type"`        // 'badge_up', 'donation_verified'
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
