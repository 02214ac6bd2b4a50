package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointLog records every credit applied to the ledger, one row per scored
// donation. The ledger row is the aggregate; the log is the audit trail.
type PointLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TeamID     string    `gorm:"size:50;index:idx_team_date,priority:1;not null" json:"team_id"`
	DonationID uuid.UUID `gorm:"type:uuid;index" json:"donation_id"`
	Points     int       `gorm:"not null" json:"points"`
	CreatedAt  time.Time `gorm:"index:idx_team_date,priority:2;index:idx_date" json:"created_at"`
}

// LedgerEntry is one row per contributing team: cumulative points and
// donation count for the current scoring period. Points never decrease
// outside of a period reset.
type LedgerEntry struct {
	TeamID        string    `gorm:"size:50;primaryKey" json:"team_id"`
	DisplayName   string    `gorm:"size:100;not null" json:"display_name"`
	Points        int       `gorm:"default:0" json:"points"`
	DonationCount int       `gorm:"default:0" json:"donation_count"`
	LastUpdatedAt time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// LeaderboardSnapshot is an immutable capture of the top teams at the moment
// of a period reset. Created only by the reset operation, never mutated.
type LeaderboardSnapshot struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PeriodLabel string          `gorm:"size:50;not null" json:"period_label"`
	Entries     []SnapshotEntry `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE" json:"entries"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (s *LeaderboardSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SnapshotEntry struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	SnapshotID    uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Rank          int       `gorm:"not null" json:"rank"`
	TeamID        string    `gorm:"size:50;not null" json:"team_id"`
	DisplayName   string    `gorm:"size:100" json:"display_name"`
	Points        int       `gorm:"not null" json:"points"`
	DonationCount int       `gorm:"not null" json:"donation_count"`
	Badge         string    `gorm:"size:20" json:"badge"`
}
