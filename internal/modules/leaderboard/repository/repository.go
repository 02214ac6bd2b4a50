package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/pkg/apperror"
)

type LeaderboardRepository interface {
	CreatePointLog(log *entity.PointLog) error
	// CreditEntry upserts the team's ledger row, adding points and optionally
	// counting one donation. Creation is idempotent on team ID: repeated
	// credits update the same row, never create duplicates.
	CreditEntry(teamID, displayName string, points int, countDonation bool) error
	GetEntry(teamID string) (*entity.LedgerEntry, error)
	AllEntries() ([]entity.LedgerEntry, error)
	// ArchiveAndClear persists the snapshot and empties the ledger in a single
	// transaction. If the snapshot write fails the ledger is left untouched.
	ArchiveAndClear(snapshot *entity.LeaderboardSnapshot) error
	GetHistory(limit int) ([]entity.LeaderboardSnapshot, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) CreatePointLog(log *entity.PointLog) error {
	return r.db.Create(log).Error
}

func (r *leaderboardRepository) CreditEntry(teamID, displayName string, points int, countDonation bool) error {
	countInc := 0
	if countDonation {
		countInc = 1
	}

	// GORM OnConflict upsert keyed on team_id
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "team_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":          gorm.Expr("ledger_entries.points + ?", points),
			"donation_count":  gorm.Expr("ledger_entries.donation_count + ?", countInc),
			"last_updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&entity.LedgerEntry{
		TeamID:        teamID,
		DisplayName:   displayName,
		Points:        points,
		DonationCount: countInc,
	}).Error
}

func (r *leaderboardRepository) GetEntry(teamID string) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.Where("team_id = ?", teamID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absence is an expected, common case for new teams.
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *leaderboardRepository) AllEntries() ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	if err := r.db.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *leaderboardRepository) ArchiveAndClear(snapshot *entity.LeaderboardSnapshot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Archive first. A failure here rolls back with the old ledger intact.
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&entity.LedgerEntry{}).Error
	})
}

func (r *leaderboardRepository) GetHistory(limit int) ([]entity.LeaderboardSnapshot, error) {
	var snapshots []entity.LeaderboardSnapshot
	q := r.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("rank ASC")
	}).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
