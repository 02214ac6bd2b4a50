package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/internal/modules/leaderboard/repository"
	notifService "sahaaya.org/actionhub/internal/modules/notification/service"
	"sahaaya.org/actionhub/pkg/apperror"
)

// DefaultResetTopN is how many teams each period snapshot preserves.
const DefaultResetTopN = 5

// CreditInput carries one scored donation into the ledger.
type CreditInput struct {
	TeamID        string
	DisplayName   string
	Points        int
	DonationID    uuid.UUID
	UserID        uuid.UUID // submitting user, receives badge promotion notifications
	CountDonation bool
}

type LeaderboardService interface {
	Score(items []Item, amount int) (int, error)
	Credit(ctx context.Context, in CreditInput) (*entity.LedgerEntry, error)
	GetEntry(ctx context.Context, teamID string) (*entity.LedgerEntry, error)
	GetLeaderboard(opts RankOptions) ([]RankedEntry, error)
	GetHistory(limit int) ([]entity.LeaderboardSnapshot, error)
	ResetPeriod(ctx context.Context, periodLabel string, topN int) (*entity.LeaderboardSnapshot, error)
	BadgeFor(points int) string
	BadgeStatus(points int) BadgeStatus
}

type leaderboardService struct {
	repo                repository.LeaderboardRepository
	scorer              Scorer
	badges              *BadgeClassifier
	notificationService notifService.NotificationService
	resetTopN           int

	// Serializes all ledger mutations. A reset must never observe a
	// half-applied credit, nor a credit land on a ledger mid-clear.
	mu sync.Mutex
}

func NewLeaderboardService(
	repo repository.LeaderboardRepository,
	scorer Scorer,
	badges *BadgeClassifier,
	notificationService notifService.NotificationService,
	resetTopN int,
) LeaderboardService {
	if resetTopN <= 0 {
		resetTopN = DefaultResetTopN
	}
	return &leaderboardService{
		repo:                repo,
		scorer:              scorer,
		badges:              badges,
		notificationService: notificationService,
		resetTopN:           resetTopN,
	}
}

func (s *leaderboardService) Score(items []Item, amount int) (int, error) {
	return s.scorer.Score(items, amount)
}

// Credit applies points to the team's ledger row, creating it on first
// donation. Negative points are rejected before touching storage; a credit
// either fully lands (row updated, point log written) or not at all.
func (s *leaderboardService) Credit(ctx context.Context, in CreditInput) (*entity.LedgerEntry, error) {
	if in.TeamID == "" {
		return nil, apperror.ErrInvalidInput
	}
	if in.Points < 0 {
		return nil, apperror.ErrInvalidPoints
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previousPoints := 0
	if prev, err := s.repo.GetEntry(in.TeamID); err == nil {
		previousPoints = prev.Points
	}
	previousBadge := s.badges.BadgeFor(previousPoints)

	if err := s.repo.CreditEntry(in.TeamID, in.DisplayName, in.Points, in.CountDonation); err != nil {
		return nil, err
	}

	logEntry := &entity.PointLog{
		TeamID:     in.TeamID,
		DonationID: in.DonationID,
		Points:     in.Points,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreatePointLog(logEntry); err != nil {
		log.Printf("Failed to create point log for team %s: %v", in.TeamID, err)
	}

	entry, err := s.repo.GetEntry(in.TeamID)
	if err != nil {
		return nil, err
	}

	newBadge := s.badges.BadgeFor(entry.Points)
	if newBadge != previousBadge && s.notificationService != nil && in.UserID != uuid.Nil {
		s.sendBadgeUpNotification(ctx, in.UserID, in.TeamID, previousBadge, newBadge, entry.Points)
	}

	return entry, nil
}

func (s *leaderboardService) sendBadgeUpNotification(ctx context.Context, userID uuid.UUID, teamID, previousBadge, newBadge string, points int) {
	notification := &entity.Notification{
		UserID:     userID,
		EntityID:   teamID,
		EntityType: "team",
		Type:       "badge_up",
		Message:    fmt.Sprintf("🎉 Congratulations! Team %s moved up from %s to %s with %d points!", teamID, previousBadge, newBadge, points),
		IsRead:     false,
	}

	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to send badge up notification to user %s: %v", userID, err)
	}
}

func (s *leaderboardService) GetEntry(ctx context.Context, teamID string) (*entity.LedgerEntry, error) {
	return s.repo.GetEntry(teamID)
}

func (s *leaderboardService) GetLeaderboard(opts RankOptions) ([]RankedEntry, error) {
	entries, err := s.repo.AllEntries()
	if err != nil {
		return nil, err
	}
	return Rank(entries, s.badges, opts), nil
}

func (s *leaderboardService) GetHistory(limit int) ([]entity.LeaderboardSnapshot, error) {
	return s.repo.GetHistory(limit)
}

// ResetPeriod archives the top teams of the closing period into an immutable
// snapshot and clears the active ledger. Archive and clear run as one
// transaction: if archiving fails the ledger stays as it was. Resetting an
// empty ledger is legal and yields an empty snapshot.
func (s *leaderboardService) ResetPeriod(ctx context.Context, periodLabel string, topN int) (*entity.LeaderboardSnapshot, error) {
	if periodLabel == "" {
		periodLabel = time.Now().Format("January 2006")
	}
	if topN <= 0 {
		topN = s.resetTopN
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.repo.AllEntries()
	if err != nil {
		return nil, err
	}

	ranked := Rank(entries, s.badges, RankOptions{SortKey: SortByPoints, Direction: Descending})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	snapshot := &entity.LeaderboardSnapshot{
		PeriodLabel: periodLabel,
		CreatedAt:   time.Now(),
	}
	for _, re := range ranked {
		snapshot.Entries = append(snapshot.Entries, entity.SnapshotEntry{
			Rank:          re.Rank,
			TeamID:        re.TeamID,
			DisplayName:   re.DisplayName,
			Points:        re.Points,
			DonationCount: re.DonationCount,
			Badge:         re.Badge,
		})
	}

	if err := s.repo.ArchiveAndClear(snapshot); err != nil {
		return nil, fmt.Errorf("failed to archive period %q: %w", periodLabel, err)
	}

	log.Printf("📊 Leaderboard reset for %s: archived %d teams", periodLabel, len(snapshot.Entries))
	return snapshot, nil
}

func (s *leaderboardService) BadgeFor(points int) string {
	return s.badges.BadgeFor(points)
}

func (s *leaderboardService) BadgeStatus(points int) BadgeStatus {
	return s.badges.StatusFor(points)
}
