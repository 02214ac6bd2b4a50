package service

import (
	"context"

	lbRepository "sahaaya.org/actionhub/internal/modules/leaderboard/repository"
	userRepository "sahaaya.org/actionhub/internal/modules/user/repository"
)

// Stats is the aggregate shown on the landing page.
type Stats struct {
	TotalTeams     int64 `json:"total_teams"`
	TotalUsers     int64 `json:"total_users"`
	TotalPoints    int64 `json:"total_points"`
	TotalDonations int64 `json:"total_donations"`
	TopScore       int   `json:"top_score"`
}

type StatService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statService struct {
	lbRepo   lbRepository.LeaderboardRepository
	userRepo userRepository.UserRepository
}

func NewStatService(lbRepo lbRepository.LeaderboardRepository, userRepo userRepository.UserRepository) StatService {
	return &statService{lbRepo: lbRepo, userRepo: userRepo}
}

// GetStats aggregates over the active ledger only; archived periods are not
// included, matching what the current leaderboard shows.
func (s *statService) GetStats(ctx context.Context) (*Stats, error) {
	entries, err := s.lbRepo.AllEntries()
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalTeams: int64(len(entries))}
	for _, entry := range entries {
		stats.TotalPoints += int64(entry.Points)
		stats.TotalDonations += int64(entry.DonationCount)
		if entry.Points > stats.TopScore {
			stats.TopScore = entry.Points
		}
	}

	if s.userRepo != nil {
		if users, err := s.userRepo.CountUsers(ctx); err == nil {
			stats.TotalUsers = users
		}
	}

	return stats, nil
}
