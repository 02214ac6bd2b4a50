package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	lbService "sahaaya.org/actionhub/internal/modules/leaderboard/service"
)

// ResetScheduler archives the leaderboard and starts a fresh period on a
// cron schedule, by default at midnight on the first of every month.
type ResetScheduler struct {
	cron        *cron.Cron
	leaderboard lbService.LeaderboardService
	spec        string
	topN        int
}

func NewResetScheduler(leaderboard lbService.LeaderboardService, spec string, topN int) *ResetScheduler {
	if spec == "" {
		spec = "0 0 1 * *"
	}
	return &ResetScheduler{
		cron:        cron.New(),
		leaderboard: leaderboard,
		spec:        spec,
		topN:        topN,
	}
}

func (s *ResetScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runReset); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("⏰ Leaderboard reset scheduler started (spec: %s)", s.spec)
	return nil
}

func (s *ResetScheduler) Stop() {
	s.cron.Stop()
}

func (s *ResetScheduler) runReset() {
	// Fires just after the period rolls over, so the closing period is
	// yesterday's month.
	label := time.Now().AddDate(0, 0, -1).Format("January 2006")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := s.leaderboard.ResetPeriod(ctx, label, s.topN)
	if err != nil {
		log.Printf("❌ Scheduled leaderboard reset failed for %s: %v", label, err)
		return
	}

	log.Printf("✅ Scheduled leaderboard reset archived %d teams for %s", len(snapshot.Entries), label)
}
