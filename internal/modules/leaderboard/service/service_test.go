package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/pkg/apperror"
)

// fakeLeaderboardRepository keeps the ledger in memory, mirroring the
// upsert and transaction semantics of the real Postgres-backed one.
type fakeLeaderboardRepository struct {
	entries     map[string]*entity.LedgerEntry
	pointLogs   []entity.PointLog
	snapshots   []entity.LeaderboardSnapshot
	failArchive bool
}

func newFakeRepo() *fakeLeaderboardRepository {
	return &fakeLeaderboardRepository{entries: make(map[string]*entity.LedgerEntry)}
}

func (f *fakeLeaderboardRepository) CreatePointLog(log *entity.PointLog) error {
	f.pointLogs = append(f.pointLogs, *log)
	return nil
}

func (f *fakeLeaderboardRepository) CreditEntry(teamID, displayName string, points int, countDonation bool) error {
	countInc := 0
	if countDonation {
		countInc = 1
	}
	if existing, ok := f.entries[teamID]; ok {
		existing.Points += points
		existing.DonationCount += countInc
		return nil
	}
	f.entries[teamID] = &entity.LedgerEntry{
		TeamID:        teamID,
		DisplayName:   displayName,
		Points:        points,
		DonationCount: countInc,
	}
	return nil
}

func (f *fakeLeaderboardRepository) GetEntry(teamID string) (*entity.LedgerEntry, error) {
	entry, ok := f.entries[teamID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (f *fakeLeaderboardRepository) AllEntries() ([]entity.LedgerEntry, error) {
	out := make([]entity.LedgerEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (f *fakeLeaderboardRepository) ArchiveAndClear(snapshot *entity.LeaderboardSnapshot) error {
	if f.failArchive {
		return errors.New("disk full")
	}
	f.snapshots = append(f.snapshots, *snapshot)
	f.entries = make(map[string]*entity.LedgerEntry)
	return nil
}

func (f *fakeLeaderboardRepository) GetHistory(limit int) ([]entity.LeaderboardSnapshot, error) {
	out := make([]entity.LeaderboardSnapshot, len(f.snapshots))
	copy(out, f.snapshots)
	// Most recent first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(t *testing.T, repo *fakeLeaderboardRepository) LeaderboardService {
	t.Helper()
	badges, err := NewBadgeClassifier(DefaultBadgeTiers())
	if err != nil {
		t.Fatalf("NewBadgeClassifier() error = %v", err)
	}
	scorer := NewScorer(DefaultPointTable(), DefaultMoneyRate)
	return NewLeaderboardService(repo, scorer, badges, nil, DefaultResetTopN)
}

func TestCreditCreatesAndAccumulates(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	entry, err := svc.Credit(ctx, CreditInput{
		TeamID:        "team-a",
		DisplayName:   "Alpha",
		Points:        60,
		DonationID:    uuid.New(),
		CountDonation: true,
	})
	if err != nil {
		t.Fatalf("Credit() error = %v", err)
	}
	if entry.Points != 60 || entry.DonationCount != 1 {
		t.Errorf("entry = %+v, want 60 points, 1 donation", entry)
	}

	entry, err = svc.Credit(ctx, CreditInput{
		TeamID:        "team-a",
		DisplayName:   "Alpha",
		Points:        40,
		DonationID:    uuid.New(),
		CountDonation: true,
	})
	if err != nil {
		t.Fatalf("Credit() error = %v", err)
	}
	if entry.Points != 100 || entry.DonationCount != 2 {
		t.Errorf("entry = %+v, want 100 points, 2 donations", entry)
	}

	if len(repo.pointLogs) != 2 {
		t.Errorf("point logs = %d, want 2", len(repo.pointLogs))
	}
}

func TestCreditRejectsInvalidInput(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, CreditInput{TeamID: "", Points: 10}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("Credit(empty team) error = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.Credit(ctx, CreditInput{TeamID: "team-a", Points: -1}); !errors.Is(err, apperror.ErrInvalidPoints) {
		t.Errorf("Credit(negative) error = %v, want ErrInvalidPoints", err)
	}

	// Rejected credits leave no trace.
	if len(repo.entries) != 0 || len(repo.pointLogs) != 0 {
		t.Errorf("ledger touched by rejected credits: %d entries, %d logs", len(repo.entries), len(repo.pointLogs))
	}
}

func TestCreditZeroPointsAllowed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	entry, err := svc.Credit(context.Background(), CreditInput{
		TeamID:        "team-a",
		DisplayName:   "Alpha",
		Points:        0,
		CountDonation: true,
	})
	if err != nil {
		t.Fatalf("Credit(0) error = %v", err)
	}
	if entry.Points != 0 || entry.DonationCount != 1 {
		t.Errorf("entry = %+v, want 0 points but counted donation", entry)
	}
}

func TestResetPeriodArchivesTopTeamsAndClears(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	teams := []struct {
		id     string
		points int
	}{
		{"team-a", 500}, {"team-b", 400}, {"team-c", 300},
		{"team-d", 200}, {"team-e", 100}, {"team-f", 50},
	}
	for _, tm := range teams {
		if _, err := svc.Credit(ctx, CreditInput{TeamID: tm.id, DisplayName: tm.id, Points: tm.points, CountDonation: true}); err != nil {
			t.Fatalf("Credit(%s) error = %v", tm.id, err)
		}
	}

	snapshot, err := svc.ResetPeriod(ctx, "August 2026", 5)
	if err != nil {
		t.Fatalf("ResetPeriod() error = %v", err)
	}

	if snapshot.PeriodLabel != "August 2026" {
		t.Errorf("PeriodLabel = %q, want August 2026", snapshot.PeriodLabel)
	}
	if len(snapshot.Entries) != 5 {
		t.Fatalf("snapshot entries = %d, want 5", len(snapshot.Entries))
	}
	if snapshot.Entries[0].TeamID != "team-a" || snapshot.Entries[0].Rank != 1 {
		t.Errorf("top entry = %+v, want team-a at rank 1", snapshot.Entries[0])
	}
	for _, e := range snapshot.Entries {
		if e.TeamID == "team-f" {
			t.Error("team-f should be cut by top-N truncation")
		}
	}

	// Ledger starts fresh.
	entries, _ := repo.AllEntries()
	if len(entries) != 0 {
		t.Errorf("ledger entries after reset = %d, want 0", len(entries))
	}

	history, err := svc.GetHistory(10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].PeriodLabel != "August 2026" {
		t.Errorf("history = %+v, want one snapshot for August 2026", history)
	}
}

func TestResetPeriodArchiveFailureKeepsLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, CreditInput{TeamID: "team-a", DisplayName: "Alpha", Points: 100, CountDonation: true}); err != nil {
		t.Fatalf("Credit() error = %v", err)
	}

	repo.failArchive = true
	_, err := svc.ResetPeriod(ctx, "August 2026", 5)
	if err == nil {
		t.Fatal("ResetPeriod() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to archive period") {
		t.Errorf("error = %q, want archive failure", err)
	}

	entry, err := svc.GetEntry(ctx, "team-a")
	if err != nil {
		t.Fatalf("GetEntry() after failed reset error = %v", err)
	}
	if entry.Points != 100 {
		t.Errorf("points after failed reset = %d, want 100 (ledger untouched)", entry.Points)
	}
}

func TestResetPeriodEmptyLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	snapshot, err := svc.ResetPeriod(context.Background(), "July 2026", 5)
	if err != nil {
		t.Fatalf("ResetPeriod() on empty ledger error = %v", err)
	}
	if len(snapshot.Entries) != 0 {
		t.Errorf("empty reset entries = %d, want 0", len(snapshot.Entries))
	}
}

func TestGetLeaderboardRanksLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	svc.Credit(ctx, CreditInput{TeamID: "team-a", DisplayName: "Alpha", Points: 150, CountDonation: true})
	svc.Credit(ctx, CreditInput{TeamID: "team-b", DisplayName: "Beta", Points: 320, CountDonation: true})

	ranked, err := svc.GetLeaderboard(RankOptions{})
	if err != nil {
		t.Fatalf("GetLeaderboard() error = %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d entries, want 2", len(ranked))
	}
	if ranked[0].TeamID != "team-b" || ranked[0].Badge != "Gold" {
		t.Errorf("top = %+v, want team-b with Gold", ranked[0])
	}
	if ranked[1].Badge != "Silver" {
		t.Errorf("second badge = %q, want Silver", ranked[1].Badge)
	}
}

func TestScoreThenCreditRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	points, err := svc.Score([]Item{
		{Category: entity.CategoryBooks, Quantity: 3},
		{Category: entity.CategoryClothes, Quantity: 2},
	}, 0)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	entry, err := svc.Credit(ctx, CreditInput{TeamID: "team-a", DisplayName: "Alpha", Points: points, CountDonation: true})
	if err != nil {
		t.Fatalf("Credit() error = %v", err)
	}
	if entry.Points != 65 {
		t.Errorf("entry.Points = %d, want 65", entry.Points)
	}
	if svc.BadgeFor(entry.Points) != "Bronze" {
		t.Errorf("badge = %q, want Bronze", svc.BadgeFor(entry.Points))
	}
}
