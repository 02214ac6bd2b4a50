package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/internal/modules/donation/dto"
	"sahaaya.org/actionhub/internal/modules/donation/repository"
	lbService "sahaaya.org/actionhub/internal/modules/leaderboard/service"
	"sahaaya.org/actionhub/pkg/apperror"
)

type fakeDonationRepository struct {
	donations map[string]*entity.Donation
}

func newFakeDonationRepo() *fakeDonationRepository {
	return &fakeDonationRepository{donations: make(map[string]*entity.Donation)}
}

func (f *fakeDonationRepository) Create(_ context.Context, donation *entity.Donation) error {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	donation.CreatedAt = time.Now()
	f.donations[donation.ID.String()] = donation
	return nil
}

func (f *fakeDonationRepository) FindByID(_ context.Context, id string) (*entity.Donation, error) {
	donation, ok := f.donations[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return donation, nil
}

func (f *fakeDonationRepository) FindAll(_ context.Context, filter repository.DonationFilter) ([]entity.Donation, int64, error) {
	var out []entity.Donation
	for _, d := range f.donations {
		if filter.Status != "" && string(d.Status) != filter.Status {
			continue
		}
		if filter.TeamID != "" && d.TeamID != filter.TeamID {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDonationRepository) FindByUser(_ context.Context, userID string, _, _ int) ([]entity.Donation, error) {
	var out []entity.Donation
	for _, d := range f.donations {
		if d.UserID.String() == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonationRepository) UpdateStatus(_ context.Context, id string, status entity.DonationStatus) error {
	donation, ok := f.donations[id]
	if !ok {
		return apperror.ErrNotFound
	}
	donation.Status = status
	return nil
}

// fakeLeaderboard scores for real but records credits in memory.
type fakeLeaderboard struct {
	scorer  lbService.Scorer
	credits []lbService.CreditInput
	points  map[string]int
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{
		scorer: lbService.NewScorer(lbService.DefaultPointTable(), lbService.DefaultMoneyRate),
		points: make(map[string]int),
	}
}

func (f *fakeLeaderboard) Score(items []lbService.Item, amount int) (int, error) {
	return f.scorer.Score(items, amount)
}

func (f *fakeLeaderboard) Credit(_ context.Context, in lbService.CreditInput) (*entity.LedgerEntry, error) {
	f.credits = append(f.credits, in)
	f.points[in.TeamID] += in.Points
	return &entity.LedgerEntry{TeamID: in.TeamID, DisplayName: in.DisplayName, Points: f.points[in.TeamID]}, nil
}

func (f *fakeLeaderboard) GetEntry(_ context.Context, teamID string) (*entity.LedgerEntry, error) {
	pts, ok := f.points[teamID]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &entity.LedgerEntry{TeamID: teamID, Points: pts}, nil
}

func (f *fakeLeaderboard) GetLeaderboard(lbService.RankOptions) ([]lbService.RankedEntry, error) {
	return nil, nil
}

func (f *fakeLeaderboard) GetHistory(int) ([]entity.LeaderboardSnapshot, error) {
	return nil, nil
}

func (f *fakeLeaderboard) ResetPeriod(context.Context, string, int) (*entity.LeaderboardSnapshot, error) {
	return nil, nil
}

func (f *fakeLeaderboard) BadgeFor(int) string { return "Bronze" }

func (f *fakeLeaderboard) BadgeStatus(int) lbService.BadgeStatus { return lbService.BadgeStatus{} }

type fakeNotifications struct {
	created []entity.Notification
}

func (f *fakeNotifications) CreateNotification(_ context.Context, n *entity.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotifications) GetNotifications(uuid.UUID, int, int) ([]entity.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) MarkAsRead(uuid.UUID) error    { return nil }
func (f *fakeNotifications) MarkAllAsRead(uuid.UUID) error { return nil }
func (f *fakeNotifications) UnreadCount(uuid.UUID) (int64, error) {
	return 0, nil
}

func newTestDonationService(repo *fakeDonationRepository, lb *fakeLeaderboard, notifs *fakeNotifications) DonationService {
	return NewDonationService(repo, lb, nil, notifs, nil, time.Second)
}

func TestSubmitRecordsAndCredits(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	svc := newTestDonationService(repo, lb, &fakeNotifications{})

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, dto.SubmitDonationRequest{
		DonorName: "Priya",
		TeamID:    "team-hope",
		Items: []dto.DonationItemInput{
			{Category: "Books", Quantity: 3},
			{Category: "Clothes", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if resp.PointsAwarded != 65 {
		t.Errorf("PointsAwarded = %d, want 65", resp.PointsAwarded)
	}
	if resp.Donation.Status != entity.DonationPending {
		t.Errorf("Status = %q, want pending", resp.Donation.Status)
	}
	if len(resp.Donation.Items) != 2 {
		t.Errorf("items persisted = %d, want 2", len(resp.Donation.Items))
	}

	if len(lb.credits) != 1 {
		t.Fatalf("credits = %d, want 1", len(lb.credits))
	}
	credit := lb.credits[0]
	if credit.TeamID != "team-hope" || credit.Points != 65 || !credit.CountDonation {
		t.Errorf("credit = %+v, want team-hope / 65 / counted", credit)
	}
	if credit.DonationID != resp.Donation.ID {
		t.Errorf("credit.DonationID = %s, want %s", credit.DonationID, resp.Donation.ID)
	}
}

func TestSubmitEmptyDonationLeavesNoTrace(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	svc := newTestDonationService(repo, lb, &fakeNotifications{})

	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitDonationRequest{
		DonorName: "Priya",
		TeamID:    "team-hope",
	})
	if !errors.Is(err, apperror.ErrEmptyDonation) {
		t.Fatalf("Submit(empty) error = %v, want ErrEmptyDonation", err)
	}

	if len(repo.donations) != 0 {
		t.Errorf("donations stored = %d, want 0", len(repo.donations))
	}
	if len(lb.credits) != 0 {
		t.Errorf("credits = %d, want 0", len(lb.credits))
	}
}

func TestSubmitUnknownCategoryRejected(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	svc := newTestDonationService(repo, lb, &fakeNotifications{})

	_, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitDonationRequest{
		DonorName: "Priya",
		Items:     []dto.DonationItemInput{{Category: "Spaceships", Quantity: 1}},
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("Submit(unknown category) error = %v, want ErrInvalidInput", err)
	}
	if len(repo.donations) != 0 || len(lb.credits) != 0 {
		t.Error("rejected submission left state behind")
	}
}

func TestSubmitSoloDonorDefaultsTeamToUser(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	svc := newTestDonationService(repo, lb, &fakeNotifications{})

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, dto.SubmitDonationRequest{
		DonorName: "Priya",
		Amount:    100,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Donation.TeamID != userID.String() {
		t.Errorf("TeamID = %q, want the user ID %q", resp.Donation.TeamID, userID)
	}
}

func TestSubmitSanitizesDescription(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	svc := newTestDonationService(repo, lb, &fakeNotifications{})

	resp, err := svc.Submit(context.Background(), uuid.New(), dto.SubmitDonationRequest{
		DonorName:   "Priya",
		Amount:      10,
		Description: `Warm clothes <script>alert("x")</script>for winter`,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := resp.Donation.Description; got != "Warm clothes for winter" {
		t.Errorf("Description = %q, want script stripped", got)
	}
}

func TestVerifyFlipsStatusAndNotifies(t *testing.T) {
	repo := newFakeDonationRepo()
	lb := newFakeLeaderboard()
	notifs := &fakeNotifications{}
	svc := newTestDonationService(repo, lb, notifs)

	userID := uuid.New()
	resp, err := svc.Submit(context.Background(), userID, dto.SubmitDonationRequest{
		DonorName: "Priya",
		Amount:    50,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	verified, err := svc.Verify(context.Background(), resp.Donation.ID.String())
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.Status != entity.DonationVerified {
		t.Errorf("Status = %q, want verified", verified.Status)
	}

	if len(notifs.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifs.created))
	}
	n := notifs.created[0]
	if n.UserID != userID || n.Type != "donation_verified" {
		t.Errorf("notification = %+v, want donation_verified for submitter", n)
	}

	// Verifying again is a no-op, not a second notification.
	if _, err := svc.Verify(context.Background(), resp.Donation.ID.String()); err != nil {
		t.Fatalf("second Verify() error = %v", err)
	}
	if len(notifs.created) != 1 {
		t.Errorf("notifications after double verify = %d, want 1", len(notifs.created))
	}
}

func TestVerifyUnknownDonation(t *testing.T) {
	svc := newTestDonationService(newFakeDonationRepo(), newFakeLeaderboard(), &fakeNotifications{})

	_, err := svc.Verify(context.Background(), uuid.NewString())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Verify(unknown) error = %v, want ErrNotFound", err)
	}
}
