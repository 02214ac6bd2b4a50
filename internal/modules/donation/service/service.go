package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/internal/modules/donation/dto"
	"sahaaya.org/actionhub/internal/modules/donation/repository"
	lbService "sahaaya.org/actionhub/internal/modules/leaderboard/service"
	notifService "sahaaya.org/actionhub/internal/modules/notification/service"
	searchService "sahaaya.org/actionhub/internal/modules/search/service"
	"sahaaya.org/actionhub/pkg/apperror"
	"sahaaya.org/actionhub/pkg/ratelimit"
)

const donationRateLimitAction = "submit_donation"

type DonationService interface {
	Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitDonationRequest) (*dto.DonationResponse, error)
	GetAll(ctx context.Context, filter repository.DonationFilter) ([]entity.Donation, int64, error)
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Donation, error)
	GetByID(ctx context.Context, id string) (*entity.Donation, error)
	Verify(ctx context.Context, id string) (*entity.Donation, error)
	Search(ctx context.Context, query string, limit int) ([]map[string]any, error)
}

type donationService struct {
	repo          repository.DonationRepository
	leaderboard   lbService.LeaderboardService
	search        searchService.SearchService
	notifications notifService.NotificationService
	redisClient   *redis.Client
	rateLimit     time.Duration
	sanitizer     *bluemonday.Policy
}

func NewDonationService(
	repo repository.DonationRepository,
	leaderboard lbService.LeaderboardService,
	search searchService.SearchService,
	notifications notifService.NotificationService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) DonationService {
	if rateLimit <= 0 {
		rateLimit = 30 * time.Second
	}
	return &donationService{
		repo:          repo,
		leaderboard:   leaderboard,
		search:        search,
		notifications: notifications,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
		sanitizer:     bluemonday.UGCPolicy(),
	}
}

// Submit scores and records one donation. Scoring runs before any write so
// an empty or invalid submission leaves no trace in storage or the ledger.
func (s *donationService) Submit(ctx context.Context, userID uuid.UUID, req dto.SubmitDonationRequest) (*dto.DonationResponse, error) {
	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, userID, donationRateLimitAction, s.rateLimit)
	if err != nil {
		log.Printf("Rate limit check failed for user %s: %v", userID, err)
	} else if !allowed {
		return nil, apperror.New(429, fmt.Sprintf("please wait before submitting another donation (limit: one per %s)", s.rateLimit), apperror.ErrRateLimitExceeded)
	}

	items := make([]lbService.Item, 0, len(req.Items))
	for _, it := range req.Items {
		category := entity.ItemCategory(it.Category)
		if !category.Valid() {
			return nil, apperror.New(400, fmt.Sprintf("unknown item category %q", it.Category), apperror.ErrInvalidInput)
		}
		items = append(items, lbService.Item{Category: category, Quantity: it.Quantity})
	}

	points, err := s.leaderboard.Score(items, req.Amount)
	if err != nil {
		return nil, err
	}

	teamID := strings.TrimSpace(req.TeamID)
	if teamID == "" {
		// Solo donors compete as a one-person team keyed by their user ID.
		teamID = userID.String()
	}

	donation := &entity.Donation{
		UserID:        userID,
		DonorName:     strings.TrimSpace(req.DonorName),
		TeamID:        teamID,
		Amount:        req.Amount,
		Description:   s.sanitizer.Sanitize(req.Description),
		Status:        entity.DonationPending,
		PointsAwarded: points,
	}
	if req.PhotoURL != "" {
		donation.PhotoURL = &req.PhotoURL
	}
	for _, it := range items {
		donation.Items = append(donation.Items, entity.DonationItem{
			Category: it.Category,
			Quantity: it.Quantity,
		})
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}

	entry, err := s.leaderboard.Credit(ctx, lbService.CreditInput{
		TeamID:        teamID,
		DisplayName:   donation.DonorName,
		Points:        points,
		DonationID:    donation.ID,
		UserID:        userID,
		CountDonation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("donation %s saved but crediting failed: %w", donation.ID, err)
	}

	if s.search != nil {
		if err := s.search.IndexDonation(donation); err != nil {
			log.Printf("Failed to index donation %s: %v", donation.ID, err)
		}
	}

	log.Printf("✅ Donation %s recorded: team %s earned %d points", donation.ID, teamID, points)

	return &dto.DonationResponse{
		Donation:      donation,
		PointsAwarded: points,
		Badge:         s.leaderboard.BadgeFor(entry.Points),
	}, nil
}

func (s *donationService) GetAll(ctx context.Context, filter repository.DonationFilter) ([]entity.Donation, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *donationService) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Donation, error) {
	return s.repo.FindByUser(ctx, userID.String(), limit, offset)
}

func (s *donationService) GetByID(ctx context.Context, id string) (*entity.Donation, error) {
	return s.repo.FindByID(ctx, id)
}

// Verify flips a pending donation to verified and tells the donor. Points
// were already credited at submission; verification is an audit marker.
func (s *donationService) Verify(ctx context.Context, id string) (*entity.Donation, error) {
	donation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation.Status == entity.DonationVerified {
		return donation, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, entity.DonationVerified); err != nil {
		return nil, err
	}
	donation.Status = entity.DonationVerified

	if s.search != nil {
		if err := s.search.IndexDonation(donation); err != nil {
			log.Printf("Failed to reindex verified donation %s: %v", donation.ID, err)
		}
	}

	if s.notifications != nil {
		notification := &entity.Notification{
			UserID:     donation.UserID,
			EntityID:   donation.ID.String(),
			EntityType: "donation",
			Type:       "donation_verified",
			Message:    fmt.Sprintf("Your donation worth %d points has been verified. Thank you!", donation.PointsAwarded),
			IsRead:     false,
		}
		if err := s.notifications.CreateNotification(ctx, notification); err != nil {
			log.Printf("Failed to notify user %s about verified donation: %v", donation.UserID, err)
		}
	}

	return donation, nil
}

func (s *donationService) Search(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	if s.search == nil {
		return nil, apperror.New(503, "search is not configured", apperror.ErrInternal)
	}
	return s.search.SearchDonations(query, limit)
}
