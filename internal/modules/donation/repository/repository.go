package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/pkg/apperror"
)

type DonationFilter struct {
	Status string
	TeamID string
	Limit  int
	Offset int
}

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	FindByID(ctx context.Context, id string) (*entity.Donation, error)
	FindAll(ctx context.Context, filter DonationFilter) ([]entity.Donation, int64, error)
	FindByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Donation, error)
	UpdateStatus(ctx context.Context, id string, status entity.DonationStatus) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) FindByID(ctx context.Context, id string) (*entity.Donation, error) {
	var donation entity.Donation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) FindAll(ctx context.Context, filter DonationFilter) ([]entity.Donation, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Donation{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TeamID != "" {
		query = query.Where("team_id = ?", filter.TeamID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var donations []entity.Donation
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&donations).Error
	if err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

func (r *donationRepository) FindByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Donation, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var donations []entity.Donation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&donations).Error
	return donations, err
}

func (r *donationRepository) UpdateStatus(ctx context.Context, id string, status entity.DonationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Donation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
