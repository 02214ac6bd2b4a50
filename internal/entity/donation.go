package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemCategory enumerates the kinds of items a donation may contain.
// Monetary gifts are carried on Donation.Amount, not as an item.
type ItemCategory string

const (
	CategoryClothes         ItemCategory = "Clothes"
	CategoryBooks           ItemCategory = "Books"
	CategoryFurniture       ItemCategory = "Furniture"
	CategoryElectronics     ItemCategory = "Electronics"
	CategoryToys            ItemCategory = "Toys"
	CategoryMedicalSupplies ItemCategory = "Medical Supplies"
	CategoryFood            ItemCategory = "Food"
	CategoryUtensils        ItemCategory = "Utensils"
	CategoryStationery      ItemCategory = "Stationery"
	CategoryBlankets        ItemCategory = "Blankets"
	CategoryShoes           ItemCategory = "Shoes"
	CategoryOther           ItemCategory = "Other"
)

// ItemCategories lists every accepted category, in display order.
var ItemCategories = []ItemCategory{
	CategoryClothes, CategoryBooks, CategoryFurniture, CategoryElectronics,
	CategoryToys, CategoryMedicalSupplies, CategoryFood, CategoryUtensils,
	CategoryStationery, CategoryBlankets, CategoryShoes, CategoryOther,
}

func (c ItemCategory) Valid() bool {
	for _, known := range ItemCategories {
		if c == known {
			return true
		}
	}
	return false
}

type DonationStatus string

const (
	DonationPending  DonationStatus = "pending"
	DonationVerified DonationStatus = "verified"
)

// Donation is one act of giving. After scoring it is never mutated except
// to flip Status, and it is never deleted.
type Donation struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	DonorName     string         `gorm:"size:100;not null" json:"donor_name"`
	TeamID        string         `gorm:"size:50;index;not null" json:"team_id"`
	Amount        int            `gorm:"default:0" json:"amount"` // monetary gift, whole currency units
	Description   string         `gorm:"type:text" json:"description"`
	PhotoURL      *string        `gorm:"type:text" json:"photo_url,omitempty"`
	Status        DonationStatus `gorm:"size:20;default:pending;index" json:"status"`
	PointsAwarded int            `gorm:"not null" json:"points_awarded"`
	Items         []DonationItem `gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type DonationItem struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	DonationID uuid.UUID    `gorm:"type:uuid;index;not null" json:"donation_id"`
	Category   ItemCategory `gorm:"size:50;not null" json:"category"`
	Quantity   int          `gorm:"not null;default:1" json:"quantity"`
}
