package dto

import "sahaaya.org/actionhub/internal/entity"

type DonationItemInput struct {
	Category string `json:"category" binding:"required,oneof=Clothes Books Furniture Electronics Toys 'Medical Supplies' Food Utensils Stationery Blankets Shoes Other"`
	Quantity int    `json:"quantity" binding:"required,gte=1,lte=10000"`
}

type SubmitDonationRequest struct {
	DonorName   string              `json:"donor_name" binding:"required,min=2,max=100"`
	TeamID      string              `json:"team_id" binding:"omitempty,max=50"`
	Items       []DonationItemInput `json:"items" binding:"omitempty,dive"`
	Amount      int                 `json:"amount" binding:"omitempty,gte=0"`
	Description string              `json:"description" binding:"omitempty,max=2000"`
	PhotoURL    string              `json:"photo_url" binding:"omitempty,url,max=500"`
}

type DonationResponse struct {
	Donation      *entity.Donation `json:"donation"`
	PointsAwarded int              `json:"points_awarded"`
	Badge         string           `json:"badge,omitempty"`
}

type DonationListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending verified"`
	TeamID string `form:"team_id" binding:"omitempty,max=50"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Offset int    `form:"offset" binding:"omitempty,gte=0"`
}
