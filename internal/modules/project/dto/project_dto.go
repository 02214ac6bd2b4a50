package dto

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"omitempty,max=2000"`
	City        string  `json:"city" binding:"required,max=100"`
	Latitude    float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type UpdateProjectRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Active      *bool    `json:"active"`
}
