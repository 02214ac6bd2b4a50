package dto

// ResetRequest is the admin request body for a manual period reset.
// Both fields are optional: the label defaults to the current month and
// TopN to the configured snapshot size.
type ResetRequest struct {
	PeriodLabel string `json:"period_label" binding:"omitempty,max=50"`
	TopN        int    `json:"top_n" binding:"omitempty,gte=1,lte=50"`
}
