package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"sahaaya.org/actionhub/internal/modules/leaderboard/dto"
	leaderboardService "sahaaya.org/actionhub/internal/modules/leaderboard/service"
	"sahaaya.org/actionhub/pkg/response"
	"sahaaya.org/actionhub/pkg/validator"
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard returns the current rankings.
// Query params: sort (points|donations|name), direction (asc|desc), q (filter).
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	opts := leaderboardService.RankOptions{
		SortKey:   leaderboardService.SortKey(c.DefaultQuery("sort", "points")),
		Direction: leaderboardService.Direction(c.DefaultQuery("direction", "desc")),
		Filter:    c.Query("q"),
	}

	switch opts.SortKey {
	case leaderboardService.SortByPoints, leaderboardService.SortByDonations, leaderboardService.SortByName:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of: points, donations, name"})
		return
	}
	switch opts.Direction {
	case leaderboardService.Ascending, leaderboardService.Descending:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be asc or desc"})
		return
	}

	entries, err := h.service.GetLeaderboard(opts)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// GetHistory returns archived period snapshots, most recent first.
func (h *LeaderboardHandler) GetHistory(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "12")
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = 12
	}
	if limit > 100 {
		limit = 100
	}

	history, err := h.service.GetHistory(limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}

// ResetPeriod archives the current standings and clears the ledger.
// Admin only; the confirmation prompt is the client's responsibility.
func (h *LeaderboardHandler) ResetPeriod(c *gin.Context) {
	var req dto.ResetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	snapshot, err := h.service.ResetPeriod(c.Request.Context(), req.PeriodLabel, req.TopN)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Leaderboard has been reset for " + snapshot.PeriodLabel,
		"data":    snapshot,
	})
}

// GetTeam returns a single team's ledger entry with badge status.
func (h *LeaderboardHandler) GetTeam(c *gin.Context) {
	teamID := c.Param("team_id")

	entry, err := h.service.GetEntry(c.Request.Context(), teamID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"team":         entry,
			"badge_status": h.service.BadgeStatus(entry.Points),
		},
	})
}
