package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	statService "sahaaya.org/actionhub/internal/modules/stat/service"
	"sahaaya.org/actionhub/pkg/response"
)

type StatHandler struct {
	service statService.StatService
}

func NewStatHandler(service statService.StatService) *StatHandler {
	return &StatHandler{service: service}
}

func (h *StatHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
