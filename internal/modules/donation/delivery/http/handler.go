package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"sahaaya.org/actionhub/internal/modules/donation/dto"
	"sahaaya.org/actionhub/internal/modules/donation/repository"
	donationService "sahaaya.org/actionhub/internal/modules/donation/service"
	"sahaaya.org/actionhub/pkg/response"
	"sahaaya.org/actionhub/pkg/storage"
	"sahaaya.org/actionhub/pkg/validator"
)

type DonationHandler struct {
	service donationService.DonationService
	storage storage.ImageStorage
}

func NewDonationHandler(service donationService.DonationService, imageStorage storage.ImageStorage) *DonationHandler {
	return &DonationHandler{service: service, storage: imageStorage}
}

func (h *DonationHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *DonationHandler) GetAll(c *gin.Context) {
	var query dto.DonationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	donations, total, err := h.service.GetAll(c.Request.Context(), repository.DonationFilter{
		Status: query.Status,
		TeamID: query.TeamID,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donations": donations,
		"total":     total,
	})
}

func (h *DonationHandler) GetMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	donations, err := h.service.GetByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations})
}

func (h *DonationHandler) GetByID(c *gin.Context) {
	donation, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

func (h *DonationHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	hits, err := h.service.Search(c.Request.Context(), query, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

// Verify is admin-only; routing enforces the role check.
func (h *DonationHandler) Verify(c *gin.Context) {
	donation, err := h.service.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Donation verified",
		"donation": donation,
	})
}

// UploadProof receives a multipart photo and stores it in Cloudinary. The
// returned URL goes into the donation submission as photo_url.
func (h *DonationHandler) UploadProof(c *gin.Context) {
	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	if fileHeader.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo must be smaller than 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer file.Close()

	url, err := h.storage.UploadImage(c.Request.Context(), file, "proofs", fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
