package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"sahaaya.org/actionhub/internal/modules/project/dto"
	projectService "sahaaya.org/actionhub/internal/modules/project/service"
	"sahaaya.org/actionhub/pkg/response"
	"sahaaya.org/actionhub/pkg/validator"
)

type ProjectHandler struct {
	service projectService.ProjectService
}

func NewProjectHandler(service projectService.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// GetProjects lists active drop-off centres. Public endpoint.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	var projects any
	var err error
	if includeInactive {
		projects, err = h.service.ListAll(c.Request.Context())
	} else {
		projects, err = h.service.ListActive(c.Request.Context())
	}
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	project, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	project, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
