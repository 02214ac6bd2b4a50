package service

import (
	"context"

	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/internal/modules/project/dto"
	"sahaaya.org/actionhub/internal/modules/project/repository"
)

// ProjectService manages the drop-off centres donors can deliver to.
type ProjectService interface {
	ListActive(ctx context.Context) ([]entity.Project, error)
	ListAll(ctx context.Context) ([]entity.Project, error)
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Create(ctx context.Context, req dto.CreateProjectRequest) (*entity.Project, error)
	Update(ctx context.Context, id string, req dto.UpdateProjectRequest) (*entity.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) ListActive(ctx context.Context) ([]entity.Project, error) {
	return s.repo.FindActive(ctx)
}

func (s *projectService) ListAll(ctx context.Context) ([]entity.Project, error) {
	return s.repo.FindAll(ctx)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) Create(ctx context.Context, req dto.CreateProjectRequest) (*entity.Project, error) {
	project := &entity.Project{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Active:      true,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id string, req dto.UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.City != nil {
		project.City = *req.City
	}
	if req.Latitude != nil {
		project.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		project.Longitude = *req.Longitude
	}
	if req.Active != nil {
		project.Active = *req.Active
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
