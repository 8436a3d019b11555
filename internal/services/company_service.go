package services

import (
	"errors"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var ErrCompanyNameRequired = errors.New("name required")

type CompanyService struct {
	Repo *repositories.CompanyRepository
}

func NewCompanyService(repo *repositories.CompanyRepository) *CompanyService {
	return &CompanyService{Repo: repo}
}

func (s *CompanyService) Create(name string) (*models.Company, error) {
	if name == "" {
		return nil, ErrCompanyNameRequired
	}
	id, err := s.Repo.Create(name)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(int(id))
}

func (s *CompanyService) ListPaginated(limit, offset int) ([]*models.Company, int, error) {
	return s.Repo.ListPaginated(limit, offset)
}
