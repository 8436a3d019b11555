package services

import (
	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

type ContactService struct {
	Repo *repositories.ContactRepository
}

func NewContactService(repo *repositories.ContactRepository) *ContactService {
	return &ContactService{Repo: repo}
}

func (s *ContactService) Create(contact *models.Contact) (*models.Contact, error) {
	id, err := s.Repo.Create(contact)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(int(id))
}

func (s *ContactService) Update(contact *models.Contact) (bool, error) {
	return s.Repo.Update(contact)
}

func (s *ContactService) GetByID(id int) (*models.Contact, error) {
	return s.Repo.GetByID(id)
}

func (s *ContactService) Delete(id int) (bool, error) {
	return s.Repo.Delete(id)
}

func (s *ContactService) List(f repositories.ContactFilter) ([]*models.Contact, int, error) {
	return s.Repo.List(f)
}
