package services

import (
	"errors"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var ErrActivityTypeRequired = errors.New("type required")

type ActivityService struct {
	Repo *repositories.ActivityRepository
}

func NewActivityService(repo *repositories.ActivityRepository) *ActivityService {
	return &ActivityService{Repo: repo}
}

func (s *ActivityService) Create(activity *models.Activity) (*models.Activity, error) {
	if activity.Type == "" {
		return nil, ErrActivityTypeRequired
	}
	id, err := s.Repo.Create(activity)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(int(id))
}

func (s *ActivityService) Update(activity *models.Activity) (bool, error) {
	if activity.Type == "" {
		return false, ErrActivityTypeRequired
	}
	return s.Repo.Update(activity)
}

func (s *ActivityService) GetByID(id int) (*models.Activity, error) {
	return s.Repo.GetByID(id)
}

func (s *ActivityService) Delete(id int) (bool, error) {
	return s.Repo.Delete(id)
}

func (s *ActivityService) List(f repositories.ActivityFilter) ([]*models.Activity, int, error) {
	return s.Repo.List(f)
}
