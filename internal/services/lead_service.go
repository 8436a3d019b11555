package services

import (
	"errors"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadAlreadyConverted = errors.New("lead already converted")
	ErrLeadNameOrEmail      = errors.New("name or email required")
)

type LeadService struct {
	Repo *repositories.LeadRepository
}

func NewLeadService(repo *repositories.LeadRepository) *LeadService {
	return &LeadService{Repo: repo}
}

func (s *LeadService) Create(lead *models.Lead) (int64, error) {
	if lead.Name == "" && lead.Email == "" {
		return 0, ErrLeadNameOrEmail
	}
	if lead.Status == "" {
		lead.Status = "open"
	}
	return s.Repo.Create(lead)
}

func (s *LeadService) Update(lead *models.Lead) (bool, error) {
	if lead.Status == "" {
		lead.Status = "open"
	}
	return s.Repo.Update(lead)
}

func (s *LeadService) GetByID(id int) (*models.Lead, error) {
	return s.Repo.GetByID(id)
}

func (s *LeadService) Delete(id int) (bool, error) {
	return s.Repo.Delete(id)
}

func (s *LeadService) List(f repositories.LeadFilter) ([]*models.Lead, int, error) {
	return s.Repo.List(f)
}

// Convert превращает лид в контакт (+компания, +сделка) одной
// транзакцией. Повторная конвертация отклоняется: иначе каждый вызов
// плодил бы новый контакт и сделку.
//
// Заголовок сделки выбирается по приоритету:
// явный override → company лида → имя лида → "New Deal".
func (s *LeadService) Convert(id int, opts models.ConvertOptions) (*models.ConversionResult, error) {
	lead, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.Converted {
		return nil, ErrLeadAlreadyConverted
	}

	if opts.Stage == "" {
		opts.Stage = DefaultStage
	}
	if !IsValidStage(opts.Stage) {
		return nil, ErrInvalidStage
	}
	opts.Probability = ClampProbability(opts.Probability)
	if opts.DealTitle == "" {
		switch {
		case lead.Company != "":
			opts.DealTitle = lead.Company
		case lead.Name != "":
			opts.DealTitle = lead.Name
		default:
			opts.DealTitle = "New Deal"
		}
	}

	return s.Repo.Convert(lead, opts)
}
