package services

import (
	"strings"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

type SearchService struct {
	CompanyRepo *repositories.CompanyRepository
	ContactRepo *repositories.ContactRepository
	DealRepo    *repositories.DealRepository
}

func NewSearchService(
	companyRepo *repositories.CompanyRepository,
	contactRepo *repositories.ContactRepository,
	dealRepo *repositories.DealRepository,
) *SearchService {
	return &SearchService{
		CompanyRepo: companyRepo,
		ContactRepo: contactRepo,
		DealRepo:    dealRepo,
	}
}

const searchLimit = 5

// Search — по 5 свежих записей каждого типа; сделки первыми.
func (s *SearchService) Search(q string) ([]models.SearchResult, error) {
	like := "%" + strings.ReplaceAll(strings.TrimSpace(q), "%", `\%`) + "%"

	deals, err := s.DealRepo.SearchByTitle(like, searchLimit)
	if err != nil {
		return nil, err
	}
	contacts, err := s.ContactRepo.Search(like, searchLimit)
	if err != nil {
		return nil, err
	}
	companies, err := s.CompanyRepo.SearchByName(like, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(deals)+len(contacts)+len(companies))
	for _, d := range deals {
		results = append(results, models.SearchResult{ID: d.ID, Label: d.Title, Subtitle: d.Stage, Type: "deal"})
	}
	for _, c := range contacts {
		label := strings.TrimSpace(c.FirstName + " " + c.LastName)
		results = append(results, models.SearchResult{ID: c.ID, Label: label, Subtitle: c.Email, Type: "contact"})
	}
	for _, c := range companies {
		results = append(results, models.SearchResult{ID: c.ID, Label: c.Name, Type: "company"})
	}
	return results, nil
}
