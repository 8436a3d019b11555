package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var ErrUnknownEntity = errors.New("unknown entity")

// ExportService — CSV-выгрузка и загрузка справочников.
type ExportService struct {
	CompanyRepo *repositories.CompanyRepository
	ContactRepo *repositories.ContactRepository
	DealRepo    *repositories.DealRepository
	LeadRepo    *repositories.LeadRepository
}

func NewExportService(
	companyRepo *repositories.CompanyRepository,
	contactRepo *repositories.ContactRepository,
	dealRepo *repositories.DealRepository,
	leadRepo *repositories.LeadRepository,
) *ExportService {
	return &ExportService{
		CompanyRepo: companyRepo,
		ContactRepo: contactRepo,
		DealRepo:    dealRepo,
		LeadRepo:    leadRepo,
	}
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func timePtrString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (s *ExportService) ExportCSV(entity string, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	switch entity {
	case "companies":
		if err := cw.Write([]string{"id", "name", "created_at"}); err != nil {
			return err
		}
		companies, err := s.CompanyRepo.ListAll()
		if err != nil {
			return err
		}
		for _, c := range companies {
			if err := cw.Write([]string{
				strconv.Itoa(c.ID), c.Name, c.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	case "contacts":
		if err := cw.Write([]string{"id", "first_name", "last_name", "email", "phone", "company_id", "company_name", "created_at"}); err != nil {
			return err
		}
		contacts, err := s.ContactRepo.ListAll()
		if err != nil {
			return err
		}
		for _, c := range contacts {
			if err := cw.Write([]string{
				strconv.Itoa(c.ID), c.FirstName, c.LastName, c.Email, c.Phone,
				intPtrString(c.CompanyID), c.CompanyName, c.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	case "deals":
		if err := cw.Write([]string{"id", "title", "contact_id", "company_id", "value", "stage", "position", "probability", "expected_close", "created_at"}); err != nil {
			return err
		}
		deals, err := s.DealRepo.ListAll()
		if err != nil {
			return err
		}
		for _, d := range deals {
			if err := cw.Write([]string{
				strconv.Itoa(d.ID), d.Title, intPtrString(d.ContactID), intPtrString(d.CompanyID),
				strconv.FormatFloat(d.Value, 'f', -1, 64), d.Stage,
				strconv.Itoa(d.Position), strconv.Itoa(d.Probability),
				timePtrString(d.ExpectedClose), d.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	case "leads":
		if err := cw.Write([]string{"id", "name", "email", "phone", "company", "source", "status", "converted", "created_at"}); err != nil {
			return err
		}
		leads, err := s.LeadRepo.ListAll()
		if err != nil {
			return err
		}
		for _, l := range leads {
			if err := cw.Write([]string{
				strconv.Itoa(l.ID), l.Name, l.Email, l.Phone, l.Company, l.Source,
				l.Status, strconv.FormatBool(l.Converted), l.CreatedAt.Format(time.RFC3339),
			}); err != nil {
				return err
			}
		}
	default:
		return ErrUnknownEntity
	}
	return nil
}

// ImportCSV читает CSV с заголовком и вставляет строки; возвращает
// количество вставленных записей. Колонки сопоставляются по именам из
// заголовка, лишние игнорируются.
func (s *ExportService) ImportCSV(entity string, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("чтение заголовка CSV: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	inserted := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return inserted, fmt.Errorf("чтение строки CSV: %w", err)
		}

		switch entity {
		case "contacts":
			contact := &models.Contact{
				FirstName: field(record, "first_name"),
				LastName:  field(record, "last_name"),
				Email:     field(record, "email"),
				Phone:     field(record, "phone"),
			}
			if contact.FirstName == "" && contact.LastName == "" && contact.Email == "" {
				continue
			}
			if _, err := s.ContactRepo.Create(contact); err != nil {
				return inserted, err
			}
		case "leads":
			lead := &models.Lead{
				Name:    field(record, "name"),
				Email:   field(record, "email"),
				Phone:   field(record, "phone"),
				Company: field(record, "company"),
				Source:  field(record, "source"),
				Status:  field(record, "status"),
			}
			if lead.Name == "" && lead.Email == "" {
				continue
			}
			if lead.Status == "" {
				lead.Status = "open"
			}
			if _, err := s.LeadRepo.Create(lead); err != nil {
				return inserted, err
			}
		case "deals":
			title := field(record, "title")
			if title == "" {
				continue
			}
			value, _ := strconv.ParseFloat(field(record, "value"), 64)
			probability, _ := strconv.Atoi(field(record, "probability"))
			stage := field(record, "stage")
			if !IsValidStage(stage) {
				stage = DefaultStage
			}
			deal := &models.Deal{
				Title:       title,
				Value:       value,
				Stage:       stage,
				Probability: ClampProbability(probability),
			}
			if _, err := s.DealRepo.Create(deal); err != nil {
				return inserted, err
			}
		default:
			return 0, ErrUnknownEntity
		}
		inserted++
	}
	return inserted, nil
}
