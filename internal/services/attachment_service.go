package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var ErrBadEntityType = errors.New("entity_type must be 'contact' or 'deal'")

// AttachmentService хранит метаданные в БД, сами файлы — на диске под
// RootDir (плоско, под сгенерированными именами).
type AttachmentService struct {
	Repo    *repositories.AttachmentRepository
	RootDir string
}

func NewAttachmentService(repo *repositories.AttachmentRepository, rootDir string) *AttachmentService {
	return &AttachmentService{Repo: repo, RootDir: filepath.Clean(rootDir)}
}

// StoredName генерирует имя файла на диске; оригинальное имя остаётся
// только в метаданных.
func (s *AttachmentService) StoredName(originalName string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(originalName))
}

func (s *AttachmentService) FilePath(a *models.Attachment) string {
	return filepath.Join(s.RootDir, a.Filename)
}

func (s *AttachmentService) EnsureRoot() error {
	return os.MkdirAll(s.RootDir, 0o755)
}

func (s *AttachmentService) Create(a *models.Attachment) (*models.Attachment, error) {
	if a.EntityType != "contact" && a.EntityType != "deal" {
		return nil, ErrBadEntityType
	}
	id, err := s.Repo.Create(a)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(int(id))
}

func (s *AttachmentService) GetByID(id int) (*models.Attachment, error) {
	return s.Repo.GetByID(id)
}

func (s *AttachmentService) ListByEntity(entityType string, entityID int) ([]*models.Attachment, error) {
	if entityType != "contact" && entityType != "deal" {
		return nil, ErrBadEntityType
	}
	return s.Repo.ListByEntity(entityType, entityID)
}

// Delete удаляет метаданные и файл; отсутствие файла не считается ошибкой.
func (s *AttachmentService) Delete(id int) (bool, error) {
	a, err := s.Repo.GetByID(id)
	if err != nil {
		return false, err
	}
	if a == nil {
		return false, nil
	}
	ok, err := s.Repo.Delete(id)
	if err != nil {
		return false, err
	}
	if err := os.Remove(s.FilePath(a)); err != nil && !os.IsNotExist(err) {
		return ok, fmt.Errorf("удаление файла вложения: %w", err)
	}
	return ok, nil
}
