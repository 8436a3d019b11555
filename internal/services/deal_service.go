package services

import (
	"errors"
	"sync"

	"pipecrm/internal/models"
	"pipecrm/internal/repositories"
)

var (
	ErrTitleRequired = errors.New("title required")
	ErrInvalidStage  = errors.New("invalid stage")
)

type DealService struct {
	Repo *repositories.DealRepository

	// по мьютексу на этап: конкурентные reorder одного этапа
	// сериализуются, разные этапы не мешают друг другу
	reorderLocks sync.Map
}

func NewDealService(repo *repositories.DealRepository) *DealService {
	return &DealService{Repo: repo}
}

func (s *DealService) Create(deal *models.Deal) (int64, error) {
	if deal.Title == "" {
		return 0, ErrTitleRequired
	}
	if deal.Stage == "" {
		deal.Stage = DefaultStage
	}
	if !IsValidStage(deal.Stage) {
		return 0, ErrInvalidStage
	}
	deal.Probability = ClampProbability(deal.Probability)
	return s.Repo.Create(deal)
}

// Update возвращает false, если сделки нет.
func (s *DealService) Update(deal *models.Deal) (bool, error) {
	if deal.Title == "" {
		return false, ErrTitleRequired
	}
	if deal.Stage == "" {
		deal.Stage = DefaultStage
	}
	if !IsValidStage(deal.Stage) {
		return false, ErrInvalidStage
	}
	deal.Probability = ClampProbability(deal.Probability)
	return s.Repo.Update(deal)
}

func (s *DealService) GetByID(id int) (*models.Deal, error) {
	return s.Repo.GetByID(id)
}

func (s *DealService) Delete(id int) (bool, error) {
	return s.Repo.Delete(id)
}

func (s *DealService) List(f repositories.DealFilter) ([]*models.Deal, int, error) {
	return s.Repo.List(f)
}

// Reorder атомарно применяет пользовательский порядок ids к этапу:
// i-й id получает целевой этап и позицию i+1. Повторный вызов с тем же
// входом даёт тот же результат. На время транзакции удерживается
// мьютекс этапа, чтобы два конкурентных перетаскивания не нарушили
// плотную нумерацию.
func (s *DealService) Reorder(stage string, ids []int) error {
	if !IsValidStage(stage) {
		return ErrInvalidStage
	}
	mu, _ := s.reorderLocks.LoadOrStore(stage, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()
	return s.Repo.ReorderStage(stage, ids)
}

func (s *DealService) PipelineTotals(dateFrom, dateTo string) ([]models.StageTotal, error) {
	return s.Repo.PipelineTotals(dateFrom, dateTo)
}
