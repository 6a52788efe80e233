// Package services содержит учёт показателей самочувствия.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

// ErrUnknownInjection возвращается, если связанная инъекция не принадлежит пользователю.
var ErrUnknownInjection = errors.New("injection not found")

// WellnessRepository определяет методы хранилища показателей.
type WellnessRepository interface {
	ListWellnessMetrics(ctx context.Context, userID string, filter models.WellnessFilter) ([]models.WellnessMetric, error)
	CreateWellnessMetric(ctx context.Context, m models.WellnessMetric) (*models.WellnessMetric, error)
	GetInjection(ctx context.Context, userID, id string) (*models.Injection, error)
}

// WellnessService управляет показателями самочувствия.
type WellnessService struct {
	repo WellnessRepository
	log  *slog.Logger
}

// NewWellnessService создает новый экземпляр WellnessService.
func NewWellnessService(repo WellnessRepository, log *slog.Logger) *WellnessService {
	return &WellnessService{repo: repo, log: log}
}

// List возвращает показатели пользователя по фильтру.
func (s *WellnessService) List(ctx context.Context, userID string, filter models.WellnessFilter) ([]models.WellnessMetric, error) {
	return s.repo.ListWellnessMetrics(ctx, userID, filter)
}

// Create сохраняет новый показатель. Связанная инъекция должна принадлежать пользователю.
func (s *WellnessService) Create(ctx context.Context, userID string, req models.DummyWellnessMetric) (*models.WellnessMetric, error) {
	if req.InjectionID != nil {
		_, err := s.repo.GetInjection(ctx, userID, *req.InjectionID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInjection, *req.InjectionID)
		}
		if err != nil {
			return nil, err
		}
	}

	m, err := s.repo.CreateWellnessMetric(ctx, models.WellnessMetric{
		UserID:      userID,
		MetricType:  req.MetricType,
		Value:       req.Value,
		Unit:        req.Unit,
		Timestamp:   req.Timestamp.UTC(),
		Notes:       req.Notes,
		InjectionID: req.InjectionID,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("created wellness metric", slog.String("id", m.ID), slog.String("type", string(m.MetricType)))
	return m, nil
}
