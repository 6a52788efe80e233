// Package services содержит бизнес-логику каталога пептидов пользователя.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// ErrForbidden возвращается при попытке изменить глобальный пептид.
var ErrForbidden = errors.New("peptide is not owned by user")

// TemplatesCacheKey — ключ кэша каталога шаблонов.
const TemplatesCacheKey = "peptide:templates"

// PeptideRepository определяет методы для работы с пептидами в хранилище.
type PeptideRepository interface {
	ListPeptides(ctx context.Context, userID string, filter models.PeptideFilter) ([]models.Peptide, error)
	ListPeptideTemplates(ctx context.Context) ([]models.PeptideTemplate, error)
	GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error)
	CreatePeptide(ctx context.Context, p models.Peptide) (*models.Peptide, error)
	UpdatePeptide(ctx context.Context, userID, id string, p models.Peptide) (*models.Peptide, error)
	DeletePeptide(ctx context.Context, userID, id string) error
}

// Cache определяет методы кэша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// PeptideService управляет пептидами пользователя и глобальным каталогом.
type PeptideService struct {
	repo     PeptideRepository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
}

// NewPeptideService создает новый экземпляр PeptideService.
func NewPeptideService(repo PeptideRepository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *PeptideService {
	return &PeptideService{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// List возвращает пептиды, доступные пользователю.
func (s *PeptideService) List(ctx context.Context, userID string, filter models.PeptideFilter) ([]models.Peptide, error) {
	return s.repo.ListPeptides(ctx, userID, filter)
}

// Templates возвращает активные шаблоны каталога, кэшируя их в Redis.
func (s *PeptideService) Templates(ctx context.Context) ([]models.PeptideTemplate, error) {
	var templates []models.PeptideTemplate
	found, err := s.cache.Get(ctx, TemplatesCacheKey, &templates)
	if err != nil {
		s.log.Warn("failed to read templates from cache", slog.String("key", TemplatesCacheKey), slog.Any("err", err))
	}
	if found {
		return templates, nil
	}

	templates, err = s.repo.ListPeptideTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, TemplatesCacheKey, templates, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache templates", slog.String("key", TemplatesCacheKey), slog.Any("err", err))
	}
	return templates, nil
}

// Get возвращает пептид, если он виден пользователю.
func (s *PeptideService) Get(ctx context.Context, userID, id string) (*models.Peptide, error) {
	return s.repo.GetPeptide(ctx, userID, id)
}

// Create добавляет пользовательский пептид.
func (s *PeptideService) Create(ctx context.Context, userID string, req models.DummyPeptide) (*models.Peptide, error) {
	p, err := s.repo.CreatePeptide(ctx, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("created peptide", slog.String("id", p.ID), slog.String("user_id", userID))
	return p, nil
}

// Update изменяет пептид пользователя. Глобальные пептиды менять нельзя.
func (s *PeptideService) Update(ctx context.Context, userID, id string, req models.DummyPeptide) (*models.Peptide, error) {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	p, err := s.repo.UpdatePeptide(ctx, userID, id, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("updated peptide", slog.String("id", id))
	return p, nil
}

// Delete удаляет пептид пользователя.
func (s *PeptideService) Delete(ctx context.Context, userID, id string) error {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeletePeptide(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("deleted peptide", slog.String("id", id))
	return nil
}

func (s *PeptideService) checkOwner(ctx context.Context, userID, id string) error {
	p, err := s.repo.GetPeptide(ctx, userID, id)
	if err != nil {
		return err
	}
	if !p.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}

func fromRequest(userID string, req models.DummyPeptide) models.Peptide {
	return models.Peptide{
		UserID:           &userID,
		Name:             req.Name,
		IsCustom:         true,
		Category:         req.Category,
		TypicalDoseRange: req.TypicalDoseRange,
		SafetyNotes:      req.SafetyNotes,
		ContentID:        req.ContentID,
	}
}
