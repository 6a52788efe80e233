// Package services содержит бизнес-логику журнала инъекций.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/cache"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

var (
	// ErrUnknownPeptide возвращается, если пептид не существует или не виден пользователю.
	ErrUnknownPeptide = errors.New("peptide not found")
	// ErrUnknownProtocol возвращается, если протокол не принадлежит пользователю.
	ErrUnknownProtocol = errors.New("protocol not found")
)

// InjectionRepository определяет методы для работы с инъекциями в хранилище.
type InjectionRepository interface {
	ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error)
	GetInjection(ctx context.Context, userID, id string) (*models.Injection, error)
	CreateInjection(ctx context.Context, inj models.Injection) (*models.Injection, error)
	UpdateInjection(ctx context.Context, userID, id string, inj models.Injection) (*models.Injection, error)
	DeleteInjection(ctx context.Context, userID, id string) error
	GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error)
	GetProtocol(ctx context.Context, userID, id string) (*models.Protocol, error)
}

// Invalidator сбрасывает закэшированный прогресс пользователя.
type Invalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// InjectionService управляет журналом инъекций.
type InjectionService struct {
	repo  InjectionRepository
	cache Invalidator
	log   *slog.Logger
	now   func() time.Time
}

// NewInjectionService создает новый экземпляр InjectionService.
func NewInjectionService(repo InjectionRepository, cache Invalidator, log *slog.Logger) *InjectionService {
	return &InjectionService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// List возвращает инъекции пользователя по фильтру.
func (s *InjectionService) List(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error) {
	return s.repo.ListInjections(ctx, userID, filter)
}

// Get возвращает инъекцию пользователя.
func (s *InjectionService) Get(ctx context.Context, userID, id string) (*models.Injection, error) {
	return s.repo.GetInjection(ctx, userID, id)
}

// Create добавляет инъекцию. Пептид должен быть виден пользователю,
// протокол, если указан, должен ему принадлежать.
func (s *InjectionService) Create(ctx context.Context, userID string, req models.DummyInjection) (*models.Injection, error) {
	if err := s.checkRefs(ctx, userID, req); err != nil {
		return nil, err
	}
	inj, err := s.repo.CreateInjection(ctx, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("created injection", slog.String("id", inj.ID), slog.String("user_id", userID))
	s.invalidate(ctx, userID)
	return inj, nil
}

// Update изменяет инъекцию пользователя.
func (s *InjectionService) Update(ctx context.Context, userID, id string, req models.DummyInjection) (*models.Injection, error) {
	if err := s.checkRefs(ctx, userID, req); err != nil {
		return nil, err
	}
	inj, err := s.repo.UpdateInjection(ctx, userID, id, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("updated injection", slog.String("id", id))
	s.invalidate(ctx, userID)
	return inj, nil
}

// Delete удаляет инъекцию пользователя.
func (s *InjectionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteInjection(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("deleted injection", slog.String("id", id))
	s.invalidate(ctx, userID)
	return nil
}

// Duplicate создаёт копию инъекции с текущим временем и пометкой в заметках.
func (s *InjectionService) Duplicate(ctx context.Context, userID, id string) (*models.Injection, error) {
	src, err := s.repo.GetInjection(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	notes := "Duplicated injection"
	if src.Notes != nil && *src.Notes != "" {
		notes = *src.Notes + " (duplicated)"
	}
	dup := models.Injection{
		UserID:        userID,
		PeptideID:     src.PeptideID,
		Dose:          src.Dose,
		DoseUnit:      src.DoseUnit,
		InjectionSite: src.InjectionSite,
		Timestamp:     s.now().UTC(),
		Notes:         &notes,
		ProtocolID:    src.ProtocolID,
	}

	inj, err := s.repo.CreateInjection(ctx, dup)
	if err != nil {
		return nil, err
	}
	s.log.Info("duplicated injection", slog.String("source_id", id), slog.String("id", inj.ID))
	s.invalidate(ctx, userID)
	return inj, nil
}

func (s *InjectionService) checkRefs(ctx context.Context, userID string, req models.DummyInjection) error {
	_, err := s.repo.GetPeptide(ctx, userID, req.PeptideID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownPeptide, req.PeptideID)
	}
	if err != nil || req.ProtocolID == nil {
		return err
	}

	_, err = s.repo.GetProtocol(ctx, userID, *req.ProtocolID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownProtocol, *req.ProtocolID)
	}
	return err
}

func (s *InjectionService) invalidate(ctx context.Context, userID string) {
	prefix := cache.ProgressPrefix(userID)
	if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
		s.log.Warn("failed to invalidate progress cache", slog.String("prefix", prefix), slog.Any("err", err))
	}
}

func fromRequest(userID string, req models.DummyInjection) models.Injection {
	return models.Injection{
		UserID:        userID,
		PeptideID:     req.PeptideID,
		Dose:          req.Dose,
		DoseUnit:      req.DoseUnit,
		InjectionSite: req.InjectionSite,
		Timestamp:     req.Timestamp.UTC(),
		Notes:         req.Notes,
		ProtocolID:    req.ProtocolID,
	}
}
