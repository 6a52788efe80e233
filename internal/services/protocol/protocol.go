// Package services содержит бизнес-логику протоколов приёма.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/peptide-tracker/internal/cache"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

var (
	// ErrInvalidSchedule возвращается для custom-расписания без дней или с концом раньше начала.
	ErrInvalidSchedule = errors.New("invalid protocol schedule")
	// ErrUnknownPeptide возвращается, если пептид не существует или не виден пользователю.
	ErrUnknownPeptide = errors.New("peptide not found")
)

// ProtocolRepository определяет методы для работы с протоколами в хранилище.
type ProtocolRepository interface {
	ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error)
	GetProtocol(ctx context.Context, userID, id string) (*models.Protocol, error)
	CreateProtocol(ctx context.Context, pr models.Protocol) (*models.Protocol, error)
	UpdateProtocol(ctx context.Context, userID, id string, pr models.Protocol) (*models.Protocol, error)
	DeleteProtocol(ctx context.Context, userID, id string) error
	GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error)
}

// Invalidator сбрасывает закэшированный прогресс пользователя.
type Invalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// ProtocolService управляет протоколами пользователя.
type ProtocolService struct {
	repo  ProtocolRepository
	cache Invalidator
	log   *slog.Logger
}

// NewProtocolService создает новый экземпляр ProtocolService.
func NewProtocolService(repo ProtocolRepository, cache Invalidator, log *slog.Logger) *ProtocolService {
	return &ProtocolService{repo: repo, cache: cache, log: log}
}

// List возвращает протоколы пользователя.
func (s *ProtocolService) List(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error) {
	return s.repo.ListProtocols(ctx, userID, includeInactive)
}

// Get возвращает протокол пользователя.
func (s *ProtocolService) Get(ctx context.Context, userID, id string) (*models.Protocol, error) {
	return s.repo.GetProtocol(ctx, userID, id)
}

// Create добавляет протокол.
func (s *ProtocolService) Create(ctx context.Context, userID string, req models.DummyProtocol) (*models.Protocol, error) {
	if err := s.validate(ctx, userID, req); err != nil {
		return nil, err
	}
	pr, err := s.repo.CreateProtocol(ctx, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("created protocol", slog.String("id", pr.ID), slog.String("user_id", userID))
	s.invalidate(ctx, userID)
	return pr, nil
}

// Update изменяет протокол пользователя.
func (s *ProtocolService) Update(ctx context.Context, userID, id string, req models.DummyProtocol) (*models.Protocol, error) {
	if err := s.validate(ctx, userID, req); err != nil {
		return nil, err
	}
	pr, err := s.repo.UpdateProtocol(ctx, userID, id, fromRequest(userID, req))
	if err != nil {
		return nil, err
	}
	s.log.Info("updated protocol", slog.String("id", id))
	s.invalidate(ctx, userID)
	return pr, nil
}

// Delete удаляет протокол пользователя.
func (s *ProtocolService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteProtocol(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("deleted protocol", slog.String("id", id))
	s.invalidate(ctx, userID)
	return nil
}

func (s *ProtocolService) validate(ctx context.Context, userID string, req models.DummyProtocol) error {
	if !req.ScheduleValid() {
		return ErrInvalidSchedule
	}
	_, err := s.repo.GetPeptide(ctx, userID, req.PeptideID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownPeptide, req.PeptideID)
	}
	return err
}

func (s *ProtocolService) invalidate(ctx context.Context, userID string) {
	prefix := cache.ProgressPrefix(userID)
	if err := s.cache.InvalidatePrefix(ctx, prefix); err != nil {
		s.log.Warn("failed to invalidate progress cache", slog.String("prefix", prefix), slog.Any("err", err))
	}
}

func fromRequest(userID string, req models.DummyProtocol) models.Protocol {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return models.Protocol{
		UserID:         userID,
		PeptideID:      req.PeptideID,
		Name:           req.Name,
		WeeklyTarget:   req.WeeklyTarget,
		DailyTarget:    req.DailyTarget,
		ScheduleType:   req.ScheduleType,
		ScheduleConfig: req.ScheduleConfig,
		StartDate:      req.StartDate.UTC(),
		EndDate:        req.EndDate,
		IsActive:       active,
	}
}
