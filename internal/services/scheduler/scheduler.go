// Package services периодически пересчитывает уведомления всех пользователей.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/metrics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// UserRepository возвращает пользователей для обхода.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// AlertCalculator пересчитывает уведомления одного пользователя.
type AlertCalculator interface {
	CalculateAlerts(ctx context.Context, userID string) (models.AlertCounts, error)
}

// SchedulerService обходит пользователей и запускает расчёт уведомлений.
type SchedulerService struct {
	repo   UserRepository
	alerts AlertCalculator
	log    *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, alerts AlertCalculator, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:   repo,
		alerts: alerts,
		log:    log,
	}
}

// SweepAlerts пересчитывает уведомления всех пользователей и возвращает
// общее число созданных. Ошибка по отдельному пользователю логируется,
// обход продолжается до отмены ctx.
func (s *SchedulerService) SweepAlerts(ctx context.Context) int {
	const op = "services.scheduler.SweepAlerts"
	log := s.log.With(slog.String("op", op))

	start := time.Now()
	defer func() { metrics.ObserveAlertSweep(time.Since(start)) }()

	log.Info("starting alert sweep")
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		return 0
	}
	if len(users) == 0 {
		log.Info("no users found")
		return 0
	}

	created, failed := 0, 0
	for _, u := range users {
		if ctx.Err() != nil {
			log.Warn("alert sweep interrupted", slog.Int("created", created), sl.Err(ctx.Err()))
			break
		}
		counts, err := s.alerts.CalculateAlerts(ctx, u.ID)
		if err != nil {
			failed++
			log.Error("failed to calculate alerts", slog.String("user_id", u.ID), sl.Err(err))
			continue
		}
		created += counts.Total()
	}

	log.Info("alert sweep finished",
		slog.Int("users", len(users)),
		slog.Int("created", created),
		slog.Int("failed", failed),
		slog.Duration("took", time.Since(start)))
	return created
}
