// Package services считает недельный прогресс по протоколам, тренды и сводку
// за последние 7 дней. Недельный прогресс кэшируется в Redis.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/cache"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// DefaultTrendWeeks — глубина тренда, если она не задана.
const DefaultTrendWeeks = 6

// Repository определяет методы хранилища, нужные для расчёта прогресса.
type Repository interface {
	ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error)
	ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error)
}

// Cache определяет методы кэша.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ProgressService считает прогресс пользователя.
type ProgressService struct {
	repo     Repository
	cache    Cache
	log      *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewProgressService создает новый экземпляр ProgressService.
func NewProgressService(repo Repository, cache Cache, log *slog.Logger, cacheTTL time.Duration) *ProgressService {
	return &ProgressService{
		repo:     repo,
		cache:    cache,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// WeeklyProgress возвращает прогресс за неделю, содержащую weekStart.
// Нулевой weekStart означает текущую неделю.
func (s *ProgressService) WeeklyProgress(ctx context.Context, userID string, weekStart time.Time) (*models.WeeklyProgress, error) {
	now := s.now().UTC()
	if weekStart.IsZero() {
		weekStart = now
	}
	start := week.Start(weekStart)
	key := cache.ProgressKey(userID, start)

	var cached models.WeeklyProgress
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read progress from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	protocols, injections, err := s.load(ctx, userID, start, week.End(start))
	if err != nil {
		return nil, err
	}
	wp := analytics.CalculateWeeklyProgress(protocols, injections, start, now)

	if err := s.cache.Set(ctx, key, wp, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache progress", slog.String("key", key), slog.Any("err", err))
	}
	return &wp, nil
}

// Trends пересчитывает агрегат для текущей и weeksBack-1 предыдущих недель, от старых к новым.
func (s *ProgressService) Trends(ctx context.Context, userID string, weeksBack int) ([]models.WeeklyTrend, error) {
	now := s.now().UTC()
	starts := analytics.TrendWeekStarts(now, weeksBack)

	protocols, injections, err := s.load(ctx, userID, starts[0], week.End(starts[len(starts)-1]))
	if err != nil {
		return nil, err
	}

	trends := make([]models.WeeklyTrend, 0, len(starts))
	for _, start := range starts {
		wp := analytics.CalculateWeeklyProgress(protocols, injections, start, now)
		trends = append(trends, analytics.TrendPoint(wp))
	}
	return trends, nil
}

// WeeklySummary возвращает сводку по инъекциям за последние 7 дней.
func (s *ProgressService) WeeklySummary(ctx context.Context, userID string) (*models.WeeklySummary, error) {
	now := s.now().UTC()
	from, to := analytics.SummaryWindow(now)

	protocols, injections, err := s.load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	summary := analytics.CalculateWeeklySummary(protocols, injections, now)
	return &summary, nil
}

func (s *ProgressService) load(ctx context.Context, userID string, from, to time.Time) ([]models.Protocol, []models.Injection, error) {
	protocols, err := s.repo.ListProtocols(ctx, userID, false)
	if err != nil {
		return nil, nil, err
	}
	injections, err := s.repo.ListInjections(ctx, userID, models.InjectionFilter{From: &from, To: &to})
	if err != nil {
		return nil, nil, err
	}
	return protocols, injections, nil
}
