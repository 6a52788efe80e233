// Package services строит аналитические отчёты по инъекциям пользователя
// и выгружает их в файлы.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/metrics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
	"github.com/magabrotheeeer/peptide-tracker/internal/report"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/archive"
)

// Repository определяет методы хранилища, нужные для аналитики.
type Repository interface {
	ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error)
	ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error)
}

// Archive сохраняет выгрузку и возвращает ссылку на неё.
type Archive interface {
	Put(ctx context.Context, userID, fileName, contentType string, body []byte) (*archive.Object, error)
}

// Export — результат выгрузки: либо сам файл, либо ссылка на архивную копию.
type Export struct {
	Document *report.Document
	Object   *archive.Object
}

// AnalyticsService считает аналитику пользователя.
type AnalyticsService struct {
	repo    Repository
	archive Archive
	log     *slog.Logger
	now     func() time.Time
}

// NewAnalyticsService создает новый экземпляр AnalyticsService.
// archive может быть nil, тогда выгрузки всегда отдаются файлом.
func NewAnalyticsService(repo Repository, archive Archive, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:    repo,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
}

func (s *AnalyticsService) load(ctx context.Context, userID string, dr models.DateRange) ([]models.Protocol, []models.Injection, error) {
	protocols, err := s.repo.ListProtocols(ctx, userID, true)
	if err != nil {
		return nil, nil, err
	}
	injections, err := s.repo.ListInjections(ctx, userID, models.InjectionFilter{From: &dr.Start, To: &dr.End})
	if err != nil {
		return nil, nil, err
	}
	return protocols, injections, nil
}

// Comprehensive возвращает полный отчёт с выводами и рекомендациями.
func (s *AnalyticsService) Comprehensive(ctx context.Context, userID string, filter models.AnalyticsFilter) (*models.ComprehensiveAnalytics, error) {
	protocols, injections, err := s.load(ctx, userID, filter.DateRange)
	if err != nil {
		return nil, err
	}
	result := analytics.CalculateComprehensive(protocols, injections, filter, s.now().UTC())
	return &result, nil
}

// Adherence возвращает соблюдение по каждому протоколу из фильтра.
func (s *AnalyticsService) Adherence(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.ProtocolAdherence, error) {
	protocols, injections, err := s.load(ctx, userID, filter.DateRange)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	result := []models.ProtocolAdherence{}
	for _, p := range analytics.SelectProtocols(protocols, filter) {
		result = append(result, analytics.CalculateProtocolAdherence(&p, injections, filter.DateRange, now))
	}
	return result, nil
}

// Sites возвращает статистику мест инъекций за период.
func (s *AnalyticsService) Sites(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.SiteAnalytics, error) {
	_, injections, err := s.load(ctx, userID, filter.DateRange)
	if err != nil {
		return nil, err
	}
	return analytics.CalculateSiteAnalytics(analytics.InjectionsInRange(injections, filter.DateRange), s.now().UTC()), nil
}

// Timing возвращает распределение инъекций по времени суток.
func (s *AnalyticsService) Timing(ctx context.Context, userID string, filter models.AnalyticsFilter) (*models.TimingPatterns, error) {
	_, injections, err := s.load(ctx, userID, filter.DateRange)
	if err != nil {
		return nil, err
	}
	patterns := analytics.CalculateTimingPatterns(analytics.InjectionsInRange(injections, filter.DateRange))
	return &patterns, nil
}

// Variance возвращает разброс доз по протоколам, у которых есть инъекции за период.
func (s *AnalyticsService) Variance(ctx context.Context, userID string, filter models.AnalyticsFilter) ([]models.DoseVariance, error) {
	protocols, injections, err := s.load(ctx, userID, filter.DateRange)
	if err != nil {
		return nil, err
	}
	result := []models.DoseVariance{}
	for _, p := range analytics.SelectProtocols(protocols, filter) {
		if v, ok := analytics.CalculateDoseVariance(&p, injections, filter.DateRange); ok {
			result = append(result, v)
		}
	}
	return result, nil
}

// Export рендерит полный отчёт в format. При toArchive и настроенном архиве
// файл загружается в хранилище и возвращается ссылка на него.
func (s *AnalyticsService) Export(ctx context.Context, userID string, format report.Format, filter models.AnalyticsFilter, toArchive bool) (*Export, error) {
	const op = "services.analytics.Export"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	data, err := s.Comprehensive(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	doc, err := report.Render(format, data, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if !toArchive || s.archive == nil {
		if toArchive {
			log.Warn("archive requested but storage is not configured")
		}
		metrics.RecordExport(string(format), false)
		return &Export{Document: doc}, nil
	}

	obj, err := s.archive.Put(ctx, userID, doc.FileName, doc.ContentType, doc.Body)
	if err != nil {
		log.Error("failed to archive export", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("export archived", slog.String("key", obj.Key))
	metrics.RecordExport(string(format), true)
	return &Export{Document: doc, Object: obj}, nil
}
