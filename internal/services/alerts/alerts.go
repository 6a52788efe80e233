// Package services рассчитывает уведомления пользователя по четырём правилам,
// сохраняет их без дублей и ставит письма в очередь на отправку.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/analytics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/metrics"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/week"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// siteWindow — период, за который анализируется чередование мест инъекций.
const siteWindow = 7 * week.Day

// Repository определяет методы хранилища, нужные для расчёта уведомлений.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, bool, error)
	ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error)
	ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error)
	CreateAlertIfAbsent(ctx context.Context, alert models.Alert) (*models.Alert, bool, error)
	ListAlerts(ctx context.Context, userID string, unreadOnly bool, now time.Time) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, userID, alertID string) error
	DismissAlert(ctx context.Context, userID, alertID string) error
}

// Publisher ставит сообщение в очередь.
type Publisher interface {
	Publish(ctx context.Context, message any) error
}

// AlertService управляет уведомлениями пользователя.
type AlertService struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewAlertService создает новый экземпляр AlertService. publisher может быть nil,
// тогда письма не отправляются.
func NewAlertService(repo Repository, publisher Publisher, log *slog.Logger) *AlertService {
	return &AlertService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// List возвращает актуальные уведомления пользователя.
func (s *AlertService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Alert, error) {
	return s.repo.ListAlerts(ctx, userID, unreadOnly, s.now().UTC())
}

// MarkRead отмечает уведомление прочитанным.
func (s *AlertService) MarkRead(ctx context.Context, userID, alertID string) error {
	return s.repo.MarkAlertRead(ctx, userID, alertID)
}

// Dismiss скрывает уведомление.
func (s *AlertService) Dismiss(ctx context.Context, userID, alertID string) error {
	return s.repo.DismissAlert(ctx, userID, alertID)
}

// CalculateAlerts прогоняет все правила для пользователя и возвращает число
// созданных уведомлений по каждому правилу. Ошибка сохранения отдельного
// уведомления логируется и не прерывает расчёт.
func (s *AlertService) CalculateAlerts(ctx context.Context, userID string) (models.AlertCounts, error) {
	const op = "services.alerts.CalculateAlerts"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	now := s.now().UTC()
	prefs := s.preferences(ctx, log, userID)

	weekStart := week.Start(now)
	from := weekStart
	if siteFrom := now.Add(-siteWindow); siteFrom.Before(from) {
		from = siteFrom
	}

	protocols, err := s.repo.ListProtocols(ctx, userID, false)
	if err != nil {
		return models.AlertCounts{}, err
	}
	injections, err := s.repo.ListInjections(ctx, userID, models.InjectionFilter{From: &from, To: &now})
	if err != nil {
		return models.AlertCounts{}, err
	}

	wp := analytics.CalculateWeeklyProgress(protocols, injections, weekStart, now)
	recent := analytics.InjectionsInRange(injections, models.DateRange{Start: now.Add(-siteWindow), End: now})

	d := &delivery{svc: s, log: log, userID: userID, prefs: prefs, now: now}
	counts := models.AlertCounts{
		DoseLimit:    d.store(ctx, analytics.DoseLimitAlerts(userID, wp, prefs.DoseLimit, now)),
		MissedDose:   d.store(ctx, analytics.MissedDoseAlerts(userID, protocols, injections, prefs.MissedDose, now)),
		SiteRotation: d.store(ctx, analytics.SiteRotationAlerts(userID, recent, prefs.SiteRotation, now)),
		Milestones:   d.store(ctx, analytics.MilestoneAlerts(userID, wp, prefs.ProtocolMilestones, now)),
	}

	log.Info("alerts calculated",
		slog.Int("dose_limit", counts.DoseLimit),
		slog.Int("missed_dose", counts.MissedDose),
		slog.Int("site_rotation", counts.SiteRotation),
		slog.Int("milestones", counts.Milestones))
	return counts, nil
}

func (s *AlertService) preferences(ctx context.Context, log *slog.Logger, userID string) models.NotificationPreferences {
	prefs, ok, err := s.repo.GetNotificationPreferences(ctx, userID)
	if err != nil {
		log.Warn("failed to load notification preferences, using defaults", sl.Err(err))
		return models.DefaultNotificationPreferences()
	}
	if !ok {
		return models.DefaultNotificationPreferences()
	}
	return *prefs
}

// delivery сохраняет уведомления одного расчёта и отправляет их по e-mail.
type delivery struct {
	svc    *AlertService
	log    *slog.Logger
	userID string
	prefs  models.NotificationPreferences
	now    time.Time

	user       *models.User
	userLoaded bool
}

func (d *delivery) store(ctx context.Context, alerts []models.Alert) int {
	created := 0
	for _, a := range alerts {
		alert, ok, err := d.svc.repo.CreateAlertIfAbsent(ctx, a)
		if err != nil {
			d.log.Error("failed to save alert", slog.String("type", string(a.AlertType)), sl.Err(err))
			continue
		}
		if !ok {
			continue
		}
		created++
		metrics.RecordAlertCreated(string(alert.AlertType))
		d.email(ctx, alert)
	}
	return created
}

func (d *delivery) email(ctx context.Context, alert *models.Alert) {
	if d.svc.publisher == nil || !d.prefs.EmailNotifications || d.prefs.QuietHours.Contains(d.now) {
		return
	}
	if !d.userLoaded {
		d.userLoaded = true
		user, err := d.svc.repo.GetUser(ctx, d.userID)
		if err != nil {
			d.log.Error("failed to load user for email", sl.Err(err))
			return
		}
		d.user = user
	}
	if d.user == nil || d.user.Email == "" {
		return
	}

	msg := models.AlertEmail{
		UserID:    d.userID,
		Email:     d.user.Email,
		Username:  d.user.Username,
		AlertType: alert.AlertType,
		Severity:  alert.Severity,
		Title:     alert.Title,
		Message:   alert.Message,
	}
	if err := d.svc.publisher.Publish(ctx, msg); err != nil {
		d.log.Error("failed to publish alert email", slog.String("alert_id", alert.ID), sl.Err(err))
	}
}
