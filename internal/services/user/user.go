// Package services содержит профиль пользователя и его настройки уведомлений.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

// UserRepository определяет методы хранилища для профиля пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUserPreferences(ctx context.Context, userID string, prefs models.UserPreferences) (*models.User, error)
	// GetNotificationPreferences возвращает false, если пользователь ещё не сохранял настройки.
	GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, bool, error)
	UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error
}

// UserService управляет профилем пользователя.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Profile возвращает профиль пользователя.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpdatePreferences сохраняет общие настройки профиля.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs models.UserPreferences) (*models.User, error) {
	user, err := s.repo.UpdateUserPreferences(ctx, userID, prefs)
	if err != nil {
		return nil, err
	}
	s.log.Info("user preferences updated", slog.String("user_id", userID))
	return user, nil
}

// NotificationPreferences возвращает настройки уведомлений. Если настройки не
// сохранены или не читаются, возвращаются значения по умолчанию.
func (s *UserService) NotificationPreferences(ctx context.Context, userID string) models.NotificationPreferences {
	prefs, ok, err := s.repo.GetNotificationPreferences(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load notification preferences, using defaults",
			slog.String("user_id", userID), sl.Err(err))
		return models.DefaultNotificationPreferences()
	}
	if !ok {
		return models.DefaultNotificationPreferences()
	}
	return *prefs
}

// UpdateNotificationPreferences сохраняет настройки уведомлений.
func (s *UserService) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	if err := s.repo.UpdateNotificationPreferences(ctx, userID, prefs); err != nil {
		return err
	}
	s.log.Info("notification preferences updated", slog.String("user_id", userID))
	return nil
}
