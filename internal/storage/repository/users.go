package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const userColumns = `id, email, username, password_hash, preferences, subscription_tier, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Preferences,
		&u.SubscriptionTier, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его ID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO users (email, username, password_hash, preferences, subscription_tier)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Preferences, user.SubscriptionTier).Scan(&newID); err != nil {
		return "", wrapErr(op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей. Используется планировщиком уведомлений.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// UpdateUserPreferences сохраняет настройки профиля и возвращает обновлённого пользователя.
func (s *Storage) UpdateUserPreferences(ctx context.Context, userID string, prefs models.UserPreferences) (*models.User, error) {
	const op = "storage.UpdateUserPreferences"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users SET preferences = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, prefs, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// GetNotificationPreferences возвращает настройки уведомлений пользователя.
// Второе значение false, если пользователь их ещё не сохранял.
func (s *Storage) GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, bool, error) {
	const op = "storage.GetNotificationPreferences"
	if err := checkCtx(ctx, op); err != nil {
		return nil, false, err
	}

	var raw sql.NullString
	err := s.DB.QueryRowContext(ctx,
		`SELECT notification_preferences FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		return nil, false, wrapErr(op, err)
	}
	if !raw.Valid {
		return nil, false, nil
	}
	var prefs models.NotificationPreferences
	if err := prefs.Scan(raw.String); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &prefs, true, nil
}

// UpdateNotificationPreferences сохраняет настройки уведомлений пользователя.
func (s *Storage) UpdateNotificationPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	const op = "storage.UpdateNotificationPreferences"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET notification_preferences = $1, updated_at = NOW() WHERE id = $2`, prefs, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}
