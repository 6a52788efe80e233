package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const alertColumns = `id, user_id, alert_type, severity, title, message, COALESCE(action_text, ''),
			      COALESCE(action_url, ''), metadata, protocol_id, window_key, is_read, is_dismissed,
			      expires_at, created_at`

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	if err := row.Scan(&a.ID, &a.UserID, &a.AlertType, &a.Severity, &a.Title, &a.Message, &a.ActionText,
		&a.ActionURL, &a.Metadata, &a.ProtocolID, &a.Window, &a.IsRead, &a.IsDismissed,
		&a.ExpiresAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAlertIfAbsent сохраняет уведомление, если для (user, type, protocol, window)
// уведомление ещё не создавалось. Окно ограничено во времени, поэтому истечение
// срока уведомления не открывает его заново. Прочитанные и скрытые уведомления
// тоже учитываются. Вставки одного ключа сериализуются advisory-блокировкой
// транзакции. Второе значение сообщает, было ли уведомление создано.
func (s *Storage) CreateAlertIfAbsent(ctx context.Context, alert models.Alert) (*models.Alert, bool, error) {
	const op = "storage.CreateAlertIfAbsent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, false, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, wrapErr(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, alertLockKey(alert)); err != nil {
		return nil, false, wrapErr(op, err)
	}

	query := `INSERT INTO alerts (user_id, alert_type, severity, title, message, action_text, action_url,
			      metadata, protocol_id, window_key, expires_at)
			  SELECT $1::uuid, $2::text, $3::text, $4::text, $5::text, NULLIF($6::text, ''), NULLIF($7::text, ''),
			      $8::jsonb, $9::uuid, $10::text, $11::timestamptz
			  WHERE NOT EXISTS (
			      SELECT 1 FROM alerts
			      WHERE user_id = $1 AND alert_type = $2
			        AND protocol_id IS NOT DISTINCT FROM $9::uuid
			        AND window_key = $10
			  )
			  RETURNING ` + alertColumns
	created, err := scanAlert(tx.QueryRowContext(ctx, query,
		alert.UserID, alert.AlertType, alert.Severity, alert.Title, alert.Message, alert.ActionText,
		alert.ActionURL, alert.Metadata, alert.ProtocolID, alert.Window, alert.ExpiresAt))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, wrapErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, wrapErr(op, err)
	}
	if created == nil {
		return nil, false, nil
	}
	return created, true, nil
}

// alertLockKey — ключ идемпотентности уведомления.
func alertLockKey(a models.Alert) string {
	protocolID := ""
	if a.ProtocolID != nil {
		protocolID = *a.ProtocolID
	}
	return strings.Join([]string{a.UserID, string(a.AlertType), protocolID, a.Window}, "|")
}

// ListAlerts возвращает актуальные уведомления пользователя: не скрытые и не истёкшие.
func (s *Storage) ListAlerts(ctx context.Context, userID string, unreadOnly bool, now time.Time) ([]models.Alert, error) {
	const op = "storage.ListAlerts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + alertColumns + `
			  FROM alerts
			  WHERE user_id = $1 AND NOT is_dismissed
			    AND (expires_at IS NULL OR expires_at > $2)
			    AND (NOT $3 OR NOT is_read)
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, now, unreadOnly)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// MarkAlertRead помечает уведомление пользователя прочитанным.
func (s *Storage) MarkAlertRead(ctx context.Context, userID, alertID string) error {
	const op = "storage.MarkAlertRead"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`, alertID, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}

// DismissAlert скрывает уведомление пользователя.
func (s *Storage) DismissAlert(ctx context.Context, userID, alertID string) error {
	const op = "storage.DismissAlert"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE alerts SET is_dismissed = TRUE WHERE id = $1 AND user_id = $2`, alertID, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}
