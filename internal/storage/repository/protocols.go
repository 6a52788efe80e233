package repository

import (
	"context"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const protocolColumns = `pr.id, pr.user_id, pr.peptide_id, p.name, pr.name, pr.weekly_target, pr.daily_target,
			      pr.schedule_type, pr.schedule_config, pr.start_date, pr.end_date, pr.is_active,
			      pr.created_at, pr.updated_at`

func scanProtocol(row rowScanner) (*models.Protocol, error) {
	var pr models.Protocol
	if err := row.Scan(&pr.ID, &pr.UserID, &pr.PeptideID, &pr.PeptideName, &pr.Name, &pr.WeeklyTarget,
		&pr.DailyTarget, &pr.ScheduleType, &pr.ScheduleConfig, &pr.StartDate, &pr.EndDate, &pr.IsActive,
		&pr.CreatedAt, &pr.UpdatedAt); err != nil {
		return nil, err
	}
	return &pr, nil
}

// ListProtocols возвращает протоколы пользователя. Без includeInactive только активные.
func (s *Storage) ListProtocols(ctx context.Context, userID string, includeInactive bool) ([]models.Protocol, error) {
	const op = "storage.ListProtocols"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + protocolColumns + `
			  FROM protocols pr
			  JOIN peptides p ON p.id = pr.peptide_id
			  WHERE pr.user_id = $1 AND ($2 OR pr.is_active)
			  ORDER BY pr.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, includeInactive)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Protocol{}
	for rows.Next() {
		pr, err := scanProtocol(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, *pr)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// GetProtocol возвращает протокол пользователя по ID.
func (s *Storage) GetProtocol(ctx context.Context, userID, id string) (*models.Protocol, error) {
	const op = "storage.GetProtocol"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + protocolColumns + `
			  FROM protocols pr
			  JOIN peptides p ON p.id = pr.peptide_id
			  WHERE pr.id = $1 AND pr.user_id = $2`
	pr, err := scanProtocol(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return pr, nil
}

// CreateProtocol сохраняет протокол.
func (s *Storage) CreateProtocol(ctx context.Context, pr models.Protocol) (*models.Protocol, error) {
	const op = "storage.CreateProtocol"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH pr AS (
			      INSERT INTO protocols (user_id, peptide_id, name, weekly_target, daily_target,
			          schedule_type, schedule_config, start_date, end_date, is_active)
			      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			      RETURNING *
			  )
			  SELECT ` + protocolColumns + `
			  FROM pr JOIN peptides p ON p.id = pr.peptide_id`
	created, err := scanProtocol(s.DB.QueryRowContext(ctx, query,
		pr.UserID, pr.PeptideID, pr.Name, pr.WeeklyTarget, pr.DailyTarget,
		pr.ScheduleType, pr.ScheduleConfig, pr.StartDate, pr.EndDate, pr.IsActive))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return created, nil
}

// UpdateProtocol обновляет протокол пользователя.
func (s *Storage) UpdateProtocol(ctx context.Context, userID, id string, pr models.Protocol) (*models.Protocol, error) {
	const op = "storage.UpdateProtocol"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH pr AS (
			      UPDATE protocols
			      SET peptide_id = $1, name = $2, weekly_target = $3, daily_target = $4,
			          schedule_type = $5, schedule_config = $6, start_date = $7, end_date = $8,
			          is_active = $9, updated_at = NOW()
			      WHERE id = $10 AND user_id = $11
			      RETURNING *
			  )
			  SELECT ` + protocolColumns + `
			  FROM pr JOIN peptides p ON p.id = pr.peptide_id`
	updated, err := scanProtocol(s.DB.QueryRowContext(ctx, query,
		pr.PeptideID, pr.Name, pr.WeeklyTarget, pr.DailyTarget, pr.ScheduleType, pr.ScheduleConfig,
		pr.StartDate, pr.EndDate, pr.IsActive, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return updated, nil
}

// DeleteProtocol удаляет протокол пользователя.
func (s *Storage) DeleteProtocol(ctx context.Context, userID, id string) error {
	const op = "storage.DeleteProtocol"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM protocols WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}
