package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const wellnessColumns = `id, user_id, metric_type, value, unit, recorded_at, notes, injection_id, created_at, updated_at`

func scanWellnessMetric(row rowScanner) (*models.WellnessMetric, error) {
	var m models.WellnessMetric
	if err := row.Scan(&m.ID, &m.UserID, &m.MetricType, &m.Value, &m.Unit, &m.Timestamp,
		&m.Notes, &m.InjectionID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListWellnessMetrics возвращает показатели пользователя по фильтру, от новых к старым.
func (s *Storage) ListWellnessMetrics(ctx context.Context, userID string, filter models.WellnessFilter) ([]models.WellnessMetric, error) {
	const op = "storage.ListWellnessMetrics"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.MetricType != "" {
		add("metric_type = $%d", string(filter.MetricType))
	}
	if filter.From != nil {
		add("recorded_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("recorded_at <= $%d", *filter.To)
	}
	if filter.InjectionID != "" {
		add("injection_id = $%d", filter.InjectionID)
	}

	query := `SELECT ` + wellnessColumns + `
			  FROM wellness_metrics
			  WHERE ` + strings.Join(conds, " AND ") + `
			  ORDER BY recorded_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.WellnessMetric{}
	for rows.Next() {
		m, err := scanWellnessMetric(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// CreateWellnessMetric сохраняет показатель.
func (s *Storage) CreateWellnessMetric(ctx context.Context, m models.WellnessMetric) (*models.WellnessMetric, error) {
	const op = "storage.CreateWellnessMetric"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO wellness_metrics (user_id, metric_type, value, unit, recorded_at, notes, injection_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + wellnessColumns
	created, err := scanWellnessMetric(s.DB.QueryRowContext(ctx, query,
		m.UserID, m.MetricType, m.Value, m.Unit, m.Timestamp, m.Notes, m.InjectionID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return created, nil
}
