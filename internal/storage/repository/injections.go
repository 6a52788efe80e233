package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const injectionColumns = `i.id, i.user_id, i.peptide_id, p.name, i.dose, i.dose_unit, i.injection_site,
			      i.injected_at, i.notes, i.protocol_id, i.created_at, i.updated_at`

// likeEscaper экранирует спецсимволы шаблона LIKE в пользовательском поиске.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanInjection(row rowScanner) (*models.Injection, error) {
	var inj models.Injection
	if err := row.Scan(&inj.ID, &inj.UserID, &inj.PeptideID, &inj.PeptideName, &inj.Dose, &inj.DoseUnit,
		&inj.InjectionSite, &inj.Timestamp, &inj.Notes, &inj.ProtocolID, &inj.CreatedAt, &inj.UpdatedAt); err != nil {
		return nil, err
	}
	return &inj, nil
}

// ListInjections возвращает инъекции пользователя по фильтру, от новых к старым.
// Limit <= 0 снимает ограничение на количество.
func (s *Storage) ListInjections(ctx context.Context, userID string, filter models.InjectionFilter) ([]models.Injection, error) {
	const op = "storage.ListInjections"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	conds := []string{"i.user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.PeptideID != "" {
		add("i.peptide_id = $%d", filter.PeptideID)
	}
	if filter.ProtocolID != "" {
		add("i.protocol_id = $%d", filter.ProtocolID)
	}
	if filter.From != nil {
		add("i.injected_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("i.injected_at <= $%d", *filter.To)
	}
	if filter.Location != "" {
		add("i.injection_site->>'location' = $%d", string(filter.Location))
	}
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(i.notes ILIKE $%d ESCAPE '\' OR p.name ILIKE $%d ESCAPE '\')`, n, n))
	}

	query := `SELECT ` + injectionColumns + `
			  FROM injections i
			  JOIN peptides p ON p.id = i.peptide_id
			  WHERE ` + strings.Join(conds, " AND ") + `
			  ORDER BY i.injected_at DESC`
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

	result := []models.Injection{}
	for rows.Next() {
		inj, err := scanInjection(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, *inj)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// GetInjection возвращает инъекцию пользователя по ID.
func (s *Storage) GetInjection(ctx context.Context, userID, id string) (*models.Injection, error) {
	const op = "storage.GetInjection"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + injectionColumns + `
			  FROM injections i
			  JOIN peptides p ON p.id = i.peptide_id
			  WHERE i.id = $1 AND i.user_id = $2`
	inj, err := scanInjection(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return inj, nil
}

// CreateInjection сохраняет инъекцию и возвращает её вместе с названием пептида.
func (s *Storage) CreateInjection(ctx context.Context, inj models.Injection) (*models.Injection, error) {
	const op = "storage.CreateInjection"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH i AS (
			      INSERT INTO injections (user_id, peptide_id, dose, dose_unit, injection_site,
			          injected_at, notes, protocol_id)
			      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			      RETURNING *
			  )
			  SELECT ` + injectionColumns + `
			  FROM i JOIN peptides p ON p.id = i.peptide_id`
	created, err := scanInjection(s.DB.QueryRowContext(ctx, query,
		inj.UserID, inj.PeptideID, inj.Dose, inj.DoseUnit, inj.InjectionSite,
		inj.Timestamp, inj.Notes, inj.ProtocolID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return created, nil
}

// UpdateInjection обновляет инъекцию пользователя.
func (s *Storage) UpdateInjection(ctx context.Context, userID, id string, inj models.Injection) (*models.Injection, error) {
	const op = "storage.UpdateInjection"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `WITH i AS (
			      UPDATE injections
			      SET peptide_id = $1, dose = $2, dose_unit = $3, injection_site = $4,
			          injected_at = $5, notes = $6, protocol_id = $7, updated_at = NOW()
			      WHERE id = $8 AND user_id = $9
			      RETURNING *
			  )
			  SELECT ` + injectionColumns + `
			  FROM i JOIN peptides p ON p.id = i.peptide_id`
	updated, err := scanInjection(s.DB.QueryRowContext(ctx, query,
		inj.PeptideID, inj.Dose, inj.DoseUnit, inj.InjectionSite, inj.Timestamp,
		inj.Notes, inj.ProtocolID, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return updated, nil
}

// DeleteInjection удаляет инъекцию пользователя.
func (s *Storage) DeleteInjection(ctx context.Context, userID, id string) error {
	const op = "storage.DeleteInjection"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM injections WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}
