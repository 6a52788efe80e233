package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/peptide-tracker/internal/models"
)

const peptideColumns = `id, user_id, name, is_custom, category, typical_dose_range, safety_notes,
			      content_id, created_at, updated_at`

func scanPeptide(row rowScanner) (*models.Peptide, error) {
	var p models.Peptide
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.IsCustom, &p.Category, &p.TypicalDoseRange,
		&p.SafetyNotes, &p.ContentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPeptides возвращает пептиды, доступные пользователю: его собственные и глобальные.
func (s *Storage) ListPeptides(ctx context.Context, userID string, filter models.PeptideFilter) ([]models.Peptide, error) {
	const op = "storage.ListPeptides"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	conds := []string{"(user_id = $1 OR user_id IS NULL)"}
	args := []any{userID}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.IsCustom != nil {
		args = append(args, *filter.IsCustom)
		conds = append(conds, fmt.Sprintf("is_custom = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + peptideColumns + `
			  FROM peptides
			  WHERE ` + strings.Join(conds, " AND ") + `
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Peptide{}
	for rows.Next() {
		p, err := scanPeptide(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// ListPeptideTemplates возвращает активные записи глобального каталога.
func (s *Storage) ListPeptideTemplates(ctx context.Context) ([]models.PeptideTemplate, error) {
	const op = "storage.ListPeptideTemplates"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, category, typical_dose_range, safety_notes, content_id,
			      description, is_active, created_at, updated_at
			  FROM peptide_templates
			  WHERE is_active = TRUE
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.PeptideTemplate{}
	for rows.Next() {
		var t models.PeptideTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.TypicalDoseRange, &t.SafetyNotes,
			&t.ContentID, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, wrapErr(op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return result, nil
}

// GetPeptide возвращает пептид по ID, если он принадлежит пользователю или глобальный.
func (s *Storage) GetPeptide(ctx context.Context, userID, id string) (*models.Peptide, error) {
	const op = "storage.GetPeptide"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + peptideColumns + `
			  FROM peptides
			  WHERE id = $1 AND (user_id = $2 OR user_id IS NULL)`
	p, err := scanPeptide(s.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

// CreatePeptide сохраняет пользовательский пептид.
func (s *Storage) CreatePeptide(ctx context.Context, p models.Peptide) (*models.Peptide, error) {
	const op = "storage.CreatePeptide"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO peptides (user_id, name, is_custom, category, typical_dose_range, safety_notes, content_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + peptideColumns
	created, err := scanPeptide(s.DB.QueryRowContext(ctx, query,
		p.UserID, p.Name, p.IsCustom, p.Category, p.TypicalDoseRange, p.SafetyNotes, p.ContentID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return created, nil
}

// UpdatePeptide обновляет пептид пользователя. Глобальные пептиды изменить нельзя.
func (s *Storage) UpdatePeptide(ctx context.Context, userID, id string, p models.Peptide) (*models.Peptide, error) {
	const op = "storage.UpdatePeptide"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE peptides
			  SET name = $1, category = $2, typical_dose_range = $3, safety_notes = $4,
			      content_id = $5, updated_at = NOW()
			  WHERE id = $6 AND user_id = $7
			  RETURNING ` + peptideColumns
	updated, err := scanPeptide(s.DB.QueryRowContext(ctx, query,
		p.Name, p.Category, p.TypicalDoseRange, p.SafetyNotes, p.ContentID, id, userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return updated, nil
}

// DeletePeptide удаляет пептид пользователя.
func (s *Storage) DeletePeptide(ctx context.Context, userID, id string) error {
	const op = "storage.DeletePeptide"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM peptides WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return checkAffected(op, result)
}
