package prompts

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new prompt template.
func (r *PGRepo) Create(ctx context.Context, tmpl Template) (Template, error) {
	const query = `
INSERT INTO prompt_templates (prompt_type, system_prompt, user_prompt_template, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING id`
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now
	err := r.DB.QueryRowContext(ctx, query,
		tmpl.PromptType,
		tmpl.SystemPrompt,
		tmpl.UserPromptTemplate,
		tmpl.IsActive,
		now,
	).Scan(&tmpl.ID)
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

// Update replaces the editable fields of an existing template.
func (r *PGRepo) Update(ctx context.Context, tmpl Template) (Template, error) {
	const query = `
UPDATE prompt_templates
SET prompt_type = $2, system_prompt = $3, user_prompt_template = $4, is_active = $5, updated_at = $6
WHERE id = $1`
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx, query,
		tmpl.ID,
		tmpl.PromptType,
		tmpl.SystemPrompt,
		tmpl.UserPromptTemplate,
		tmpl.IsActive,
		now,
	)
	if err != nil {
		return Template{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Template{}, err
	}
	if affected == 0 {
		return Template{}, ErrNotFound
	}
	tmpl.UpdatedAt = now
	return tmpl, nil
}

// GetByID returns a template by ID.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Template, error) {
	const query = `
SELECT id, prompt_type, system_prompt, user_prompt_template, is_active, created_at, updated_at
FROM prompt_templates
WHERE id = $1
LIMIT 1`
	var tmpl Template
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&tmpl.ID,
		&tmpl.PromptType,
		&tmpl.SystemPrompt,
		&tmpl.UserPromptTemplate,
		&tmpl.IsActive,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

// List returns all templates, newest-updated first.
func (r *PGRepo) List(ctx context.Context) ([]Template, error) {
	const query = `
SELECT id, prompt_type, system_prompt, user_prompt_template, is_active, created_at, updated_at
FROM prompt_templates
ORDER BY updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Template{}
	for rows.Next() {
		var tmpl Template
		if err := rows.Scan(
			&tmpl.ID,
			&tmpl.PromptType,
			&tmpl.SystemPrompt,
			&tmpl.UserPromptTemplate,
			&tmpl.IsActive,
			&tmpl.CreatedAt,
			&tmpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, tmpl)
	}
	return out, rows.Err()
}

// LatestActiveByPurpose returns the newest active template whose type contains the purpose.
func (r *PGRepo) LatestActiveByPurpose(ctx context.Context, purpose string) (Template, error) {
	const query = `
SELECT id, prompt_type, system_prompt, user_prompt_template, is_active, created_at, updated_at
FROM prompt_templates
WHERE is_active = TRUE AND prompt_type LIKE '%' || $1 || '%'
ORDER BY updated_at DESC
LIMIT 1`
	var tmpl Template
	err := r.DB.QueryRowContext(ctx, query, purpose).Scan(
		&tmpl.ID,
		&tmpl.PromptType,
		&tmpl.SystemPrompt,
		&tmpl.UserPromptTemplate,
		&tmpl.IsActive,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

var _ Repo = (*PGRepo)(nil)
