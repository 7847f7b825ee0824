package companies

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

// Create inserts a new company.
func (r *PGRepo) Create(ctx context.Context, company Company) (Company, error) {
	const query = `
INSERT INTO companies (name, industry, contact_email, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING id`
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	err := r.DB.QueryRowContext(ctx, query,
		company.Name,
		company.Industry,
		company.ContactEmail,
		now,
	).Scan(&company.ID)
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

// GetByID returns a company by ID.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Company, error) {
	const query = `
SELECT id, name, industry, contact_email, created_at, updated_at
FROM companies
WHERE id = $1
LIMIT 1`
	var company Company
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Industry,
		&company.ContactEmail,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

var _ Repo = (*PGRepo)(nil)
