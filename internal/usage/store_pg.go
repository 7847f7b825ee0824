package usage

import (
	"context"
	"database/sql"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed call ledger.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Insert(ctx context.Context, call Call) error {
	const query = `
INSERT INTO ai_call_log (company_id, matching_request_id, provider, model, purpose, requested_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(
		ctx,
		query,
		call.CompanyID,
		call.MatchingRequestID,
		call.Provider,
		call.Model,
		call.Purpose,
		call.RequestedAt,
	)
	return err
}

func (s *pgStore) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	const query = `
SELECT provider, COUNT(*)
FROM ai_call_log
WHERE requested_at >= $1
GROUP BY provider`

	rows, err := s.DB.QueryContext(ctx, query, since)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	summary := Summary{Since: since, ByProvider: make(map[string]int)}
	for rows.Next() {
		var provider string
		var count int
		if err := rows.Scan(&provider, &count); err != nil {
			return Summary{}, err
		}
		summary.ByProvider[provider] = count
		summary.Total += count
	}
	return summary, rows.Err()
}
