package matching

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. JSONB columns carry the analysis
// payloads; writes are full-field updates keyed by request id.
type PGRepo struct {
	DB *sql.DB
}

const requestColumns = `id, company_id, target_countries, company_description, product_info, market_info,
status, workflow_status, ai_analysis, market_research, admin_comments, final_report, error_details,
created_at, updated_at, completed_at, approved_at`

// Create inserts a new matching request.
func (r *PGRepo) Create(ctx context.Context, req MatchingRequest) (MatchingRequest, error) {
	const query = `
INSERT INTO matching_requests (company_id, target_countries, company_description, product_info, market_info, status, workflow_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id`

	countries, err := json.Marshal(req.TargetCountries)
	if err != nil {
		return MatchingRequest{}, err
	}

	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	err = r.DB.QueryRowContext(
		ctx,
		query,
		req.CompanyID,
		countries,
		req.CompanyDescription,
		req.ProductInfo,
		req.MarketInfo,
		req.Status,
		req.WorkflowStatus,
		now,
	).Scan(&req.ID)
	if err != nil {
		return MatchingRequest{}, err
	}
	return req, nil
}

// GetByID fetches a matching request by id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (MatchingRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM matching_requests WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, query, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MatchingRequest{}, ErrNotFound
		}
		return MatchingRequest{}, err
	}
	return req, nil
}

// List returns all matching requests, newest first.
func (r *PGRepo) List(ctx context.Context) ([]MatchingRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM matching_requests ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchingRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// UpdateWorkflowStatus writes the fine-grained and coarse status fields.
func (r *PGRepo) UpdateWorkflowStatus(ctx context.Context, id int64, workflowStatus, status string) error {
	const query = `
UPDATE matching_requests
SET workflow_status = $1, status = $2, updated_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, workflowStatus, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateAIAnalysis writes the language-model branch output together with the
// merged market_research mapping and the new status pair.
func (r *PGRepo) UpdateAIAnalysis(ctx context.Context, id int64, analysis, research map[string]any, workflowStatus, status string) error {
	const query = `
UPDATE matching_requests
SET ai_analysis = $1, market_research = $2, workflow_status = $3, status = $4, updated_at = $5
WHERE id = $6`
	analysisJSON, err := marshalJSONB(analysis)
	if err != nil {
		return err
	}
	researchJSON, err := marshalJSONB(research)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, analysisJSON, researchJSON, workflowStatus, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateMarketResearch writes the merged market_research mapping, leaving
// ai_analysis untouched.
func (r *PGRepo) UpdateMarketResearch(ctx context.Context, id int64, research map[string]any, workflowStatus, status string) error {
	const query = `
UPDATE matching_requests
SET market_research = $1, workflow_status = $2, status = $3, updated_at = $4
WHERE id = $5`
	researchJSON, err := marshalJSONB(research)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, researchJSON, workflowStatus, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateErrorDetails records the last failure context.
func (r *PGRepo) UpdateErrorDetails(ctx context.Context, id int64, details map[string]any, workflowStatus string) error {
	const query = `
UPDATE matching_requests
SET error_details = $1, workflow_status = $2, updated_at = $3
WHERE id = $4`
	detailsJSON, err := marshalJSONB(details)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, detailsJSON, workflowStatus, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Approve freezes the final report. The final_report IS NULL guard makes the
// snapshot write-once; a second approval returns ErrAlreadyFinalized.
func (r *PGRepo) Approve(ctx context.Context, id int64, comments string, finalReport map[string]any, approvedAt time.Time) error {
	const query = `
UPDATE matching_requests
SET final_report = $1, admin_comments = $2, workflow_status = $3, status = $4,
    approved_at = $5, completed_at = $5, updated_at = $5
WHERE id = $6 AND final_report IS NULL`
	reportJSON, err := marshalJSONB(finalReport)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, reportJSON, comments, WorkflowFinalized, StatusCompleted, approvedAt, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, lookupErr := r.GetByID(ctx, id); errors.Is(lookupErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrAlreadyFinalized
	}
	return nil
}

// Reject records the reason and reverts the coarse status to pending so the
// workflow can be resubmitted.
func (r *PGRepo) Reject(ctx context.Context, id int64, reason string) error {
	const query = `
UPDATE matching_requests
SET workflow_status = $1, status = $2, admin_comments = $3, updated_at = $4
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, WorkflowRejected, StatusPending, reason, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (MatchingRequest, error) {
	var req MatchingRequest
	var countries []byte
	var analysis, research, finalReport, errorDetails []byte
	var adminComments sql.NullString
	var completedAt, approvedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.CompanyID,
		&countries,
		&req.CompanyDescription,
		&req.ProductInfo,
		&req.MarketInfo,
		&req.Status,
		&req.WorkflowStatus,
		&analysis,
		&research,
		&adminComments,
		&finalReport,
		&errorDetails,
		&req.CreatedAt,
		&req.UpdatedAt,
		&completedAt,
		&approvedAt,
	)
	if err != nil {
		return MatchingRequest{}, err
	}

	if err := json.Unmarshal(countries, &req.TargetCountries); err != nil {
		return MatchingRequest{}, err
	}
	if err := unmarshalJSONB(analysis, &req.AIAnalysis); err != nil {
		return MatchingRequest{}, err
	}
	if err := unmarshalJSONB(research, &req.MarketResearch); err != nil {
		return MatchingRequest{}, err
	}
	if err := unmarshalJSONB(finalReport, &req.FinalReport); err != nil {
		return MatchingRequest{}, err
	}
	if err := unmarshalJSONB(errorDetails, &req.ErrorDetails); err != nil {
		return MatchingRequest{}, err
	}
	if adminComments.Valid {
		req.AdminComments = adminComments.String
	}
	if completedAt.Valid {
		req.CompletedAt = &completedAt.Time
	}
	if approvedAt.Valid {
		req.ApprovedAt = &approvedAt.Time
	}
	return req, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalJSONB(value map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}

func unmarshalJSONB(raw []byte, target *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
