package postgres

import (
	"context"
	"database/sql"
	"errors"

	report "solar-dgr/internal/report/domain"
)

// DraftRepository persists report drafts.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository constructs a repository.
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Save upserts a draft keyed by (customer, day).
func (r *DraftRepository) Save(ctx context.Context, draft report.Draft) error {
	if r == nil || r.db == nil {
		return errors.New("draft repo: nil db")
	}
	if draft.CustomerID == "" || draft.Day == "" {
		return errors.New("draft repo: missing draft key")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO report_drafts (
	customer_id, day, total_daily_kwh, total_mtd_kwh, total_ytd_kwh,
	plf_percent, file_path, status, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (customer_id, day) DO UPDATE SET
	total_daily_kwh = EXCLUDED.total_daily_kwh,
	total_mtd_kwh = EXCLUDED.total_mtd_kwh,
	total_ytd_kwh = EXCLUDED.total_ytd_kwh,
	plf_percent = EXCLUDED.plf_percent,
	file_path = EXCLUDED.file_path,
	status = EXCLUDED.status,
	updated_at = EXCLUDED.updated_at`,
		draft.CustomerID, draft.Day, draft.TotalDaily, draft.TotalMTD, draft.TotalYTD,
		draft.PLFPercent, draft.FilePath, draft.Status, draft.UpdatedAt)
	return err
}

// Find returns one draft or report.ErrDraftNotFound.
func (r *DraftRepository) Find(ctx context.Context, customerID, day string) (*report.Draft, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("draft repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT customer_id, day, total_daily_kwh, total_mtd_kwh, total_ytd_kwh,
	plf_percent, file_path, status, updated_at
FROM report_drafts
WHERE customer_id = $1 AND day = $2`, customerID, day)
	return scanDraft(row)
}

// List returns all drafts, newest data day first.
func (r *DraftRepository) List(ctx context.Context) ([]report.Draft, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("draft repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT customer_id, day, total_daily_kwh, total_mtd_kwh, total_ytd_kwh,
	plf_percent, file_path, status, updated_at
FROM report_drafts
ORDER BY day DESC, customer_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []report.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

// UpdateStatus transitions a draft's status.
func (r *DraftRepository) UpdateStatus(ctx context.Context, customerID, day, status string) error {
	if r == nil || r.db == nil {
		return errors.New("draft repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE report_drafts SET status = $3, updated_at = NOW()
WHERE customer_id = $1 AND day = $2`, customerID, day, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return report.ErrDraftNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*report.Draft, error) {
	var draft report.Draft
	err := row.Scan(&draft.CustomerID, &draft.Day, &draft.TotalDaily, &draft.TotalMTD,
		&draft.TotalYTD, &draft.PLFPercent, &draft.FilePath, &draft.Status, &draft.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, report.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}
