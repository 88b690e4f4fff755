package report

import "context"

// DraftRepository persists report drafts keyed by (customer, data day).
type DraftRepository interface {
	Save(ctx context.Context, draft Draft) error
	Find(ctx context.Context, customerID, day string) (*Draft, error)
	List(ctx context.Context) ([]Draft, error)
	UpdateStatus(ctx context.Context, customerID, day, status string) error
}
