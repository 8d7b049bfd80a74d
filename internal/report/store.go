package report

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a report does not exist or has expired.
var ErrNotFound = eris.New("report not found")

// Summary is the listing view of a stored report.
type Summary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Deals     int       `json:"deals"`
}

// Store persists reports. Reports are write-once: a report is saved in full
// after processing and never updated.
type Store interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context) ([]Summary, error)
	DeleteExpired(ctx context.Context) (int, error)
	Close() error
}
