// Package report assembles processed deal records into a shareable report,
// persists it with a TTL, and renders it as HTML.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendamais/followup-cli/internal/deal"
)

// Report is one processed spreadsheet: the coached records grouped by
// account owner, plus bookkeeping for caching and expiry.
type Report struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Records []deal.Record            `json:"records"`
	Owners  []string                 `json:"owners"`
	ByOwner map[string][]deal.Record `json:"by_owner"`

	// Skipped counts input rows dropped as empty during record building.
	Skipped int `json:"skipped"`
}

// New builds a report from filtered records. Owner grouping preserves input
// order. The ID is a short token suitable for URLs.
func New(filename string, records []deal.Record, skipped int, ttl time.Duration) *Report {
	byOwner, owners := deal.GroupByOwner(records)
	now := time.Now().UTC()

	return &Report{
		ID:        uuid.NewString()[:8],
		Filename:  filename,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Records:   records,
		Owners:    owners,
		ByOwner:   byOwner,
		Skipped:   skipped,
	}
}

// Expired reports whether the report has passed its TTL.
func (r *Report) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// OwnerRecords returns the records for one account owner.
func (r *Report) OwnerRecords(owner string) ([]deal.Record, bool) {
	recs, ok := r.ByOwner[owner]
	return recs, ok
}
