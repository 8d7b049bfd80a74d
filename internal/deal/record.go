// Package deal models one row of the sales pipeline: a deal record with its
// five-step follow-up history, the resolution of where the conversation
// stopped, and the phase filter applied before presentation.
package deal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Steps is the fixed length of the follow-up sequence.
const Steps = 5

// Sentinel values used instead of missing fields. Downstream code never has
// to special-case absence.
const (
	NotInformedM = "Não informado"
	NotInformedF = "Não informada"
)

// Record is one deal. Temperatures and Descriptions are indexed 0..4 for
// follow-up steps 1..5.
type Record struct {
	BusinessName string `json:"business_name"`
	Company      string `json:"company"`
	Phase        string `json:"phase"`
	Owner        string `json:"owner"`

	Temperatures [Steps]string `json:"temperatures"`
	Descriptions [Steps]string `json:"descriptions"`

	// Derived by Resolve.
	LastStep           int    `json:"last_step"` // 0..5, 0 = nothing answered yet
	NextStep           int    `json:"next_step"` // 1..5
	CurrentTemperature string `json:"current_temperature"`

	// Filled by the strategy generator.
	Recommendation string `json:"recommendation"`
}

// Fingerprint returns a stable hash over the identifying and historical
// fields, used for recommendation cache keying and deduplication. Derived
// fields and the recommendation itself do not participate.
func (r *Record) Fingerprint() string {
	var b strings.Builder
	b.WriteString(r.BusinessName)
	b.WriteByte('|')
	b.WriteString(r.Company)
	b.WriteByte('|')
	b.WriteString(r.Phase)
	for i := 0; i < Steps; i++ {
		b.WriteByte('|')
		b.WriteString(r.Descriptions[i])
		b.WriteByte('|')
		b.WriteString(r.Temperatures[i])
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
