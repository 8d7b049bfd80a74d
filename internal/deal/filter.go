package deal

import (
	"strings"

	"go.uber.org/zap"
)

// hiddenPhases lists the pipeline stages preceding "Proposta". Deals still
// in these stages have no follow-up sequence to coach and are filtered out
// of the presented report.
var hiddenPhases = []string{"oportunidade", "contato", "conectado", "reunião"}

// FilterByPhase keeps only records whose phase is at or past the proposal
// stage. Matching is a case-insensitive substring test, so "Contato Inicial"
// and "1º Contato" are both hidden. Records with no phase are kept.
func FilterByPhase(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if hiddenPhase(r.Phase) {
			continue
		}
		out = append(out, r)
	}

	zap.L().Info("deal: phase filter applied",
		zap.Int("before", len(records)),
		zap.Int("after", len(out)),
	)
	return out
}

func hiddenPhase(phase string) bool {
	p := strings.ToLower(strings.TrimSpace(phase))
	if p == "" || p == strings.ToLower(NotInformedF) {
		return false
	}
	for _, hidden := range hiddenPhases {
		if strings.Contains(p, hidden) {
			return true
		}
	}
	return false
}

// GroupByOwner groups records by account owner, preserving first-seen owner
// order so the report reads in input order.
func GroupByOwner(records []Record) (map[string][]Record, []string) {
	grouped := make(map[string][]Record)
	var owners []string

	for _, r := range records {
		owner := r.Owner
		if owner == "" {
			owner = NotInformedM
		}
		if _, seen := grouped[owner]; !seen {
			owners = append(owners, owner)
		}
		grouped[owner] = append(grouped[owner], r)
	}

	return grouped, owners
}
