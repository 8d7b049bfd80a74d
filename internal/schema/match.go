package schema

import (
	"go.uber.org/zap"

	"github.com/vendamais/followup-cli/internal/tabular"
)

// matchThreshold is the minimum token-overlap score for a fuzzy header match.
const matchThreshold = 0.6

// Score computes the token-overlap score of a candidate header against a
// wanted header: |intersection| / |wanted tokens|, with stopwords discarded
// on both sides. A score of 1.0 means every significant wanted token is
// present.
func (s *Schema) Score(wanted, candidate string) float64 {
	wantTokens := s.tokens(NormalizeHeader(wanted))
	candTokens := s.tokens(NormalizeHeader(candidate))
	if len(wantTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	common := 0
	for tok := range wantTokens {
		if _, ok := candTokens[tok]; ok {
			common++
		}
	}
	return float64(common) / float64(len(wantTokens))
}

// Mapping maps a header actually present in the file to its canonical name.
// Built per file and discarded after the record builder runs.
type Mapping map[string]string

// MapColumns matches the headers present in a table against the canonical
// schema. Exact matches after normalization win immediately; otherwise the
// highest-scoring candidate at or above the threshold is taken. A present
// header is claimed by at most one canonical column.
func (s *Schema) MapColumns(present []string) Mapping {
	mapping := make(Mapping)
	claimed := make(map[string]struct{})

	for _, col := range s.Canonical {
		wanted := append([]string{col.Name}, col.Variants...)
		for _, w := range wanted {
			if found := s.findSimilar(present, claimed, w); found != "" {
				mapping[found] = col.Name
				claimed[found] = struct{}{}
				break
			}
		}
	}

	zap.L().Debug("schema: column mapping built",
		zap.Int("present", len(present)),
		zap.Int("mapped", len(mapping)),
	)
	return mapping
}

// findSimilar locates the present header matching a wanted name, exact
// normalized match first, then best fuzzy score.
func (s *Schema) findSimilar(present []string, claimed map[string]struct{}, wanted string) string {
	wantedNorm := NormalizeHeader(wanted)

	for _, cand := range present {
		if _, taken := claimed[cand]; taken {
			continue
		}
		if NormalizeHeader(cand) == wantedNorm {
			return cand
		}
	}

	best := ""
	bestScore := 0.0
	for _, cand := range present {
		if _, taken := claimed[cand]; taken {
			continue
		}
		if score := s.Score(wanted, cand); score >= matchThreshold && score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

// Apply renames a table's columns onto the canonical schema and guarantees
// every canonical column exists, creating missing ones empty. Normalization
// never fails and never drops a canonical field. Applying it to an
// already-canonical table is a no-op.
func (s *Schema) Apply(t *tabular.Table) *tabular.Table {
	out := &tabular.Table{
		Headers: make([]string, len(t.Headers)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}

	if t.Headerless() {
		// No header row: name-based matching is meaningless, fall back to
		// the fixed positional layout.
		zap.L().Info("schema: headerless table, applying positional mapping")
		for i, h := range t.Headers {
			if name, ok := s.Positional[i]; ok {
				out.Headers[i] = name
			} else {
				out.Headers[i] = h
			}
		}
	} else {
		mapping := s.MapColumns(t.Headers)
		for i, h := range t.Headers {
			if canonical, ok := mapping[h]; ok {
				out.Headers[i] = canonical
			} else {
				out.Headers[i] = h
			}
		}
		if len(mapping) == 0 {
			zap.L().Warn("schema: no columns matched the canonical schema")
		}
	}

	s.fillMissing(out)
	return out
}

// fillMissing appends empty columns for canonical names absent from the
// table, so downstream field lookup never has to special-case absence.
func (s *Schema) fillMissing(t *tabular.Table) {
	have := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		have[h] = struct{}{}
	}

	var created []string
	for _, col := range s.Canonical {
		if _, ok := have[col.Name]; ok {
			continue
		}
		t.Headers = append(t.Headers, col.Name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
		created = append(created, col.Name)
	}

	if len(created) > 0 {
		zap.L().Info("schema: created missing canonical columns",
			zap.Strings("columns", created),
		)
	}
}
