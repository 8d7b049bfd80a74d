package deal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vendamais/followup-cli/internal/schema"
	"github.com/vendamais/followup-cli/internal/tabular"
)

// Canonical column names the builder reads. These mirror the schema package's
// embedded canonical set.
const (
	colBusinessName = "Nome do negócio"
	colCompany      = "Empresa"
	colPhase        = "Fase"
	colOwner        = "Responsavel"
)

func colTemperature(step int) string {
	return fmt.Sprintf("Temperatura da Proposta Follow %d", step)
}

func colDescription(step int) string {
	return fmt.Sprintf("Descrição Follow up %d", step)
}

// alternates lists historically-seen spellings tried when the canonical
// column is blank. These survive even after normalization because some
// exports carry both a canonical and a variant column.
var alternates = map[string][]string{
	colBusinessName: {"Nome do negocio", "Negócio", "Negocio"},
	colOwner:        {"Responsável", "Vendedor", "Usuario", "Usuário"},
}

func init() {
	for i := 1; i <= Steps; i++ {
		alternates[colTemperature(i)] = []string{
			fmt.Sprintf("Temperatura Follow %d", i),
			fmt.Sprintf("Temperatura %d", i),
		}
		alternates[colDescription(i)] = []string{
			fmt.Sprintf("Descrição do Follow up %d", i),
			fmt.Sprintf("Descricao Follow up %d", i),
			fmt.Sprintf("Follow up %d", i),
		}
	}
}

// Builder converts normalized table rows into deal records.
type Builder struct {
	schema *schema.Schema
}

// NewBuilder creates a Builder using the given schema's positional fallback
// configuration.
func NewBuilder(s *schema.Schema) *Builder {
	return &Builder{schema: s}
}

// BuildRecords converts every row of a normalized table into a Record.
// Rows whose identifying fields and all five descriptions are simultaneously
// blank contribute nothing. Returns the records and the number of skipped
// rows.
func (b *Builder) BuildRecords(t *tabular.Table) ([]Record, int) {
	idx := headerIndex(t.Headers)

	records := make([]Record, 0, len(t.Rows))
	skipped := 0

	for rowNum, row := range t.Rows {
		rec, ok := b.buildRow(idx, row)
		if !ok {
			skipped++
			zap.L().Debug("deal: skipping row without identifying data",
				zap.Int("row", rowNum+1),
			)
			continue
		}
		records = append(records, rec)
	}

	zap.L().Info("deal: records built",
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
	)
	return records, skipped
}

func (b *Builder) buildRow(idx map[string]int, row []string) (Record, bool) {
	lookup := func(canonical string) string {
		return b.lookupField(idx, row, canonical)
	}

	var rec Record
	rec.BusinessName = lookup(colBusinessName)
	rec.Company = lookup(colCompany)
	rec.Phase = lookup(colPhase)
	rec.Owner = lookup(colOwner)
	for i := 1; i <= Steps; i++ {
		rec.Temperatures[i-1] = lookup(colTemperature(i))
		rec.Descriptions[i-1] = lookup(colDescription(i))
	}

	if rec.BusinessName == "" && rec.Company == "" && blankHistory(rec.Descriptions) {
		return Record{}, false
	}

	// Blank fields resolve to sentinels, never to absence.
	if rec.BusinessName == "" {
		rec.BusinessName = NotInformedM
	}
	if rec.Company == "" {
		rec.Company = NotInformedF
	}
	if rec.Phase == "" {
		rec.Phase = NotInformedF
	}
	if rec.Owner == "" {
		rec.Owner = NotInformedM
	}

	return rec, true
}

// lookupField resolves one canonical field from a row. A column that exists
// answers immediately, blank or not; alternate spellings and the configured
// positional fallback apply only when the column is absent entirely. The
// positional indices assume one specific export layout and are best-effort
// only.
func (b *Builder) lookupField(idx map[string]int, row []string, canonical string) string {
	if i, ok := idx[canonical]; ok {
		return cellAt(row, i)
	}

	for _, alt := range alternates[canonical] {
		if i, ok := idx[alt]; ok {
			return cellAt(row, i)
		}
	}

	if pos, ok := b.schema.BuilderPositions[canonical]; ok {
		i := pos
		if i < 0 {
			i = len(row) + i
		}
		return cellAt(row, i)
	}

	return ""
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, exists := idx[h]; !exists {
			idx[h] = i
		}
	}
	return idx
}

func blankHistory(descriptions [Steps]string) bool {
	for _, d := range descriptions {
		if strings.TrimSpace(d) != "" {
			return false
		}
	}
	return true
}
