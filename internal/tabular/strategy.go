package tabular

import (
	"fmt"

	"go.uber.org/zap"
)

// parseStrategy is one named format hypothesis: a pure function from file
// bytes to a table. Strategies are tried in order by runStrategies, which
// makes the fallback chain explicit and each hypothesis independently
// testable.
type parseStrategy struct {
	name string
	fn   func(data []byte) (*Table, error)
}

// minUsableCols is the acceptance bar for a parse: a single-column result
// almost always means the delimiter or format guess was wrong.
const minUsableCols = 2

// runStrategies tries each strategy in order and returns the first table
// with at least minUsableCols columns. Failed attempts are collected for the
// eventual FormatError.
func runStrategies(strategies []parseStrategy, data []byte, attempts *[]string) *Table {
	for _, s := range strategies {
		t, err := s.fn(data)
		if err != nil {
			*attempts = append(*attempts, fmt.Sprintf("%s: %v", s.name, err))
			continue
		}
		if t.Empty() || t.Cols() < minUsableCols {
			*attempts = append(*attempts, fmt.Sprintf("%s: %d columns", s.name, t.Cols()))
			continue
		}

		t.squareOff()
		zap.L().Info("tabular: parse strategy succeeded",
			zap.String("strategy", s.name),
			zap.Int("rows", len(t.Rows)),
			zap.Int("cols", t.Cols()),
		)
		return t
	}
	return nil
}
