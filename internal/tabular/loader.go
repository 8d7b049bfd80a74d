package tabular

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Load parses file bytes into a Table. The claimed filename only selects
// which hypotheses are tried first; content sniffing decides what the file
// actually is. Returns a *FormatError when every hypothesis fails or the
// result holds no data.
func Load(data []byte, filename string) (*Table, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	kind := sniff(data)

	log := zap.L().With(
		zap.String("file", filename),
		zap.String("ext", ext),
		zap.Int("bytes", len(data)),
	)

	var strategies []parseStrategy
	switch {
	case ext == "csv" && kind != kindHTML:
		strategies = delimitedStrategies()
	case kind == kindBinary:
		strategies = excelStrategies(ext)
	case kind == kindHTML:
		log.Warn("tabular: HTML content behind a spreadsheet extension")
		strategies = htmlStrategies()
	case ext == "xls" || ext == "xlsx":
		// Extension claims a spreadsheet even though no signature matched.
		// The extension is untrustworthy, but the content might still parse.
		strategies = excelStrategies(ext)
	default:
		strategies = delimitedStrategies()
	}

	var attempts []string
	t := runStrategies(strategies, data, &attempts)

	// A CSV extension on top of binary or unclassified content falls back to
	// the structured engines before giving up.
	if t == nil && ext == "csv" && kind != kindHTML {
		t = runStrategies(excelStrategies("xlsx"), data, &attempts)
	}

	if t == nil {
		return nil, &FormatError{Class: classify(kind), Filename: filename, Attempts: attempts}
	}
	if t.Empty() {
		return nil, &FormatError{Class: FormatEmpty, Filename: filename}
	}

	log.Info("tabular: file loaded",
		zap.Int("rows", len(t.Rows)),
		zap.Int("cols", t.Cols()),
		zap.Bool("headerless", t.Headerless()),
	)
	return t, nil
}

func classify(kind contentKind) FormatClass {
	switch kind {
	case kindHTML:
		return FormatHTML
	case kindBinary:
		return FormatBinary
	default:
		return FormatUnknown
	}
}
