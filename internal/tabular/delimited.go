package tabular

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// delimiters is the fixed set tried for delimited text, semicolon first
// because that is what pt-BR locale Excel exports.
var delimiters = []rune{';', ',', '\t'}

// delimitedStrategies yields one strategy per (header mode) that internally
// sweeps the delimiter × encoding matrix. Header-row attempts run before
// headerless ones so a real header is never mistaken for data.
func delimitedStrategies() []parseStrategy {
	return []parseStrategy{
		{name: "delimited/header", fn: func(data []byte) (*Table, error) {
			return sweepDelimited(data, true)
		}},
		{name: "delimited/headerless", fn: func(data []byte) (*Table, error) {
			return sweepDelimited(data, false)
		}},
	}
}

// sweepDelimited tries every encoding and delimiter combination and accepts
// the first parse yielding more than one column.
func sweepDelimited(data []byte, hasHeader bool) (*Table, error) {
	var lastErr error
	for _, enc := range textEncodings {
		text, err := decodeText(data, enc)
		if err != nil {
			lastErr = err
			continue
		}
		for _, delim := range delimiters {
			t, err := parseDelimited(text, delim, hasHeader)
			if err != nil {
				lastErr = err
				continue
			}
			if t.Cols() >= minUsableCols {
				return t, nil
			}
		}
	}
	if lastErr == nil {
		lastErr = eris.New("no delimiter/encoding combination yielded multiple columns")
	}
	return nil, eris.Wrap(lastErr, "tabular: delimited sweep")
}

// parseDelimited parses text with a single fixed delimiter.
func parseDelimited(text string, delim rune, hasHeader bool) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1 // allow variable fields
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	t := &Table{}
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "tabular: read delimited row")
		}

		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}

		if first {
			first = false
			if hasHeader {
				headers := make([]string, len(record))
				for i, h := range record {
					headers[i] = cleanHeader(h)
				}
				t.Headers = headers
				continue
			}
			t.Headers = sequentialHeaders(len(record))
		}

		t.Rows = append(t.Rows, record)
	}

	return t, nil
}
