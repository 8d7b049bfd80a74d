package tabular

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// htmlStrategies builds the cascade for HTML payloads: BOM-stripped
// extraction under each text encoding, extraction on the raw bytes, and
// finally a delimited-text sweep — some "HTML" exports carry a CSV body.
func htmlStrategies() []parseStrategy {
	return []parseStrategy{
		{name: "html/bom-stripped", fn: func(data []byte) (*Table, error) {
			return sweepHTML(stripBOM(data))
		}},
		{name: "html/raw", fn: sweepHTML},
		{name: "html/delimited-body", fn: func(data []byte) (*Table, error) {
			return sweepDelimited(data, true)
		}},
	}
}

// sweepHTML decodes the payload under each text encoding, extracts every
// <table>, and keeps the widest one. CRM exports wrap the real data table in
// layout tables, and the data table is reliably the one with most columns.
func sweepHTML(data []byte) (*Table, error) {
	var best *Table
	var lastErr error

	for _, enc := range textEncodings {
		text, err := decodeText(data, enc)
		if err != nil {
			lastErr = err
			continue
		}

		tables, err := extractHTMLTables(text)
		if err != nil {
			lastErr = err
			continue
		}
		for _, t := range tables {
			if best == nil || t.Cols() > best.Cols() {
				best = t
			}
		}
		if best != nil && best.Cols() >= minUsableCols {
			return best, nil
		}
	}

	if best != nil {
		return best, nil
	}
	if lastErr == nil {
		lastErr = eris.New("no <table> element found")
	}
	return nil, eris.Wrap(lastErr, "tabular: html extraction")
}

// extractHTMLTables parses the document and converts each <table> into a
// Table, first row as header.
func extractHTMLTables(text string) ([]*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, eris.Wrap(err, "tabular: parse html")
	}

	var tables []*Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		t := &Table{}
		sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if t.Headers == nil {
				headers := make([]string, len(cells))
				for j, h := range cells {
					headers[j] = cleanHeader(h)
				}
				t.Headers = headers
				return
			}
			t.Rows = append(t.Rows, cells)
		})
		if !t.Empty() {
			tables = append(tables, t)
		}
	})

	return tables, nil
}
