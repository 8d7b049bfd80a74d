package tabular

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
)

// excelStrategies builds the structured-parse cascade for a claimed
// extension: the engine matching the extension first, then the alternate
// engine, then both again on BOM-stripped bytes. Some exporters prepend a
// text BOM to an otherwise valid container.
func excelStrategies(ext string) []parseStrategy {
	tealeg := parseStrategy{name: "excel/tealeg", fn: parseTealeg}
	excelz := parseStrategy{name: "excel/excelize", fn: parseExcelize}

	var engines []parseStrategy
	if ext == "xls" {
		// excelize tolerates more container quirks, so it leads for .xls.
		engines = []parseStrategy{excelz, tealeg}
	} else {
		engines = []parseStrategy{tealeg, excelz}
	}

	ordered := make([]parseStrategy, 0, len(engines)*2)
	ordered = append(ordered, engines...)
	for _, s := range engines {
		fn := s.fn
		ordered = append(ordered, parseStrategy{
			name: s.name + "/bom-stripped",
			fn: func(data []byte) (*Table, error) {
				stripped := stripBOM(data)
				if len(stripped) == len(data) {
					return nil, eris.New("no BOM to strip")
				}
				return fn(stripped)
			},
		})
	}

	return ordered
}

// parseTealeg parses an XLSX workbook with tealeg/xlsx, reading the first
// sheet and treating the first row as the header.
func parseTealeg(data []byte) (*Table, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "tabular: xlsx open")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("tabular: xlsx workbook has no sheets")
	}

	sheet := f.Sheets[0]
	t := &Table{}
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			headers := make([]string, len(cells))
			for j, h := range cells {
				headers[j] = cleanHeader(h)
			}
			t.Headers = headers
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

// parseExcelize parses a workbook with excelize, same sheet and header
// conventions as parseTealeg.
func parseExcelize(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "tabular: excelize open")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, eris.New("tabular: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: read sheet %s", sheets[0])
	}

	t := &Table{}
	for i, row := range rows {
		if i == 0 {
			headers := make([]string, len(row))
			for j, h := range row {
				headers[j] = cleanHeader(h)
			}
			t.Headers = headers
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
