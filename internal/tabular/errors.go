package tabular

import (
	"fmt"
	"strings"
)

// FormatClass names which content classification the loader settled on before
// giving up.
type FormatClass string

const (
	// FormatHTML means HTML markers were detected but no table could be extracted.
	FormatHTML FormatClass = "html"
	// FormatBinary means a valid spreadsheet signature was found but no engine could parse it.
	FormatBinary FormatClass = "binary"
	// FormatUnknown means neither classification matched and every hypothesis failed.
	FormatUnknown FormatClass = "unknown"
	// FormatEmpty means a table parsed but contained no data.
	FormatEmpty FormatClass = "empty"
)

// FormatError is the terminal load failure. It names the classification that
// won the sniff and the parse hypotheses that were attempted.
type FormatError struct {
	Class    FormatClass
	Filename string
	Attempts []string
}

func (e *FormatError) Error() string {
	detail := "no parse strategy attempted"
	if len(e.Attempts) > 0 {
		detail = strings.Join(e.Attempts, "; ")
	}

	switch e.Class {
	case FormatHTML:
		return fmt.Sprintf("tabular: %s looks like an HTML page, not a spreadsheet; open it in Excel and re-save as .xlsx (%s)", e.Filename, detail)
	case FormatBinary:
		return fmt.Sprintf("tabular: %s has a valid spreadsheet signature but could not be parsed, the file may be corrupted (%s)", e.Filename, detail)
	case FormatEmpty:
		return fmt.Sprintf("tabular: %s contains no data", e.Filename)
	default:
		return fmt.Sprintf("tabular: %s could not be read as a spreadsheet (%s)", e.Filename, detail)
	}
}
