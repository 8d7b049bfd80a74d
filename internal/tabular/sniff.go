package tabular

import "bytes"

// contentKind is the result of content sniffing.
type contentKind int

const (
	kindUnknown contentKind = iota
	kindBinary              // OLE2 container or ZIP container (xls / xlsx)
	kindHTML                // web page saved with a spreadsheet extension
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// spreadsheetMagics are the container signatures of real Excel files: the
// OLE2 compound document header (.xls) and the ZIP local/empty/spanned
// headers (.xlsx).
var spreadsheetMagics = [][]byte{
	{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1},
	{0x50, 0x4b, 0x03, 0x04},
	{0x50, 0x4b, 0x05, 0x06},
	{0x50, 0x4b, 0x07, 0x08},
}

// sniff classifies file content by magic numbers first, then by scanning a
// larger window for HTML markers. Uploaded files are frequently web pages
// saved with an .xls extension, so the HTML check is deliberately broad.
func sniff(data []byte) contentKind {
	for _, magic := range spreadsheetMagics {
		if bytes.HasPrefix(data, magic) {
			return kindBinary
		}
	}

	window := stripBOM(data)
	if len(window) > 512 {
		window = window[:512]
	}
	lower := bytes.ToLower(window)

	if bytes.HasPrefix(lower, []byte("<!doctype")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		bytes.HasPrefix(lower, []byte("<meta")) {
		return kindHTML
	}
	if bytes.Contains(lower, []byte("<table")) &&
		bytes.Contains(lower, []byte("<tr")) &&
		bytes.Contains(lower, []byte("<td")) {
		return kindHTML
	}
	if bytes.Contains(lower, []byte("http-equiv")) &&
		bytes.Contains(lower, []byte("content-type")) {
		return kindHTML
	}

	return kindUnknown
}

// stripBOM removes a leading UTF-8 byte-order mark, if present.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
