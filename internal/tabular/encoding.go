package tabular

import (
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// textEncoding pairs an encoding name (as users know them from spreadsheet
// exports) with its decoder. A nil decoder means UTF-8 passthrough.
type textEncoding struct {
	name string
	enc  encoding.Encoding
}

// textEncodings is the fixed list tried for delimited and HTML payloads,
// in order of how often each shows up in CRM exports.
var textEncodings = []textEncoding{
	{"utf-8-sig", nil},
	{"utf-8", nil},
	{"latin-1", charmap.ISO8859_1},
	{"iso-8859-1", charmap.ISO8859_1},
	{"cp1252", charmap.Windows1252},
}

// decodeText converts raw bytes to a UTF-8 string under the named encoding.
// "utf-8-sig" strips a leading BOM first.
func decodeText(data []byte, te textEncoding) (string, error) {
	if te.enc == nil {
		if te.name == "utf-8-sig" {
			data = stripBOM(data)
		}
		// Invalid UTF-8 must fail here so the sweep reaches the single-byte
		// decoders instead of producing mojibake.
		if !utf8.Valid(data) {
			return "", eris.Errorf("tabular: decode %s: invalid byte sequence", te.name)
		}
		return string(data), nil
	}

	out, err := te.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", eris.Wrapf(err, "tabular: decode %s", te.name)
	}
	return string(out), nil
}
