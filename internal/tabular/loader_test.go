package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SemicolonCSV(t *testing.T) {
	data := []byte("Empresa;Fase;Responsavel\nAcme;Proposta;Carlos\nBeta;Negociação;Maria\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresa", "Fase", "Responsavel"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Acme", table.Cell(0, 0))
	assert.Equal(t, "Negociação", table.Cell(1, 1))
	assert.False(t, table.Headerless())
}

func TestLoad_CommaCSV(t *testing.T) {
	data := []byte("Empresa,Fase\nAcme,Proposta\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresa", "Fase"}, table.Headers)
	assert.Equal(t, "Acme", table.Cell(0, 0))
}

func TestLoad_TabSeparated(t *testing.T) {
	data := []byte("Empresa\tFase\nAcme\tProposta\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresa", "Fase"}, table.Headers)
}

func TestLoad_HeaderOnlyCSV(t *testing.T) {
	// A file with only a header row is valid: zero data rows, three columns.
	data := []byte("Empresa;Fase;Responsavel\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Cols())
	assert.Empty(t, table.Rows)
}

func TestLoad_UTF8BOM(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, []byte("Empresa;Fase\nAcme;Proposta\n")...)

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, "Empresa", table.Headers[0])
}

func TestLoad_Latin1Encoding(t *testing.T) {
	// "Descrição;Região" in ISO-8859-1: ç=0xe7, ã=0xe3.
	data := []byte("Descri\xe7\xe3o;Regi\xe3o\nliga\xe7\xe3o;Sul\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, "Descrição", table.Headers[0])
	assert.Equal(t, "ligação", table.Cell(0, 0))
}

func TestLoad_QuotedFields(t *testing.T) {
	data := []byte("Empresa;Fase\n\"Acme; Filial SP\";Proposta\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	assert.Equal(t, "Acme; Filial SP", table.Cell(0, 0))
}

func TestLoad_HTMLDisguisedAsXLS(t *testing.T) {
	data := []byte(`<!DOCTYPE html>
<html><body>
<table>
<tr><th>Empresa</th><th>Fase</th><th>Responsavel</th></tr>
<tr><td>Acme</td><td>Proposta</td><td>Carlos</td></tr>
</table>
</body></html>`)

	table, err := Load(data, "export.xls")
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresa", "Fase", "Responsavel"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Acme", table.Cell(0, 0))
}

func TestLoad_HTMLPicksWidestTable(t *testing.T) {
	data := []byte(`<html><body>
<table><tr><td>menu</td><td>item</td></tr></table>
<table>
<tr><th>Empresa</th><th>Fase</th><th>Responsavel</th></tr>
<tr><td>Acme</td><td>Proposta</td><td>Carlos</td></tr>
</table>
</body></html>`)

	table, err := Load(data, "export.xls")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Cols())
}

func TestLoad_HTMLWithoutTable(t *testing.T) {
	data := []byte(`<!DOCTYPE html><html><body><p>Sessão expirada</p></body></html>`)

	_, err := Load(data, "export.xls")
	var fmtErr *FormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, FormatHTML, fmtErr.Class)
	assert.Contains(t, fmtErr.Error(), "HTML")
}

func TestLoad_CorruptZipSignature(t *testing.T) {
	data := append([]byte{0x50, 0x4b, 0x03, 0x04}, []byte("not really a workbook")...)

	_, err := Load(data, "export.xlsx")
	var fmtErr *FormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, FormatBinary, fmtErr.Class)
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load(nil, "pipeline.csv")
	var fmtErr *FormatError
	require.ErrorAs(t, err, &fmtErr)
}

func TestLoad_SingleColumnRejected(t *testing.T) {
	data := []byte("Empresa\nAcme\nBeta\n")

	_, err := Load(data, "pipeline.csv")
	var fmtErr *FormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, FormatUnknown, fmtErr.Class)
	assert.NotEmpty(t, fmtErr.Attempts)
}

func TestLoad_RaggedRowsSquaredOff(t *testing.T) {
	data := []byte("Empresa;Fase;Responsavel\nAcme;Proposta\nBeta;Negociação;Maria;extra\n")

	table, err := Load(data, "pipeline.csv")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[0], 3)
	assert.Len(t, table.Rows[1], 3)
	assert.Equal(t, "", table.Cell(0, 2))
}

func TestSniff_Magics(t *testing.T) {
	ole2 := []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0x00}
	assert.Equal(t, kindBinary, sniff(ole2))

	zip := []byte{0x50, 0x4b, 0x03, 0x04, 0x00}
	assert.Equal(t, kindBinary, sniff(zip))

	assert.Equal(t, kindHTML, sniff([]byte("<!DOCTYPE html><html>")))
	assert.Equal(t, kindHTML, sniff([]byte("<meta charset=\"utf-8\">")))
	assert.Equal(t, kindUnknown, sniff([]byte("Empresa;Fase\n")))
}

func TestFormatError_Messages(t *testing.T) {
	e := &FormatError{Class: FormatEmpty, Filename: "x.csv"}
	assert.Contains(t, e.Error(), "no data")

	e = &FormatError{Class: FormatBinary, Filename: "x.xls", Attempts: []string{"excelize: boom"}}
	assert.Contains(t, e.Error(), "corrupted")
	assert.Contains(t, e.Error(), "excelize: boom")
}

func TestLoad_ErrorIsFormatError(t *testing.T) {
	_, err := Load([]byte("garbage"), "weird.bin")
	var fmtErr *FormatError
	assert.True(t, errors.As(err, &fmtErr))
}
