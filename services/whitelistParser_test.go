package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseWhitelistCSV(t *testing.T) {
	input := "Role,Email\nOWNER, a@example.com\n,\nTENANT,b@example.com\n"
	rows, err := ParseWhitelist("list.CSV", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []WhitelistRow{
		{Line: 2, Email: "a@example.com", Role: "OWNER"},
		{Line: 4, Email: "b@example.com", Role: "TENANT"},
	}, rows)
}

func TestParseWhitelistCSVWithoutHeader(t *testing.T) {
	rows, err := ParseWhitelist("list.csv", strings.NewReader("a@example.com,OWNER\nb@example.com\n"))
	require.NoError(t, err)
	assert.Equal(t, []WhitelistRow{
		{Line: 1, Email: "a@example.com", Role: "OWNER"},
		{Line: 2, Email: "b@example.com", Role: ""},
	}, rows)
}

func TestParseWhitelistXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"email", "role"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"x@example.com", "TENANT"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"y@example.com", "OWNER"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseWhitelist("upload.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []WhitelistRow{
		{Line: 2, Email: "x@example.com", Role: "TENANT"},
		{Line: 3, Email: "y@example.com", Role: "OWNER"},
	}, rows)
}

func TestParseWhitelistRejectsOtherFiles(t *testing.T) {
	_, err := ParseWhitelist("list.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
