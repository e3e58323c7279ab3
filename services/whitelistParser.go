package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFile = errors.New("unsupported file type, expected .xlsx or .csv")

// WhitelistRow is one uploaded email/role pair, not yet validated.
type WhitelistRow struct {
	Line  int
	Email string
	Role  string
}

// ParseWhitelist reads rows from the first sheet of an xlsx workbook or
// from a csv file. A header row naming "email" and "role" columns is
// honoured; without one the first two columns are used.
func ParseWhitelist(filename string, r io.Reader) ([]WhitelistRow, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		records, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
		}
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		var err error
		records, err = cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
	default:
		return nil, ErrUnsupportedFile
	}
	return toWhitelistRows(records), nil
}

func toWhitelistRows(records [][]string) []WhitelistRow {
	if len(records) == 0 {
		return nil
	}
	emailCol, roleCol, start := 0, 1, 0
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			emailCol, start = i, 1
		case "role":
			roleCol, start = i, 1
		}
	}

	rows := make([]WhitelistRow, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		row := WhitelistRow{Line: i + 1, Email: cell(rec, emailCol), Role: cell(rec, roleCol)}
		if row.Email == "" && row.Role == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
