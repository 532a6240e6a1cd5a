package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/forcebubble/internal/bubble"
)

const (
	CodeColumn = "Country Code"
	NameColumn = "Country Name"
)

var ErrNoHeader = errors.New("store: no header row with \"" + CodeColumn + "\"")

// ReadCSV reads rows from a World Bank style CSV. Lines before the header
// row are skipped. Only year columns inside yr are kept.
func ReadCSV(r io.Reader, yr bubble.YearRange) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	codeCol, nameCol := -1, -1
	yearCols := make(map[int]int)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		for i, field := range rec {
			field = strings.TrimSpace(strings.TrimPrefix(field, "\ufeff"))
			switch field {
			case CodeColumn:
				codeCol = i
			case NameColumn:
				nameCol = i
			default:
				if year, err := strconv.Atoi(field); err == nil && yr.Contains(year) {
					yearCols[i] = year
				}
			}
		}
		if codeCol >= 0 {
			break
		}
		clear(yearCols)
		nameCol = -1
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if codeCol >= len(rec) {
			continue
		}
		row := Row{Code: rec[codeCol], Cells: make(map[int]string, len(yearCols))}
		if nameCol >= 0 && nameCol < len(rec) {
			row.Name = rec[nameCol]
		}
		for col, year := range yearCols {
			if col < len(rec) {
				row.Cells[year] = rec[col]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, yr bubble.YearRange) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, yr)
}
