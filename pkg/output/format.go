// Package output renders projection tables for people and other programs:
// console summaries, spreadsheets and the plan document.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/plan-autofill/internal/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes human-readable rather than machine-readable tables.
func PrettyFormat(w io.Writer, tables []projection.Table) error {
	p := message.NewPrinter(language.English)
	for i, table := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "--- %s ---\n", table.Title); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Join(table.Columns, " | ")); err != nil {
			return err
		}
		if table.Empty() {
			if _, err := fmt.Fprintln(w, "(no data)"); err != nil {
				return err
			}
			continue
		}
		for _, row := range table.Rows {
			cells := make([]string, 0, len(row.Values)+1)
			cells = append(cells, row.Label)
			for _, v := range row.Values {
				if v == nil {
					cells = append(cells, "-")
					continue
				}
				cells = append(cells, p.Sprintf("%.2f", *v))
			}
			if _, err := fmt.Fprintln(w, strings.Join(cells, " | ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat writes every table as a CSV block: a line holding the table name,
// the header row, then one line per row. Blocks are separated by an empty line.
func CsvFormat(w io.Writer, tables []projection.Table) error {
	writer := csv.NewWriter(w)
	for i, table := range tables {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{table.Name}); err != nil {
			return err
		}
		if err := writer.Write(table.Columns); err != nil {
			return err
		}
		for _, row := range table.Rows {
			record := make([]string, 0, len(row.Values)+1)
			record = append(record, row.Label)
			for _, v := range row.Values {
				if v == nil {
					record = append(record, "")
					continue
				}
				record = append(record, strconv.FormatFloat(*v, 'f', 2, 64))
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns CsvFormat output as a string.
func CsvString(tables []projection.Table) (string, error) {
	var builder strings.Builder
	if err := CsvFormat(&builder, tables); err != nil {
		return "", err
	}
	return builder.String(), nil
}
