// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/plan-autofill/internal/projection"
)

// FindTable finds a table by name in the tables slice.
// Returns a pointer to the table if found, nil otherwise.
func FindTable(tables []projection.Table, name string) *projection.Table {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i]
		}
	}
	return nil
}

// RowValues returns the set values of a row, in column order, and whether
// the row exists and every value in it is set.
func RowValues(table projection.Table, label string) ([]float64, bool) {
	row, ok := table.Row(label)
	if !ok {
		return nil, false
	}
	values := make([]float64, 0, len(row.Values))
	for _, v := range row.Values {
		if v == nil {
			return values, false
		}
		values = append(values, *v)
	}
	return values, true
}
