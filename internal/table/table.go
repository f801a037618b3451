// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package table

import (
	"fmt"
	"io"
	"strings"
)

// A table of sources. Each column holds one named numeric parameter,
// each row one source. All columns have the same length.
type Table struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// Creates an empty table
func New() *Table {
	return &Table{cols: map[string][]float64{}}
}

// Number of rows
func (t *Table) Len() int { return t.rows }

// Column names, in order of insertion
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Tells whether a column of the given name exists
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Returns the column of the given name, or nil. The slice is shared with the table.
func (t *Table) Column(name string) []float64 { return t.cols[name] }

// Adds a column, or replaces an existing column of the same name in place.
// The first column defines the number of rows. Values are copied.
func (t *Table) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("empty column name")
	}
	onlyColumn := len(t.names) == 1 && t.Has(name)
	if len(t.names) > 0 && !onlyColumn && len(values) != t.rows {
		return fmt.Errorf("column %s has %d rows; table has %d", name, len(values), t.rows)
	}
	if !t.Has(name) {
		t.names = append(t.names, name)
	}
	t.cols[name] = append([]float64(nil), values...)
	t.rows = len(values)
	return nil
}

// Returns row i as a mapping from column name to value
func (t *Table) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(t.names))
	for _, name := range t.names {
		row[name] = t.cols[name][i]
	}
	return row
}

// Returns a deep copy of the table
func (t *Table) Copy() *Table {
	res := New()
	res.rows = t.rows
	res.names = t.Names()
	for name, col := range t.cols {
		res.cols[name] = append([]float64(nil), col...)
	}
	return res
}

// Renames a column, keeping its position
func (t *Table) RenameColumn(from, to string) error {
	col, ok := t.cols[from]
	if !ok {
		return fmt.Errorf("no column %s", from)
	}
	if from == to {
		return nil
	}
	if t.Has(to) {
		return fmt.Errorf("column %s already exists", to)
	}
	delete(t.cols, from)
	t.cols[to] = col
	for i, n := range t.names {
		if n == from {
			t.names[i] = to
		}
	}
	return nil
}

// Shortens the table to at most n rows
func (t *Table) Truncate(n int) {
	if n < 0 || n >= t.rows {
		return
	}
	for name, col := range t.cols {
		t.cols[name] = col[:n]
	}
	t.rows = n
}

// Prints the table as CSV, with a header line of column names
func (t *Table) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.names, ",")); err != nil {
		return err
	}
	b := strings.Builder{}
	for i := 0; i < t.rows; i++ {
		b.Reset()
		for j, name := range t.names {
			if j > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%g", t.cols[name][i])
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
