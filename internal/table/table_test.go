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
	"bytes"
	"testing"
)

func TestTableColumns(t *testing.T) {
	tab := New()
	if err := tab.AddColumn("x", []float64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := tab.AddColumn("y", []float64{4, 5}); err == nil {
		t.Errorf("short column err=nil; want error")
	}
	if err := tab.AddColumn("y", []float64{4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 3 {
		t.Errorf("len=%d; want 3", tab.Len())
	}
	if names := tab.Names(); len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("names=%v; want [x y]", names)
	}
	row := tab.Row(1)
	if row["x"] != 2 || row["y"] != 5 {
		t.Errorf("row=%v; want x=2 y=5", row)
	}

	cp := tab.Copy()
	cp.Column("x")[0] = 99
	if tab.Column("x")[0] != 1 {
		t.Errorf("copy shares data with original")
	}

	if err := tab.RenameColumn("x", "x_0"); err != nil {
		t.Fatal(err)
	}
	if tab.Has("x") || !tab.Has("x_0") || tab.Names()[0] != "x_0" {
		t.Errorf("names=%v after rename; want x_0 first", tab.Names())
	}
	if err := tab.RenameColumn("x_0", "y"); err == nil {
		t.Errorf("rename onto existing err=nil; want error")
	}

	tab.Truncate(2)
	if tab.Len() != 2 || len(tab.Column("y")) != 2 {
		t.Errorf("len=%d after truncate; want 2", tab.Len())
	}
}

func TestTableWriteCSV(t *testing.T) {
	tab := New()
	tab.AddColumn("x", []float64{1, 2.5})
	tab.AddColumn("flux", []float64{100, 200})
	var buf bytes.Buffer
	if err := tab.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "x,flux\n1,100\n2.5,200\n"
	if buf.String() != want {
		t.Errorf("csv=%q; want %q", buf.String(), want)
	}
}
