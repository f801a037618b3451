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

package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLogAlsoToFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.log")
	if err := LogAlsoToFile(name); err != nil {
		t.Fatal(err)
	}
	LogPrintf("Warning: %s\n", "first")
	LogPrintln("second", 2)
	LogClose()

	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	want := "Warning: first\nsecond 2\n"
	if string(b) != want {
		t.Errorf("log=%q; want %q", string(b), want)
	}

	// once closed, only stdout is written
	LogPrintf("third\n")
	b, _ = os.ReadFile(name)
	if string(b) != want {
		t.Errorf("log=%q after close; want %q", string(b), want)
	}

	if err := LogAlsoToFile(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Errorf("unwritable log err=nil; want error")
	}
}

func TestLogFatalRunsHooks(t *testing.T) {
	defer func(e func(int)) { exit = e }(exit)
	code := -1
	exit = func(c int) { code = c }

	name := filepath.Join(t.TempDir(), "fatal.log")
	if err := LogAlsoToFile(name); err != nil {
		t.Fatal(err)
	}
	var order []string
	LogAtFatal(func() { order = append(order, "first") })
	LogAtFatal(func() { order = append(order, "second") })
	LogFatalf("Error: %s\n", "boom")

	if code != 1 {
		t.Errorf("exit code=%d; want 1", code)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("hooks ran as %v; want [second first]", order)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Error: boom\n" {
		t.Errorf("log=%q; want flushed error message", string(b))
	}

	// hooks run only once
	order = nil
	LogFatal("again")
	if len(order) != 0 {
		t.Errorf("hooks ran again as %v; want none", order)
	}
}
