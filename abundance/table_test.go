// Copyright 2026, the IGS dada2 pipeline contributors.

package abundance

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestMergeIdentity(t *testing.T) {

	// Merging a single table changes nothing when its columns are
	// already in decreasing total order.
	in := &Table{
		Samples: []string{"S1", "S2"},
		Seqs:    []string{"AAAA", "CCCC"},
		Counts:  [][]int{{10, 2}, {5, 1}},
	}

	m := Merge(in)
	if !reflect.DeepEqual(m.Samples, in.Samples) {
		t.Errorf("samples = %v, want %v", m.Samples, in.Samples)
	}
	if !reflect.DeepEqual(m.Seqs, in.Seqs) {
		t.Errorf("seqs = %v, want %v", m.Seqs, in.Seqs)
	}
	if !reflect.DeepEqual(m.Counts, in.Counts) {
		t.Errorf("counts = %v, want %v", m.Counts, in.Counts)
	}
}

func TestMergeDisjoint(t *testing.T) {

	a := &Table{
		Samples: []string{"S1"},
		Seqs:    []string{"AAAA", "CCCC"},
		Counts:  [][]int{{9, 4}},
	}
	b := &Table{
		Samples: []string{"S2"},
		Seqs:    []string{"GGGG"},
		Counts:  [][]int{{7}},
	}

	m := Merge(a, b)
	if len(m.Seqs) != 3 {
		t.Fatalf("merged column count = %d, want 3", len(m.Seqs))
	}
	if len(m.Samples) != 2 {
		t.Fatalf("merged row count = %d, want 2", len(m.Samples))
	}

	// Every cell outside a run's coverage is zero.
	idx := make(map[string]int)
	for j, s := range m.Seqs {
		idx[s] = j
	}
	if n := m.Counts[0][idx["GGGG"]]; n != 0 {
		t.Errorf("S1 GGGG = %d, want 0", n)
	}
	if n := m.Counts[1][idx["AAAA"]]; n != 0 {
		t.Errorf("S2 AAAA = %d, want 0", n)
	}
	if n := m.Counts[1][idx["GGGG"]]; n != 7 {
		t.Errorf("S2 GGGG = %d, want 7", n)
	}
}

func TestMergeColumnOrder(t *testing.T) {

	// Variant totals 5, 20 and 3: the 20-total variant sorts first.
	in := &Table{
		Samples: []string{"S1", "S2"},
		Seqs:    []string{"AAAA", "CCCC", "GGGG"},
		Counts:  [][]int{{2, 12, 1}, {3, 8, 2}},
	}

	m := Merge(in)
	if m.Seqs[0] != "CCCC" {
		t.Errorf("first column = %s, want CCCC", m.Seqs[0])
	}
	totals := m.ColumnTotals()
	if !reflect.DeepEqual(totals, []int{20, 5, 3}) {
		t.Errorf("totals = %v, want [20 5 3]", totals)
	}
}

func TestMergeSumsSharedSamples(t *testing.T) {

	a := &Table{Samples: []string{"S1"}, Seqs: []string{"AAAA"}, Counts: [][]int{{4}}}
	b := &Table{Samples: []string{"S1"}, Seqs: []string{"AAAA"}, Counts: [][]int{{6}}}

	m := Merge(a, b)
	if len(m.Samples) != 1 || m.Counts[0][0] != 10 {
		t.Errorf("merged shared sample = %v %v, want one row counting 10", m.Samples, m.Counts)
	}
}

func TestSortColumnsStableTies(t *testing.T) {

	in := &Table{
		Samples: []string{"S1"},
		Seqs:    []string{"AAAA", "CCCC", "GGGG"},
		Counts:  [][]int{{5, 5, 9}},
	}
	in.SortColumns()
	want := []string{"GGGG", "AAAA", "CCCC"}
	if !reflect.DeepEqual(in.Seqs, want) {
		t.Errorf("seqs = %v, want %v", in.Seqs, want)
	}
}

func TestCSVRoundTrip(t *testing.T) {

	in := &Table{
		Samples: []string{"S1", "S2"},
		Seqs:    []string{"AAAA", "CCCC"},
		Counts:  [][]int{{10, 2}, {0, 1}},
	}

	name := filepath.Join(t.TempDir(), "tab.csv")
	if err := in.WriteCSV(name); err != nil {
		t.Fatal(err)
	}
	out, err := ReadCSV(name)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
