// Copyright 2026, the IGS dada2 pipeline contributors.

// Package abundance handles the delimited artifacts of the dada2
// pipeline: sample-by-sequence count tables in the engine's CSV
// export layout, and the per-sample read count stats files.
package abundance

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Table is a sample-by-sequence count matrix in the layout written
// by the engine's CSV export: one row per sample, one column per ASV
// sequence, an empty first header cell.
type Table struct {
	Samples []string
	Seqs    []string

	// Counts[i][j] is the read count of Seqs[j] in Samples[i].
	Counts [][]int
}

// ReadCSV loads an abundance table from the engine's CSV form.
func ReadCSV(name string) (*Table, error) {

	fid, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading abundance table")
	}
	defer fid.Close()

	recs, err := csv.NewReader(fid).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading abundance table %s", name)
	}
	if len(recs) == 0 {
		return nil, errors.Errorf("abundance table %s is empty", name)
	}

	t := &Table{Seqs: recs[0][1:]}
	for _, rec := range recs[1:] {
		row := make([]int, len(rec)-1)
		for j, v := range rec[1:] {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: bad count for sample %s", name, rec[0])
			}
			row[j] = n
		}
		t.Samples = append(t.Samples, rec[0])
		t.Counts = append(t.Counts, row)
	}
	return t, nil
}

// WriteCSV writes the table in the engine's CSV form.
func (t *Table) WriteCSV(name string) error {

	fid, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "writing abundance table")
	}

	wtr := csv.NewWriter(fid)
	if err := wtr.Write(append([]string{""}, t.Seqs...)); err != nil {
		fid.Close()
		return err
	}
	rec := make([]string, 1+len(t.Seqs))
	for i, smp := range t.Samples {
		rec[0] = smp
		for j, n := range t.Counts[i] {
			rec[1+j] = strconv.Itoa(n)
		}
		if err := wtr.Write(rec); err != nil {
			fid.Close()
			return err
		}
	}
	wtr.Flush()
	err = wtr.Error()
	if cerr := fid.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "writing abundance table %s", name)
}

// ColumnTotals returns the total count of each sequence across all
// samples.
func (t *Table) ColumnTotals() []int {

	totals := make([]int, len(t.Seqs))
	for _, row := range t.Counts {
		for j, n := range row {
			totals[j] += n
		}
	}
	return totals
}

// SortColumns orders the sequences by decreasing total count. Ties
// keep their current relative order, so repeated merges of the same
// inputs are reproducible.
func (t *Table) SortColumns() {

	totals := t.ColumnTotals()
	idx := make([]int, len(t.Seqs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return totals[idx[a]] > totals[idx[b]]
	})

	seqs := make([]string, len(t.Seqs))
	for i, j := range idx {
		seqs[i] = t.Seqs[j]
	}
	t.Seqs = seqs

	for k, row := range t.Counts {
		nrow := make([]int, len(row))
		for i, j := range idx {
			nrow[i] = row[j]
		}
		t.Counts[k] = nrow
	}
}

// Merge unions the rows and columns of the given tables. Cells not
// covered by any input are zero, counts for a sample appearing in
// several tables are summed, and the merged columns are ordered by
// decreasing total count.
func Merge(tables ...*Table) *Table {

	m := &Table{}
	seqIdx := make(map[string]int)
	sampleIdx := make(map[string]int)

	for _, t := range tables {
		for _, s := range t.Seqs {
			if _, ok := seqIdx[s]; !ok {
				seqIdx[s] = len(m.Seqs)
				m.Seqs = append(m.Seqs, s)
			}
		}
	}

	for _, t := range tables {
		for i, smp := range t.Samples {
			k, ok := sampleIdx[smp]
			if !ok {
				k = len(m.Samples)
				sampleIdx[smp] = k
				m.Samples = append(m.Samples, smp)
				m.Counts = append(m.Counts, make([]int, len(m.Seqs)))
			}
			for j, s := range t.Seqs {
				m.Counts[k][seqIdx[s]] += t.Counts[i][j]
			}
		}
	}

	m.SortColumns()
	return m
}
