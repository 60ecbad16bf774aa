// Copyright 2026, the IGS dada2 pipeline contributors.

// dada2part2_mergecsv merges abundance table CSVs written by the
// dada2 engine into a single table: union of samples and sequences,
// zero fill, columns ordered by decreasing total count. It applies
// the same contract as the pipeline's merged table, over the CSV
// form, for combining tables across projects after the fact.
package main

import (
	"log"

	arg "github.com/alexflint/go-arg"

	"github.com/jaluvathingal/IGS-dada2-pipeline/abundance"
)

type cliargs struct {
	Out    string   `arg:"-o,--out,required" help:"output CSV path"`
	Tables []string `arg:"positional,required" help:"abundance table CSVs to merge"`
}

func (cliargs) Description() string {
	return "dada2part2_mergecsv merges dada2 abundance table CSVs into one table."
}

func main() {

	var a cliargs
	arg.MustParse(&a)

	var tabs []*abundance.Table
	for _, name := range a.Tables {
		t, err := abundance.ReadCSV(name)
		if err != nil {
			log.Fatal(err)
		}
		tabs = append(tabs, t)
	}

	m := abundance.Merge(tabs...)
	if err := m.WriteCSV(a.Out); err != nil {
		log.Fatal(err)
	}
}
