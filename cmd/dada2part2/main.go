// Copyright 2026, the IGS dada2 pipeline contributors.

// dada2part2 is part 2 of the IGS 16S amplicon pipeline. It merges
// the per-run dada2 abundance tables of a project, drives the R
// engine that removes chimeras and assigns SILVA taxonomy, runs the
// PECAN classifier where a model set exists, and attaches the
// classifications to the project count table.
//
// The per-run part 1 outputs must already exist, one directory per
// run under the project directory. A typical invocation is:
//
// dada2part2 -i run1,run2 -v V3V4 -p PROJ
//
// All outputs are written to the project directory under names
// prefixed with the project ID. Progress is appended to
// <project>_part2_16S_pipeline_log.txt.
package main

import (
	"fmt"
	"os"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/jaluvathingal/IGS-dada2-pipeline/pipeline"
)

type cliargs struct {
	InputRuns  string `arg:"-i,--input-runs,required" help:"comma-separated run names"`
	Region     string `arg:"-v,--variable-region,required" help:"variable region, one of V3V4, V4 or ITS"`
	Project    string `arg:"-p,--project-ID,required" help:"project name, prefixed onto all outputs"`
	NotVaginal bool   `arg:"--notVaginal" help:"skip the vaginal-microbiome taxonomy merge rules"`
	PecanSilva bool   `arg:"--pecan-silva" help:"annotate the count table with both PECAN and SILVA results"`
	DryRun     bool   `arg:"--dry-run" help:"print external commands without executing them"`
	Debug      bool   `arg:"--debug" help:"echo external commands as they run"`
}

func (cliargs) Description() string {
	return "dada2part2 merges per-run dada2 abundance tables, removes chimeras,\nclassifies the surviving ASVs and annotates the project count table."
}

func main() {

	var a cliargs
	parser, err := arg.NewParser(arg.Config{Program: "dada2part2"}, &a)
	if err != nil {
		panic(err)
	}

	err = parser.Parse(os.Args[1:])
	switch {
	case err == arg.ErrHelp:
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		parser.WriteUsage(os.Stderr)
		os.Exit(1)
	}

	cfg := &pipeline.Config{
		Runs:       splitRuns(a.InputRuns),
		Region:     a.Region,
		Project:    a.Project,
		NotVaginal: a.NotVaginal,
		PecanSilva: a.PecanSilva,
		DryRun:     a.DryRun,
		Debug:      a.Debug,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p, err := pipeline.New(cfg, nil)
	if err != nil {
		fatal(err)
	}
	if err := p.Run(); err != nil {
		p.Close()
		fatal(err)
	}
	if err := p.Close(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "dada2part2: %v\n", err)

	// A failed external tool propagates its exit status.
	var terr *pipeline.ToolError
	if errors.As(err, &terr) && terr.ExitStatus > 0 {
		os.Exit(terr.ExitStatus)
	}
	os.Exit(1)
}

func splitRuns(s string) []string {
	var runs []string
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			runs = append(runs, r)
		}
	}
	return runs
}
