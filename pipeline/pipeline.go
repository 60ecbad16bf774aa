// Copyright 2026, the IGS dada2 pipeline contributors.

// Package pipeline implements part 2 of the IGS 16S amplicon
// pipeline. It merges the per-run dada2 abundance tables of a
// project, drives the external R engine that removes chimeras and
// assigns SILVA taxonomy, runs the PECAN sequence classifier where a
// model set exists, and attaches the classifications to the project
// count table.
//
// The pipeline is strictly linear: every stage must complete before
// the next begins, and the first failure aborts the whole run. All
// heavy lifting happens in external tools; this package stages
// files, assembles arguments and reconciles outputs.
package pipeline

import (
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Pipeline carries one invocation's configuration, log writer and
// tool runner.
type Pipeline struct {
	cfg    *Config
	log    *log.Logger
	logFid *os.File
	runner Runner
}

// New opens the project pipeline log and prepares a pipeline for the
// given configuration, which must already have been validated. If
// runner is nil, an ExecRunner (or a DryRunner under --dry-run) is
// used.
func New(cfg *Config, runner Runner) (*Pipeline, error) {
	cfg.setDefaults()

	logname := cfg.path(cfg.scoped("part2_16S_pipeline_log.txt"))
	fid, err := os.OpenFile(logname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "opening pipeline log")
	}

	if runner == nil {
		if cfg.DryRun {
			runner = &DryRunner{}
		} else {
			runner = &ExecRunner{Debug: cfg.Debug}
		}
	}

	p := &Pipeline{
		cfg:    cfg,
		log:    log.New(fid, "", log.Ltime),
		logFid: fid,
		runner: runner,
	}
	return p, nil
}

// Close flushes and releases the pipeline log. It must be called on
// every exit path, including after a failed Run.
func (p *Pipeline) Close() error {
	return p.logFid.Close()
}

// Run executes the pipeline stages in order, stopping at the first
// failure.
func (p *Pipeline) Run() error {

	if err := p.makeWorkDir(); err != nil {
		return err
	}
	p.log.Printf("using work directory %s", p.cfg.WorkDir)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"cleanup", p.clean},
		{"staging", p.stageRuns},
		{"merge and classify", p.mergeAndClassify},
		{"output renaming", p.renameOutputs},
		{"output verification", p.verifyOutputs},
		{"sequence classification", p.classifySequences},
		{"count table annotation", p.annotate},
		{"stats summary", p.statsSummary},
	}
	for _, s := range steps {
		p.log.Printf("starting %s", s.name)
		if err := s.fn(); err != nil {
			p.log.Printf("%s failed: %v", s.name, err)
			return err
		}
		p.log.Printf("%s done", s.name)
	}

	p.log.Printf("all done")
	return nil
}

// makeWorkDir creates the per-invocation work directory unless the
// configuration already names one.
func (p *Pipeline) makeWorkDir() error {
	if p.cfg.WorkDir != "" {
		return os.MkdirAll(p.cfg.WorkDir, 0755)
	}
	xuid, err := uuid.NewUUID()
	if err != nil {
		return err
	}
	p.cfg.WorkDir = filepath.Join(p.cfg.ProjectDir, "part2_tmp", xuid.String())
	return os.MkdirAll(p.cfg.WorkDir, 0755)
}

// clean removes staged tables and engine outputs left behind by a
// previous invocation. A stale staged table from a run that is no
// longer in the run set would silently leak into the merge, so this
// runs unconditionally before staging.
func (p *Pipeline) clean() error {

	pats := []string{
		p.cfg.Project + "_*-" + abundanceRDS,
		p.cfg.Project + "_*-" + part1Stats,
	}
	for _, pat := range pats {
		m, err := filepath.Glob(filepath.Join(p.cfg.ProjectDir, pat))
		if err != nil {
			return err
		}
		for _, f := range m {
			p.log.Printf("removing stale %s", f)
			if err := os.Remove(f); err != nil {
				return errors.Wrap(err, "removing stale staged file")
			}
		}
	}

	for _, f := range []string{mergedRDS, mergedCSV, silvaCSV, asvFasta, part2Stats, pecanResults} {
		err := os.Remove(p.cfg.path(f))
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing stale engine output")
		}
	}
	return nil
}

// renameOutputs gives the engine's fixed-name outputs their
// project-scoped names. Everything downstream refers to the scoped
// names.
func (p *Pipeline) renameOutputs() error {

	if p.cfg.DryRun {
		p.log.Printf("dry run, skipping output renaming")
		return nil
	}

	for _, f := range []string{mergedRDS, mergedCSV, silvaCSV} {
		src := p.cfg.path(f)
		dst := p.cfg.path(p.cfg.scoped(f))
		if err := os.Rename(src, dst); err != nil {
			return errors.Wrap(err, "renaming engine output")
		}
		p.log.Printf("renamed %s to %s", src, dst)
	}
	return nil
}
