// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/valyala/fasttemplate"
)

//go:embed dada2part2.R
var rTemplate string

// renderRScript materializes the embedded dada2 procedure for this
// invocation's staged tables and returns the script path.
func (p *Pipeline) renderRScript() (string, error) {

	var tables, stats []string
	for _, run := range p.cfg.Runs {
		tables = append(tables, strconv.Quote(p.cfg.stagedName(run, abundanceRDS)))
		stats = append(stats, strconv.Quote(p.cfg.stagedName(run, part1Stats)))
	}

	t := fasttemplate.New(rTemplate, "{{", "}}")
	script := t.ExecuteString(map[string]interface{}{
		"tables":        "c(" + strings.Join(tables, ", ") + ")",
		"stats":         "c(" + strings.Join(stats, ", ") + ")",
		"chimeraMethod": p.cfg.ChimeraMethod,
		"trainSet":      silvaTrainSet,
		"threads":       strconv.Itoa(p.cfg.Threads),
	})

	name := filepath.Join(p.cfg.WorkDir, "dada2part2.R")
	if err := os.WriteFile(name, []byte(script), 0644); err != nil {
		return "", errors.Wrap(err, "writing R script")
	}
	return name, nil
}

// mergeAndClassify runs the R engine that merges the staged tables,
// removes chimeras and assigns SILVA taxonomy. The engine signals
// failure through its session log as often as through its exit
// status, so the log is scanned after a zero exit.
func (p *Pipeline) mergeAndClassify() error {

	script, err := p.renderRScript()
	if err != nil {
		return err
	}
	rout := filepath.Join(p.cfg.WorkDir, "dada2part2.Rout")

	_, err = p.runner.Run(Tool{
		Name:    "dada2",
		Path:    "Rscript",
		Args:    []string{"--no-save", script},
		Dir:     p.cfg.ProjectDir,
		LogFile: rout,
	})
	if err != nil {
		return err
	}
	if p.cfg.DryRun {
		return nil
	}

	fid, err := os.Open(rout)
	if err != nil {
		return errors.Wrap(err, "opening engine session log")
	}
	line, failed, err := CheckEngineLog(fid)
	fid.Close()
	if err != nil {
		return errors.Wrap(err, "scanning engine session log")
	}
	if failed {
		p.log.Printf("dada2 reported an error: %s", line)
		return errors.Errorf("dada2 step failed: %s (full log in %s)", line, rout)
	}

	return p.archiveSessionLog(rout)
}
