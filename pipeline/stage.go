// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// stageRuns copies each run's part 1 artifacts into the project
// directory under project-prefixed, run-suffixed names. A missing
// source artifact is fatal; there is nothing sensible to merge
// without it.
func (p *Pipeline) stageRuns() error {

	for _, run := range p.cfg.Runs {
		for _, base := range []string{abundanceRDS, part1Stats} {
			src := filepath.Join(p.cfg.ProjectDir, run, base)
			dst := p.cfg.path(p.cfg.stagedName(run, base))
			if err := copyFile(src, dst); err != nil {
				return errors.Wrapf(err, "staging run %s", run)
			}
			p.log.Printf("staged %s as %s", src, dst)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
