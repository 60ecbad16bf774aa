// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// archiveSessionLog stores a compressed copy of the engine session
// log next to the pipeline log. The verbose dada2 output runs to
// hundreds of megabytes on large projects.
func (p *Pipeline) archiveSessionLog(rout string) error {

	in, err := os.Open(rout)
	if err != nil {
		return errors.Wrap(err, "archiving engine session log")
	}
	defer in.Close()

	out, err := os.Create(p.cfg.path(p.cfg.scoped("dada2part2.Rout.sz")))
	if err != nil {
		return errors.Wrap(err, "archiving engine session log")
	}

	wtr := snappy.NewBufferedWriter(out)
	_, err = io.Copy(wtr, in)
	if cerr := wtr.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "archiving engine session log")
	}

	p.log.Printf("archived engine session log to %s", out.Name())
	return nil
}
