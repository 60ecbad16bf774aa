// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"github.com/jaluvathingal/IGS-dada2-pipeline/abundance"
)

// statsSummary joins the per-run part 1 read counts with the
// engine's post-chimera counts into one project table,
// <project>_dada2_stats.txt. Samples keep the order in which the
// runs listed them.
func (p *Pipeline) statsSummary() error {

	if p.cfg.DryRun {
		p.log.Printf("dry run, skipping stats summary")
		return nil
	}

	var rows []abundance.StatRow
	for _, run := range p.cfg.Runs {
		r, err := abundance.ReadPart1Stats(p.cfg.path(p.cfg.stagedName(run, part1Stats)))
		if err != nil {
			return err
		}
		rows = append(rows, r...)
	}

	part2, err := abundance.ReadPart2Stats(p.cfg.path(part2Stats))
	if err != nil {
		return err
	}

	out := p.cfg.path(p.cfg.scoped("dada2_stats.txt"))
	if err := abundance.WriteSummary(out, rows, part2); err != nil {
		return err
	}
	p.log.Printf("wrote stats summary to %s", out)
	return nil
}
