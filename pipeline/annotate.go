// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"os"

	"github.com/pkg/errors"
)

// Downstream tools, expected on PATH like the rest of the MSL tool
// set.
const (
	pecanClassifier = "classify"
	combineTxTool   = "combine_tx_for_ASV"
	pecanTxTool     = "PECAN_tx_for_ASV"
	silvaTxTool     = "silva_tx_for_ASV"
)

// classifySequences runs the PECAN classifier on the surviving ASVs
// and gives its result the project-scoped name. Only V3V4 has a
// trained model set; other regions skip this step.
func (p *Pipeline) classifySequences() error {

	if p.cfg.Region != RegionV3V4 {
		p.log.Printf("region %s has no PECAN models, skipping sequence classification", p.cfg.Region)
		return nil
	}

	_, err := p.runner.Run(Tool{
		Name: "pecan",
		Path: pecanClassifier,
		Args: []string{"-d", pecanModelsV3V4, "-i", asvFasta, "-o", "."},
		Dir:  p.cfg.ProjectDir,
	})
	if err != nil {
		return err
	}
	if p.cfg.DryRun {
		return nil
	}

	src := p.cfg.path(pecanResults)
	dst := p.cfg.path(p.cfg.scoped(pecanResults))
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrap(err, "renaming PECAN results")
	}
	p.log.Printf("renamed %s to %s", src, dst)
	return nil
}

// annotate attaches taxonomy to the merged count table. The generic
// branch always runs: combined PECAN+SILVA annotation when
// --pecan-silva is set, PECAN-only annotation otherwise, with the
// vaginal merge rules unless --notVaginal. For V4 a SILVA-only pass
// runs in addition to the generic branch, not instead of it; this
// mirrors the behavior the downstream reports were built on.
func (p *Pipeline) annotate() error {

	countCSV := p.cfg.scoped(mergedCSV)
	silva := p.cfg.scoped(silvaCSV)
	pecan := p.cfg.scoped(pecanResults)

	var t Tool
	if p.cfg.PecanSilva {
		t = Tool{
			Name: "combine_tx",
			Path: combineTxTool,
			Args: []string{"-p", pecan, "-s", silva, "-c", countCSV},
		}
	} else {
		t = Tool{
			Name: "pecan_tx",
			Path: pecanTxTool,
			Args: []string{"-p", pecan, "-c", countCSV},
		}
	}
	if !p.cfg.NotVaginal {
		t.Args = append(t.Args, "--vaginal")
	}
	t.Dir = p.cfg.ProjectDir

	if _, err := p.runner.Run(t); err != nil {
		return err
	}

	if p.cfg.Region == RegionV4 {
		t := Tool{
			Name: "silva_tx",
			Path: silvaTxTool,
			Args: []string{"-s", silva, "-c", countCSV},
			Dir:  p.cfg.ProjectDir,
		}
		if _, err := p.runner.Run(t); err != nil {
			return err
		}
	}

	return nil
}
