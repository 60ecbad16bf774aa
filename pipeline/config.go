// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Variable regions accepted by the pipeline.
const (
	RegionV3V4 = "V3V4"
	RegionV4   = "V4"
	RegionITS  = "ITS"
)

// Reference data consumed by the external engines. These point at
// the shared installation used by all projects.
const (
	// SILVA training set for dada2's assignTaxonomy.
	silvaTrainSet = "/local/projects/msl/reference/silva_nr_v132_train_set.fa.gz"

	// PECAN reference models. Only V3V4 has a trained model set.
	pecanModelsV3V4 = "/local/projects/msl/reference/pecan/V3V4"
)

// Fixed artifact names shared with part 1 and with the downstream
// annotation scripts. Do not change these; other tools look for them
// by name.
const (
	abundanceRDS = "dada2_abundance_table.rds"
	part1Stats   = "dada2_part1_stats.txt"

	mergedRDS    = "all_runs_dada2_abundance_table.rds"
	mergedCSV    = "all_runs_dada2_abundance_table.csv"
	silvaCSV     = "silva_classification.csv"
	asvFasta     = "all_runs_dada2_ASV.fasta"
	part2Stats   = "dada2_part2_stats.txt"
	pecanResults = "MC_order7_results.txt"
)

// Config holds everything one pipeline invocation needs. It is
// passed explicitly to every stage; there is no package-level state.
type Config struct {

	// Names of the runs to merge. Each run directory under
	// ProjectDir must contain the part 1 outputs
	// dada2_abundance_table.rds and dada2_part1_stats.txt.
	Runs []string

	// The amplified variable region, one of V3V4, V4 or ITS.
	Region string

	// The project identifier, prefixed onto all output files.
	Project string

	// Skip the vaginal-microbiome taxonomy merge rules.
	NotVaginal bool

	// Annotate the count table with both the PECAN and the SILVA
	// classifications instead of PECAN alone.
	PecanSilva bool

	// Print external commands instead of executing them.
	DryRun bool

	// Echo external commands to stderr as they are executed.
	Debug bool

	// The directory holding the run directories. All outputs are
	// written here. Defaults to the current directory.
	ProjectDir string

	// The directory for the rendered R script and its session
	// log. If blank, a fresh part2_tmp subdirectory of ProjectDir
	// is generated per invocation.
	WorkDir string

	// Chimera removal method passed to removeBimeraDenovo.
	// Defaults to "consensus".
	ChimeraMethod string

	// Thread count passed to the R engine.
	Threads int
}

func (c *Config) setDefaults() {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	if c.ChimeraMethod == "" {
		c.ChimeraMethod = "consensus"
	}
	if c.Threads == 0 {
		c.Threads = 4
	}
}

// Validate rejects configurations that cannot be run. It performs no
// filesystem writes, so a rejected invocation leaves no trace.
func (c *Config) Validate() error {
	c.setDefaults()

	if len(c.Runs) == 0 {
		return fmt.Errorf("no input runs given, run 'dada2part2 --help' for more information")
	}
	for _, r := range c.Runs {
		if r == "" {
			return fmt.Errorf("empty run name in input run list")
		}
	}
	switch c.Region {
	case RegionV3V4, RegionV4, RegionITS:
	default:
		return fmt.Errorf("invalid variable region %q, must be one of %s, %s or %s",
			c.Region, RegionV3V4, RegionV4, RegionITS)
	}
	if c.Project == "" {
		return fmt.Errorf("no project ID given, run 'dada2part2 --help' for more information")
	}

	// Only one pipeline instance may run per project directory;
	// staging and renaming assume sole ownership of the fixed
	// artifact names. The directory must be writable up front so
	// the pipeline does not die halfway through staging.
	if err := unix.Access(c.ProjectDir, unix.W_OK); err != nil {
		return errors.Wrapf(err, "project directory %s is not writable", c.ProjectDir)
	}

	return nil
}

// path returns name anchored in the project directory.
func (c *Config) path(name string) string {
	return filepath.Join(c.ProjectDir, name)
}

// scoped returns the project-scoped form of a fixed artifact name.
func (c *Config) scoped(name string) string {
	return c.Project + "_" + name
}

// stagedName returns the name under which a per-run artifact is
// staged into the project directory.
func (c *Config) stagedName(run, base string) string {
	return c.Project + "_" + run + "-" + base
}
