// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"os"
	"strings"
	"testing"
)

func TestRenderRScript(t *testing.T) {

	dir := setupProject(t, "R1", "R2")
	cfg := &Config{Runs: []string{"R1", "R2"}, Region: RegionV3V4, Project: "P", ProjectDir: dir}
	p := newTestPipeline(t, cfg, &fakeRunner{t: t, dir: dir})
	if err := p.makeWorkDir(); err != nil {
		t.Fatal(err)
	}

	name, err := p.renderRScript()
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	script := string(b)

	for _, want := range []string{
		`"P_R1-dada2_abundance_table.rds"`,
		`"P_R2-dada2_abundance_table.rds"`,
		`"P_R1-dada2_part1_stats.txt"`,
		`method = "consensus"`,
		"mergeSequenceTables",
		"removeBimeraDenovo",
		"assignTaxonomy",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("rendered script missing %s", want)
		}
	}
	if strings.Contains(script, "{{") {
		t.Errorf("rendered script has unexpanded placeholders")
	}
}
