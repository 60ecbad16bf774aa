// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"os"
	"testing"
)

func TestValidateRejects(t *testing.T) {

	dir := t.TempDir()
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty run list", Config{Region: RegionV3V4, Project: "P", ProjectDir: dir}},
		{"empty project", Config{Runs: []string{"R1"}, Region: RegionV3V4, ProjectDir: dir}},
		{"bad region", Config{Runs: []string{"R1"}, Region: "V1V2", Project: "P", ProjectDir: dir}},
		{"empty region", Config{Runs: []string{"R1"}, Project: "P", ProjectDir: dir}},
		{"blank run name", Config{Runs: []string{"R1", ""}, Region: RegionV4, Project: "P", ProjectDir: dir}},
	}

	for _, c := range cases {
		if err := c.cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}

	// A rejected invocation must leave no trace.
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 0 {
		t.Errorf("validation wrote files: %v", ents)
	}
}

func TestValidateAccepts(t *testing.T) {

	dir := t.TempDir()
	for _, region := range []string{RegionV3V4, RegionV4, RegionITS} {
		cfg := Config{Runs: []string{"R1"}, Region: region, Project: "P", ProjectDir: dir}
		if err := cfg.Validate(); err != nil {
			t.Errorf("region %s rejected: %v", region, err)
		}
	}
}

func TestValidateDefaults(t *testing.T) {

	cfg := Config{Runs: []string{"R1"}, Region: RegionITS, Project: "P", ProjectDir: t.TempDir()}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.ChimeraMethod != "consensus" {
		t.Errorf("ChimeraMethod = %q, want consensus", cfg.ChimeraMethod)
	}
	if cfg.Threads == 0 {
		t.Errorf("Threads not defaulted")
	}
}
