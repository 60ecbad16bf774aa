// Copyright 2026, the IGS dada2 pipeline contributors.

package abundance

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

// StatRow is one sample's read count from a stats file.
type StatRow struct {
	Sample string
	Reads  int
}

// ReadPart1Stats reads a whitespace-delimited sample/count file as
// written by part 1 of the pipeline. Gzipped copies are handled
// transparently.
func ReadPart1Stats(name string) ([]StatRow, error) {

	fid, err := xopen.Ropen(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading part 1 stats")
	}
	defer fid.Close()

	var rows []StatRow
	scanner := bufio.NewScanner(fid)
	for scanner.Scan() {
		f := strings.Fields(scanner.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) != 2 {
			return nil, errors.Errorf("%s: malformed stats line %q", name, scanner.Text())
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: bad count for sample %s", name, f[0])
		}
		rows = append(rows, StatRow{Sample: f[0], Reads: n})
	}
	return rows, errors.Wrapf(scanner.Err(), "reading part 1 stats %s", name)
}

// ReadPart2Stats reads the engine's tab-delimited post-chimera
// counts. The first line is a header.
func ReadPart2Stats(name string) (map[string]int, error) {

	fid, err := xopen.Ropen(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading part 2 stats")
	}
	defer fid.Close()

	counts := make(map[string]int)
	scanner := bufio.NewScanner(fid)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		f := strings.Fields(scanner.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) != 2 {
			return nil, errors.Errorf("%s: malformed stats line %q", name, scanner.Text())
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: bad count for sample %s", name, f[0])
		}
		counts[f[0]] = n
	}
	return counts, errors.Wrapf(scanner.Err(), "reading part 2 stats %s", name)
}

// WriteSummary joins the part 1 rows with the part 2 counts into a
// tab-delimited table. Rows keep their given order; samples with no
// part 2 entry (all reads chimeric or filtered) get a zero.
func WriteSummary(name string, rows []StatRow, part2 map[string]int) error {

	fid, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "writing stats summary")
	}

	wtr := bufio.NewWriter(fid)
	fmt.Fprintf(wtr, "sample\tinput\tnonchimeric\n")
	for _, r := range rows {
		fmt.Fprintf(wtr, "%s\t%d\t%d\n", r.Sample, r.Reads, part2[r.Sample])
	}

	err = wtr.Flush()
	if cerr := fid.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "writing stats summary %s", name)
}
