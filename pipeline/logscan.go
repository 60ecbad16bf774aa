// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"bufio"
	"io"
	"strings"
)

// A line containing "Error" marks a failed engine run. dada2's
// learnErrors progress lines carry the marker inside a benign label
// and are whitelisted. Downstream consumers grep historical logs for
// these exact patterns, so do not tighten this check.
const (
	errMarker    = "Error"
	benignMarker = "learnErrors"
)

// CheckEngineLog scans an engine session log and returns the first
// line that signals a failure, verbatim.
func CheckEngineLog(r io.Reader) (line string, failed bool, err error) {

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		s := scanner.Text()
		if strings.Contains(s, errMarker) && !strings.Contains(s, benignMarker) {
			return s, true, nil
		}
	}
	return "", false, scanner.Err()
}
