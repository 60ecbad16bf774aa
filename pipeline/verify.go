// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"encoding/csv"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"

	"github.com/jaluvathingal/IGS-dada2-pipeline/abundance"
)

// verifyOutputs checks that the engine's three ASV artifacts agree
// before any classifier consumes them: the FASTA, the merged table
// columns and the SILVA classification rows must reference the
// identical sequence set, and the merged table columns must be in
// decreasing total-count order.
func (p *Pipeline) verifyOutputs() error {

	if p.cfg.DryRun {
		p.log.Printf("dry run, skipping output verification")
		return nil
	}

	fastaSeqs, err := readASVFasta(p.cfg.path(asvFasta))
	if err != nil {
		return err
	}

	tab, err := abundance.ReadCSV(p.cfg.path(p.cfg.scoped(mergedCSV)))
	if err != nil {
		return err
	}

	silvaSeqs, err := readSilvaSeqs(p.cfg.path(p.cfg.scoped(silvaCSV)))
	if err != nil {
		return err
	}

	if err := sameSeqSet("ASV fasta", fastaSeqs, "abundance table", tab.Seqs); err != nil {
		return err
	}
	if err := sameSeqSet("ASV fasta", fastaSeqs, "silva classification", silvaSeqs); err != nil {
		return err
	}

	totals := tab.ColumnTotals()
	for i := 1; i < len(totals); i++ {
		if totals[i] > totals[i-1] {
			return errors.Errorf("abundance table columns out of order at column %d (%d after %d)",
				i, totals[i], totals[i-1])
		}
	}

	p.log.Printf("verified %d ASVs across fasta, abundance table and silva classification", len(fastaSeqs))
	return nil
}

// readASVFasta returns the sequences of the engine's ASV fasta. The
// records use the sequence as its own identifier, so the body is
// taken as the sequence.
func readASVFasta(name string) ([]string, error) {

	fid, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading ASV fasta")
	}
	defer fid.Close()

	tmpl := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(fid, tmpl))

	var seqs []string
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		seqs = append(seqs, s.Seq.String())
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrapf(err, "reading ASV fasta %s", name)
	}
	return seqs, nil
}

// readSilvaSeqs returns the row identifiers (ASV sequences) of the
// SILVA classification CSV.
func readSilvaSeqs(name string) ([]string, error) {

	fid, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading silva classification")
	}
	defer fid.Close()

	recs, err := csv.NewReader(fid).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading silva classification %s", name)
	}
	if len(recs) == 0 {
		return nil, errors.Errorf("silva classification %s is empty", name)
	}

	var seqs []string
	for _, rec := range recs[1:] {
		seqs = append(seqs, rec[0])
	}
	return seqs, nil
}

func sameSeqSet(aname string, a []string, bname string, b []string) error {

	if len(a) != len(b) {
		return errors.Errorf("%s has %d ASVs but %s has %d", aname, len(a), bname, len(b))
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return errors.Errorf("%s contains an ASV missing from %s: %.40s...", bname, aname, s)
		}
	}
	return nil
}
