// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/igalleles/usage"
)

// Summary holds the diagnostic counts of one selection run.
type Summary struct {
	Region string
	// NKept and NRemoved are the sizes of Result.Keep and Result.Remove.
	NKept, NRemoved int
	// NUncounted is the number of removed genes with no usage count.
	NUncounted int
	// NUnconvincing is the number of observed genes that were not kept.
	NUnconvincing int
	// NQueriesRemoved is the number of queries whose assigned gene was
	// removed, out of all NQueries queries of the run.
	NQueriesRemoved, NQueries int
	// TotalCount is Result.TotalCount.
	TotalCount int
	// Fingerprint is Result.Fingerprint().
	Fingerprint uint64
}

// Summarize computes the summary of r. assignments are the per-query records
// the counts were tallied from; they may be nil if unknown. nQueries is the
// number of queries in the run, including those with no gene for the region.
func Summarize(region string, r *Result, assignments []usage.Assignment, nQueries int) Summary {
	return Summary{
		Region:          region,
		NKept:           len(r.Keep),
		NRemoved:        len(r.Remove),
		NUncounted:      len(r.Uncounted()),
		NUnconvincing:   len(r.Unconvincing()),
		NQueriesRemoved: Assess(assignments, r.Remove),
		NQueries:        nQueries,
		TotalCount:      r.TotalCount,
		Fingerprint:     r.Fingerprint(),
	}
}

// String returns the two-line report printed after a run.
func (s Summary) String() string {
	return fmt.Sprintf("keeping %d %s genes\n"+
		"removing %d %s genes: %d with no matches, %d with unconvincing matches (%d / %d queries had their best match removed)",
		s.NKept, s.Region,
		s.NRemoved, s.Region, s.NUncounted, s.NUnconvincing, s.NQueriesRemoved, s.NQueries)
}

// Log prints the summary.
func (s Summary) Log() {
	for _, line := range strings.Split(s.String(), "\n") {
		log.Printf("  %s", line)
	}
	log.Debug.Printf("  %s selection fingerprint %016x (%d total counts)", s.Region, s.Fingerprint, s.TotalCount)
}

// FormatClasses renders one block per class: the kept genes with their
// counts and their snps to the dominant gene ("none" if nothing was kept),
// followed by the class's total count and all its members.
func FormatClasses(r *Result) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d total counts, %d classes\n", r.TotalCount, len(r.Classes))
	fmt.Fprintf(&buf, "   %-20s %6s %-5s  %14s  %s\n", "genes to keep", "counts", "snps", "class counts", "class genes")
	for _, class := range r.Classes {
		var kept []string
		for i, m := range class.Members {
			if !r.Keep.Has(m.Gene) {
				continue
			}
			snps := ""
			if i > 0 {
				snps = fmt.Sprintf("(%d)", class.SNPs(i))
			}
			kept = append(kept, fmt.Sprintf("   %-20s %6d %-5s", m.Gene, m.Count, snps))
		}
		if len(kept) == 0 {
			kept = append(kept, fmt.Sprintf("   %-20s %6s %-5s", "none", "-", ""))
		}
		for i, line := range kept {
			buf.WriteString(line)
			if i == len(kept)-1 {
				fmt.Fprintf(&buf, "  %14d  %s", class.TotalCount(), strings.Join(class.Genes(), " "))
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
