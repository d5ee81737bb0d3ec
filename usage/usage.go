// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package usage holds per-query germline assignments and the per-gene usage
// counts tallied from them.
package usage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/igalleles/util"
)

// Counts maps a gene name to the number of queries assigned to it.
type Counts map[string]int

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Genes returns the counted gene names in lexical order.
func (c Counts) Genes() []string {
	genes := make([]string, 0, len(c))
	for g := range c {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Assignment is the best germline match of one query for one region.
type Assignment struct {
	QueryID string
	Gene    string
}

// Assignments holds the v, d and j assignments of a set of queries, in input
// order.
type Assignments struct {
	QueryIDs []string
	// Genes maps region ("v", "d", "j") to the gene assigned to each query,
	// parallel to QueryIDs. An empty string means no assignment.
	Genes map[string][]string
}

// Region returns the assignments for one region. Queries with no gene for the
// region are skipped.
func (a *Assignments) Region(region string) []Assignment {
	genes := a.Genes[region]
	out := make([]Assignment, 0, len(genes))
	for i, g := range genes {
		if g == "" {
			continue
		}
		out = append(out, Assignment{QueryID: a.QueryIDs[i], Gene: g})
	}
	return out
}

// Len returns the number of queries.
func (a *Assignments) Len() int { return len(a.QueryIDs) }

// Tally counts how many assignments point at each gene.
func Tally(assignments []Assignment) Counts {
	counts := Counts{}
	for _, a := range assignments {
		counts[a.Gene]++
	}
	return counts
}

// assignmentRow is one row of an assignment table. Columns are read
// positionally.
type assignmentRow struct {
	UniqueIDs string
	VGene     string
	DGene     string
	JGene     string
}

// ReadAssignments reads an assignment table with header "unique_ids v_gene
// d_gene j_gene".
func ReadAssignments(in io.Reader) (*Assignments, error) {
	r := tsv.NewReader(in)
	r.HasHeaderRow = true
	a := &Assignments{Genes: map[string][]string{}}
	seen := map[string]bool{}
	var row assignmentRow
	for nLine := 2; ; nLine++ {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "read assignments")
		}
		id := strings.TrimSpace(row.UniqueIDs)
		if id == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: empty query id", nLine))
		}
		if seen[id] {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: duplicate query id %s", nLine, id))
		}
		seen[id] = true
		a.QueryIDs = append(a.QueryIDs, id)
		a.Genes["v"] = append(a.Genes["v"], strings.TrimSpace(row.VGene))
		a.Genes["d"] = append(a.Genes["d"], strings.TrimSpace(row.DGene))
		a.Genes["j"] = append(a.Genes["j"], strings.TrimSpace(row.JGene))
	}
	return a, nil
}

// countRow is one row of a count table.
type countRow struct {
	Gene  string
	Count string
}

// ReadCounts reads a count table with header "gene count".
func ReadCounts(in io.Reader) (Counts, error) {
	r := tsv.NewReader(in)
	r.HasHeaderRow = true
	counts := Counts{}
	var row countRow
	for nLine := 2; ; nLine++ {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "read counts")
		}
		n, err := strconv.Atoi(strings.TrimSpace(row.Count))
		if err != nil || n < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: bad count %q for %s", nLine, row.Count, row.Gene))
		}
		if _, ok := counts[row.Gene]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: duplicate gene %s", nLine, row.Gene))
		}
		counts[row.Gene] = n
	}
	return counts, nil
}

// ReadAssignmentsPath is ReadAssignments on a (possibly compressed) file.
func ReadAssignmentsPath(ctx context.Context, path string) (*Assignments, error) {
	in, closer, err := util.OpenDecompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	a, err := ReadAssignments(in)
	if e := closer(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, path)
	}
	return a, nil
}

// ReadCountsPath is ReadCounts on a (possibly compressed) file.
func ReadCountsPath(ctx context.Context, path string) (Counts, error) {
	in, closer, err := util.OpenDecompressed(ctx, path)
	if err != nil {
		return nil, err
	}
	c, err := ReadCounts(in)
	if e := closer(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, path)
	}
	return c, nil
}
