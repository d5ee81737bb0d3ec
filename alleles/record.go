// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/igalleles/usage"
)

// codonLen is the length of the conserved codon included at the end of the
// canonical prefix.
const codonLen = 3

// Catalog is the germline gene set the selector reads sequences and codon
// positions from. *germline.Catalog implements it.
type Catalog interface {
	// Sequence returns the nucleotide sequence of gene.
	Sequence(gene string) (string, error)
	// CodonPosition returns the offset of the conserved codon in gene.
	CodonPosition(gene string) (int, error)
	// Genes lists every gene in the catalog.
	Genes() []string
}

// GeneRecord is one observed gene: its usage count and canonical prefix.
type GeneRecord struct {
	Gene  string
	Count int
	// Prefix is the gene sequence up to and including the conserved codon.
	Prefix string
}

// CanonicalPrefix returns sequence[:codonPos+3] for gene.
func CanonicalPrefix(catalog Catalog, gene string) (string, error) {
	seq, err := catalog.Sequence(gene)
	if err != nil {
		return "", err
	}
	pos, err := catalog.CodonPosition(gene)
	if err != nil {
		return "", err
	}
	if pos < 0 || pos+codonLen > len(seq) {
		return "", errors.E(errors.Integrity,
			fmt.Sprintf("conserved codon position %d out of range for %s (length %d)", pos, gene, len(seq)))
	}
	return seq[:pos+codonLen], nil
}

// SortRecords orders records by count, descending, then by gene name.
func SortRecords(records []GeneRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Gene < records[j].Gene
	})
}

// NewRecords builds one GeneRecord per counted gene, sorted by SortRecords.
// Every counted gene must be in the catalog.
func NewRecords(counts usage.Counts, catalog Catalog) ([]GeneRecord, error) {
	records := make([]GeneRecord, 0, len(counts))
	for gene, n := range counts {
		if n < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("negative count %d for %s", n, gene))
		}
		prefix, err := CanonicalPrefix(catalog, gene)
		if err != nil {
			return nil, errors.E(err, fmt.Sprintf("counted gene %s", gene))
		}
		records = append(records, GeneRecord{Gene: gene, Count: n, Prefix: prefix})
	}
	SortRecords(records)
	return records, nil
}
