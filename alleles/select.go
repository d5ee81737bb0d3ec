// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"encoding/binary"
	"fmt"
	"sort"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/igalleles/usage"
	"github.com/grailbio/igalleles/util"
)

// GeneSet is a set of gene names.
type GeneSet map[string]struct{}

// NewGeneSet creates a set holding genes.
func NewGeneSet(genes ...string) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		s[g] = struct{}{}
	}
	return s
}

// Add inserts gene.
func (s GeneSet) Add(gene string) { s[gene] = struct{}{} }

// Has reports whether gene is in the set.
func (s GeneSet) Has(gene string) bool {
	_, ok := s[gene]
	return ok
}

// Sorted returns the members in lexical order.
func (s GeneSet) Sorted() []string {
	genes := make([]string, 0, len(s))
	for g := range s {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Minus returns the members of s that are not in t.
func (s GeneSet) Minus(t GeneSet) GeneSet {
	d := GeneSet{}
	for g := range s {
		if !t.Has(g) {
			d.Add(g)
		}
	}
	return d
}

// Select decides which genes of the given classes to keep.
//
// Classes are visited in order, and the members of each class in member order.
// For each member the first matching rule applies:
//
//  - if NMaxTotalAlleles genes have already been kept, selection stops;
//  - a gene whose count is below MinAllelePrevalenceFraction of totalCount is
//    dropped;
//  - the dominant (first) member is kept;
//  - a member whose prefix is identical to the dominant's is dropped (prefixes
//    of different lengths are never identical);
//  - a member is kept if fewer than NAllelesPerGene genes of its class have
//    been kept so far;
//  - otherwise it is dropped.
func Select(classes []Class, totalCount int, opts Opts) (GeneSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if totalCount <= 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("total count must be positive, but got %d", totalCount))
	}
	keep := GeneSet{}
	for _, class := range classes {
		nFromClass := 0
		for i, rec := range class.Members {
			if opts.HasTotalCap() && len(keep) >= opts.NMaxTotalAlleles {
				return keep, nil
			}
			switch {
			case float64(rec.Count)/float64(totalCount) < opts.MinAllelePrevalenceFraction:
				// Too rare to tell from mutational wandering.
			case i == 0:
				keep.Add(rec.Gene)
				nFromClass++
			case util.Comparable(class.Members[0].Prefix, rec.Prefix) &&
				util.Hamming(class.Members[0].Prefix, rec.Prefix) == 0:
				// Indistinguishable from the dominant gene over the prefix, so
				// its matches are most likely really the dominant's.
			case nFromClass < opts.NAllelesPerGene:
				keep.Add(rec.Gene)
				nFromClass++
			}
		}
	}
	return keep, nil
}

// Result is the outcome of one selection run. It must not be modified.
type Result struct {
	// Keep holds the genes judged to be real alleles.
	Keep GeneSet
	// Remove holds every other gene, observed or only present in the catalog.
	Remove GeneSet
	// Observed holds the genes that had a usage count.
	Observed GeneSet
	// Classes are the similarity classes the selection walked.
	Classes []Class
	// TotalCount is the sum of all usage counts.
	TotalCount int
	// Opts are the options the run used.
	Opts Opts
}

// Uncounted returns the removed genes that were never observed, sorted.
func (r *Result) Uncounted() []string {
	return r.Remove.Minus(r.Observed).Sorted()
}

// Unconvincing returns the observed genes that were not kept, sorted.
func (r *Result) Unconvincing() []string {
	return r.Observed.Minus(r.Keep).Sorted()
}

// Fingerprint returns a digest of the keep/remove partition. Two runs that
// make identical calls have identical fingerprints.
func (r *Result) Fingerprint() uint64 {
	h := seahash.New()
	var n [8]byte
	for _, set := range []GeneSet{r.Keep, r.Remove} {
		genes := set.Sorted()
		binary.LittleEndian.PutUint64(n[:], uint64(len(genes)))
		h.Write(n[:])
		for _, g := range genes {
			h.Write([]byte(g))
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

// Selector runs classification and selection for one germline set. A
// Selector is single use: Finalize may be called once.
type Selector struct {
	catalog   Catalog
	opts      Opts
	finalized bool
}

// NewSelector creates a Selector.
func NewSelector(catalog Catalog, opts Opts) *Selector {
	return &Selector{catalog: catalog, opts: opts}
}

// Finalize classifies the counted genes and selects the ones to keep. It
// returns an errors.Precondition error if called more than once.
func (s *Selector) Finalize(counts usage.Counts) (*Result, error) {
	if s.finalized {
		return nil, errors.E(errors.Precondition, "allele selector already finalized")
	}
	s.finalized = true

	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	total := counts.Total()
	if total <= 0 {
		return nil, errors.E(errors.Invalid, "no usage counts: total count is zero")
	}
	records, err := NewRecords(counts, s.catalog)
	if err != nil {
		return nil, err
	}
	classes := Classify(records, s.opts.NMaxSNPs)
	log.Debug.Printf("%d genes in %d classes (%d total counts)", len(records), len(classes), total)
	keep, err := Select(classes, total, s.opts)
	if err != nil {
		return nil, err
	}

	observed := make(GeneSet, len(records))
	for _, rec := range records {
		observed.Add(rec.Gene)
	}
	remove := observed.Minus(keep)
	for _, g := range s.catalog.Genes() {
		if !keep.Has(g) {
			remove.Add(g)
		}
	}
	return &Result{
		Keep:       keep,
		Remove:     remove,
		Observed:   observed,
		Classes:    classes,
		TotalCount: total,
		Opts:       s.opts,
	}, nil
}
