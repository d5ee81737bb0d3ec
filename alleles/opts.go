// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Opts controls classification and selection.
type Opts struct {
	// NMaxSNPs is the similarity threshold: a gene joins a class if its
	// canonical prefix is within NMaxSNPs-2 mismatches of some member, i.e.
	// hamming distance < NMaxSNPs-1. Values <= 1 put every gene in its own
	// class.
	NMaxSNPs int
	// MinAllelePrevalenceFraction is the fraction of all counts below which a
	// gene is never kept. Must be in [0, 1).
	MinAllelePrevalenceFraction float64
	// NAllelesPerGene caps the number of genes kept from one class.
	NAllelesPerGene int
	// NMaxTotalAlleles caps the number of genes kept overall. Negative means no
	// cap.
	NMaxTotalAlleles int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	NMaxSNPs:                    3,
	MinAllelePrevalenceFraction: 0.0005,
	NAllelesPerGene:             2,
	NMaxTotalAlleles:            -1,
}

// HasTotalCap reports whether NMaxTotalAlleles is in effect.
func (o Opts) HasTotalCap() bool { return o.NMaxTotalAlleles >= 0 }

// Validate checks the option ranges.
func (o Opts) Validate() error {
	if !(o.MinAllelePrevalenceFraction >= 0 && o.MinAllelePrevalenceFraction < 1) {
		return errors.E(errors.Invalid,
			fmt.Sprintf("min-allele-prevalence-fraction must be in [0, 1), but got %v", o.MinAllelePrevalenceFraction))
	}
	if o.NAllelesPerGene < 1 {
		return errors.E(errors.Invalid,
			fmt.Sprintf("n-alleles-per-gene must be at least 1, but got %d", o.NAllelesPerGene))
	}
	return nil
}
