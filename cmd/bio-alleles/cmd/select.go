// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/igalleles/alleles"
	"github.com/grailbio/igalleles/germline"
	"github.com/grailbio/igalleles/usage"
)

// selectOpts are the settings of one "select" run.
type selectOpts struct {
	// germlineDir holds <locus>/<locus><region>.fasta and <locus>/extras.tsv.
	germlineDir string
	locus       string
	// regions are processed independently, in parallel.
	regions []string
	// assignmentsPath is the per-query best-match table.
	assignmentsPath string
	// outPrefix is the prefix of the output files. Each region writes
	// <outPrefix>.<region>.tsv (.tsv.gz if gzip is set) and
	// <outPrefix>.<region>.fasta.
	outPrefix string
	gzip      bool
	// rio also writes <outPrefix>.<region>.rio.
	rio  bool
	opts alleles.Opts
}

func parseRegions(s string) ([]string, error) {
	var regions []string
	seen := map[string]bool{}
	for _, r := range strings.Split(s, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if seen[r] {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("region %s listed twice", r))
		}
		seen[r] = true
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		return nil, errors.E(errors.Invalid, "no regions given")
	}
	return regions, nil
}

func outputPath(prefix, region, suffix string) string {
	return prefix + "." + region + suffix
}

// selectRegion runs the selector for one region and writes its outputs.
func selectRegion(ctx context.Context, o selectOpts, region string, assignments *usage.Assignments) (alleles.Summary, error) {
	catalog, err := germline.ReadCatalog(ctx, o.germlineDir, o.locus, region)
	if err != nil {
		return alleles.Summary{}, err
	}
	queries := assignments.Region(region)
	r, err := alleles.NewSelector(catalog, o.opts).Finalize(usage.Tally(queries))
	if err != nil {
		return alleles.Summary{}, errors.E(err, fmt.Sprintf("%s%s", o.locus, region))
	}
	log.Debug.Printf("%s%s classes:\n%s", o.locus, region, alleles.FormatClasses(r))
	s := alleles.Summarize(region, r, queries, assignments.Len())

	tsvSuffix := ".tsv"
	if o.gzip {
		tsvSuffix = ".tsv.gz"
	}
	if err := alleles.WriteTSVPath(ctx, outputPath(o.outPrefix, region, tsvSuffix), r); err != nil {
		return s, err
	}
	if err := alleles.WriteFASTAPath(ctx, outputPath(o.outPrefix, region, ".fasta"), r, catalog); err != nil {
		return s, err
	}
	if o.rio {
		if err := alleles.WriteRioPath(ctx, outputPath(o.outPrefix, region, ".rio"), region, r, s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// runSelect runs allele selection for every region in o and returns the
// summaries in region order.
func runSelect(ctx context.Context, o selectOpts) ([]alleles.Summary, error) {
	if err := o.opts.Validate(); err != nil {
		return nil, err
	}
	if o.outPrefix == "" {
		return nil, errors.E(errors.Invalid, "-out must be set")
	}
	assignments, err := usage.ReadAssignmentsPath(ctx, o.assignmentsPath)
	if err != nil {
		return nil, err
	}
	log.Printf("read %d query assignments from %s", assignments.Len(), o.assignmentsPath)

	summaries := make([]alleles.Summary, len(o.regions))
	err = traverse.Each(len(o.regions), func(i int) error {
		var err error
		summaries[i], err = selectRegion(ctx, o, o.regions[i], assignments)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, s := range summaries {
		s.Log()
	}
	return summaries, nil
}
