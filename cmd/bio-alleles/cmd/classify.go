// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"io"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/igalleles/alleles"
	"github.com/grailbio/igalleles/germline"
	"github.com/grailbio/igalleles/usage"
)

// runClassify groups the genes of a count table into similarity classes and
// writes one row per gene: class index, gene, count and snps to the class's
// dominant gene.
func runClassify(ctx context.Context, out io.Writer, germlineDir, locus, region, countsPath string, nMaxSNPs int) error {
	catalog, err := germline.ReadCatalog(ctx, germlineDir, locus, region)
	if err != nil {
		return err
	}
	counts, err := usage.ReadCountsPath(ctx, countsPath)
	if err != nil {
		return err
	}
	records, err := alleles.NewRecords(counts, catalog)
	if err != nil {
		return err
	}
	w := tsv.NewWriter(out)
	for _, col := range []string{"class", "gene", "count", "snps"} {
		w.WriteString(col)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for ci, class := range alleles.Classify(records, nMaxSNPs) {
		for i, m := range class.Members {
			w.WriteInt64(int64(ci))
			w.WriteString(m.Gene)
			w.WriteInt64(int64(m.Count))
			w.WriteInt64(int64(class.SNPs(i)))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
