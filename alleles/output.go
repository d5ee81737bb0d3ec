// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/igalleles/encoding/fasta"
	"github.com/klauspost/compress/gzip"
)

// Status column values.
const (
	StatusKeep   = "keep"
	StatusRemove = "remove"
)

// tsvHeader is the header of the table written by WriteTSV.
var tsvHeader = []string{"gene", "count", "fraction", "class", "dominant", "snps", "status"}

func status(r *Result, gene string) string {
	if r.Keep.Has(gene) {
		return StatusKeep
	}
	return StatusRemove
}

// WriteTSV writes one row per gene: the observed genes class by class in
// selection order, then the uncounted catalog genes (class -1, snps -1).
func WriteTSV(out io.Writer, r *Result) error {
	w := tsv.NewWriter(out)
	for _, col := range tsvHeader {
		w.WriteString(col)
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	for ci, class := range r.Classes {
		dominant := class.Dominant().Gene
		for i, m := range class.Members {
			w.WriteString(m.Gene)
			w.WriteInt64(int64(m.Count))
			w.WriteString(strconv.FormatFloat(float64(m.Count)/float64(r.TotalCount), 'g', 6, 64))
			w.WriteInt64(int64(ci))
			w.WriteString(dominant)
			w.WriteInt64(int64(class.SNPs(i)))
			w.WriteString(status(r, m.Gene))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	for _, gene := range r.Uncounted() {
		w.WriteString(gene)
		w.WriteInt64(0)
		w.WriteString("0")
		w.WriteInt64(-1)
		w.WriteString("")
		w.WriteInt64(-1)
		w.WriteString(status(r, gene))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteFASTA writes the kept genes as a germline set, in selection order.
func WriteFASTA(out io.Writer, r *Result, catalog Catalog) error {
	w := fasta.NewWriter(out, fasta.DefaultLineWidth)
	for _, class := range r.Classes {
		for _, m := range class.Members {
			if !r.Keep.Has(m.Gene) {
				continue
			}
			seq, err := catalog.Sequence(m.Gene)
			if err != nil {
				return err
			}
			if err := w.Write(m.Gene, seq); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// createPath creates path and calls fn with a writer for it. Paths ending in
// ".gz" are gzip-compressed.
func createPath(ctx context.Context, path string, fn func(io.Writer) error) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	once := errors.Once{}
	w := out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(w)
		once.Set(fn(gz))
		once.Set(gz.Close())
	} else {
		once.Set(fn(w))
	}
	once.Set(out.Close(ctx))
	if err := once.Err(); err != nil {
		return errors.E(err, "write", path)
	}
	return nil
}

// WriteTSVPath is WriteTSV to a new file.
func WriteTSVPath(ctx context.Context, path string, r *Result) error {
	return createPath(ctx, path, func(w io.Writer) error { return WriteTSV(w, r) })
}

// WriteFASTAPath is WriteFASTA to a new file.
func WriteFASTAPath(ctx context.Context, path string, r *Result, catalog Catalog) error {
	return createPath(ctx, path, func(w io.Writer) error { return WriteFASTA(w, r, catalog) })
}
