// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

// This file defines a recordio dump of a selection run. Each record is one
// gob-encoded class; the trailer holds the options, the kept and uncounted
// genes, and the summary. "bio-alleles report" reads it back.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

const (
	// <fileVersionHeader, fileVersion> is stored in the recordio header.
	fileVersionHeader = "allelesversion"
	fileVersion       = "ALLELES_V1"
	regionHeader      = "region"
)

// rioTrailer is stored in the trailer section of the recordio file.
type rioTrailer struct {
	Opts       Opts
	TotalCount int
	Keep       []string
	Uncounted  []string
	Summary    Summary
}

// Dump is a selection run as read back by ReadRio.
type Dump struct {
	Region  string
	Result  *Result
	Summary Summary
}

// WriteRio writes r and its summary to out.
func WriteRio(out io.Writer, region string, r *Result, s Summary) error {
	recordiozstd.Init()
	w := recordio.NewWriter(out, recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(regionHeader, region)
	w.AddHeader(recordio.KeyTrailer, true)
	for _, class := range r.Classes {
		b := bytes.Buffer{}
		if err := gob.NewEncoder(&b).Encode(class); err != nil {
			return errors.E(err, "encode class")
		}
		w.Append(b.Bytes())
	}
	b := bytes.Buffer{}
	t := rioTrailer{
		Opts:       r.Opts,
		TotalCount: r.TotalCount,
		Keep:       r.Keep.Sorted(),
		Uncounted:  r.Uncounted(),
		Summary:    s,
	}
	if err := gob.NewEncoder(&b).Encode(t); err != nil {
		return errors.E(err, "encode trailer")
	}
	w.SetTrailer(b.Bytes())
	return w.Finish()
}

// ReadRio reads a file written by WriteRio.
func ReadRio(in io.ReadSeeker) (*Dump, error) {
	recordiozstd.Init()
	r := recordio.NewScanner(in, recordio.ScannerOpts{})
	d := &Dump{}
	versionFound := false
	for _, kv := range r.Header() {
		switch kv.Key {
		case fileVersionHeader:
			if v, ok := kv.Value.(string); !ok || v != fileVersion {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("alleles file version mismatch, got %v, expect %v", kv.Value, fileVersion))
			}
			versionFound = true
		case regionHeader:
			d.Region, _ = kv.Value.(string)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if !versionFound {
		return nil, errors.E(errors.Invalid, fileVersionHeader+" not found")
	}

	var classes []Class
	for r.Scan() {
		var class Class
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&class); err != nil {
			return nil, errors.E(errors.Invalid, err, "decode class")
		}
		classes = append(classes, class)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	var t rioTrailer
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&t); err != nil {
		return nil, errors.E(errors.Invalid, err, "decode trailer")
	}

	res := &Result{
		Keep:       NewGeneSet(t.Keep...),
		Observed:   GeneSet{},
		Classes:    classes,
		TotalCount: t.TotalCount,
		Opts:       t.Opts,
	}
	for _, class := range classes {
		for _, m := range class.Members {
			res.Observed.Add(m.Gene)
		}
	}
	res.Remove = res.Observed.Minus(res.Keep)
	for _, g := range t.Uncounted {
		res.Remove.Add(g)
	}
	d.Result = res
	d.Summary = t.Summary
	return d, nil
}

// WriteRioPath is WriteRio to a new file.
func WriteRioPath(ctx context.Context, path, region string, r *Result, s Summary) error {
	return createPath(ctx, path, func(w io.Writer) error { return WriteRio(w, region, r, s) })
}

// ReadRioPath is ReadRio on a file.
func ReadRioPath(ctx context.Context, path string) (*Dump, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	d, err := ReadRio(in.Reader(ctx))
	if e := in.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, path)
	}
	return d, nil
}
