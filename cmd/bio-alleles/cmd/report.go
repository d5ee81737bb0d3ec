// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/igalleles/alleles"
)

// runReport prints the summary, options and kept genes of a dump written by
// "select -rio".
func runReport(ctx context.Context, out io.Writer, path string, classes bool) error {
	d, err := alleles.ReadRioPath(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", d.Summary)
	fmt.Fprintf(out, "options: %+v\n", d.Result.Opts)
	fmt.Fprintf(out, "fingerprint: %016x\n", d.Result.Fingerprint())
	for _, g := range d.Result.Keep.Sorted() {
		fmt.Fprintf(out, "keep\t%s\n", g)
	}
	if classes {
		fmt.Fprint(out, alleles.FormatClasses(d.Result))
	}
	return nil
}
