// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package util

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// OpenDecompressed opens path for reading, transparently decompressing it if
// its name carries a known compression suffix (.gz, .bz2, .zst, ...). The
// returned close function must be called exactly once.
func OpenDecompressed(ctx context.Context, path string) (io.Reader, func(context.Context) error, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	u := compress.NewReaderPath(r, in.Name())
	if u != nil {
		r = u
	}
	closer := func(ctx context.Context) error {
		once := errors.Once{}
		if u != nil {
			once.Set(u.Close())
		}
		once.Set(in.Close(ctx))
		return once.Err()
	}
	return r, closer, nil
}
