// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Writer emits FASTA records, wrapping sequence lines at a fixed width.
//
// Errors are sticky: once a write fails, later calls are no-ops and Flush
// returns the first error.
type Writer struct {
	w         *bufio.Writer
	lineWidth int
	err       error
}

// NewWriter creates a Writer. lineWidth <= 0 means DefaultLineWidth.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	if lineWidth <= 0 {
		lineWidth = DefaultLineWidth
	}
	return &Writer{w: bufio.NewWriter(w), lineWidth: lineWidth}
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

// Write adds one record.
func (w *Writer) Write(name, seq string) error {
	if name == "" {
		return errors.Errorf("fasta write: empty sequence name")
	}
	w.writeString(">")
	w.writeString(name)
	w.writeString("\n")
	for len(seq) > 0 {
		n := w.lineWidth
		if n > len(seq) {
			n = len(seq)
		}
		w.writeString(seq[:n])
		w.writeString("\n")
		seq = seq[n:]
	}
	return w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return errors.Wrap(w.err, "fasta write")
	}
	return w.w.Flush()
}
