// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta reads and writes germline gene sets stored as FASTA.  A
// germline FASTA file holds one record per allele, for example:
//
// >IGHV1-18*01
// CAGGTTCAGCTGGTGCAGTCTGGAGCTGAGGTGAAGAAGCCTGGGGCCTCAGTGAAGGTCTCCTGCAAGGCTTCT
// GGTTACACCTTTACCAGCTATGGTATCAGCTGGGTGCGACAGGCCCCTGGACAAGGGCTTGAGTGGATGGGA
// >IGHV1-2*02
// ...
//
// Headers in IMGT layout ("X62106|IGHV1-2*02|Homo sapiens|F|...") are also
// accepted: the record name is the first '|'-separated field that carries an
// allele designator ('*'), or the first field if none does.  IMGT-gapped
// sequences use '.' for alignment gaps; those are dropped unless Opts.KeepGaps
// is set.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 // germline records are short
	// DefaultLineWidth is the number of bases per line used by Writer.
	DefaultLineWidth = 60
)

// Fasta represents FASTA-formatted data, consisting of a set of named
// sequences.
type Fasta interface {
	// Seq returns the whole sequence.
	Seq(seqName string) (string, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

// Opts controls how sequences are normalized while reading.
type Opts struct {
	// KeepGaps retains IMGT gap characters ('.') in the sequences.
	KeepGaps bool
	// KeepCase disables upper-casing of the sequences.
	KeepCase bool
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// ParseName extracts the record name from a FASTA header line.  The leading
// '>' is optional.
func ParseName(header string) string {
	header = strings.TrimPrefix(header, ">")
	if fields := strings.Fields(header); len(fields) > 0 {
		header = fields[0]
	} else {
		return ""
	}
	if !strings.Contains(header, "|") {
		return header
	}
	parts := strings.Split(header, "|")
	for _, p := range parts {
		if strings.Contains(p, "*") {
			return p
		}
	}
	return parts[0]
}

func normalize(line string, opts Opts) string {
	if !opts.KeepGaps {
		line = strings.Replace(line, ".", "", -1)
	}
	if !opts.KeepCase {
		line = strings.ToUpper(line)
	}
	return line
}

// New creates a new Fasta that holds all the FASTA data from the given reader
// in memory.
func New(r io.Reader, opts Opts) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		seqName string
		seq     strings.Builder
		started bool
	)
	add := func() error {
		if !started {
			return nil
		}
		if seqName == "" {
			return errors.Errorf("malformed FASTA file: empty sequence name")
		}
		if _, ok := f.seqs[seqName]; ok {
			return errors.Errorf("duplicate sequence name: %s", seqName)
		}
		f.seqs[seqName] = seq.String()
		f.seqNames = append(f.seqNames, seqName)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if err := add(); err != nil {
				return nil, err
			}
			seqName = ParseName(line)
			started = true
			continue
		}
		if !started {
			return nil, errors.Errorf("malformed FASTA file: sequence data before the first header")
		}
		seq.WriteString(normalize(line, opts))
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if err := add(); err != nil {
		return nil, err
	}
	return f, nil
}

// Seq implements Fasta.Seq().
func (f *fasta) Seq(seqName string) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	return s, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
