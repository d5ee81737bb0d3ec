// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package germline holds germline gene sets: the nucleotide sequence of each
// allele of one region (v, d or j) of one locus (igh, igk, igl), plus the
// position of the region's conserved codon in each sequence.
//
// On disk a germline set is a directory laid out as
//
//   <dir>/<locus>/<locus><region>.fasta    e.g. igh/ighv.fasta
//   <dir>/<locus>/extras.tsv
//
// where extras.tsv has the header "gene cyst_position tryp_position
// phen_position" and one row per gene. Cells that do not apply to a gene's
// region are left empty.
package germline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/igalleles/encoding/fasta"
	"github.com/grailbio/igalleles/util"
)

// Regions.
const (
	V = "v"
	D = "d"
	J = "j"
)

// Conserved codon names, as used in extras.tsv column names.
const (
	Cyst = "cyst"
	Tryp = "tryp"
	Phen = "phen"
)

// conservedCodons maps locus -> region -> codon that anchors the region.
var conservedCodons = map[string]map[string]string{
	"igh": {V: Cyst, J: Tryp},
	"igk": {V: Cyst, J: Phen},
	"igl": {V: Cyst, J: Phen},
}

// ConservedCodon returns the name of the conserved codon that anchors region
// in locus. The d region has no anchor.
func ConservedCodon(locus, region string) (string, error) {
	regions, ok := conservedCodons[locus]
	if !ok {
		return "", errors.E(errors.Invalid, fmt.Sprintf("unknown locus %q", locus))
	}
	codon, ok := regions[region]
	if !ok {
		return "", errors.E(errors.NotSupported, fmt.Sprintf("region %q of locus %s has no conserved codon", region, locus))
	}
	return codon, nil
}

// Gene is one germline allele.
type Gene struct {
	// Name is the allele name, e.g. "IGHV1-18*01".
	Name string
	// Seq is the ungapped, upper-case nucleotide sequence.
	Seq string
	// CodonPos is the 0-based offset of the first base of the conserved
	// codon in Seq, or -1 if unknown.
	CodonPos int
}

// Catalog is an immutable germline set for one region of one locus.
type Catalog struct {
	Locus  string
	Region string

	genes map[string]Gene
	names []string // in insertion order
}

// NewCatalog creates a catalog from the given genes. Gene names must be
// unique.
func NewCatalog(locus, region string, genes []Gene) (*Catalog, error) {
	c := &Catalog{
		Locus:  locus,
		Region: region,
		genes:  make(map[string]Gene, len(genes)),
	}
	for _, g := range genes {
		if _, ok := c.genes[g.Name]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("duplicate germline gene %s", g.Name))
		}
		c.genes[g.Name] = g
		c.names = append(c.names, g.Name)
	}
	return c, nil
}

// Sequence returns the sequence of gene.
func (c *Catalog) Sequence(gene string) (string, error) {
	g, ok := c.genes[gene]
	if !ok {
		return "", errors.E(errors.NotExist, fmt.Sprintf("gene %s not in %s%s germline set", gene, c.Locus, c.Region))
	}
	return g.Seq, nil
}

// CodonPosition returns the position of the conserved codon in gene.
func (c *Catalog) CodonPosition(gene string) (int, error) {
	g, ok := c.genes[gene]
	if !ok {
		return 0, errors.E(errors.NotExist, fmt.Sprintf("gene %s not in %s%s germline set", gene, c.Locus, c.Region))
	}
	if g.CodonPos < 0 {
		return 0, errors.E(errors.NotExist, fmt.Sprintf("no conserved codon position for gene %s", gene))
	}
	return g.CodonPos, nil
}

// Genes returns the names of all genes in the catalog, in the order they were
// added. The caller must not modify the result.
func (c *Catalog) Genes() []string { return c.names }

// Len returns the number of genes.
func (c *Catalog) Len() int { return len(c.names) }

// FastaPath returns the path of the germline FASTA for locus/region under dir.
func FastaPath(dir, locus, region string) string {
	return filepath.Join(dir, locus, locus+region+".fasta")
}

// ExtrasPath returns the path of the codon position table for locus under dir.
func ExtrasPath(dir, locus string) string {
	return filepath.Join(dir, locus, "extras.tsv")
}

// extrasRow is one row of extras.tsv.  Columns are read positionally.
type extrasRow struct {
	Gene string
	Cyst string
	Tryp string
	Phen string
}

func (r extrasRow) position(codon string) string {
	switch codon {
	case Cyst:
		return r.Cyst
	case Tryp:
		return r.Tryp
	case Phen:
		return r.Phen
	}
	return ""
}

// ReadCodonPositions reads the positions of the given codon from an
// extras.tsv stream. Genes whose cell is empty are omitted.
func ReadCodonPositions(in io.Reader, codon string) (map[string]int, error) {
	r := tsv.NewReader(in)
	r.HasHeaderRow = true
	positions := map[string]int{}
	var row extrasRow
	for nLine := 2; ; nLine++ {
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "read codon positions")
		}
		cell := strings.TrimSpace(row.position(codon))
		if cell == "" {
			continue
		}
		pos, err := strconv.Atoi(cell)
		if err != nil || pos < 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("line %d: bad %s position %q for %s", nLine, codon, cell, row.Gene))
		}
		positions[row.Gene] = pos
	}
	return positions, nil
}

// ReadCatalog loads the germline set for locus/region from dir.  Genes present
// in the FASTA but absent from extras.tsv get CodonPos -1.
func ReadCatalog(ctx context.Context, dir, locus, region string) (*Catalog, error) {
	codon, err := ConservedCodon(locus, region)
	if err != nil {
		return nil, err
	}
	extrasPath := ExtrasPath(dir, locus)
	in, closer, err := util.OpenDecompressed(ctx, extrasPath)
	if err != nil {
		return nil, err
	}
	positions, err := ReadCodonPositions(in, codon)
	if e := closer(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(err, extrasPath)
	}

	fastaPath := FastaPath(dir, locus, region)
	if in, closer, err = util.OpenDecompressed(ctx, fastaPath); err != nil {
		return nil, err
	}
	fa, err := fasta.New(in, fasta.Opts{})
	if e := closer(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return nil, errors.E(errors.Invalid, err, fastaPath)
	}

	var (
		genes    []Gene
		nNoCodon int
		seqNames = fa.SeqNames()
	)
	for _, name := range seqNames {
		seq, err := fa.Seq(name)
		if err != nil {
			return nil, errors.E(err, fastaPath)
		}
		pos, ok := positions[name]
		if !ok {
			pos = -1
			nNoCodon++
		}
		genes = append(genes, Gene{Name: name, Seq: seq, CodonPos: pos})
	}
	if nNoCodon > 0 {
		log.Printf("%s: %d of %d genes have no %s position", fastaPath, nNoCodon, len(seqNames), codon)
	}
	log.Debug.Printf("read %d %s%s genes from %s", len(genes), locus, region, fastaPath)
	return NewCatalog(locus, region, genes)
}
