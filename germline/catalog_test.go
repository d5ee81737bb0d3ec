// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package germline_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/igalleles/germline"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const extras = "gene\tcyst_position\ttryp_position\tphen_position\n" +
	"IGHV1-2*02\t9\t\t\n" +
	"IGHV1-2*04\t9\t\t\n" +
	"IGHJ4*02\t\t3\t\n"

func writeGermlineDir(t *testing.T, dir string, files map[string]string) {
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
	}
}

func TestReadCatalog(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	writeGermlineDir(t, tmpdir, map[string]string{
		"igh/extras.tsv": extras,
		"igh/ighv.fasta": ">IGHV1-2*02\nCAGGTGCAG.CTGTGC\n>IGHV1-2*04\nCAGGTGCAGCTGTGA\n>IGHV9-9*01\nACGT\n",
		"igh/ighj.fasta": ">IGHJ4*02\nACTTGGGGC\n",
	})
	ctx := vcontext.Background()

	c, err := germline.ReadCatalog(ctx, tmpdir, "igh", germline.V)
	require.NoError(t, err)
	assert.Equal(t, []string{"IGHV1-2*02", "IGHV1-2*04", "IGHV9-9*01"}, c.Genes())
	assert.Equal(t, 3, c.Len())

	seq, err := c.Sequence("IGHV1-2*02")
	require.NoError(t, err)
	assert.Equal(t, "CAGGTGCAGCTGTGC", seq)
	pos, err := c.CodonPosition("IGHV1-2*04")
	require.NoError(t, err)
	assert.Equal(t, 9, pos)

	// In the FASTA but not in extras.tsv.
	_, err = c.CodonPosition("IGHV9-9*01")
	assert.True(t, errors.Is(errors.NotExist, err))
	// Not in the catalog at all.
	_, err = c.Sequence("IGHV3-23*01")
	assert.True(t, errors.Is(errors.NotExist, err))

	j, err := germline.ReadCatalog(ctx, tmpdir, "igh", germline.J)
	require.NoError(t, err)
	pos, err = j.CodonPosition("IGHJ4*02")
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	_, err = germline.ReadCatalog(ctx, tmpdir, "igh", germline.D)
	assert.True(t, errors.Is(errors.NotSupported, err))
	_, err = germline.ReadCatalog(ctx, tmpdir, "tra", germline.V)
	assert.True(t, errors.Is(errors.Invalid, err))
	_, err = germline.ReadCatalog(ctx, tmpdir, "igk", germline.V)
	assert.Error(t, err)
}

func TestReadCodonPositions(t *testing.T) {
	pos, err := germline.ReadCodonPositions(strings.NewReader(extras), germline.Cyst)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"IGHV1-2*02": 9, "IGHV1-2*04": 9}, pos)

	pos, err = germline.ReadCodonPositions(strings.NewReader(extras), germline.Tryp)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"IGHJ4*02": 3}, pos)

	bad := "gene\tcyst_position\ttryp_position\tphen_position\nIGHV1-2*02\tx\t\t\n"
	_, err = germline.ReadCodonPositions(strings.NewReader(bad), germline.Cyst)
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestNewCatalogDuplicate(t *testing.T) {
	_, err := germline.NewCatalog("igh", germline.V, []germline.Gene{
		{Name: "IGHV1-2*02", Seq: "ACGT", CodonPos: 0},
		{Name: "IGHV1-2*02", Seq: "ACGA", CodonPos: 0},
	})
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestConservedCodon(t *testing.T) {
	for _, tt := range []struct{ locus, region, want string }{
		{"igh", germline.V, germline.Cyst},
		{"igh", germline.J, germline.Tryp},
		{"igk", germline.J, germline.Phen},
		{"igl", germline.V, germline.Cyst},
	} {
		got, err := germline.ConservedCodon(tt.locus, tt.region)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
