// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles_test

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/igalleles/alleles"
	"github.com/grailbio/igalleles/germline"
	"github.com/grailbio/igalleles/usage"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classGenes(classes []alleles.Class) [][]string {
	var out [][]string
	for _, c := range classes {
		out = append(out, c.Genes())
	}
	return out
}

func TestSortRecordsTieBreak(t *testing.T) {
	records := []alleles.GeneRecord{
		{Gene: "IGHV3*01", Count: 5},
		{Gene: "IGHV2*01", Count: 10},
		{Gene: "IGHV1*02", Count: 5},
		{Gene: "IGHV1*01", Count: 5},
	}
	alleles.SortRecords(records)
	var got []string
	for _, r := range records {
		got = append(got, r.Gene)
	}
	assert.Equal(t, []string{"IGHV2*01", "IGHV1*01", "IGHV1*02", "IGHV3*01"}, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		genes    []testGene
		nMaxSNPs int
		want     [][]string
	}{
		{
			name: "one_class",
			genes: []testGene{
				{"A", "ACGTACGTTGT", 100},
				{"B", "ACGAACGTTGT", 40},
				{"C", "ACGTACGTTGT", 5},
			},
			nMaxSNPs: 3,
			want:     [][]string{{"A", "B", "C"}},
		},
		{
			// Distance 2 is not < nMaxSNPs-1.
			name: "threshold_is_strict",
			genes: []testGene{
				{"A", "ACGTACGTTGT", 100},
				{"B", "TTGTACGTTGT", 40},
			},
			nMaxSNPs: 3,
			want:     [][]string{{"A"}, {"B"}},
		},
		{
			name: "unequal_lengths_never_merge",
			genes: []testGene{
				{"A", "ACGTACGTTGT", 100},
				{"B", "ACGTACGTTGTTGT", 40},
			},
			nMaxSNPs: 10,
			want:     [][]string{{"A"}, {"B"}},
		},
		{
			// C is within reach of both classes and joins the older one. D
			// is far from A but joins A's class through C.
			name: "first_match_wins",
			genes: []testGene{
				{"A", "AAAAAA", 100},
				{"B", "AAATTT", 90},
				{"C", "AAAATT", 80},
				{"D", "ACATTT", 70},
			},
			nMaxSNPs: 4,
			want:     [][]string{{"A", "C", "D"}, {"B"}},
		},
		{
			name: "singletons_for_small_threshold",
			genes: []testGene{
				{"A", "ACGTACGTTGT", 100},
				{"B", "ACGTACGTTGT", 40},
			},
			nMaxSNPs: 1,
			want:     [][]string{{"A"}, {"B"}},
		},
		{
			name: "negative_threshold",
			genes: []testGene{
				{"A", "ACGTACGTTGT", 100},
				{"B", "ACGTACGTTGT", 40},
			},
			nMaxSNPs: -5,
			want:     [][]string{{"A"}, {"B"}},
		},
		{
			name:     "empty",
			genes:    nil,
			nMaxSNPs: 3,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes := alleles.Classify(testRecords(t, tt.genes), tt.nMaxSNPs)
			assert.Equal(t, tt.want, classGenes(classes))
		})
	}
}

func TestClassMethods(t *testing.T) {
	classes := alleles.Classify(testRecords(t, []testGene{
		{"A", "ACGTACGTTGT", 100},
		{"B", "ACGAACGTTGT", 40},
		{"C", "ACGTACGTTGT", 5},
	}), 3)
	require.Len(t, classes, 1)
	c := classes[0]
	expect.EQ(t, c.Dominant().Gene, "A")
	expect.EQ(t, c.TotalCount(), 145)
	expect.EQ(t, c.SNPs(0), 0)
	expect.EQ(t, c.SNPs(1), 1)
	expect.EQ(t, c.SNPs(2), 0)
}

func TestClassifyProperties(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		genes := randomGenes(r)
		nMaxSNPs := r.Intn(6)
		records := testRecords(t, genes)
		classes := alleles.Classify(records, nMaxSNPs)

		// Partition.
		var all []string
		for _, c := range classes {
			require.NotEmpty(t, c.Members)
			all = append(all, c.Genes()...)
			// The dominant gene has the highest count.
			for _, m := range c.Members {
				assert.True(t, m.Count <= c.Dominant().Count)
				assert.Equal(t, len(c.Dominant().Prefix), len(m.Prefix))
			}
		}
		sort.Strings(all)
		require.Equal(t, geneNames(genes), all, "iter %d", iter)

		// Idempotence.
		again := alleles.Classify(testRecords(t, genes), nMaxSNPs)
		require.True(t, reflect.DeepEqual(classes, again), "iter %d", iter)
	}
}

func TestNewRecordsErrors(t *testing.T) {
	genes := []testGene{{"A", "ACGTACGTTGT", 100}}
	catalog := newTestCatalog(t, genes)

	_, err := alleles.NewRecords(usage.Counts{"Z": 2}, catalog)
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
	assert.Contains(t, err.Error(), "counted gene Z")

	_, err = alleles.NewRecords(usage.Counts{"A": -1}, catalog)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)

	bad, err := germline.NewCatalog("igh", germline.V, []germline.Gene{
		{Name: "short", Seq: "ACGT", CodonPos: 2},
		{Name: "nocodon", Seq: "ACGTACGT", CodonPos: -1},
	})
	require.NoError(t, err)
	_, err = alleles.CanonicalPrefix(bad, "short")
	assert.True(t, errors.Is(errors.Integrity, err), "%v", err)
	_, err = alleles.NewRecords(usage.Counts{"short": 4}, bad)
	assert.True(t, errors.Is(errors.Integrity, err), "%v", err)
	assert.Contains(t, err.Error(), "out of range")
	assert.NotContains(t, err.Error(), "missing")
	_, err = alleles.CanonicalPrefix(bad, "nocodon")
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)

	prefix, err := alleles.CanonicalPrefix(catalog, "A")
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTTGT", prefix)
}
