// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import (
	"github.com/grailbio/igalleles/util"
)

// Class is a group of similar genes. Members are in the order they were
// added, so the first member has the highest count and is the class's
// dominant gene.
type Class struct {
	Members []GeneRecord
}

// Dominant returns the first member.
func (c Class) Dominant() GeneRecord { return c.Members[0] }

// Genes returns the member names, in member order.
func (c Class) Genes() []string {
	genes := make([]string, len(c.Members))
	for i, m := range c.Members {
		genes[i] = m.Gene
	}
	return genes
}

// TotalCount returns the sum of member counts.
func (c Class) TotalCount() int {
	n := 0
	for _, m := range c.Members {
		n += m.Count
	}
	return n
}

// SNPs returns the hamming distance between the i'th member's prefix and the
// dominant's.
//
// All members of a class share the prefix length of the dominant, since a
// gene only joins through a member of equal length.
func (c Class) SNPs(i int) int {
	return util.Hamming(c.Members[0].Prefix, c.Members[i].Prefix)
}

// Classify partitions records into classes of similar genes. records must be
// sorted by SortRecords.
//
// Each gene, in order, joins the first existing class (in creation order) that
// has a member (in member order) whose prefix is of equal length and within
// hamming distance nMaxSNPs-2. Otherwise it starts a new class. This is
// greedy single linkage, so the result depends on the input order.
func Classify(records []GeneRecord, nMaxSNPs int) []Class {
	var classes []Class
	for _, rec := range records {
		joined := false
		for ci := range classes {
			for _, m := range classes[ci].Members {
				if !util.Comparable(m.Prefix, rec.Prefix) {
					continue
				}
				if util.Hamming(m.Prefix, rec.Prefix) < nMaxSNPs-1 {
					classes[ci].Members = append(classes[ci].Members, rec)
					joined = true
					break
				}
			}
			if joined {
				break
			}
		}
		if !joined {
			classes = append(classes, Class{Members: []GeneRecord{rec}})
		}
	}
	return classes
}
