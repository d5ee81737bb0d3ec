// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alleles

import "github.com/grailbio/igalleles/usage"

// Assess returns the number of assignments whose gene is in remove, i.e. the
// queries that would lose their best match. It is diagnostic only.
func Assess(assignments []usage.Assignment, remove GeneSet) int {
	n := 0
	for _, a := range assignments {
		if remove.Has(a.Gene) {
			n++
		}
	}
	return n
}
