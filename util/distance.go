// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
)

// Hamming computes the Hamming distance between two equal-length sequences:
// the number of positions at which the bytes differ. s1 and s2 must have the
// same length; callers that may see unequal lengths should check Comparable
// first.
func Hamming(s1, s2 string) (distance int) {
	if len(s1) != len(s2) {
		panic(fmt.Sprintf("s1 and s2 must have equal length: '%s', '%s'", s1, s2))
	}
	for i := 0; i < len(s1); i++ {
		if s1[i] != s2[i] {
			distance++
		}
	}
	return distance
}

// Comparable reports whether Hamming(s1, s2) is defined.
func Comparable(s1, s2 string) bool {
	return len(s1) == len(s2)
}
