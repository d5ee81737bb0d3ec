// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-alleles removes the germline alleles of an immune receptor locus that are
not supported by the best-match assignments of a set of sequenced queries.
*/
package main

import "github.com/grailbio/igalleles/cmd/bio-alleles/cmd"

func main() {
	cmd.Run()
}
