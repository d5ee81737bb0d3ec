// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package alleles decides which germline alleles of a region are real, given how
often each allele was the best match for a set of sequenced queries.

Many of the alleles in a germline set look used when in fact the queries that
matched them came from a close relative: somatic hypermutation and sequencing
errors push queries between alleles that differ by a few bases. Selection
prunes those.

Genes are compared over their canonical prefix, the sequence up to and
including the conserved codon (cysteine for v, tryptophan or phenylalanine for
j). Prefixes of different lengths are never compared.

Selection runs in two steps.

NewRecords orders the observed genes by count (descending, ties by name).
Classify expects them in that order and groups them greedily: each gene joins
the first class holding a member within NMaxSNPs-2 mismatches, or starts a new
class. The first gene of a class is its
dominant gene.

Select then walks the classes in creation order and keeps
  - nothing once NMaxTotalAlleles genes are kept,
  - no gene under the MinAllelePrevalenceFraction floor,
  - the dominant gene,
  - no gene whose prefix is identical to the dominant's,
  - up to NAllelesPerGene genes per class.

Every other observed gene, and every catalog gene that was never observed, is
removed. Assess counts the queries whose best match was removed.

The computation is deterministic: the same counts and options always give the
same Result, and Result.Fingerprint can be compared across runs.
*/
package alleles
