// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/igalleles/alleles"
	"v.io/x/lib/cmdline"
)

func newCmdSelect() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "select",
		Short: "Select the germline alleles supported by a set of query assignments",
		Long: `
Select reads the best-match assignments of a set of queries, tallies the
matches per gene for each region, and keeps the alleles that look real. For
each region it writes <out>.<region>.tsv with one row per gene and
<out>.<region>.fasta with the reduced germline set.`,
	}
	var (
		o       selectOpts
		regions string
	)
	o.opts = alleles.DefaultOpts
	cmd.Flags.StringVar(&o.germlineDir, "germline-dir", "", "Directory holding <locus>/<locus><region>.fasta and <locus>/extras.tsv")
	cmd.Flags.StringVar(&o.locus, "locus", "igh", "Locus: igh, igk or igl")
	cmd.Flags.StringVar(&regions, "regions", "v", "Comma-separated list of regions (v, j)")
	cmd.Flags.StringVar(&o.assignmentsPath, "assignments", "", "TSV of query assignments with columns unique_ids, v_gene, d_gene, j_gene")
	cmd.Flags.StringVar(&o.outPrefix, "out", "", "Output path prefix")
	cmd.Flags.BoolVar(&o.gzip, "gzip", false, "Gzip the per-gene tables")
	cmd.Flags.BoolVar(&o.rio, "rio", false, "Also write a <out>.<region>.rio dump readable by the report command")
	cmd.Flags.IntVar(&o.opts.NMaxSNPs, "n-max-snps", alleles.DefaultOpts.NMaxSNPs,
		"Genes whose canonical prefixes differ by fewer than n-max-snps - 1 bases share a class")
	cmd.Flags.Float64Var(&o.opts.MinAllelePrevalenceFraction, "min-allele-prevalence-fraction", alleles.DefaultOpts.MinAllelePrevalenceFraction,
		"Genes with a smaller fraction of all matches are removed")
	cmd.Flags.IntVar(&o.opts.NAllelesPerGene, "n-alleles-per-gene", alleles.DefaultOpts.NAllelesPerGene,
		"Maximum number of genes kept from one class")
	cmd.Flags.IntVar(&o.opts.NMaxTotalAlleles, "n-max-total-alleles", alleles.DefaultOpts.NMaxTotalAlleles,
		"Maximum number of genes kept overall; negative means no limit")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("select takes no positional arguments, but got %v", argv)
		}
		var err error
		if o.regions, err = parseRegions(regions); err != nil {
			return err
		}
		_, err = runSelect(vcontext.Background(), o)
		return err
	})
	return cmd
}

func newCmdClassify() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "classify",
		Short: "Print the similarity classes of the genes in a count table",
	}
	germlineDir := cmd.Flags.String("germline-dir", "", "Directory holding <locus>/<locus><region>.fasta and <locus>/extras.tsv")
	locus := cmd.Flags.String("locus", "igh", "Locus: igh, igk or igl")
	region := cmd.Flags.String("region", "v", "Region (v or j)")
	countsPath := cmd.Flags.String("counts", "", "TSV of gene counts with columns gene, count")
	nMaxSNPs := cmd.Flags.Int("n-max-snps", alleles.DefaultOpts.NMaxSNPs, "Similarity threshold")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("classify takes no positional arguments, but got %v", argv)
		}
		return runClassify(vcontext.Background(), env.Stdout, *germlineDir, *locus, *region, *countsPath, *nMaxSNPs)
	})
	return cmd
}

func newCmdReport() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "report",
		Short:    "Print the summary of a selection dump",
		ArgsName: "path",
	}
	classes := cmd.Flags.Bool("classes", false, "Also print the class listing")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("report takes one pathname argument, but got %v", argv)
		}
		return runReport(vcontext.Background(), env.Stdout, argv[0], *classes)
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-alleles",
		Short:    "Remove germline alleles that are not supported by query assignments",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdSelect(),
			newCmdClassify(),
			newCmdReport(),
		},
	}
}

// Run is the entry point of bio-alleles. It does not return.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	shutdown := grail.Init()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(newCmdRoot(), env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
