// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/methdiff/methdiff"
	"v.io/x/lib/cmdline"
)

func newCmdDiff() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "diff",
		Short:    "Report the probability that A is more methylated than B at each shared CpG",
		ArgsName: "a-path b-path",
	}
	opts := methdiff.DefaultOpts
	cmd.Flags.IntVar(&opts.Pseudocount, "pseudocount", opts.Pseudocount, "Added to each of the four read counts before testing")
	cmd.Flags.StringVar(&opts.OutPath, "out", opts.OutPath, "Output path; stdout if empty.  A path ending in .gz is bgzip-compressed")
	cmd.Flags.BoolVar(&opts.AllLoci, "A", opts.AllLoci, "Report every CpG of A, including those with no reads on either side or absent from B")
	cmd.Flags.BoolVar(&opts.Verbose, "v", opts.Verbose, "Log progress")
	cmd.Flags.StringVar(&opts.Label, "label", opts.Label, `Name column format: "totals" (CpG:<reads in A>:<reads in B>) or "counts" (CpG:<meth A>:<unmeth A>:<meth B>:<unmeth B>)`)
	cmd.Flags.StringVar(&opts.Format, "format", opts.Format, `Input encoding: "auto", "bed", or "counts"`)
	cmd.Flags.StringVar(&opts.RefDict, "ref-dict", opts.RefDict, "SAM header or sequence dictionary giving the chromosome order of the inputs.  By default chromosomes are sorted by name")
	cmd.Flags.StringVar(&opts.BedPath, "bed", opts.BedPath, "Only compare CpGs of A inside these BED intervals; this xor -region")
	cmd.Flags.StringVar(&opts.Region, "region", opts.Region, "Only compare CpGs of A inside this region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>; this xor -bed")
	cmd.Flags.StringVar(&opts.MetricsPath, "metrics", opts.MetricsPath, "If set, write per-chromosome counts to this path")
	cmd.Flags.IntVar(&opts.Precision, "precision", opts.Precision, "Significant digits of the reported probability")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("diff takes a-path b-path, but got %v", argv)
		}
		return methdiff.Run(vcontext.Background(), argv[0], argv[1], &opts)
	})
	return cmd
}

func newCmdCheck() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "check",
		Short:    "Verify that methylation files parse and are sorted",
		ArgsName: "path...",
	}
	opts := methdiff.DefaultOpts
	cmd.Flags.StringVar(&opts.Format, "format", opts.Format, `Input encoding: "auto", "bed", or "counts"`)
	cmd.Flags.StringVar(&opts.RefDict, "ref-dict", opts.RefDict, "SAM header or sequence dictionary giving the chromosome order of the inputs")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("check takes at least one path")
		}
		results, err := methdiff.Check(vcontext.Background(), argv, &opts)
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(env.Stdout, "%s\tERROR\t%v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(env.Stdout, "%s\t%v\t%d\n", r.Path, r.Format, r.NCalls)
		}
		return err
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-methdiff",
			Short:    "Differential methylation between two samples",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdDiff(),
				newCmdCheck(),
			},
		})
}
