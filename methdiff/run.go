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
package methdiff

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/hts/bgzf"
	"github.com/grailbio/methdiff/interval"
	"github.com/grailbio/methdiff/methyl"
)

type Opts struct {
	// Commandline options.
	Pseudocount int
	OutPath     string
	AllLoci     bool
	Verbose     bool
	Label       string
	Format      string
	RefDict     string
	BedPath     string
	Region      string
	MetricsPath string
	Precision   int
}

var DefaultOpts = Opts{
	Pseudocount: 1,
	AllLoci:     false,
	Verbose:     false,
	Label:       "totals",
	Format:      "auto",
	Precision:   6,
}

// runOpts is the validated form of Opts.
type runOpts struct {
	merge       MergeOpts
	format      methyl.Format
	outPath     string
	metricsPath string
	precision   int
	verbose     bool
}

func progressf(verbose bool, format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	} else {
		log.Debug.Printf(format, args...)
	}
}

func validateOpts(ctx context.Context, rawOpts *Opts) (opts runOpts, err error) {
	if rawOpts.Pseudocount < 0 {
		err = fmt.Errorf("methdiff.Run: pseudocount cannot be negative")
		return
	}
	if rawOpts.AllLoci && rawOpts.Pseudocount == 0 {
		err = fmt.Errorf("methdiff.Run: all-loci mode requires a positive pseudocount, since positions may have no reads")
		return
	}
	if rawOpts.Precision < 1 || rawOpts.Precision > 17 {
		err = fmt.Errorf("methdiff.Run: precision must be in [1, 17]")
		return
	}
	if opts.merge.Label, err = ParseLabelFormat(rawOpts.Label); err != nil {
		return
	}
	if opts.format, err = methyl.ParseFormat(rawOpts.Format); err != nil {
		return
	}
	opts.merge.Pseudocount = rawOpts.Pseudocount
	opts.merge.AllLoci = rawOpts.AllLoci
	opts.merge.Verbose = rawOpts.Verbose
	opts.outPath = rawOpts.OutPath
	opts.metricsPath = rawOpts.MetricsPath
	opts.precision = rawOpts.Precision
	opts.verbose = rawOpts.Verbose

	opts.merge.Order = methyl.LexOrder
	if rawOpts.RefDict != "" {
		var order *methyl.DictOrder
		if order, err = methyl.LoadRefDict(ctx, rawOpts.RefDict); err != nil {
			return
		}
		opts.merge.Order = order
	}

	if rawOpts.BedPath != "" && rawOpts.Region != "" {
		err = fmt.Errorf("methdiff.Run: -region and -bed flags can't be used together")
		return
	}
	var bedUnion interval.BEDUnion
	if rawOpts.BedPath != "" {
		if bedUnion, err = interval.NewBEDUnionFromPath(rawOpts.BedPath); err != nil {
			return
		}
		opts.merge.Filter = &bedUnion
	} else if rawOpts.Region != "" {
		var entry interval.Entry
		if entry, err = interval.ParseRegionString(rawOpts.Region); err != nil {
			return
		}
		if bedUnion, err = interval.NewBEDUnionFromEntries([]interval.Entry{entry}); err != nil {
			return
		}
		opts.merge.Filter = &bedUnion
	}
	return
}

// loadBoth reads the two inputs concurrently.  Either one failing, including
// by being unsorted, fails the whole load.
func loadBoth(ctx context.Context, paths [2]string, opts *runOpts) (loaded [2]methyl.Loaded, err error) {
	progressf(opts.verbose, "[READING CPGS]")
	err = traverse.Each(2, func(i int) error {
		var e error
		if loaded[i], e = methyl.ReadAll(ctx, paths[i], opts.format, opts.merge.Order); e != nil {
			return e
		}
		progressf(opts.verbose, "[READ=%s] %d CpG(s), %v format", paths[i], len(loaded[i].Calls), loaded[i].Format)
		return nil
	})
	return
}

// Run compares the methylation calls in pathA against those in pathB and
// writes one line per compared position to opts.OutPath (stdout if empty).
// Nothing is written if either input is unsorted.
func Run(ctx context.Context, pathA, pathB string, rawOpts *Opts) (err error) {
	var opts runOpts
	if opts, err = validateOpts(ctx, rawOpts); err != nil {
		return
	}
	var loaded [2]methyl.Loaded
	if loaded, err = loadBoth(ctx, [2]string{pathA, pathB}, &opts); err != nil {
		return
	}
	progressf(opts.verbose, "CPG COUNT A: %d", len(loaded[0].Calls))
	progressf(opts.verbose, "CPG COUNT B: %d", len(loaded[1].Calls))

	var out io.Writer = os.Stdout
	if opts.outPath != "" {
		var dst file.File
		if dst, err = file.Create(ctx, opts.outPath); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, dst, &err)
		out = dst.Writer(ctx)
		if strings.HasSuffix(opts.outPath, ".gz") {
			bgzfWriter := bgzf.NewWriter(out, runtime.NumCPU())
			defer func() {
				if e := bgzfWriter.Close(); e != nil && err == nil {
					err = e
				}
			}()
			out = bgzfWriter
		}
	}

	merger := NewMerger(methyl.NewSliceScanner(loaded[0].Calls), methyl.NewSliceScanner(loaded[1].Calls), opts.merge)
	w := NewWriter(out, opts.precision)
	var d DifferentialCall
	for merger.Scan(&d) {
		if err = w.Write(&d); err != nil {
			return
		}
	}
	if err = merger.Err(); err != nil {
		return
	}
	if err = w.Flush(); err != nil {
		return
	}

	mc := merger.Metrics()
	mc.CallsB = len(loaded[1].Calls)
	total := mc.Total()
	log.Printf("methdiff.Run: %d of %d position(s) matched, %d written", total.Matched, total.CallsA, total.Emitted)
	if opts.metricsPath != "" {
		if err = writeMetrics(ctx, opts.metricsPath, mc); err != nil {
			return
		}
	}
	return
}

// CheckResult describes one input examined by Check.
type CheckResult struct {
	Path   string
	Format methyl.Format
	NCalls int
	Err    error
}

// Check loads each path the way Run would and reports its format and size.
// The returned error is the first failure, if any; every path is examined
// regardless.
func Check(ctx context.Context, paths []string, rawOpts *Opts) (results []CheckResult, err error) {
	var format methyl.Format
	if format, err = methyl.ParseFormat(rawOpts.Format); err != nil {
		return
	}
	var order methyl.Order = methyl.LexOrder
	if rawOpts.RefDict != "" {
		if order, err = methyl.LoadRefDict(ctx, rawOpts.RefDict); err != nil {
			return
		}
	}
	results = make([]CheckResult, len(paths))
	for i, path := range paths {
		loaded, e := methyl.ReadAll(ctx, path, format, order)
		results[i] = CheckResult{Path: path, Format: loaded.Format, NCalls: len(loaded.Calls), Err: e}
		if e != nil && err == nil {
			err = e
		}
	}
	return
}
