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

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Metrics counts what happened to the positions of the first input.
type Metrics struct {
	// CallsA is the number of positions read from the first input.
	CallsA int

	// Filtered is the number of positions outside the requested regions.
	// They are never compared.
	Filtered int

	// Matched is the number of positions also present in the second input.
	Matched int

	// LowCoverage is the number of matched positions skipped because one
	// side had no reads.  Always 0 when all loci are emitted.
	LowCoverage int

	// Unmatched is the number of compared positions absent from the second
	// input.
	Unmatched int

	// Emitted is the number of output records.
	Emitted int
}

// String returns a tab-separated rendering of m, in the column order of
// metricsHeader.
func (m *Metrics) String() string {
	compared := m.CallsA - m.Filtered
	pctMatched := 0.0
	if compared > 0 {
		pctMatched = 100 * float64(m.Matched) / float64(compared)
	}
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d\t%0.6f", m.CallsA, m.Filtered,
		m.Matched, m.LowCoverage, m.Unmatched, m.Emitted, pctMatched)
}

// Add adds the metrics in other to m.
func (m *Metrics) Add(other *Metrics) {
	m.CallsA += other.CallsA
	m.Filtered += other.Filtered
	m.Matched += other.Matched
	m.LowCoverage += other.LowCoverage
	m.Unmatched += other.Unmatched
	m.Emitted += other.Emitted
}

const metricsHeader = "CHROM\tCALLS_A\tFILTERED\tMATCHED\tLOW_COVERAGE\tUNMATCHED\tEMITTED\tPERCENT_MATCHED\n"

// MetricsCollection holds per-chromosome Metrics for one run.
type MetricsCollection struct {
	// CallsB is the number of positions in the second input.
	CallsB int

	// ChromMetrics is keyed by the first input's chromosome names.
	ChromMetrics map[string]*Metrics

	// chroms lists ChromMetrics' keys in order of first appearance.
	chroms []string
}

func newMetricsCollection() *MetricsCollection {
	return &MetricsCollection{ChromMetrics: make(map[string]*Metrics)}
}

func (mc *MetricsCollection) get(chrom string) *Metrics {
	m, ok := mc.ChromMetrics[chrom]
	if !ok {
		m = &Metrics{}
		mc.ChromMetrics[chrom] = m
		mc.chroms = append(mc.chroms, chrom)
	}
	return m
}

// Total returns the sum of the per-chromosome metrics.
func (mc *MetricsCollection) Total() Metrics {
	var total Metrics
	for _, m := range mc.ChromMetrics {
		total.Add(m)
	}
	return total
}

// WriteTo writes mc as a TSV table with one row per chromosome, in input
// order, followed by a row named "all".
func (mc *MetricsCollection) WriteTo(w io.Writer) (int64, error) {
	var n int64
	write := func(s string) error {
		k, err := io.WriteString(w, s)
		n += int64(k)
		return err
	}
	if err := write(fmt.Sprintf("# bio-methdiff\n# positions in second input: %d\n", mc.CallsB)); err != nil {
		return n, err
	}
	if err := write(metricsHeader); err != nil {
		return n, err
	}
	for _, chrom := range mc.chroms {
		if err := write(chrom + "\t" + mc.ChromMetrics[chrom].String() + "\n"); err != nil {
			return n, err
		}
	}
	total := mc.Total()
	err := write("all\t" + total.String() + "\n")
	return n, err
}

func writeMetrics(ctx context.Context, path string, mc *MetricsCollection) (err error) {
	var f file.File
	if f, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "Couldn't create metrics file:", path)
	}
	defer file.CloseAndReport(ctx, f, &err)
	if _, err = mc.WriteTo(f.Writer(ctx)); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	return nil
}
