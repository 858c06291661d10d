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
	"github.com/grailbio/base/log"
	"github.com/grailbio/methdiff/interval"
	"github.com/grailbio/methdiff/methyl"
)

// DifferentialCall is one output record: the probability that the first
// input is more methylated than the second at a single position.
type DifferentialCall struct {
	Chrom string
	Start int
	End   int
	Label string
	Prob  float64
	// Matched is false for positions emitted in all-loci mode that the second
	// input does not cover.
	Matched bool
}

// PositionFilter restricts the positions a Merger compares.
// *interval.BEDUnion implements it.
type PositionFilter interface {
	ContainsByName(chrName string, pos interval.PosType) bool
}

// MergeOpts configures a Merger.
type MergeOpts struct {
	// Order is the chromosome order both inputs are sorted by.  Defaults to
	// methyl.LexOrder.
	Order methyl.Order
	// Pseudocount is added to every cell of each contingency table.
	Pseudocount int
	// AllLoci emits every compared position of the first input, including
	// those with no reads on a side and those missing from the second input
	// (which are given zero counts).
	AllLoci bool
	// Label selects the name-column format.
	Label LabelFormat
	// Filter, if non-nil, skips first-input positions it does not contain.
	Filter PositionFilter
	// Verbose logs each chromosome as processing reaches it.
	Verbose bool
}

// Merger pairs two coordinate-sorted streams of calls by position and tests
// each pair.  Both streams are read forward exactly once; the second stream's
// cursor never moves backward, so a run costs O(|a| + |b|) comparisons.
//
// Typical usage:
//   m := NewMerger(a, b, opts)
//   var d DifferentialCall
//   for m.Scan(&d) {
//     ...
//   }
//   if err := m.Err(); err != nil {
//     ...
//   }
//
// Unsorted input is not detected here; it produces missed pairs.
type Merger struct {
	a, b    methyl.Scanner
	opts    MergeOpts
	metrics *MetricsCollection

	curA methyl.Call
	// curB is the call under the cursor.  It is valid only if bValid.
	curB    methyl.Call
	bValid  bool
	bLoaded bool
	// cursor is the index of curB within the second stream.
	cursor int

	lastChrom string
	chromM    *Metrics
	labelBuf  []byte
	err       error
}

// NewMerger returns a Merger comparing a against b.
func NewMerger(a, b methyl.Scanner, opts MergeOpts) *Merger {
	if opts.Order == nil {
		opts.Order = methyl.LexOrder
	}
	return &Merger{
		a:       a,
		b:       b,
		opts:    opts,
		metrics: newMetricsCollection(),
	}
}

// Cursor returns the number of second-stream calls the merger has moved past.
// It never decreases.
func (m *Merger) Cursor() int {
	return m.cursor
}

// Metrics returns the counts accumulated so far.  CallsB is not filled in.
func (m *Merger) Metrics() *MetricsCollection {
	return m.metrics
}

// Err returns the first error reported by either input stream.
func (m *Merger) Err() error {
	return m.err
}

func (m *Merger) loadB() {
	m.bValid = m.b.Scan(&m.curB)
	if !m.bValid {
		m.err = m.b.Err()
	}
}

// advanceB moves the cursor past every call sorting strictly before curA.
func (m *Merger) advanceB() {
	if !m.bLoaded {
		m.bLoaded = true
		m.loadB()
	}
	for m.bValid && methyl.Compare(m.opts.Order, &m.curB, &m.curA) < 0 {
		m.cursor++
		m.loadB()
	}
}

func (m *Merger) startChrom(chrom string) {
	m.lastChrom = chrom
	m.chromM = m.metrics.get(chrom)
	if m.opts.Verbose {
		log.Printf("[PROCESSING] %s", chrom)
	} else {
		log.Debug.Printf("[PROCESSING] %s", chrom)
	}
}

// Scan fills d with the next output record and returns true, or returns false
// when the first stream is exhausted or either stream fails.
func (m *Merger) Scan(d *DifferentialCall) bool {
	for m.err == nil && m.a.Scan(&m.curA) {
		a := &m.curA
		if m.chromM == nil || a.Chrom != m.lastChrom {
			m.startChrom(a.Chrom)
		}
		m.chromM.CallsA++
		if m.opts.Filter != nil && !m.opts.Filter.ContainsByName(a.Chrom, interval.PosType(a.Start)) {
			m.chromM.Filtered++
			continue
		}
		m.advanceB()
		if m.err != nil {
			return false
		}
		matched := m.bValid && m.curB.Chrom == a.Chrom && m.curB.Start == a.Start
		var b methyl.Call
		if matched {
			m.chromM.Matched++
			b = m.curB
			if !m.opts.AllLoci && (a.Total() == 0 || b.Total() == 0) {
				m.chromM.LowCoverage++
				continue
			}
		} else {
			m.chromM.Unmatched++
			if !m.opts.AllLoci {
				continue
			}
			b = methyl.Call{Chrom: a.Chrom, Start: a.Start}
		}
		m.labelBuf = appendLabel(m.labelBuf[:0], m.opts.Label, a, &b)
		*d = DifferentialCall{
			Chrom:   a.Chrom,
			Start:   a.Start,
			End:     a.Start + 1,
			Label:   string(m.labelBuf),
			Prob:    TestGreater(NewTable(a, &b, m.opts.Pseudocount)),
			Matched: matched,
		}
		m.chromM.Emitted++
		return true
	}
	if m.err == nil {
		m.err = m.a.Err()
	}
	return false
}
