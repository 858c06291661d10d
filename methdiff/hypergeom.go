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
	"gonum.org/v1/gonum/stat/combin"
)

// LogChoose returns log(n choose r).  ok is false when r is outside [0, n];
// such a coefficient is zero and has no log.
func LogChoose(n, r int) (lnc float64, ok bool) {
	if n < 0 || r < 0 || r > n {
		return 0, false
	}
	return combin.LogGeneralizedBinomial(float64(n), float64(r)), true
}

// TailBounds returns the half-open range [kMin, kEnd) of k summed by
// TestGreater.  Below kMin the reference-side coefficient vanishes.
func TailBounds(t Table) (kMin, kEnd int) {
	if t.MethCmp > t.UnmethRef {
		kMin = t.MethCmp - t.UnmethRef
	}
	return kMin, t.MethCmp
}

// LogHyperGreaterTerm returns the log of the k'th hypergeometric term
//
//   C(nCmp-1, k) * C(nRef-1, m-k) / C(nRef+nCmp-2, m),  m = MethRef+MethCmp-1.
//
// Summed over every feasible k the terms add up to 1.  ok is false when any
// coefficient is out of range, in which case the term contributes nothing.
func LogHyperGreaterTerm(t Table, k int) (lnp float64, ok bool) {
	m := t.MethRef + t.MethCmp - 1
	denom, ok := LogChoose(t.NRef()+t.NCmp()-2, m)
	if !ok {
		return 0, false
	}
	return logHyperGreaterTerm(t, k, m, denom)
}

func logHyperGreaterTerm(t Table, k, m int, denom float64) (float64, bool) {
	cmpTerm, ok := LogChoose(t.NCmp()-1, k)
	if !ok {
		return 0, false
	}
	refTerm, ok := LogChoose(t.NRef()-1, m-k)
	if !ok {
		return 0, false
	}
	return cmpTerm + refTerm - denom, true
}

// TestGreater returns the probability that the comparison side's methylation
// level exceeds the reference side's, given the table's counts.  With counts
// of at least 1 in every cell this equals P(X > Y) for
// X ~ Beta(MethCmp, UnmethCmp) and Y ~ Beta(MethRef, UnmethRef).
//
// Callers are expected to have added a pseudocount; a side with no reads at
// all has no defined answer, and TestGreater returns 0 for it.
func TestGreater(t Table) float64 {
	m := t.MethRef + t.MethCmp - 1
	denom, ok := LogChoose(t.NRef()+t.NCmp()-2, m)
	if !ok {
		return 0
	}
	var acc LogAccumulator
	kMin, kEnd := TailBounds(t)
	for k := kMin; k < kEnd; k++ {
		if lnp, ok := logHyperGreaterTerm(t, k, m, denom); ok {
			acc.Add(lnp)
		}
	}
	p := acc.Prob()
	// Rounding in the log domain can overshoot by a few ulps.
	if p > 1 {
		p = 1
	}
	return p
}
