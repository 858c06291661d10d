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

import "math"

// LogSumLog returns log(exp(p) + exp(q)).  A zero argument means "no
// probability mass yet", not log(1): LogSumLog(0, q) == q.
func LogSumLog(p, q float64) float64 {
	if p == 0 {
		return q
	}
	if q == 0 {
		return p
	}
	larger, smaller := p, q
	if q > p {
		larger, smaller = q, p
	}
	return larger + math.Log1p(math.Exp(smaller-larger))
}

// LogAccumulator sums probabilities given as logs.  The zero value is empty.
type LogAccumulator struct {
	logSum float64
	nTerm  int
}

// Add adds exp(logTerm) to the running sum.
func (a *LogAccumulator) Add(logTerm float64) {
	a.logSum = LogSumLog(a.logSum, logTerm)
	a.nTerm++
}

// Value returns the log of the running sum, or 0 if nothing has been added.
func (a *LogAccumulator) Value() float64 {
	return a.logSum
}

// Prob returns the running sum as a probability.  An accumulator that never
// saw a term holds no mass, so Prob returns 0 for it rather than exp(0).
func (a *LogAccumulator) Prob() float64 {
	if a.nTerm == 0 {
		return 0
	}
	return math.Exp(a.logSum)
}
