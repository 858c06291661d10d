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
package methyl

// Call holds the read counts observed at a single genomic position.  Start is
// 0-based.
type Call struct {
	Chrom  string
	Start  int
	Meth   int
	Unmeth int
}

// Total returns the number of reads covering the position.
func (c *Call) Total() int {
	return c.Meth + c.Unmeth
}

// Scanner is a forward-only stream of Calls.  Scan fills c with the next call
// and returns true, or returns false once the stream is exhausted or has
// failed.  Once Scan returns false it never returns true again; Err then
// reports whether the stream ended because of an error.
type Scanner interface {
	Scan(c *Call) bool
	Err() error
}

// SliceScanner is a Scanner over an in-memory []Call.
type SliceScanner struct {
	calls []Call
	idx   int
}

// NewSliceScanner returns a Scanner over calls.  The slice is not copied.
func NewSliceScanner(calls []Call) *SliceScanner {
	return &SliceScanner{calls: calls}
}

// Scan implements Scanner.
func (s *SliceScanner) Scan(c *Call) bool {
	if s.idx >= len(s.calls) {
		return false
	}
	*c = s.calls[s.idx]
	s.idx++
	return true
}

// Err implements Scanner.  It is always nil.
func (s *SliceScanner) Err() error {
	return nil
}
