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
	"github.com/grailbio/methdiff/methyl"
)

// Table is a 2x2 contingency table of methylated and unmethylated read
// counts.  TestGreater asks whether the comparison side is more methylated
// than the reference side.
type Table struct {
	MethRef   int
	UnmethRef int
	MethCmp   int
	UnmethCmp int
}

// NewTable builds the table for "is a more methylated than b": b is the
// reference side and a the comparison side.  pseudocount is added to all four
// cells.
func NewTable(a, b *methyl.Call, pseudocount int) Table {
	return Table{
		MethRef:   b.Meth + pseudocount,
		UnmethRef: b.Unmeth + pseudocount,
		MethCmp:   a.Meth + pseudocount,
		UnmethCmp: a.Unmeth + pseudocount,
	}
}

// NRef returns the number of reads on the reference side.
func (t Table) NRef() int {
	return t.MethRef + t.UnmethRef
}

// NCmp returns the number of reads on the comparison side.
func (t Table) NCmp() int {
	return t.MethCmp + t.UnmethCmp
}
