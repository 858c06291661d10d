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
	"fmt"
	"strconv"

	"github.com/grailbio/methdiff/methyl"
)

// LabelFormat selects how the name column of an output line is rendered.
type LabelFormat int

const (
	// LabelTotals renders "CpG:<total reads in a>:<total reads in b>".
	LabelTotals LabelFormat = iota
	// LabelCounts renders "CpG:<meth a>:<unmeth a>:<meth b>:<unmeth b>".
	LabelCounts
)

// ParseLabelFormat maps a -label flag value to a LabelFormat.
func ParseLabelFormat(s string) (LabelFormat, error) {
	switch s {
	case "totals":
		return LabelTotals, nil
	case "counts":
		return LabelCounts, nil
	}
	return LabelTotals, fmt.Errorf("methdiff.ParseLabelFormat: unrecognized label format %q (want totals or counts)", s)
}

func (f LabelFormat) String() string {
	switch f {
	case LabelTotals:
		return "totals"
	case LabelCounts:
		return "counts"
	}
	return fmt.Sprintf("LabelFormat(%d)", int(f))
}

// appendLabel appends the label for the pair (a, b) to dst.  Counts are the
// observed ones, before any pseudocount.
func appendLabel(dst []byte, f LabelFormat, a, b *methyl.Call) []byte {
	dst = append(dst, "CpG:"...)
	if f == LabelCounts {
		dst = strconv.AppendInt(dst, int64(a.Meth), 10)
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(a.Unmeth), 10)
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, int64(b.Meth), 10)
		dst = append(dst, ':')
		return strconv.AppendInt(dst, int64(b.Unmeth), 10)
	}
	dst = strconv.AppendInt(dst, int64(a.Total()), 10)
	dst = append(dst, ':')
	return strconv.AppendInt(dst, int64(b.Total()), 10)
}
