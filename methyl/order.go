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

import (
	"context"
	"strings"

	"github.com/biogo/hts/sam"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Order defines the chromosome order that coordinate-sorted inputs follow.
// CompareChrom returns a negative number when a sorts before b, zero when they
// are the same chromosome, and a positive number otherwise.
type Order interface {
	CompareChrom(a, b string) int
}

type lexOrder struct{}

func (lexOrder) CompareChrom(a, b string) int {
	return strings.Compare(a, b)
}

// LexOrder sorts chromosomes by name, byte-wise.  "chr10" sorts before "chr2".
var LexOrder Order = lexOrder{}

// DictOrder sorts chromosomes by their position in a sequence dictionary.
// Chromosomes missing from the dictionary sort after all listed ones, by name.
type DictOrder struct {
	index map[string]int
}

// NewDictOrder returns the order given by names.
func NewDictOrder(names []string) *DictOrder {
	o := &DictOrder{index: make(map[string]int, len(names))}
	for i, name := range names {
		if _, found := o.index[name]; !found {
			o.index[name] = i
		}
	}
	return o
}

// NewDictOrderFromHeader returns the reference order of a SAM header.
func NewDictOrderFromHeader(header *sam.Header) *DictOrder {
	refs := header.Refs()
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name()
	}
	return NewDictOrder(names)
}

// CompareChrom implements Order.
func (o *DictOrder) CompareChrom(a, b string) int {
	if a == b {
		return 0
	}
	ia, okA := o.index[a]
	ib, okB := o.index[b]
	switch {
	case okA && okB:
		if ia < ib {
			return -1
		}
		return 1
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// Compare orders two calls by chromosome under o, then by start.
func Compare(o Order, a, b *Call) int {
	if c := o.CompareChrom(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	}
	return 0
}

// LoadRefDict reads the @SQ lines of a SAM header, a Picard sequence
// dictionary, or a SAM file, and returns the chromosome order they define.
func LoadRefDict(ctx context.Context, path string) (order *DictOrder, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if e := infile.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(infile.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	samr, err := sam.NewReader(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "methyl.LoadRefDict %s", path)
	}
	header := samr.Header()
	if len(header.Refs()) == 0 {
		return nil, errors.Errorf("methyl.LoadRefDict %s: no @SQ lines", path)
	}
	return NewDictOrderFromHeader(header), nil
}
