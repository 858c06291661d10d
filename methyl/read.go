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
	"fmt"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// CheckSorted returns the index of the first call that sorts strictly before
// its predecessor under order, or -1 if calls is sorted.  Repeated positions
// are allowed.
func CheckSorted(calls []Call, order Order) int {
	for i := 1; i < len(calls); i++ {
		if Compare(order, &calls[i-1], &calls[i]) > 0 {
			return i
		}
	}
	return -1
}

// Loaded is the result of ReadAll.
type Loaded struct {
	Path   string
	Format Format
	Calls  []Call
}

// ReadAll loads every call from path, which may be compressed, and verifies
// that the calls are sorted under order.  Unsorted input is reported as an
// errors.Invalid error naming path; nothing is returned with it.
func ReadAll(ctx context.Context, path string, format Format, order Order) (loaded Loaded, err error) {
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

	r := NewReader(reader, format, path)
	var calls []Call
	var c Call
	for r.Scan(&c) {
		calls = append(calls, c)
	}
	if err = r.Err(); err != nil {
		return
	}
	if idx := CheckSorted(calls, order); idx >= 0 {
		prev, cur := &calls[idx-1], &calls[idx]
		err = errors.E(errors.Invalid, fmt.Sprintf("CpGs not sorted in file %q: record %d (%s:%d) follows %s:%d",
			path, idx+1, cur.Chrom, cur.Start, prev.Chrom, prev.Start))
		return
	}
	log.Debug.Printf("methyl.ReadAll: %d call(s) from %s (%v)", len(calls), path, r.Format())
	loaded = Loaded{Path: path, Format: r.Format(), Calls: calls}
	return
}
