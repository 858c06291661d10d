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

/*
bio-methdiff compares the methylation calls of two samples, A and B, position
by position, and reports for each CpG covered by both the probability that A
is more methylated than B.

Both inputs must be sorted by chromosome, then position.  Two text encodings
are accepted and detected automatically: BED6 lines whose name column ends in
":<total reads>" and whose score is the methylated fraction, and
"chrom pos strand context level coverage" lines.

Each output line is
  <chrom> <start> <end> CpG:<reads in A>:<reads in B> <probability>

Sample usage:
bio-methdiff diff \
    -pseudocount 1 \
    -out a-vs-b.bed.gz \
    a.meth \
    b.meth

bio-methdiff check a.meth b.meth
*/
package main
