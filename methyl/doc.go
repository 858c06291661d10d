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
Package methyl reads per-position methylation read counts.

Two text encodings are supported:

  - FormatBED, the legacy BED6 encoding, where the name column embeds the
    total read count after its first ':' and the score column holds the
    methylated fraction:
        chr1  3000826  3000827  CpG:12  0.75  +
  - FormatCounts, the structured encoding with the methylated fraction and the
    read count in their own columns:
        chr1  3000826  +  CpG  0.75  12

Either way the records come out as a stream of Calls.  Callers that need the
coordinate-sorted invariant checked up front use ReadAll, which refuses
unsorted input with an errors.Invalid error naming the file.
*/
package methyl
