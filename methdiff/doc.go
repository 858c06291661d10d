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
Package methdiff scores differential methylation between two samples.

For each CpG present in both inputs, TestGreater computes the probability that
the first sample's methylation level exceeds the second's, treating each
sample's level as a Beta posterior over its methylated and unmethylated read
counts.  The sum runs over a hypergeometric tail in the log domain, so read
depths in the thousands neither overflow nor lose the small tail terms.

Merger pairs the two coordinate-sorted inputs in a single forward pass, and Run
wires loading, validation, merging and output together for the bio-methdiff
command.
*/
package methdiff
