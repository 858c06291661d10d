/*Package interval implements interval-union operations in a manner optimized
  for sets of genomic coordinates represented by BED files.
  Overlapping and touching intervals are merged, not tracked separately; only
  membership queries are supported.
  It assumes every position fits in a PosType, which is currently defined as
  int32; no assembled chromosome is longer than 2^31-1 bases.
*/
package interval
