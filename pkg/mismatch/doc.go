// Package mismatch computes per-cycle mismatch profiles from BWA
// alignments.
//
// Each record is assigned to a lane (single read, mate 1 or mate 2),
// filtered to unique gap-free alignments, and its MD tag is decoded into
// mismatch counts indexed by read cycle. The accumulated Session is then
// written as a table of mismatch fractions and counts.
package mismatch
