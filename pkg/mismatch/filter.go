package mismatch

import (
	"github.com/biogo/hts/sam"
)

// Verdict is the filter's decision on a record
type Verdict int

const (
	Admitted Verdict = iota
	Unaligned
	MultiMapped
	Gapped
)

func (v Verdict) String() string {
	switch v {
	case Admitted:
		return "admitted"
	case Unaligned:
		return "unaligned"
	case MultiMapped:
		return "multi-mapped"
	case Gapped:
		return "gapped"
	}
	return "unknown"
}

// Admit decides whether a record is eligible for mismatch counting.
// Only alignments that are mapped, have exactly one best hit and no gap
// opens are admitted. Absent X0 or XO tags read as zero.
func Admit(r *sam.Record) Verdict {
	if r.Flags&sam.Unmapped != 0 || refID(r) < 0 {
		return Unaligned
	}
	if hits, _ := intAux(r, tagUniqueHits); hits != 1 {
		return MultiMapped
	}
	if gaps, _ := intAux(r, tagGapOpens); gaps != 0 {
		return Gapped
	}
	return Admitted
}
