package mismatch

import (
	"github.com/biogo/hts/sam"
)

// Aux tags written by BWA
var (
	tagUniqueHits = sam.NewTag("X0") // number of best hits
	tagMismatches = sam.NewTag("XM") // number of mismatches in the alignment
	tagGapOpens   = sam.NewTag("XO") // number of gap opens
	tagMD         = sam.NewTag("MD") // mismatching positions
)

// intAux returns the integer value of tag, or false if the tag is absent
// or not an integer
func intAux(r *sam.Record, tag sam.Tag) (int, bool) {
	aux := r.AuxFields.Get(tag)
	if aux == nil {
		return 0, false
	}
	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// stringAux returns the string value of tag, or false if the tag is absent
// or not a string
func stringAux(r *sam.Record, tag sam.Tag) (string, bool) {
	aux := r.AuxFields.Get(tag)
	if aux == nil {
		return "", false
	}
	s, ok := aux.Value().(string)
	return s, ok
}

func refID(r *sam.Record) int {
	if r.Ref == nil {
		return -1
	}
	return r.Ref.ID()
}

func queryLen(r *sam.Record) int {
	return r.Seq.Length
}
