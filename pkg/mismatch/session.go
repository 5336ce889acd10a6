package mismatch

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	"github.com/sirupsen/logrus"
)

// Mode is the pairing mode of a run
type Mode int

const (
	ModeUnknown Mode = iota
	ModeSingle
	ModePaired
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModePaired:
		return "paired"
	}
	return "unknown"
}

// LaneID numbers a read lane: 1 for single reads or mate 1, 2 for mate 2
type LaneID int

const (
	Lane1 LaneID = 1
	Lane2 LaneID = 2
)

// Lane is the per-cycle data track for one read of a fragment
type Lane struct {
	ID     LaneID
	Length int
	Counts Counter

	// Reported is the sum of XM over analyzed reads in this lane
	Reported uint64
}

// RecordReader yields alignment records until io.EOF.
// Both *bam.Reader and *sam.Reader satisfy it.
type RecordReader interface {
	Read() (*sam.Record, error)
}

// Session accumulates mismatch counts over every record of a run
type Session struct {
	config *Config
	log    logrus.FieldLogger

	mode  Mode
	lanes [2]*Lane

	total      uint64
	analyzed   uint64
	exclusions map[Verdict]uint64
}

// NewSession creates an empty session. A nil config uses NewConfig().
func NewSession(config *Config) (*Session, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		config:     config,
		log:        log,
		exclusions: make(map[Verdict]uint64),
	}, nil
}

// Mode returns the pairing mode fixed by the first record
func (s *Session) Mode() Mode { return s.mode }

// Total returns the number of records seen
func (s *Session) Total() uint64 { return s.total }

// Analyzed returns the number of records whose mismatches were counted
func (s *Session) Analyzed() uint64 { return s.analyzed }

// Excluded returns the number of records excluded for reason v
func (s *Session) Excluded(v Verdict) uint64 { return s.exclusions[v] }

// Lane returns lane id, or nil if no record has been assigned to it
func (s *Session) Lane(id LaneID) *Lane {
	if id != Lane1 && id != Lane2 {
		return nil
	}
	return s.lanes[id-1]
}

// Lanes returns the lanes to report: lane 1, and lane 2 only for paired
// runs. Lanes that never received a record are omitted.
func (s *Session) Lanes() []*Lane {
	var lanes []*Lane
	if l := s.lanes[0]; l != nil {
		lanes = append(lanes, l)
	}
	if s.mode == ModePaired && s.lanes[1] != nil {
		lanes = append(lanes, s.lanes[1])
	}
	return lanes
}

// Add runs one record through classification, filtering and MD decoding.
// A non-nil error is fatal for the whole run.
func (s *Session) Add(r *sam.Record) error {
	s.total++

	lane, err := s.classify(r)
	if err != nil {
		return err
	}

	if v := Admit(r); v != Admitted {
		s.exclusions[v]++
		return nil
	}

	md, ok := stringAux(r, tagMD)
	if !ok {
		return &Error{Kind: MissingAttribute, Msg: "aligned read has no MD tag", Read: r.Name}
	}
	if _, err := DecodeMD(md, lane.Counts); err != nil {
		if e, ok := err.(*Error); ok {
			e.Read = r.Name
		}
		return err
	}
	s.analyzed++

	if xm, ok := intAux(r, tagMismatches); ok && xm > 0 {
		lane.Reported += uint64(xm)
	}
	return nil
}

// Scan adds every record from rr until io.EOF
func (s *Session) Scan(rr RecordReader) error {
	var n int
	for {
		r, err := rr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := s.Add(r); err != nil {
			return err
		}
		n++
		if s.config.ProgressInterval > 0 && n%s.config.ProgressInterval == 0 {
			s.log.Infof("  Processed %d reads...", n)
		}
	}
}

// classify checks the record against the run's pairing mode and its
// lane's read length, creating the lane on first use
func (s *Session) classify(r *sam.Record) (*Lane, error) {
	mode := ModeSingle
	if r.Flags&sam.Paired != 0 {
		mode = ModePaired
	}
	switch s.mode {
	case ModeUnknown:
		s.mode = mode
	case mode:
	default:
		return nil, &Error{Kind: ModeConflict, Msg: "found both paired and single reads", Read: r.Name}
	}

	id := Lane1
	if mode == ModePaired {
		switch {
		case r.Flags&sam.Read1 != 0:
			id = Lane1
		case r.Flags&sam.Read2 != 0:
			id = Lane2
		default:
			return nil, &Error{Kind: MissingMateDesignation, Msg: "found paired-end read without read number", Read: r.Name}
		}
	}
	return s.lane(id, queryLen(r), r.Name)
}

func (s *Session) lane(id LaneID, qlen int, name string) (*Lane, error) {
	l := s.lanes[id-1]
	if l == nil {
		length := qlen
		if s.config.ReadLength > 0 {
			length = s.config.ReadLength
		}
		l = &Lane{ID: id, Length: length}
		if qlen > length {
			return nil, s.lengthError(l, qlen, name)
		}
		l.Counts = NewCounter(length)
		s.lanes[id-1] = l
		return l, nil
	}

	if s.config.ReadLength > 0 {
		if qlen > l.Length {
			return nil, s.lengthError(l, qlen, name)
		}
	} else if qlen != l.Length {
		return nil, s.lengthError(l, qlen, name)
	}
	return l, nil
}

func (s *Session) lengthError(l *Lane, qlen int, name string) error {
	return &Error{
		Kind: LengthMismatch,
		Msg:  fmt.Sprintf("reads have different lengths: lane %d is %d bases, read is %d", l.ID, l.Length, qlen),
		Read: name,
	}
}
