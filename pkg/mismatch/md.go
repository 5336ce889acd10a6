package mismatch

import (
	"fmt"
	"strconv"
)

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isMismatchBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'N':
		return true
	}
	return false
}

// DecodeMD walks an MD string and adds one count to counts for every
// mismatched base, indexed by read cycle. Digit runs advance the cycle by
// that many matching bases; each base letter is a mismatch at the current
// cycle. It returns the cycle reached after the last token.
//
// Deletions (^) are not supported since gapped alignments never reach the
// decoder. The total span of the string is not checked against the read
// length; only mismatches are.
func DecodeMD(md string, counts Counter) (int, error) {
	cycle := 0
	for i := 0; i < len(md); {
		switch b := md[i]; {
		case isDigit(b):
			j := i + 1
			for j < len(md) && isDigit(md[j]) {
				j++
			}
			n, err := strconv.ParseInt(md[i:j], 10, 32)
			if err != nil {
				return cycle, &Error{
					Kind: CycleOutOfRange,
					Msg:  fmt.Sprintf("match run %q in MD cigar out of range", md[i:j]),
				}
			}
			cycle += int(n)
			i = j
		case isMismatchBase(b):
			if err := counts.Add(cycle); err != nil {
				return cycle, err
			}
			cycle++
			i++
		default:
			return cycle, &Error{
				Kind: UnexpectedSymbol,
				Msg:  fmt.Sprintf("unexpected character '%c' in MD cigar", b),
			}
		}
	}
	return cycle, nil
}
