package idgen

import "time"

// Identifier layout, high to low bits:
//
//	| seconds since CustomEpochSeconds | node (5 bits) | sequence (6 bits) |
const (
	// CustomEpochSeconds is 2025-01-01T00:00:00Z as Unix seconds.
	CustomEpochSeconds int64 = 1735689600

	NodeBits     = 5
	SequenceBits = 6

	// MaxNodeID is the largest valid node identifier (31).
	MaxNodeID = 1<<NodeBits - 1

	// MaxSequence is the largest sequence number issued within one second (63).
	MaxSequence = 1<<SequenceBits - 1

	nodeShift   = SequenceBits
	secondShift = NodeBits + SequenceBits
)

// Identifier is a packed (second, node, sequence) value.
type Identifier int64

// Pack builds an Identifier from its fields. Fields are not range checked.
func Pack(second int64, node, sequence int) Identifier {
	return Identifier(second<<secondShift | int64(node)<<nodeShift | int64(sequence))
}

// Parse decodes a short code back into an Identifier.
func Parse(code string) (Identifier, error) {
	v, err := Decode(code)
	if err != nil {
		return 0, err
	}

	return Identifier(v), nil
}

// Second returns the seconds elapsed since CustomEpochSeconds.
func (id Identifier) Second() int64 {
	return int64(id) >> secondShift
}

// Node returns the node identifier that issued id.
func (id Identifier) Node() int {
	return int(int64(id)>>nodeShift) & MaxNodeID
}

// Sequence returns the in-second sequence number.
func (id Identifier) Sequence() int {
	return int(id) & MaxSequence
}

// Time returns the wall-clock second in which id was issued.
func (id Identifier) Time() time.Time {
	return time.Unix(CustomEpochSeconds+id.Second(), 0).UTC()
}

// Code returns the base-62 short code for id.
func (id Identifier) Code() (string, error) {
	return Encode(int64(id))
}
