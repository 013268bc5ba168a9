// Package idgen issues node-scoped, time-ordered 64-bit identifiers and encodes them as base-62 short codes.
package idgen

import (
	"fmt"
	"sync"
)

// Generator issues Identifiers for a single node.
// At most MaxSequence+1 identifiers are issued per wall-clock second.
type Generator struct {
	nodeID int
	clock  Clock

	mu         sync.Mutex
	lastSecond int64
	sequence   int
}

// NewGenerator creates a generator for nodeID, which must be within [0, MaxNodeID].
// A nil clock falls back to SystemClock.
func NewGenerator(nodeID int, clock Clock) (*Generator, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("%w: node id %d outside [0, %d]", ErrInvalidArgument, nodeID, MaxNodeID)
	}

	if clock == nil {
		clock = SystemClock{}
	}

	return &Generator{
		nodeID:     nodeID,
		clock:      clock,
		lastSecond: -1,
	}, nil
}

// NodeID returns the node identifier embedded in every issued Identifier.
func (g *Generator) NodeID() int {
	return g.nodeID
}

// Next returns the next Identifier.
//
// It fails with ErrRateLimitExceeded once the current second is exhausted and with
// ErrClockBeforeEpoch when the clock reads earlier than CustomEpochSeconds.
// If the clock steps backwards, issuance continues in the last issued second so
// that no (second, sequence) pair is ever handed out twice.
func (g *Generator) Next() (Identifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	second := g.clock.Now().UnixMilli()/1000 - CustomEpochSeconds
	if second < 0 {
		return 0, fmt.Errorf("%w: clock is %ds behind", ErrClockBeforeEpoch, -second)
	}

	if second > g.lastSecond {
		g.lastSecond = second
		g.sequence = 0
	}

	seq := g.sequence
	if seq > MaxSequence {
		return 0, fmt.Errorf("%w: node %d exhausted second %d", ErrRateLimitExceeded, g.nodeID, g.lastSecond)
	}

	g.sequence++

	return Pack(g.lastSecond, g.nodeID, seq), nil
}
