package neotrellis

import (
	"errors"
	"fmt"

	"github.com/flavioheleno/neotrellis/seesaw"
)

// Edge is the transition type carried by a key event.
type Edge uint8

const (
	// Released reports a key going up (falling edge).
	Released Edge = iota
	// Pressed reports a key going down (rising edge).
	Pressed
)

// String returns "pressed" or "released".
func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("Edge(%d)", uint8(e))
	}
}

// KeyEvent is one debounced key transition drained from the peripheral's
// event FIFO. Key is the row-major grid index, 0 top-left through 15
// bottom-right.
type KeyEvent struct {
	Key  int
	Edge Edge
}

var (
	// ErrMalformedEvent reports FIFO entries that did not decode to a
	// valid key transition. The entries are skipped; the rest of the
	// batch is still returned.
	ErrMalformedEvent = errors.New("neotrellis: malformed key event")

	// ErrKeyOutOfRange reports a key index outside [0,16).
	ErrKeyOutOfRange = errors.New("neotrellis: key index out of range")
)

// Keypad subscribes grid keys to edge reporting and drains the resulting
// transitions. The debounced key state lives on the peripheral; the host
// only ever observes edges.
type Keypad struct {
	sw *seesaw.Conn
}

// FIFO byte layout: key number in bits 2-7, edge type in bits 0-1.
// Edge values 0 and 1 are level reports, which this driver never
// subscribes to.
const (
	edgeFalling = 2
	edgeRising  = 3
)

// eventEnable activates a key slot with rising and falling edge reporting.
const eventEnable = 0b00011001

// trellisKey converts a grid index to the seesaw key number (the grid is
// wired as rows of 4 on an 8-wide matrix).
func trellisKey(i int) byte {
	return byte(i/4)*8 + byte(i%4)
}

// gridKey converts a seesaw key number back to the grid index.
func gridKey(k byte) int {
	return int(k/8)*4 + int(k%8)
}

// Configure subscribes the given grid keys to press and release reporting.
// With no arguments it subscribes all 16 keys. Idempotent; call once after
// construction (and again after Reset).
func (k *Keypad) Configure(keys ...int) error {
	if len(keys) == 0 {
		keys = make([]int, NumKeys)
		for i := range keys {
			keys[i] = i
		}
	}
	for _, key := range keys {
		if key < 0 || key >= NumKeys {
			return fmt.Errorf("%w: %d", ErrKeyOutOfRange, key)
		}
		if err := k.sw.Write(seesaw.ModuleKeypad, seesaw.KeypadEvent, trellisKey(key), eventEnable); err != nil {
			return err
		}
	}
	return nil
}

// Poll drains the event FIFO and returns the decoded transitions in FIFO
// order. It never waits for events: an empty FIFO yields (nil, nil) after
// the count read alone.
//
// Entries that do not decode are skipped, not fatal: the valid events are
// returned alongside an error wrapping ErrMalformedEvent so one corrupt
// slot cannot discard a batch.
func (k *Keypad) Poll() ([]KeyEvent, error) {
	var cnt [1]byte
	if err := k.sw.Read(seesaw.ModuleKeypad, seesaw.KeypadCount, cnt[:], readSettle); err != nil {
		return nil, err
	}
	if cnt[0] == 0 {
		return nil, nil
	}

	raw := make([]byte, cnt[0])
	if err := k.sw.Read(seesaw.ModuleKeypad, seesaw.KeypadFIFO, raw, readSettle); err != nil {
		return nil, err
	}

	events := make([]KeyEvent, 0, len(raw))
	skipped := 0
	for _, b := range raw {
		key := gridKey(b >> 2)
		if key >= NumKeys {
			skipped++
			continue
		}
		switch b & 0x03 {
		case edgeRising:
			events = append(events, KeyEvent{Key: key, Edge: Pressed})
		case edgeFalling:
			events = append(events, KeyEvent{Key: key, Edge: Released})
		default:
			skipped++
		}
	}
	if skipped > 0 {
		return events, fmt.Errorf("%w: skipped %d of %d FIFO entries", ErrMalformedEvent, skipped, len(raw))
	}
	return events, nil
}

// EnableInterrupt asserts the board's INT line whenever the FIFO is
// non-empty, so a host GPIO interrupt can replace busy polling.
func (k *Keypad) EnableInterrupt() error {
	return k.sw.Write(seesaw.ModuleKeypad, seesaw.KeypadIntenSet, 0x01)
}

// DisableInterrupt stops the board from driving its INT line.
func (k *Keypad) DisableInterrupt() error {
	return k.sw.Write(seesaw.ModuleKeypad, seesaw.KeypadIntenClr, 0x01)
}
