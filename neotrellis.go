package neotrellis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/flavioheleno/neotrellis/seesaw"
	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddr is the factory I2C address; solder jumpers select
	// 0x2E through 0x32.
	DefaultAddr = 0x2E

	// NumKeys is the number of keys (and pixels) on the 4×4 grid.
	NumKeys = 16

	// defaultPin is the seesaw pin wired to the neopixel chain on the
	// NeoTrellis board.
	defaultPin = 3

	// readSettle is the wait between a register select and its reply.
	readSettle = 500 * time.Microsecond

	// resetSettle gives the co-processor time to reboot after a
	// software reset.
	resetSettle = 10 * time.Millisecond
)

// ErrIdentityMismatch is returned by New when the peripheral at the
// configured address does not report the seesaw hardware ID. It indicates
// wrong or absent hardware; retrying will not help.
var ErrIdentityMismatch = errors.New("neotrellis: hardware identity mismatch")

// Opts is the configuration for the NeoTrellis board.
type Opts struct {
	// Addr is the 7-bit I2C address (default 0x2E).
	Addr uint16

	// Pin is the seesaw pin driving the neopixel chain (default 3,
	// the NeoTrellis board wiring).
	Pin uint8

	// Delay, when non-nil, replaces time.Sleep as the settle-wait
	// source. Useful under cooperative schedulers and in tests.
	Delay func(time.Duration)
}

// Dev is the device handle for one NeoTrellis board.
//
// A Dev takes sole ownership of its transport at construction: the seesaw
// register protocol keeps selected-register state on the peripheral, so
// exactly one Dev may drive a given device and callers must not share it
// across goroutines.
type Dev struct {
	sw     *seesaw.Conn
	keys   Keypad
	pixels Pixels
}

// New creates a NeoTrellis device on the given bus.
//
// It resets the seesaw, verifies the hardware identity, and configures the
// neopixel subsystem for the board's 16 LEDs. opts can be nil to use
// defaults. The returned Dev owns the bus slave at the configured address;
// do not create a second handle for it.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}

	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	if addr&^0x7F != 0 {
		return nil, fmt.Errorf("neotrellis: %#02x is not a 7-bit address", addr)
	}

	pin := opts.Pin
	if pin == 0 {
		pin = defaultPin
	}

	sw := seesaw.New(&i2c.Dev{Bus: bus, Addr: addr}, opts.Delay)
	d := &Dev{
		sw:     sw,
		keys:   Keypad{sw: sw},
		pixels: Pixels{sw: sw},
	}

	if err := d.init(pin); err != nil {
		return nil, err
	}
	return d, nil
}

// init brings the board to a known state: reboot, identity check, neopixel
// subsystem setup.
func (d *Dev) init(pin uint8) error {
	if err := d.Reset(); err != nil {
		return err
	}

	var id [1]byte
	if err := d.sw.Read(seesaw.ModuleStatus, seesaw.StatusHardwareID, id[:], readSettle); err != nil {
		return err
	}
	if id[0] != seesaw.HardwareID {
		return fmt.Errorf("%w: got %#02x, want %#02x", ErrIdentityMismatch, id[0], seesaw.HardwareID)
	}

	// 800kHz pixel clock, 16 GRB pixels, output pin.
	if err := d.sw.Write(seesaw.ModuleNeopixel, seesaw.NeopixelSpeed, 0x01); err != nil {
		return err
	}
	if err := d.sw.Write(seesaw.ModuleNeopixel, seesaw.NeopixelBufLength, 0x00, pixelBufLen); err != nil {
		return err
	}
	return d.sw.Write(seesaw.ModuleNeopixel, seesaw.NeopixelPin, pin)
}

// Keys returns the keypad decoder owned by this device.
func (d *Dev) Keys() *Keypad {
	return &d.keys
}

// Pixels returns the staged pixel buffer owned by this device.
func (d *Dev) Pixels() *Pixels {
	return &d.pixels
}

// Version reads the seesaw firmware version date code.
func (d *Dev) Version() (uint32, error) {
	var buf [4]byte
	if err := d.sw.Read(seesaw.ModuleStatus, seesaw.StatusVersion, buf[:], readSettle); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Reset issues a software reset and waits for the co-processor to come
// back up. Key event subscriptions and the remote pixel setup are lost;
// the caller must reconfigure before further use.
func (d *Dev) Reset() error {
	if err := d.sw.Write(seesaw.ModuleStatus, seesaw.StatusSwReset, 0xFF); err != nil {
		return err
	}
	d.sw.Sleep(resetSettle)
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("neotrellis.Dev{%s}", d.sw)
}
