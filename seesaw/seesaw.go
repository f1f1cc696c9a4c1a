// Package seesaw implements the register protocol spoken by the Adafruit
// Seesaw family of I2C co-processors.
//
// The seesaw exposes its subsystems as modules (status, GPIO, keypad,
// neopixel, ...) and operations within each module as functions. Every
// transaction starts with a two-byte header selecting a module/function
// pair; a write appends payload bytes to that header, while a read sends
// the header alone and then, after a settle delay, clocks out the reply in
// a separate bus transaction. The settle delay is mandatory: the seesaw's
// microcontroller needs time to prepare the reply, and reading earlier
// yields garbage or a NACK.
//
// Read is the convenience form (select, sleep, clock out). Callers that
// cannot afford to block for the settle delay can use BeginRead and
// FinishRead directly and overlap the wait with other work.
package seesaw

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Module selects a seesaw subsystem.
type Module uint8

// Module base addresses.
const (
	ModuleStatus   Module = 0x00
	ModuleGPIO     Module = 0x01
	ModuleNeopixel Module = 0x0E
	ModuleKeypad   Module = 0x10
)

// Function selects an operation within a module.
type Function uint8

// Status module functions.
const (
	StatusHardwareID Function = 0x01
	StatusVersion    Function = 0x02
	StatusSwReset    Function = 0x7F
)

// Keypad module functions.
const (
	KeypadEvent    Function = 0x01
	KeypadIntenSet Function = 0x02
	KeypadIntenClr Function = 0x03
	KeypadCount    Function = 0x04
	KeypadFIFO     Function = 0x10
)

// Neopixel module functions.
const (
	NeopixelPin       Function = 0x01
	NeopixelSpeed     Function = 0x02
	NeopixelBufLength Function = 0x03
	NeopixelBuf       Function = 0x04
	NeopixelShow      Function = 0x05
)

// HardwareID is the chip identifier reported by the status module of a
// SAMD09-based seesaw.
const HardwareID = 0x55

// ErrNoPendingRead is returned by FinishRead when it is called without a
// matching BeginRead: a zero-value token, a token minted by another Conn,
// or a token whose read has already been finished. No bus traffic is
// issued in that case.
var ErrNoPendingRead = errors.New("seesaw: no pending read")

// Conn drives the register protocol over one bound I2C device.
//
// A Conn is not safe for concurrent use: the peripheral holds per-device
// register state between the select and read phases, so exactly one caller
// may own a Conn at a time.
type Conn struct {
	d     *i2c.Dev
	delay func(time.Duration)
	seq   uint32 // BeginRead count, identifies the live token
	open  bool   // a BeginRead is awaiting its FinishRead
}

// New returns a Conn speaking the register protocol to d.
//
// delay supplies the settle wait used by Read; nil means time.Sleep.
// Callers on a cooperative scheduler can substitute a yielding wait.
func New(d *i2c.Dev, delay func(time.Duration)) *Conn {
	if delay == nil {
		delay = time.Sleep
	}
	return &Conn{d: d, delay: delay}
}

// Write sends the two-byte module/function header followed by payload in a
// single bus write. No reply is expected.
func (c *Conn) Write(mod Module, fn Function, payload ...byte) error {
	cmd := make([]byte, 0, 2+len(payload))
	cmd = append(cmd, byte(mod), byte(fn))
	cmd = append(cmd, payload...)
	if err := c.d.Tx(cmd, nil); err != nil {
		return fmt.Errorf("seesaw: write %#02x/%#02x: %w", byte(mod), byte(fn), err)
	}
	return nil
}

// PendingRead is the token for a register-select write whose reply has not
// been clocked out yet. The zero value is not a valid token.
type PendingRead struct {
	c   *Conn
	seq uint32
}

// BeginRead performs only the register-select phase of a read and returns
// the token to pass to FinishRead once the settle delay has elapsed.
//
// The caller must not issue unrelated traffic on the same Conn between
// BeginRead and FinishRead; the seesaw keeps a single selected register per
// device and an intervening select clobbers it.
func (c *Conn) BeginRead(mod Module, fn Function) (PendingRead, error) {
	if err := c.Write(mod, fn); err != nil {
		return PendingRead{}, err
	}
	c.seq++
	c.open = true
	return PendingRead{c: c, seq: c.seq}, nil
}

// FinishRead clocks out len(buf) reply bytes for a previously begun read.
// It fails with ErrNoPendingRead, touching the bus not at all, unless p is
// the live token of this Conn.
func (c *Conn) FinishRead(p PendingRead, buf []byte) error {
	if p.c != c || !c.open || p.seq != c.seq {
		return ErrNoPendingRead
	}
	c.open = false
	if err := c.d.Tx(nil, buf); err != nil {
		return fmt.Errorf("seesaw: read %d bytes: %w", len(buf), err)
	}
	return nil
}

// Read selects mod/fn, waits at least settle, then fills buf with the
// reply. It is exactly BeginRead followed by FinishRead with the delay in
// between.
func (c *Conn) Read(mod Module, fn Function, buf []byte, settle time.Duration) error {
	p, err := c.BeginRead(mod, fn)
	if err != nil {
		return err
	}
	c.delay(settle)
	return c.FinishRead(p, buf)
}

// Sleep waits using the Conn's delay source.
func (c *Conn) Sleep(d time.Duration) {
	c.delay(d)
}

// String returns the bound device, e.g. "playback(0x2e)".
func (c *Conn) String() string {
	return c.d.String()
}
