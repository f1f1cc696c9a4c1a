// Package neotrellis drives the Adafruit NeoTrellis, a 4×4 silicone key
// grid with an RGB LED under each key, controlled by a Seesaw I2C
// co-processor.
//
// The driver exposes the board as three cooperating parts: the device
// handle (reset, identity check, setup), the keypad decoder (subscribe
// keys, drain press/release events), and the staged pixel buffer (set
// colors locally, commit them in one transfer). The low-level register
// protocol lives in the seesaw subpackage and can be used on its own for
// other seesaw-based boards.
//
// # Hardware Connection
//
// Connect the NeoTrellis to your system via I2C:
//
//	Board Pin → System Pin
//	GND       → GND
//	VIN       → 3.3V or 5V
//	SDA       → I2C Data
//	SCL       → I2C Clock
//	INT       → Optional: GPIO for event interrupts
//
// The factory I2C address is 0x2E; solder jumpers select 0x2E through
// 0x32. Multiple boards on one bus need distinct addresses and one Dev
// each.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image/color"
//		"log"
//
//		"github.com/flavioheleno/neotrellis"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		bus, err := i2creg.Open("")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer bus.Close()
//
//		dev, err := neotrellis.New(bus, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := dev.Keys().Configure(); err != nil {
//			log.Fatal(err)
//		}
//
//		for {
//			events, err := dev.Keys().Poll()
//			if err != nil {
//				log.Print(err)
//			}
//			for _, e := range events {
//				if e.Edge == neotrellis.Pressed {
//					dev.Pixels().Set(e.Key, color.RGBA{B: 0x40, A: 0xFF})
//				} else {
//					dev.Pixels().Set(e.Key, color.RGBA{A: 0xFF})
//				}
//			}
//			if len(events) != 0 {
//				if err := dev.Pixels().Show(); err != nil {
//					log.Print(err)
//				}
//			}
//		}
//	}
//
// # Key Events
//
// The seesaw debounces the keys itself and queues press/release
// transitions in an on-chip FIFO; the host never sees absolute key state.
// Keys().Configure subscribes keys to both edges, and Keys().Poll drains
// whatever the FIFO holds without ever waiting: an empty FIFO returns an
// empty batch immediately, so Poll fits naturally inside a control loop.
// A corrupt FIFO entry is skipped and reported through the returned error
// while the rest of the batch still comes back.
//
// For interrupt-driven hosts, Keys().EnableInterrupt makes the board pull
// its INT line low while events are pending, so a GPIO edge can trigger
// the next Poll instead of a timer.
//
// # Pixels
//
// Pixel mutations are staged host-side: Set and Fill touch only local
// memory, and Show pushes the whole 48-byte frame followed by the latch
// command so the LEDs update as one atomic commit. Show leaves the staged
// frame intact on a bus error and can be retried as-is.
//
// # Settle Delays and Split Reads
//
// Every seesaw register read requires a settle delay between selecting the
// register and clocking out the reply. The blocking reads used by this
// package sleep for that delay; latency-sensitive callers can drop to
// seesaw.Conn.BeginRead/FinishRead and overlap the delay with their own
// work. The delay source is injectable via Opts.Delay.
//
// # Datasheet
//
// Seesaw protocol and register reference:
// https://learn.adafruit.com/adafruit-seesaw-atsamd09-breakout
package neotrellis
