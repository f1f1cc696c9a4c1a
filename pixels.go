package neotrellis

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/flavioheleno/neotrellis/seesaw"
)

// NumPixels is the number of RGB LEDs on the board, one under each key.
const NumPixels = NumKeys

// pixelBufLen is the wire size of the staged frame: 3 bytes per pixel.
const pixelBufLen = NumPixels * 3

// ErrPixelOutOfRange reports a pixel index outside [0,16).
var ErrPixelOutOfRange = errors.New("neotrellis: pixel index out of range")

// Pixels is the staged framebuffer for the 16 LEDs. Set and Fill mutate
// host memory only; nothing reaches the LEDs until Show pushes the whole
// buffer and latches it in one commit.
type Pixels struct {
	sw  *seesaw.Conn
	buf [pixelBufLen]byte // wire order: GRB per pixel
}

// rgb8 reduces a color.Color to the three LED channel bytes. Alpha is
// ignored; the LEDs have no notion of it.
func rgb8(c color.Color) (r, g, b byte) {
	r16, g16, b16, _ := c.RGBA()
	return byte(r16 >> 8), byte(g16 >> 8), byte(b16 >> 8)
}

// Set stages color c for pixel i. Local only; no I/O.
func (p *Pixels) Set(i int, c color.Color) error {
	if i < 0 || i >= NumPixels {
		return fmt.Errorf("%w: %d", ErrPixelOutOfRange, i)
	}
	r, g, b := rgb8(c)
	o := i * 3
	p.buf[o], p.buf[o+1], p.buf[o+2] = g, r, b
	return nil
}

// Fill stages color c for every pixel. Local only; no I/O.
func (p *Pixels) Fill(c color.Color) {
	r, g, b := rgb8(c)
	for i := 0; i < NumPixels; i++ {
		o := i * 3
		p.buf[o], p.buf[o+1], p.buf[o+2] = g, r, b
	}
}

// Clear stages black for every pixel. Local only; no I/O.
func (p *Pixels) Clear() {
	p.Fill(color.Black)
}

// At returns the staged color of pixel i, which is not necessarily what
// the LED currently shows if Show has not run since the last mutation.
// Out-of-range indexes return black.
func (p *Pixels) At(i int) color.RGBA {
	if i < 0 || i >= NumPixels {
		return color.RGBA{A: 0xFF}
	}
	o := i * 3
	return color.RGBA{R: p.buf[o+1], G: p.buf[o], B: p.buf[o+2], A: 0xFF}
}

// Show commits the staged frame: one write of the full 48-byte buffer at
// offset zero, then the latch command. The staged buffer is untouched on
// failure, so a failed Show can simply be retried.
func (p *Pixels) Show() error {
	cmd := make([]byte, 0, 2+pixelBufLen)
	cmd = append(cmd, 0x00, 0x00) // big-endian buffer offset
	cmd = append(cmd, p.buf[:]...)
	if err := p.sw.Write(seesaw.ModuleNeopixel, seesaw.NeopixelBuf, cmd...); err != nil {
		return err
	}
	return p.sw.Write(seesaw.ModuleNeopixel, seesaw.NeopixelShow)
}
