package seesaw

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

const testAddr = 0x2E

func noDelay(time.Duration) {}

func newConn(p *i2ctest.Playback) *Conn {
	return New(&i2c.Dev{Bus: p, Addr: testAddr}, noDelay)
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name    string
		mod     Module
		fn      Function
		payload []byte
		want    []byte
	}{
		{"header only", ModuleKeypad, KeypadCount, nil, []byte{0x10, 0x04}},
		{"one byte", ModuleNeopixel, NeopixelSpeed, []byte{0x01}, []byte{0x0E, 0x02, 0x01}},
		{"reset", ModuleStatus, StatusSwReset, []byte{0xFF}, []byte{0x00, 0x7F, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &i2ctest.Playback{
				Ops:       []i2ctest.IO{{Addr: testAddr, W: tt.want}},
				DontPanic: true,
			}
			c := newConn(p)
			if err := c.Write(tt.mod, tt.fn, tt.payload...); err != nil {
				t.Fatalf("Write() = %v", err)
			}
			if err := p.Close(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestWriteBusError(t *testing.T) {
	// An empty playback rejects any transaction.
	p := &i2ctest.Playback{DontPanic: true}
	c := newConn(p)
	if err := c.Write(ModuleStatus, StatusSwReset, 0xFF); err == nil {
		t.Fatal("Write() should surface the transport error")
	}
}

// replyOps is the wire exchange for a 1-byte hardware ID read: the
// register select, then the clocked-out reply.
func replyOps() []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: testAddr, W: []byte{0x00, 0x01}},
		{Addr: testAddr, R: []byte{0x55}},
	}
}

func TestReadMatchesSplit(t *testing.T) {
	// The blocking Read and the BeginRead/FinishRead pair must produce
	// identical results given an identical transport reply.
	var combined [1]byte
	p := &i2ctest.Playback{Ops: replyOps(), DontPanic: true}
	if err := newConn(p).Read(ModuleStatus, StatusHardwareID, combined[:], time.Millisecond); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	var split [1]byte
	p = &i2ctest.Playback{Ops: replyOps(), DontPanic: true}
	c := newConn(p)
	pr, err := c.BeginRead(ModuleStatus, StatusHardwareID)
	if err != nil {
		t.Fatalf("BeginRead() = %v", err)
	}
	if err := c.FinishRead(pr, split[:]); err != nil {
		t.Fatalf("FinishRead() = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(combined[:], split[:]) {
		t.Errorf("split read = %#v, combined read = %#v", split, combined)
	}
}

func TestReadWaitsSettle(t *testing.T) {
	var waited []time.Duration
	p := &i2ctest.Playback{Ops: replyOps(), DontPanic: true}
	c := New(&i2c.Dev{Bus: p, Addr: testAddr}, func(d time.Duration) {
		waited = append(waited, d)
	})

	var buf [1]byte
	if err := c.Read(ModuleStatus, StatusHardwareID, buf[:], 750*time.Microsecond); err != nil {
		t.Fatalf("Read() = %v", err)
	}
	if len(waited) != 1 || waited[0] != 750*time.Microsecond {
		t.Errorf("settle waits = %v, want one wait of 750µs", waited)
	}
}

func TestFinishReadWithoutBegin(t *testing.T) {
	p := &i2ctest.Playback{DontPanic: true}
	c := newConn(p)

	var buf [1]byte
	if err := c.FinishRead(PendingRead{}, buf[:]); !errors.Is(err, ErrNoPendingRead) {
		t.Fatalf("FinishRead() = %v, want ErrNoPendingRead", err)
	}
	// No transport traffic may have happened.
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFinishReadTwice(t *testing.T) {
	p := &i2ctest.Playback{Ops: replyOps(), DontPanic: true}
	c := newConn(p)

	pr, err := c.BeginRead(ModuleStatus, StatusHardwareID)
	if err != nil {
		t.Fatalf("BeginRead() = %v", err)
	}
	var buf [1]byte
	if err := c.FinishRead(pr, buf[:]); err != nil {
		t.Fatalf("FinishRead() = %v", err)
	}
	if err := c.FinishRead(pr, buf[:]); !errors.Is(err, ErrNoPendingRead) {
		t.Fatalf("second FinishRead() = %v, want ErrNoPendingRead", err)
	}
}

func TestFinishReadStaleToken(t *testing.T) {
	p := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: testAddr, W: []byte{0x00, 0x01}},
			{Addr: testAddr, W: []byte{0x00, 0x02}},
		},
		DontPanic: true,
	}
	c := newConn(p)

	stale, err := c.BeginRead(ModuleStatus, StatusHardwareID)
	if err != nil {
		t.Fatalf("BeginRead() = %v", err)
	}
	// A second select supersedes the first; the stale token must not
	// clock out the new register's reply.
	if _, err := c.BeginRead(ModuleStatus, StatusVersion); err != nil {
		t.Fatalf("BeginRead() = %v", err)
	}

	var buf [1]byte
	if err := c.FinishRead(stale, buf[:]); !errors.Is(err, ErrNoPendingRead) {
		t.Fatalf("FinishRead(stale) = %v, want ErrNoPendingRead", err)
	}
}

func TestFinishReadForeignToken(t *testing.T) {
	p1 := &i2ctest.Playback{Ops: replyOps()[:1], DontPanic: true}
	c1 := newConn(p1)
	pr, err := c1.BeginRead(ModuleStatus, StatusHardwareID)
	if err != nil {
		t.Fatalf("BeginRead() = %v", err)
	}

	p2 := &i2ctest.Playback{DontPanic: true}
	c2 := newConn(p2)
	var buf [1]byte
	if err := c2.FinishRead(pr, buf[:]); !errors.Is(err, ErrNoPendingRead) {
		t.Fatalf("FinishRead(foreign) = %v, want ErrNoPendingRead", err)
	}
	if err := p2.Close(); err != nil {
		t.Fatal(err)
	}
}
