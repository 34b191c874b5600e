package dmaengine_test

import (
	"errors"
	"testing"

	"github.com/go-retro/fd1797/dmaengine"
)

// fakeFDC is a minimal stand-in for the controller's DMA-facing surface,
// delivering one byte of buf per DRQ assertion.
type fakeFDC struct {
	buf          []byte
	pos          int
	drqEveryOther bool
	polls         int
	completeErr   error
	completed     bool
	writeErr      error
	written       []byte
}

func (f *fakeFDC) DRQ() bool {
	f.polls++
	if !f.drqEveryOther {
		return f.pos < len(f.buf)
	}
	return f.pos < len(f.buf) && f.polls%2 == 0
}

func (f *fakeFDC) DMARead() (byte, error) {
	if f.pos >= len(f.buf) {
		return 0, errors.New("fakeFDC: read past end")
	}
	b := f.buf[f.pos]
	f.pos++
	return b, nil
}

func (f *fakeFDC) DMAWrite(value byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, value)
	return nil
}

func (f *fakeFDC) DMAComplete() error {
	f.completed = true
	return f.completeErr
}

func TestPollReadReturnsAllBytesInOrder(t *testing.T) {
	fake := &fakeFDC{buf: []byte{1, 2, 3, 4, 5}}
	e := dmaengine.New(fake)

	data, err := e.PollRead(5)
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(data) != 5 {
		t.Fatalf("got %d bytes, want 5", len(data))
	}
	for i, b := range data {
		if b != byte(i+1) {
			t.Fatalf("byte %d = %#02x, want %#02x", i, b, i+1)
		}
	}
}

func TestPollReadWaitsForDRQ(t *testing.T) {
	fake := &fakeFDC{buf: []byte{0xAA, 0xBB}, drqEveryOther: true}
	e := dmaengine.New(fake)

	data, err := e.PollRead(2)
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(data) != 2 || data[0] != 0xAA || data[1] != 0xBB {
		t.Fatalf("got %v, want [0xAA 0xBB]", data)
	}
	if fake.polls < 2 {
		t.Fatal("expected PollRead to busy-poll DRQ at least once per byte")
	}
}

func TestPollWriteSendsEveryByte(t *testing.T) {
	fake := &fakeFDC{buf: make([]byte, 3)}
	e := dmaengine.New(fake)

	if err := e.PollWrite([]byte{0x10, 0x20, 0x30}); err != nil {
		t.Fatalf("poll write: %v", err)
	}
	if len(fake.written) != 3 || fake.written[0] != 0x10 || fake.written[2] != 0x30 {
		t.Fatalf("written = %v, want [0x10 0x20 0x30]", fake.written)
	}
}

func TestPollReadRecoversControllerPanicIntoError(t *testing.T) {
	fake := &panicFDC{}
	e := dmaengine.New(fake)

	_, err := e.PollRead(1)
	if err == nil {
		t.Fatal("expected an error recovered from the controller panic")
	}
}

func TestFinishAssertsTerminalCountAndCallsDMAComplete(t *testing.T) {
	fake := &fakeFDC{buf: []byte{1}}
	e := dmaengine.New(fake)

	if e.TerminalCount() {
		t.Fatal("terminal count should start false")
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !e.TerminalCount() {
		t.Fatal("finish should assert terminal count")
	}
	if !fake.completed {
		t.Fatal("finish should call DMAComplete")
	}
}

// panicFDC always panics from DRQ, simulating a controller invariant
// violation surfacing mid-poll.
type panicFDC struct{}

func (p *panicFDC) DRQ() bool            { panic(errors.New("misuse")) }
func (p *panicFDC) DMARead() (byte, error) { return 0, nil }
func (p *panicFDC) DMAWrite(byte) error    { return nil }
func (p *panicFDC) DMAComplete() error     { return nil }
