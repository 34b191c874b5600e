package fdc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-retro/fd1797/drive"
	"github.com/go-retro/fd1797/fdc"
	"github.com/go-retro/fd1797/sched"
)

type noInterrupts struct{ raised int }

func (n *noInterrupts) RaiseInterrupt() { n.raised++ }

func newHarness(t *testing.T) (*fdc.FDC, *drive.Drive, *drive.Disk, *sched.Clock, *noInterrupts) {
	t.Helper()
	disk := drive.NewDisk()
	drv := drive.New(disk)
	drv.SetSelected(true)
	clock := sched.New()
	cpu := &noInterrupts{}
	f := fdc.New(drv, clock, cpu, fdc.DefaultTiming())
	return f, drv, disk, clock, cpu
}

func settle(clock *sched.Clock, ticks int, d time.Duration) {
	for i := 0; i < ticks; i++ {
		clock.Advance(d)
	}
}

// Scenario 1: chip-enable rising edge issues a synthetic RESTORE that
// walks the head back to cylinder 0 regardless of where it started.
func TestChipEnableRisingEdgeRestores(t *testing.T) {
	f, drv, _, clock, _ := newHarness(t)
	drv.SeekTo(5)

	if err := f.WritePort(fdc.PortExternalState, 0x09); err != nil { // drive select + chip enable
		t.Fatalf("write external state: %v", err)
	}
	settle(clock, 10, 6*time.Millisecond)

	track, _ := f.ReadPort(fdc.PortTrack)
	if track != 0 {
		t.Fatalf("fdc track = %d, want 0", track)
	}
	if drv.Track() != 0 {
		t.Fatalf("drive track = %d, want 0", drv.Track())
	}
	status, _ := f.ReadPort(fdc.PortCommandStatus)
	if status&0x01 != 0 {
		t.Fatalf("status busy bit still set: %#02x", status)
	}
	if status&0x04 == 0 {
		t.Fatalf("status track0 bit not set: %#02x", status)
	}
	if status&0x20 == 0 {
		t.Fatalf("status head-loaded bit not set: %#02x", status)
	}
}

// Scenario 2: a verified SEEK that ends up desynced from the drive's
// actual cylinder reports a seek error, while both registers still move
// by the commanded number of steps.
func TestSeekVerifyFailure(t *testing.T) {
	f, drv, _, clock, _ := newHarness(t)
	drv.SeekTo(3)

	if err := f.WritePort(fdc.PortData, 5); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := f.WritePort(fdc.PortCommandStatus, 0x1C); err != nil { // SEEK | head-load | verify
		t.Fatalf("write command: %v", err)
	}
	settle(clock, 10, 6*time.Millisecond)

	track, _ := f.ReadPort(fdc.PortTrack)
	if track != 5 {
		t.Fatalf("fdc track = %d, want 5", track)
	}
	if drv.Track() != 8 {
		t.Fatalf("drive track = %d, want 8", drv.Track())
	}
	status, _ := f.ReadPort(fdc.PortCommandStatus)
	if status&0x10 == 0 {
		t.Fatalf("seek error bit not set: %#02x", status)
	}
}

// Scenario 3: a full sector read via DMA returns every byte in order and
// completes cleanly, with busy and DRQ clear and the completion interrupt
// raised.
func TestSectorReadEndToEnd(t *testing.T) {
	f, drv, disk, clock, cpu := newHarness(t)
	if err := disk.FormatTrack(fdc.FormatFM500, 2, 0, 3, 256); err != nil {
		t.Fatalf("format track: %v", err)
	}
	sector, err := disk.GetSector(2, 0, 2)
	if err != nil {
		t.Fatalf("get sector: %v", err)
	}
	for i := range sector.Data() {
		sector.Data()[i] = byte(i)
	}
	drv.SeekTo(2)

	if err := f.WritePort(fdc.PortTrack, 2); err != nil {
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortSector, 3); err != nil {
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortCommandStatus, 0x80); err != nil { // read sector, side 0
		t.Fatal(err)
	}
	settle(clock, 1, 1*time.Millisecond)

	for want := 0; want < 256; want++ {
		var got byte
		for {
			if f.DRQ() {
				b, err := f.DMARead()
				if err != nil {
					t.Fatalf("dma read: %v", err)
				}
				got = b
				break
			}
		}
		if got != byte(want) {
			t.Fatalf("byte %d = %#02x, want %#02x", want, got, byte(want))
		}
	}

	if err := f.DMAComplete(); err != nil {
		t.Fatalf("dma complete: %v", err)
	}
	status, _ := f.ReadPort(fdc.PortCommandStatus)
	if status&0x01 != 0 {
		t.Fatalf("busy still set after completion: %#02x", status)
	}
	if status&0x02 != 0 {
		t.Fatalf("drq still set after completion: %#02x", status)
	}
	if cpu.raised == 0 {
		t.Fatal("completion interrupt was not raised")
	}
}

// Scenario 4: a well-formed double-density write-track stream formats
// the track exactly once, with no error.
func TestWriteTrackValidDoubleDensity(t *testing.T) {
	f, drv, disk, clock, _ := newHarness(t)
	drv.SeekTo(7)
	if err := f.WritePort(fdc.PortTrack, 7); err != nil {
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortExternalState, 0x05); err != nil { // selected, double density
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortCommandStatus, 0xF0); err != nil { // write track
		t.Fatal(err)
	}
	settle(clock, 1, 1*time.Millisecond)

	feed := func(b byte) {
		if err := f.WritePort(fdc.PortData, b); err != nil {
			t.Fatalf("write-track byte %#02x: %v", b, err)
		}
	}
	feed(0x4E)
	feed(0xFC)
	for sector := 1; sector <= 9; sector++ {
		feed(0xFE)
		feed(7) // track
		feed(0) // head
		feed(byte(sector))
		feed(2) // length code 2 -> 512 bytes
		feed(0xFB)
		for i := 0; i < 512; i++ {
			feed(0x00)
		}
		feed(0xF7)
	}

	settle(clock, 1, fdc.DefaultTiming().DiskRevolution)

	track, err := disk.GetTrack(7, 0)
	if err != nil {
		t.Fatalf("get track: %v", err)
	}
	if track.SectorCount() != 9 {
		t.Fatalf("sector count = %d, want 9", track.SectorCount())
	}
	if track.Format() != fdc.FormatMFM500 {
		t.Fatalf("format = %v, want MFM-500", track.Format())
	}
}

// Scenario 5: the same stream with one sector's length code disagreeing
// with the rest is a fatal invariant violation, and the disk is left
// untouched.
func TestWriteTrackInvalidLengthCode(t *testing.T) {
	f, drv, disk, clock, _ := newHarness(t)
	drv.SeekTo(7)
	if err := f.WritePort(fdc.PortTrack, 7); err != nil {
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortExternalState, 0x05); err != nil {
		t.Fatal(err)
	}
	settle(clock, 1, 1*time.Millisecond)
	if err := f.WritePort(fdc.PortCommandStatus, 0xF0); err != nil {
		t.Fatal(err)
	}
	settle(clock, 1, 1*time.Millisecond)

	feed := func(b byte) error {
		return f.WritePort(fdc.PortData, b)
	}
	mustFeed := func(b byte) {
		if err := feed(b); err != nil {
			t.Fatalf("unexpected error feeding %#02x: %v", b, err)
		}
	}
	mustFeed(0x4E)
	mustFeed(0xFC)

	var sawPanic any
	func() {
		defer func() { sawPanic = recover() }()
		for sector := 1; sector <= 9; sector++ {
			lengthCode := byte(2)
			if sector == 5 {
				lengthCode = 3
			}
			mustFeed(0xFE)
			mustFeed(7)
			mustFeed(0)
			mustFeed(byte(sector))
			if err := feed(lengthCode); err != nil {
				panic(err)
			}
			mustFeed(0xFB)
			for i := 0; i < 512; i++ {
				mustFeed(0x00)
			}
			mustFeed(0xF7)
		}
	}()

	if sawPanic == nil {
		t.Fatal("expected a panic for the inconsistent sector size")
	}
	var invErr *fdc.InvariantError
	if err, ok := sawPanic.(error); !ok || !errors.As(err, &invErr) {
		t.Fatalf("panic value is not an *InvariantError: %v", sawPanic)
	}

	if _, err := disk.GetTrack(7, 0); err == nil {
		t.Fatal("disk was modified despite the invariant violation")
	}
}

// Scenario 6: force-interrupt mid-seek stops the head where it is, never
// raises a completion interrupt, and leaves subsequent status reads on
// the Type I layout.
func TestForceInterruptMidSeek(t *testing.T) {
	f, _, _, clock, cpu := newHarness(t)

	if err := f.WritePort(fdc.PortData, 50); err != nil {
		t.Fatal(err)
	}
	if err := f.WritePort(fdc.PortCommandStatus, 0x10); err != nil { // SEEK, no verify
		t.Fatal(err)
	}
	settle(clock, 10, 6*time.Millisecond)

	track, _ := f.ReadPort(fdc.PortTrack)
	if track != 10 {
		t.Fatalf("fdc track after 10 ticks = %d, want 10", track)
	}

	if err := f.WritePort(fdc.PortCommandStatus, 0xD0); err != nil { // force interrupt
		t.Fatal(err)
	}
	raisedBefore := cpu.raised
	settle(clock, 50, 6*time.Millisecond)

	trackAfter, _ := f.ReadPort(fdc.PortTrack)
	if trackAfter != 10 {
		t.Fatalf("fdc track kept moving after abort: %d", trackAfter)
	}
	if cpu.raised != raisedBefore {
		t.Fatal("completion interrupt raised after ForceInterrupt")
	}
	status, _ := f.ReadPort(fdc.PortCommandStatus)
	if status&0x01 != 0 {
		t.Fatalf("busy still set after ForceInterrupt: %#02x", status)
	}
}

func TestUnimplementedCommandsReturnDistinctError(t *testing.T) {
	f, _, _, _, _ := newHarness(t)
	err := f.WritePort(fdc.PortCommandStatus, 0xC0) // read address
	var notImpl *fdc.NotImplementedError
	if !errors.As(err, &notImpl) {
		t.Fatalf("expected *NotImplementedError, got %v", err)
	}
}

func TestUnrecognizedPortPanics(t *testing.T) {
	f, _, _, _, _ := newHarness(t)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an unrecognized port")
		}
		var portErr *fdc.PortError
		if err, ok := r.(error); !ok || !errors.As(err, &portErr) {
			t.Fatalf("panic value is not a *PortError: %v", r)
		}
	}()
	_, _ = f.ReadPort(0x99)
}
