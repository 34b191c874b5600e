package fdc

import "fmt"

const wtBufCapacity = 65536

// Write-track marker bytes. The filler bytes of gap 4 differ by density;
// everything else is a fixed marker value regardless of density.
const (
	wtGapFillerMFM = 0x4E
	wtGapFillerFM  = 0xFF
	wtIndexMark    = 0xFC
	wtIDMark       = 0xFE
	wtDataMark     = 0xFB
	wtDataEndMark  = 0xF7
)

// wtState is the write-track parser's position in the marker language:
// gap 4 at the very start, then alternating ID records and data records
// until the drive's index is next observed.
type wtState int

const (
	wtStateGap4 wtState = iota
	wtStateAwaitIndexMark
	wtStateAwaitIDMark
	wtStateAwaitDataMark
)

type writeTrackParser struct {
	state         wtState
	doubleDensity bool
	track         byte
	side          byte

	idBytes         []byte
	idBytesWanted   int
	inDataBody      bool
	dataCount       int
	establishedSize int
	sawFirstSector  bool

	sectorCount int
	seen        map[int]bool
	curSector   int
}

func newWriteTrackParser(doubleDensity bool, track, side byte) *writeTrackParser {
	return &writeTrackParser{
		state:         wtStateGap4,
		doubleDensity: doubleDensity,
		track:         track,
		side:          side,
		seen:          map[int]bool{},
	}
}

func (p *writeTrackParser) feed(b byte) error {
	switch p.state {
	case wtStateGap4:
		switch b {
		case wtGapFillerMFM:
			if !p.doubleDensity {
				return &InvariantError{Msg: "write-track: 0x4E gap filler requires double density"}
			}
		case wtGapFillerFM:
			if p.doubleDensity {
				return &InvariantError{Msg: "write-track: 0xFF gap filler requires single density"}
			}
		default:
			return &InvariantError{Msg: fmt.Sprintf("write-track: unexpected gap-4 byte %#02x", b)}
		}
		p.state = wtStateAwaitIndexMark
		return nil
	case wtStateAwaitIndexMark:
		if b == wtIndexMark {
			p.state = wtStateAwaitIDMark
		}
		return nil
	case wtStateAwaitIDMark:
		if p.idBytesWanted > 0 {
			p.idBytes = append(p.idBytes, b)
			p.idBytesWanted--
			if p.idBytesWanted == 0 {
				if err := p.commitID(); err != nil {
					return err
				}
				p.state = wtStateAwaitDataMark
			}
			return nil
		}
		if b == wtIDMark {
			p.idBytes = p.idBytes[:0]
			p.idBytesWanted = 4
		}
		return nil
	case wtStateAwaitDataMark:
		if p.inDataBody {
			if b == wtDataEndMark {
				if p.dataCount != p.establishedSize {
					return &InvariantError{Msg: fmt.Sprintf("write-track: sector %d data length %d disagrees with sector size %d", p.curSector, p.dataCount, p.establishedSize)}
				}
				p.inDataBody = false
				p.dataCount = 0
				p.state = wtStateAwaitIDMark
				return nil
			}
			p.dataCount++
			return nil
		}
		if b == wtDataMark {
			p.inDataBody = true
			p.dataCount = 0
		}
		return nil
	default:
		panic(&InvariantError{Msg: "write-track: parser in an unknown state"})
	}
}

func (p *writeTrackParser) commitID() error {
	idTrack, idHead, idSector, lengthCode := p.idBytes[0], p.idBytes[1], p.idBytes[2], p.idBytes[3]
	if idTrack != p.track {
		return &InvariantError{Msg: fmt.Sprintf("write-track: sector ID track %d disagrees with fdc track %d", idTrack, p.track)}
	}
	if idHead != p.side {
		return &InvariantError{Msg: fmt.Sprintf("write-track: sector ID head %d disagrees with selected side %d", idHead, p.side)}
	}
	size, ok := sectorSizeFromCode(lengthCode)
	if !ok {
		return &InvariantError{Msg: fmt.Sprintf("write-track: invalid sector length code %d", lengthCode)}
	}
	if !p.sawFirstSector {
		p.establishedSize = size
		p.sawFirstSector = true
	} else if size != p.establishedSize {
		return &InvariantError{Msg: fmt.Sprintf("write-track: sector %d size %d disagrees with track size %d", idSector, size, p.establishedSize)}
	}
	if p.seen[int(idSector)] {
		return &InvariantError{Msg: fmt.Sprintf("write-track: duplicate sector number %d", idSector)}
	}
	p.seen[int(idSector)] = true
	p.sectorCount++
	p.curSector = int(idSector)
	return nil
}

func sectorSizeFromCode(code byte) (int, bool) {
	switch code {
	case 0:
		return 128, true
	case 1:
		return 256, true
	case 2:
		return 512, true
	case 3:
		return 1024, true
	default:
		return 0, false
	}
}

// finish checks that the sectors seen form a contiguous 1..N prefix and
// returns the track geometry to format.
func (p *writeTrackParser) finish() (sectorCount, sectorSize int, format Format, err error) {
	for i := 1; i <= p.sectorCount; i++ {
		if !p.seen[i] {
			return 0, 0, FormatUnknown, &InvariantError{Msg: fmt.Sprintf("write-track: sector numbers are not a contiguous 1..%d prefix, missing %d", p.sectorCount, i)}
		}
	}
	format = FormatFM500
	if p.doubleDensity {
		format = FormatMFM500
	}
	return p.sectorCount, p.establishedSize, format, nil
}

// beginWriteTrack arms the write-track buffer and schedules the format
// to commit when the drive's index is next observed, one revolution
// after the command started, regardless of how many bytes the host has
// delivered by then.
func (f *FDC) beginWriteTrack(side byte) {
	f.capturedSide = side
	f.wtBuf = make([]byte, 0, wtBufCapacity)
	f.wtParser = newWriteTrackParser(f.doubleDensity, f.track, side)
	f.busy = true
	f.drq = true
	gen := f.generation
	f.sched.Schedule(f.timing.DiskRevolution, gen, func(now int64, ctx any) {
		g, ok := ctx.(uint64)
		if !ok || g != f.generation || f.commandAbort {
			return
		}
		f.finishWriteTrack()
	})
}

func (f *FDC) writeTrackByte(b byte) {
	f.wtBuf = append(f.wtBuf, b)
	if err := f.wtParser.feed(b); err != nil {
		panic(err)
	}
}

func (f *FDC) finishWriteTrack() {
	sectorCount, sectorSize, format, err := f.wtParser.finish()
	f.drq = false
	f.busy = false
	f.wtBuf = nil
	f.wtParser = nil
	if err != nil {
		panic(err)
	}
	if sectorCount > 0 {
		if err := f.drive.Disk().FormatTrack(format, int(f.track), int(f.capturedSide), sectorCount, sectorSize); err != nil {
			panic(&InvariantError{Msg: "write-track: " + err.Error()})
		}
		f.drive.Disk().SetModified()
	}
	f.raiseCompletionInterrupt()
}
