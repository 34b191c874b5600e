package fdc

const drqResetValue = 16

// dispatchTransfer launches a Type II/III command (read sector, write
// sector, or write track) after the fixed command-accept latency. Side
// select is bit 1 of the command byte for every family in this group.
func (f *FDC) dispatchTransfer(value byte, family CommandFamily, gen uint64) {
	side := (value >> 1) & 0x01
	f.busy = true
	f.sched.Schedule(f.timing.CommandAccept, gen, func(now int64, ctx any) {
		g, ok := ctx.(uint64)
		if !ok || g != f.generation || f.commandAbort {
			return
		}
		if family == FamilyWriteTrack {
			f.beginWriteTrack(side)
			return
		}
		f.beginSectorTransfer(family, side)
	})
}

// beginSectorTransfer runs the entry checks for a read or write sector
// command and, if they all pass, arms the sector buffer and asserts DRQ
// for the host to drain or fill via DMA or PIO.
func (f *FDC) beginSectorTransfer(family CommandFamily, side byte) {
	drv := f.drive
	cyl := drv.Track()
	notReady := f.notReady()

	recordNotFound := false
	crcErr := false

	track, err := drv.Disk().GetTrack(cyl, int(side))
	if err != nil {
		recordNotFound = true
	} else {
		if int(f.track) != cyl {
			recordNotFound = true
		}
		// Kept strict per the original controller's own comparison: the
		// sector register is one-based, so a value equal to the sector
		// count addresses the last sector; only a larger value is out of
		// range.
		if int(f.sector) > track.SectorCount() {
			recordNotFound = true
		}
		switch track.Format() {
		case FormatFM500:
			if f.doubleDensity {
				crcErr = true
			}
		case FormatMFM500:
			if !f.doubleDensity {
				crcErr = true
			}
		default:
			crcErr = true
		}
	}

	isWrite := family == FamilyWriteSectorSingle
	writeProtect := isWrite && drv.WriteProtected()

	f.recordNotFound = recordNotFound
	f.crcError = crcErr

	if notReady || recordNotFound || crcErr || writeProtect {
		f.busy = false
		f.drq = false
		return
	}

	sector, err := drv.Disk().GetSector(cyl, int(side), int(f.sector)-1)
	if err != nil {
		f.recordNotFound = true
		f.busy = false
		f.drq = false
		return
	}

	f.lastReadAddress = int(f.sector) - 1
	f.sectorBuf = sector.Data()
	f.sectorBufIndex = 0
	f.writeCmd = isWrite
	f.drq = true
	f.drqCounter = drqResetValue
	if isWrite {
		drv.Disk().SetModified()
	}
}

// DRQ implements the DMA engine's polling view of the data-request line:
// each query decrements a countdown and only reports asserted once every
// sixteenth query, modeling the pacing a real DMA controller would see
// polling faster than the drive can actually deliver bytes.
func (f *FDC) DRQ() bool {
	if !f.drq {
		return false
	}
	f.drqCounter--
	if f.drqCounter <= 0 {
		f.drqCounter = drqResetValue
		return true
	}
	return false
}

// DMARead returns the next byte of an in-flight read-sector transfer.
// Calling it while DRQ is not asserted, or outside a transfer, is a
// programming error in the DMA engine and is fatal.
func (f *FDC) DMARead() (byte, error) {
	if !f.drq || f.sectorBuf == nil || f.writeCmd {
		panic(&InvariantError{Msg: "DMA read issued with no read transfer in flight"})
	}
	b := f.sectorBuf[f.sectorBufIndex]
	f.sectorBufIndex++
	f.drqCounter = drqResetValue
	if f.sectorBufIndex >= len(f.sectorBuf) {
		f.finishDataTransfer()
	}
	return b, nil
}

// DMAWrite deposits the next byte of an in-flight write-sector transfer.
func (f *FDC) DMAWrite(value byte) error {
	if !f.drq || f.sectorBuf == nil || !f.writeCmd {
		panic(&InvariantError{Msg: "DMA write issued with no write transfer in flight"})
	}
	f.sectorBuf[f.sectorBufIndex] = value
	f.sectorBufIndex++
	f.drqCounter = drqResetValue
	if f.sectorBufIndex >= len(f.sectorBuf) {
		f.finishDataTransfer()
	}
	return nil
}

// DMAComplete lets a DMA engine that has reached its own terminal count
// end the transfer early, even if the sector buffer is not exhausted.
func (f *FDC) DMAComplete() error {
	if f.sectorBuf == nil && f.wtBuf == nil {
		return nil
	}
	f.lostData = true
	f.finishDataTransfer()
	return nil
}

func (f *FDC) finishDataTransfer() {
	f.drq = false
	f.busy = false
	f.sectorBuf = nil
	f.writeCmd = false
	f.raiseCompletionInterrupt()
}

// readData services a PIO read of the data port.
func (f *FDC) readData() byte {
	if f.drq && f.sectorBuf != nil && !f.writeCmd {
		b := f.sectorBuf[f.sectorBufIndex]
		f.sectorBufIndex++
		if f.sectorBufIndex >= len(f.sectorBuf) {
			f.finishDataTransfer()
		}
		return b
	}
	if !f.drq {
		f.logf("fdc: data port read with drq clear (possible overrun)")
	}
	return f.data
}

// writeData services a PIO write of the data port.
func (f *FDC) writeData(value byte) {
	if f.drq && f.wtBuf != nil {
		f.writeTrackByte(value)
		return
	}
	if f.drq && f.sectorBuf != nil && f.writeCmd {
		f.sectorBuf[f.sectorBufIndex] = value
		f.sectorBufIndex++
		if f.sectorBufIndex >= len(f.sectorBuf) {
			f.finishDataTransfer()
		}
		return
	}
	f.data = value
}

func (f *FDC) raiseCompletionInterrupt() {
	f.interruptPending = true
	if f.cpu != nil {
		f.cpu.RaiseInterrupt()
	}
}
