package fdc

// External state latch bit positions. Wait-cycle enable and write
// precompensation enable are latched but never consulted elsewhere,
// matching the non-goals around bit-level timing and precompensation.
const (
	extBitDriveSelect    = 1 << 0
	extBitSide           = 1 << 1
	extBitDoubleDensity  = 1 << 2
	extBitChipEnable     = 1 << 3
	extBitWaitEnable     = 1 << 4
	extBitWritePrecomp   = 1 << 5
)

// External status byte bits, read back from the same port.
const (
	extStatusDiskChanged = 1 << 0
	extStatusTC          = 1 << 1
	extStatusTwoSided    = 1 << 2
	extStatusNotLoaded   = 1 << 3
)

// writeExternalState handles a host write to the external state/status
// port: latch the new flags, propagate drive select to the drive
// (acknowledging a latched disk-change on selection), recompute side
// select and density, then apply the chip-enable edge.
func (f *FDC) writeExternalState(value byte) {
	f.extLatch = value

	selected := value&extBitDriveSelect != 0
	f.drive.SetSelected(selected)
	if selected {
		f.drive.AckDiskChange()
	}

	f.sideSelect = byte(0)
	if value&extBitSide != 0 {
		f.sideSelect = 1
	}
	f.doubleDensity = value&extBitDoubleDensity != 0

	f.setChipEnable(value&extBitChipEnable != 0)
}

func (f *FDC) readExternalStatus() byte {
	var b byte
	if f.drive.DiskChanged() {
		b |= extStatusDiskChanged
	}
	if f.dma != nil && f.dma.TerminalCount() {
		b |= extStatusTC
	}
	if !f.drive.SingleSided() {
		b |= extStatusTwoSided
	}
	if !f.drive.Loaded() {
		b |= extStatusNotLoaded
	}
	return b
}

// setChipEnable applies a rising or falling edge of the chip-enable bit.
// Both edges are idempotent: re-asserting an already-enabled (or
// already-disabled) state does nothing.
func (f *FDC) setChipEnable(enable bool) {
	if enable {
		if f.fdcEnabled {
			return
		}
		f.fdcEnabled = true
		// Synthetic RESTORE with the head-load bit set, matching the
		// power-on default a real drive's head-load solenoid would have
		// already engaged by the time firmware gets to issue one.
		_ = f.dispatchCommand(opRestore|typeIHeadLoadBit, FamilyTypeI)
		if f.drive.Selected() {
			f.indexReset = true
			gen := f.chipGeneration
			f.sched.Schedule(f.timing.IndexOverride, gen, func(now int64, ctx any) {
				g, ok := ctx.(uint64)
				if !ok || g != f.chipGeneration {
					return
				}
				f.indexReset = false
			})
		}
		return
	}

	if !f.fdcEnabled {
		return
	}
	f.doReset()
}
