package fdc

// Status register bit positions, constant across every command family.
// Bits 5 and 6 change meaning by family; bit 7 (not ready) and bits 1-4
// are read uniformly, just fed by different underlying conditions.
const (
	statusBusy            = 1 << 0
	statusIndexOrDRQ       = 1 << 1
	statusTrack0OrLostData = 1 << 2
	statusCRCErr           = 1 << 3
	statusSeekErrOrRNF     = 1 << 4
	statusHeadLoadOrRecType = 1 << 5
	statusWriteProt        = 1 << 6
	statusNotReady         = 1 << 7
)

// notReady is true whenever there is no drive selected or the selected
// drive has no media loaded, regardless of command family.
func (f *FDC) notReady() bool {
	return !f.drive.Selected() || !f.drive.Loaded()
}

func (f *FDC) indexAsserted() bool {
	return f.drive.Index() || f.indexReset
}

// readStatus synthesizes the status byte for the command/status port
// read and clears any pending interrupt flag as a side effect.
func (f *FDC) readStatus() byte {
	f.interruptPending = false

	var b byte
	if f.notReady() {
		b |= statusNotReady
	}

	switch f.statusFamily {
	case StatusTypeI:
		if f.drive.WriteProtected() {
			b |= statusWriteProt
		}
		if f.headLoaded {
			b |= statusHeadLoadOrRecType
		}
		if f.seekError {
			b |= statusSeekErrOrRNF
		}
		if f.crcError {
			b |= statusCRCErr
		}
		if f.drive.Track0() {
			b |= statusTrack0OrLostData
		}
		if f.indexAsserted() {
			b |= statusIndexOrDRQ
		}
	case StatusWriteLike:
		if f.drive.WriteProtected() {
			b |= statusWriteProt
		}
		if f.recordTypeOrWriteFault {
			b |= statusHeadLoadOrRecType
		}
		if f.recordNotFound {
			b |= statusSeekErrOrRNF
		}
		if f.crcError {
			b |= statusCRCErr
		}
		if f.lostData {
			b |= statusTrack0OrLostData
		}
		if f.drq {
			b |= statusIndexOrDRQ
		}
	case StatusReadLike:
		if f.recordNotFound {
			b |= statusSeekErrOrRNF
		}
		if f.crcError {
			b |= statusCRCErr
		}
		if f.lostData {
			b |= statusTrack0OrLostData
		}
		if f.drq {
			b |= statusIndexOrDRQ
		}
	}

	if f.busy {
		b |= statusBusy
	}
	return b
}
