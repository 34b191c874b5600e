package fdc

import "fmt"

// CommandFamily identifies which of the controller's command groups a
// decoded opcode byte belongs to.
type CommandFamily int

const (
	FamilyTypeI CommandFamily = iota
	FamilyReadSectorSingle
	FamilyReadSectorMulti
	FamilyWriteSectorSingle
	FamilyWriteSectorMulti
	FamilyReadAddress
	FamilyReadTrack
	FamilyWriteTrack
	FamilyForceInterrupt
)

func (f CommandFamily) String() string {
	switch f {
	case FamilyTypeI:
		return "type I command"
	case FamilyReadSectorSingle:
		return "read sector"
	case FamilyReadSectorMulti:
		return "read sector (multiple)"
	case FamilyWriteSectorSingle:
		return "write sector"
	case FamilyWriteSectorMulti:
		return "write sector (multiple)"
	case FamilyReadAddress:
		return "read address"
	case FamilyReadTrack:
		return "read track"
	case FamilyWriteTrack:
		return "write track"
	case FamilyForceInterrupt:
		return "force interrupt"
	default:
		return "unknown command"
	}
}

// StatusFamily selects which bit layout the status synthesizer uses.
type StatusFamily int

const (
	StatusTypeI StatusFamily = iota
	StatusReadLike
	StatusWriteLike
)

// Type I opcodes occupy the high nibble; cccc in the datasheet's own
// notation. Restore and Seek always update the track register; only the
// step family honors bit 4 as a track-register-follows-head toggle.
const (
	opRestore       = 0x00
	opSeek          = 0x10
	opStep          = 0x20
	opStepUpdate    = 0x30
	opStepIn        = 0x40
	opStepInUpdate  = 0x50
	opStepOut       = 0x60
	opStepOutUpdate = 0x70
)

// Type II/III/force-interrupt opcodes, selected by the full high nibble.
const (
	opReadSectorSingle  = 0x80
	opReadSectorMulti   = 0x90
	opWriteSectorSingle = 0xA0
	opWriteSectorMulti  = 0xB0
	opReadAddress       = 0xC0
	opForceInterrupt    = 0xD0
	opReadTrack         = 0xE0
	opWriteTrack        = 0xF0

	typeIUpdateBit   = 0x10
	typeIHeadLoadBit = 0x08
	typeIVerifyBit   = 0x04

	transferSideBit = 0x02
)

func decodeCommandFamily(value byte) CommandFamily {
	if value&0x80 == 0 {
		return FamilyTypeI
	}
	switch value & 0xF0 {
	case opReadSectorSingle:
		return FamilyReadSectorSingle
	case opReadSectorMulti:
		return FamilyReadSectorMulti
	case opWriteSectorSingle:
		return FamilyWriteSectorSingle
	case opWriteSectorMulti:
		return FamilyWriteSectorMulti
	case opReadAddress:
		return FamilyReadAddress
	case opForceInterrupt:
		return FamilyForceInterrupt
	case opReadTrack:
		return FamilyReadTrack
	case opWriteTrack:
		return FamilyWriteTrack
	default:
		panic(&InvariantError{Msg: fmt.Sprintf("undecodable command opcode %#02x", value)})
	}
}

func statusFamilyFor(family CommandFamily) StatusFamily {
	switch family {
	case FamilyReadSectorSingle, FamilyReadSectorMulti, FamilyReadAddress, FamilyReadTrack:
		return StatusReadLike
	case FamilyWriteSectorSingle, FamilyWriteSectorMulti, FamilyWriteTrack:
		return StatusWriteLike
	default:
		return StatusTypeI
	}
}

// writeCommand handles a host write to the command/status port. A
// command written while busy is silently discarded unless it is
// ForceInterrupt, which always takes effect immediately.
func (f *FDC) writeCommand(value byte) error {
	family := decodeCommandFamily(value)
	if f.busy && family != FamilyForceInterrupt {
		f.logf("fdc: command %#02x discarded while busy", value)
		return nil
	}
	f.interruptPending = false
	if family == FamilyForceInterrupt {
		f.forceInterrupt()
		return nil
	}
	return f.dispatchCommand(value, family)
}

// dispatchCommand runs the shared decode-and-launch path used both by an
// ordinary command register write and the synthetic RESTORE issued on a
// chip-enable rising edge.
func (f *FDC) dispatchCommand(value byte, family CommandFamily) error {
	f.commandAbort = false
	f.crcError = false
	f.seekError = false
	f.recordNotFound = false
	f.lostData = false
	f.recordTypeOrWriteFault = false
	f.lastCommand = family
	f.statusFamily = statusFamilyFor(family)
	f.generation++
	gen := f.generation

	switch family {
	case FamilyTypeI:
		f.dispatchTypeI(value, gen)
		return nil
	case FamilyReadSectorSingle, FamilyWriteSectorSingle, FamilyWriteTrack:
		f.dispatchTransfer(value, family, gen)
		return nil
	case FamilyReadSectorMulti, FamilyWriteSectorMulti, FamilyReadAddress, FamilyReadTrack:
		return &NotImplementedError{Command: family.String()}
	default:
		panic(&InvariantError{Msg: fmt.Sprintf("unhandled command family for opcode %#02x", value)})
	}
}

// forceInterrupt aborts whatever command is in flight without raising a
// completion interrupt. Scheduled callbacks belonging to the aborted
// command observe the bumped generation and the commandAbort flag and
// exit without side effects the next time they run.
func (f *FDC) forceInterrupt() {
	f.commandAbort = true
	f.busy = false
	f.drq = false
	f.sectorBuf = nil
	f.writeCmd = false
	f.wtBuf = nil
	f.wtParser = nil
	f.typeIState = nil
	f.lastCommand = FamilyTypeI
	f.statusFamily = StatusTypeI
	f.generation++
}
