package fdc

// Port addresses the host I/O processor uses to reach the controller.
const (
	PortCommandStatus = 0x84
	PortTrack         = 0x85
	PortSector        = 0x86
	PortData          = 0x87
	PortExternalState = 0xE8
)

// FDC is a Western Digital FD1797-style floppy disk controller core. It
// owns no goroutines of its own: every delay is expressed as a callback
// scheduled through its Scheduler collaborator, and the host drives it
// entirely through WritePort/ReadPort plus the DMA-facing methods in
// transfer.go.
type FDC struct {
	// Register file.
	track  byte
	sector byte
	data   byte

	// External state latch, and the flags it decodes into.
	extLatch      byte
	sideSelect    byte
	doubleDensity bool
	fdcEnabled    bool

	// Command/status state.
	lastCommand   CommandFamily
	statusFamily  StatusFamily
	lastDirection stepDirection

	busy                    bool
	drq                     bool
	crcError                bool
	seekError               bool
	headLoaded              bool
	recordTypeOrWriteFault  bool
	recordNotFound          bool
	lostData                bool
	commandAbort            bool
	indexReset              bool
	interruptPending        bool

	lastReadAddress int

	// In-flight Type I state.
	typeIState *typeIState

	// In-flight sector-transfer state.
	sectorBuf      []byte
	sectorBufIndex int
	writeCmd       bool
	drqCounter     int

	// In-flight write-track state.
	capturedSide byte
	wtBuf        []byte
	wtParser     *writeTrackParser

	// generation is bumped on every new command dispatch; scheduled
	// callbacks capture it and bail out if it has since moved on or if
	// commandAbort was set, instead of trying to cancel themselves out of
	// the scheduler.
	generation uint64
	// chipGeneration is bumped independently, only by a reset (at
	// construction, by Reset, and on a chip-enable falling edge), so the
	// index-override timer is not invalidated by ordinary commands running
	// during its 10ms window.
	chipGeneration uint64

	timing Timing

	drive Drive
	sched Scheduler
	cpu   CPU
	dma   DMA
	log   Logger
}

// New constructs a controller wired to the given drive, scheduler, and
// CPU interrupt sink. The DMA and Logger collaborators are optional and
// may be attached later with SetDMA and SetLogger.
func New(drive Drive, sched Scheduler, cpu CPU, timing Timing) *FDC {
	f := &FDC{
		drive:  drive,
		sched:  sched,
		cpu:    cpu,
		timing: timing,
	}
	f.doReset()
	return f
}

// SetDMA attaches the DMA engine collaborator whose terminal-count line
// is folded into the external status byte.
func (f *FDC) SetDMA(dma DMA) { f.dma = dma }

// SetLogger attaches a diagnostic logging collaborator. A nil Logger
// means diagnostics are discarded.
func (f *FDC) SetLogger(log Logger) { f.log = log }

func (f *FDC) logf(format string, args ...any) {
	if f.log != nil {
		f.log.Printf(format, args...)
	}
}

// LastReadAddress reports the zero-based sector index most recently
// located by a successful sector transfer, for diagnostics only; it has
// no effect on any status bit.
func (f *FDC) LastReadAddress() int { return f.lastReadAddress }

// Reset clears all registers and flags and forces the last command back
// to RESTORE, as if the chip had just been powered on or the host had
// pulsed a master-reset line. It does not touch the drive.
func (f *FDC) Reset() {
	f.doReset()
}

func (f *FDC) doReset() {
	f.track, f.sector, f.data = 0, 0, 0
	f.extLatch = 0
	f.sideSelect = 0
	f.doubleDensity = false
	f.fdcEnabled = false

	f.lastCommand = FamilyTypeI
	f.statusFamily = StatusTypeI
	f.lastDirection = dirOut

	f.busy = false
	f.drq = false
	f.crcError = false
	f.seekError = false
	f.headLoaded = false
	f.recordTypeOrWriteFault = false
	f.recordNotFound = false
	f.lostData = false
	f.commandAbort = false
	f.indexReset = false
	f.interruptPending = false

	f.typeIState = nil
	f.sectorBuf = nil
	f.sectorBufIndex = 0
	f.writeCmd = false
	f.drqCounter = 0
	f.wtBuf = nil
	f.wtParser = nil

	f.generation++
	f.chipGeneration++
}

// WritePort dispatches a host write to one of the controller's five
// ports. A write to any other port is a fatal invariant violation.
func (f *FDC) WritePort(port, value byte) error {
	switch port {
	case PortCommandStatus:
		return f.writeCommand(value)
	case PortTrack:
		f.track = value
		return nil
	case PortSector:
		f.sector = value
		return nil
	case PortData:
		f.writeData(value)
		return nil
	case PortExternalState:
		f.writeExternalState(value)
		return nil
	default:
		panic(&PortError{Op: "write", Port: port})
	}
}

// ReadPort dispatches a host read of one of the controller's five ports.
// A read of any other port is a fatal invariant violation.
func (f *FDC) ReadPort(port byte) (byte, error) {
	switch port {
	case PortCommandStatus:
		return f.readStatus(), nil
	case PortTrack:
		return f.track, nil
	case PortSector:
		return f.sector, nil
	case PortData:
		return f.readData(), nil
	case PortExternalState:
		return f.readExternalStatus(), nil
	default:
		panic(&PortError{Op: "read", Port: port})
	}
}
