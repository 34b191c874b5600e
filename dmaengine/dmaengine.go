// Package dmaengine implements a polling DMA engine harness exercising
// the FDC core's DRQ/DMARead/DMAWrite/DMAComplete inbound interface, in
// the same spirit as the teacher's own motor/DRQ polling loops: a host
// emulator checks the data-request line far more often than the drive
// can actually deliver bytes, which is exactly what the countdown-of-16
// pacing on the FDC side models.
package dmaengine

// FDC is the subset of the controller's exported surface this engine
// drives.
type FDC interface {
	DRQ() bool
	DMARead() (byte, error)
	DMAWrite(value byte) error
	DMAComplete() error
}

// Engine is a single-channel DMA engine bound to one controller.
type Engine struct {
	fdc          FDC
	terminalCount bool
}

// New returns a DMA engine driving fdc. It has no terminal count asserted
// until Finish is called.
func New(fdc FDC) *Engine {
	return &Engine{fdc: fdc}
}

// TerminalCount satisfies the fdc.DMA collaborator interface.
func (e *Engine) TerminalCount() bool { return e.terminalCount }

// PollRead busy-polls DRQ and reads exactly count bytes via DMA, as a
// host memory controller driving a read-sector command would. It returns
// early, with an error, if the controller reports a DMA misuse panic by
// way of its own invariant (recovered here so a test harness doesn't
// need to).
func (e *Engine) PollRead(count int) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()
	out := make([]byte, 0, count)
	for len(out) < count {
		if !e.fdc.DRQ() {
			continue
		}
		b, readErr := e.fdc.DMARead()
		if readErr != nil {
			return out, readErr
		}
		out = append(out, b)
	}
	return out, nil
}

// PollWrite busy-polls DRQ and writes every byte of data via DMA.
func (e *Engine) PollWrite(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()
	for _, b := range data {
		for !e.fdc.DRQ() {
		}
		if writeErr := e.fdc.DMAWrite(b); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

// Finish asserts terminal count and tells the controller the transfer is
// over, whether or not the sector buffer was fully drained.
func (e *Engine) Finish() error {
	e.terminalCount = true
	return e.fdc.DMAComplete()
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errUnexpectedPanic{r}
}

type errUnexpectedPanic struct{ v any }

func (e errUnexpectedPanic) Error() string {
	return "dmaengine: controller panicked: " + formatAny(e.v)
}

func formatAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic value"
}
