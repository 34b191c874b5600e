package fdc

import "fmt"

// InvariantError reports a violation of the controller's own internal
// invariants, almost always caused by the host misusing the DMA path or
// feeding it a malformed write-track byte stream. These are fatal: the
// caller is expected to let the panic this package raises for them
// propagate and halt the session rather than attempt to continue with
// possibly corrupted media.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "fdc: invariant violation: " + e.Msg
}

// NotImplementedError is returned, not panicked, when the host issues a
// recognized but unimplemented command family (multi-sector read/write,
// read address, read track). The command is refused outright; status
// layout selection still reflects the family, matching a real chip that
// accepted the opcode before discovering it can't execute it.
type NotImplementedError struct {
	Command string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("fdc: %s not implemented", e.Command)
}

// PortError reports a read or write to a port this controller does not
// recognize. It is raised as a panic via InvariantError's sibling
// handling in fdc.go, not returned, since an unrecognized port is a
// host-wiring bug rather than a disk condition.
type PortError struct {
	Op   string
	Port byte
}

func (e *PortError) Error() string {
	return fmt.Sprintf("fdc: unexpected port %#02x on %s", e.Port, e.Op)
}
