package fdc

import "time"

// Timing holds the nanosecond-scale delays the controller schedules
// through its Scheduler collaborator. Kept as named fields rather than
// folded into the code so the undocumented index-override duration is a
// single, configurable constant rather than a magic number scattered
// through the state machine.
type Timing struct {
	// CommandAccept is the latency between a command byte landing in the
	// command register and the controller's first scheduled tick for it.
	CommandAccept time.Duration
	// StepTime is the delay between successive head-stepping ticks during
	// a Type I command.
	StepTime time.Duration
	// IndexOverride is how long the synthetic "index seen" override holds
	// after a chip-enable rising edge, regardless of the drive's own
	// index signal.
	IndexOverride time.Duration
	// DiskRevolution is how long a write-track command runs before the
	// drive's index is next observed and the format commits.
	DiskRevolution time.Duration
}

// DefaultTiming returns reasonable values for all four delays, without
// going through the TOML configuration layer.
func DefaultTiming() Timing {
	return Timing{
		CommandAccept:  12 * time.Microsecond,
		StepTime:       6 * time.Millisecond,
		IndexOverride:  10 * time.Millisecond,
		DiskRevolution: 200 * time.Millisecond,
	}
}
