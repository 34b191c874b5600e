package fdc

import "fmt"

// stepDirection is the direction the head last moved, latched so a bare
// STEP (no direction bit of its own) can repeat it.
type stepDirection int

const (
	dirOut stepDirection = iota // toward track 0
	dirIn                       // toward higher cylinder numbers
)

// typeIState tracks an in-flight Type I command across its scheduled
// per-cylinder ticks.
type typeIState struct {
	direction      stepDirection
	remainingSteps int
	update         bool
	headLoad       bool
	verify         bool
}

func (f *FDC) dispatchTypeI(value byte, gen uint64) {
	update := value&typeIUpdateBit != 0
	headLoad := value&typeIHeadLoadBit != 0
	verify := value&typeIVerifyBit != 0

	switch value & 0xF0 {
	case opRestore:
		f.data = 0
		physical := f.drive.Track()
		f.track = clampTrackByte(physical)
		f.lastDirection = dirOut
		f.typeIState = &typeIState{
			direction:      dirOut,
			remainingSteps: physical,
			update:         true,
			headLoad:       headLoad,
			verify:         verify,
		}
	case opSeek:
		dir, steps := seekDirection(int(f.track), int(f.data))
		f.lastDirection = dir
		f.typeIState = &typeIState{
			direction:      dir,
			remainingSteps: steps,
			update:         true,
			headLoad:       headLoad,
			verify:         verify,
		}
	case opStep, opStepUpdate:
		f.typeIState = &typeIState{
			direction:      f.lastDirection,
			remainingSteps: 1,
			update:         update,
			headLoad:       headLoad,
			verify:         verify,
		}
	case opStepIn, opStepInUpdate:
		f.lastDirection = dirIn
		f.typeIState = &typeIState{
			direction:      dirIn,
			remainingSteps: 1,
			update:         update,
			headLoad:       headLoad,
			verify:         verify,
		}
	case opStepOut, opStepOutUpdate:
		f.lastDirection = dirOut
		f.typeIState = &typeIState{
			direction:      dirOut,
			remainingSteps: 1,
			update:         update,
			headLoad:       headLoad,
			verify:         verify,
		}
	default:
		panic(&InvariantError{Msg: fmt.Sprintf("unhandled type I opcode %#02x", value)})
	}

	f.busy = true
	f.sched.Schedule(f.timing.CommandAccept, gen, f.typeITick)
}

func seekDirection(cur, dest int) (stepDirection, int) {
	if dest >= cur {
		return dirIn, dest - cur
	}
	return dirOut, cur - dest
}

func clampTrackByte(track int) byte {
	if track < 0 {
		return 0
	}
	if track > 255 {
		return 255
	}
	return byte(track)
}

// typeITick performs one cylinder's worth of head movement, then either
// reschedules itself for the next cylinder or finishes the command.
func (f *FDC) typeITick(now int64, ctx any) {
	gen, ok := ctx.(uint64)
	if !ok || gen != f.generation || f.commandAbort {
		return
	}
	st := f.typeIState
	if st.remainingSteps > 0 {
		driveCur := f.drive.Track()
		driveNext := driveCur - 1
		if st.direction == dirIn {
			driveNext = driveCur + 1
		}
		if driveNext < 0 {
			driveNext = 0
		}
		f.drive.SeekTo(driveNext)

		if st.update {
			trackCur := int(f.track)
			trackNext := trackCur - 1
			if st.direction == dirIn {
				trackNext = trackCur + 1
			}
			if trackNext < 0 {
				trackNext = 0
			}
			f.track = clampTrackByte(trackNext)
		}
		st.remainingSteps--
	}
	if st.remainingSteps > 0 {
		f.sched.Schedule(f.timing.StepTime, gen, f.typeITick)
		return
	}
	f.finishTypeI(st)
}

func (f *FDC) finishTypeI(st *typeIState) {
	f.headLoaded = st.headLoad
	if st.verify && !f.notReady() && int(f.track) != f.drive.Track() {
		f.seekError = true
	}
	f.busy = false
	f.typeIState = nil
	f.raiseCompletionInterrupt()
}
