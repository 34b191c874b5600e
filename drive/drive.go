package drive

import "github.com/go-retro/fd1797/fdc"

// Drive is a concrete, single-unit floppy drive: a physical cylinder
// position, a handful of mechanical booleans, and a reference to the
// disk currently loaded in it.
type Drive struct {
	selected       bool
	loaded         bool
	singleSided    bool
	writeProtected bool
	diskChanged    bool
	index          bool
	track          int

	disk *Disk
}

// New returns a drive with the given disk loaded, selected false, double
// sided, not write protected, and parked at cylinder 0.
func New(disk *Disk) *Drive {
	return &Drive{disk: disk, loaded: disk != nil}
}

func (d *Drive) Selected() bool      { return d.selected }
func (d *Drive) SetSelected(v bool)  { d.selected = v }
func (d *Drive) Loaded() bool        { return d.loaded }
func (d *Drive) SetLoaded(v bool)    { d.loaded = v }
func (d *Drive) SingleSided() bool   { return d.singleSided }
func (d *Drive) SetSingleSided(v bool) { d.singleSided = v }

func (d *Drive) WriteProtected() bool     { return d.writeProtected }
func (d *Drive) SetWriteProtected(v bool) { d.writeProtected = v }

func (d *Drive) DiskChanged() bool     { return d.diskChanged }
func (d *Drive) SetDiskChanged(v bool) { d.diskChanged = v }
func (d *Drive) AckDiskChange()        { d.diskChanged = false }

// Index reports the drive's raw index sensor. Rotational timing is out
// of scope for this module, so it defaults to false and is only useful
// in tests via SetIndex; the fdc package's own synthetic index-override
// latch is what actually drives index-bit behavior during normal use.
func (d *Drive) Index() bool     { return d.index }
func (d *Drive) SetIndex(v bool) { d.index = v }

func (d *Drive) Track0() bool { return d.track == 0 }
func (d *Drive) Track() int   { return d.track }

// SeekTo moves the head directly to the given cylinder, clamping at 0.
func (d *Drive) SeekTo(cylinder int) {
	if cylinder < 0 {
		cylinder = 0
	}
	d.track = cylinder
}

// Reset parks the head at cylinder 0, as if the drive had just been
// power-cycled. It does not eject the disk or clear write protection.
func (d *Drive) Reset() {
	d.track = 0
}

// Disk returns the disk currently loaded in the drive.
func (d *Drive) Disk() fdc.Disk { return d.disk }

// SetDisk swaps the loaded disk, e.g. to simulate ejecting one disk and
// inserting another; it also latches DiskChanged the way real drive
// hardware does until the next drive-select acknowledges it.
func (d *Drive) SetDisk(disk *Disk) {
	d.disk = disk
	d.loaded = disk != nil
	d.diskChanged = true
}
