// Package drive implements a concrete, in-memory Drive and Disk pair
// satisfying the fdc package's collaborator contracts, generalized from
// the cylinder/head/sector bookkeeping of a JV1/JV3-style disk container
// away from any particular file format: tracks are addressed by
// (cylinder, head) and hold a format tag plus a flat slice of sectors.
package drive

import (
	"fmt"

	"github.com/go-retro/fd1797/fdc"
)

// Sector is one sector's mutable backing storage.
type Sector struct {
	data []byte
}

// NewSector allocates a zero-filled sector of the given size.
func NewSector(size int) *Sector {
	return &Sector{data: make([]byte, size)}
}

// Data returns the sector's backing bytes directly; callers (including
// the fdc package) read and write through this slice, not a copy.
func (s *Sector) Data() []byte { return s.data }

// Track holds one physical track's geometry and sector storage.
type Track struct {
	format  fdc.Format
	sectors []*Sector
}

func (t *Track) SectorCount() int  { return len(t.sectors) }
func (t *Track) Format() fdc.Format { return t.format }

type trackKey struct {
	cylinder int
	head     int
}

// Disk is an in-memory disk image: a sparse map of tracks, each holding
// some number of fixed-size sectors, plus a dirty flag set whenever a
// sector write or a track format touches it.
type Disk struct {
	tracks   map[trackKey]*Track
	modified bool
}

// NewDisk returns an empty disk image with no tracks formatted.
func NewDisk() *Disk {
	return &Disk{tracks: map[trackKey]*Track{}}
}

// GetTrack looks up the track at the given cylinder and head.
func (d *Disk) GetTrack(cylinder, head int) (fdc.Track, error) {
	t, ok := d.tracks[trackKey{cylinder, head}]
	if !ok {
		return nil, fmt.Errorf("drive: no track at cylinder %d head %d", cylinder, head)
	}
	return t, nil
}

// GetSector looks up one sector of a track by its zero-based index.
func (d *Disk) GetSector(cylinder, head, sectorZeroIndex int) (fdc.Sector, error) {
	t, ok := d.tracks[trackKey{cylinder, head}]
	if !ok {
		return nil, fmt.Errorf("drive: no track at cylinder %d head %d", cylinder, head)
	}
	if sectorZeroIndex < 0 || sectorZeroIndex >= len(t.sectors) {
		return nil, fmt.Errorf("drive: sector index %d out of range on cylinder %d head %d", sectorZeroIndex, cylinder, head)
	}
	return t.sectors[sectorZeroIndex], nil
}

// FormatTrack replaces whatever track previously existed at (cylinder,
// head) with sectorCount freshly zeroed sectors of sectorSize bytes each.
func (d *Disk) FormatTrack(format fdc.Format, cylinder, head, sectorCount, sectorSize int) error {
	if sectorCount <= 0 || sectorSize <= 0 {
		return fmt.Errorf("drive: invalid track geometry: %d sectors of %d bytes", sectorCount, sectorSize)
	}
	sectors := make([]*Sector, sectorCount)
	for i := range sectors {
		sectors[i] = NewSector(sectorSize)
	}
	d.tracks[trackKey{cylinder, head}] = &Track{format: format, sectors: sectors}
	d.modified = true
	return nil
}

// SetModified marks the disk dirty, e.g. after a sector write.
func (d *Disk) SetModified() { d.modified = true }

// Modified reports whether any sector write or track format has touched
// this disk since it was created.
func (d *Disk) Modified() bool { return d.modified }
