/*
 * This file is part of the Acorn DFS Image Tool ("dfsit")
 * Copyright (C) 2025 Andreas Signer <asigner@gmail.com>
 *
 * dfsit is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * dfsit is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with dfsit.  If not, see <https://www.gnu.org/licenses/>.
 */

package disk

import (
	"fmt"
)

// Extent is a contiguous run of bytes in the underlying image stream.
type Extent struct {
	Offset int64
	Length int
}

// Layout maps a (side, start sector, byte count) triple to the byte ranges
// of the image stream that hold the data, in order.
type Layout interface {
	Sides() int
	SectorBytes() int
	// StreamBytes is the size of an image holding sectorsPerSide sectors on every side.
	StreamBytes(sectorsPerSide int) int64
	Extents(side Side, startSector int, count int) ([]Extent, error)
}

// Linear is the layout of a single sided image: sector n lives at n*SectorBytes.
type Linear struct {
	sectorBytes int
}

func NewLinear(sectorBytes int) Linear {
	return Linear{sectorBytes: sectorBytes}
}

func (l Linear) Sides() int {
	return 1
}

func (l Linear) SectorBytes() int {
	return l.sectorBytes
}

func (l Linear) StreamBytes(sectorsPerSide int) int64 {
	return int64(sectorsPerSide) * int64(l.sectorBytes)
}

func (l Linear) Extents(side Side, startSector int, count int) ([]Extent, error) {
	if side != Side0 {
		return nil, fmt.Errorf("linear layout: side %d: %w", side, ErrUnsupportedSide)
	}
	if startSector < 0 || count < 0 {
		return nil, fmt.Errorf("linear layout: invalid range sector %d, %d bytes", startSector, count)
	}
	if count == 0 {
		return nil, nil
	}
	return []Extent{{Offset: int64(startSector) * int64(l.sectorBytes), Length: count}}, nil
}

// Interleaved is the layout of a double sided image. Each track of side 0 is
// followed by the same track of side 1, so a run of sectors is not contiguous
// in the stream once it crosses a track boundary.
type Interleaved struct {
	sectorBytes     int
	sectorsPerTrack int
	sidesPerDisc    int
}

func NewInterleaved(sectorBytes, sectorsPerTrack, sidesPerDisc int) Interleaved {
	return Interleaved{
		sectorBytes:     sectorBytes,
		sectorsPerTrack: sectorsPerTrack,
		sidesPerDisc:    sidesPerDisc,
	}
}

func (l Interleaved) Sides() int {
	return l.sidesPerDisc
}

func (l Interleaved) SectorBytes() int {
	return l.sectorBytes
}

// StreamBytes rounds up to whole tracks.
func (l Interleaved) StreamBytes(sectorsPerSide int) int64 {
	tracks := (sectorsPerSide + l.sectorsPerTrack - 1) / l.sectorsPerTrack
	return int64(tracks) * int64(l.sectorsPerTrack) * int64(l.sidesPerDisc) * int64(l.sectorBytes)
}

// SectorOffset returns the stream offset of an absolute sector on the given side.
func (l Interleaved) SectorOffset(side Side, sector int) int64 {
	track, r := sector/l.sectorsPerTrack, sector%l.sectorsPerTrack
	physicalTrack := track*l.sidesPerDisc + int(side)
	return int64(l.sectorBytes)*int64(l.sectorsPerTrack)*int64(physicalTrack) + int64(r)*int64(l.sectorBytes)
}

// Extents splits the request into one extent per sector; the last one may be
// shorter than a full sector.
func (l Interleaved) Extents(side Side, startSector int, count int) ([]Extent, error) {
	if int(side) >= l.sidesPerDisc {
		return nil, fmt.Errorf("interleaved layout: side %d: %w", side, ErrUnsupportedSide)
	}
	if startSector < 0 || count < 0 {
		return nil, fmt.Errorf("interleaved layout: invalid range sector %d, %d bytes", startSector, count)
	}

	q, r := count/l.sectorBytes, count%l.sectorBytes
	extents := make([]Extent, 0, q+1)
	for sector := startSector; sector < startSector+q; sector++ {
		extents = append(extents, Extent{Offset: l.SectorOffset(side, sector), Length: l.sectorBytes})
	}
	if r > 0 {
		extents = append(extents, Extent{Offset: l.SectorOffset(side, startSector+q), Length: r})
	}
	return extents, nil
}
