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

package dfs

import (
	"fmt"

	"github.com/asig/dfsit/internal/util"
)

// CatalogueEntry describes one file on a DFS disc side.
type CatalogueEntry struct {
	FileName         FileName
	Directory        Directory
	Locked           bool
	LoadAddress      U18
	ExecutionAddress U18
	Length           U18
	StartSector      U10
}

// Path returns the "D.NAME" form of the entry, including the root directory.
func (e *CatalogueEntry) Path() string {
	return e.Directory.String() + "." + e.FileName.String()
}

func (e *CatalogueEntry) String() string {
	lockStr := " "
	if e.Locked {
		lockStr = "L"
	}
	return fmt.Sprintf("%-9s %s %s %s %s %s", e.Path(), lockStr, e.LoadAddress, e.ExecutionAddress, e.Length, e.StartSector)
}

// Sectors returns the number of sectors occupied by the entry's data.
func (e *CatalogueEntry) Sectors() int {
	return SectorCount(e.Length)
}

// Compare orders entries by directory (root first) and then by name.
func (e *CatalogueEntry) Compare(other *CatalogueEntry) int {
	return ComparePaths(e.Directory, e.FileName, other.Directory, other.FileName)
}

// PackExtraBits computes the byte holding the top bits of the 18 bit values
// and of the start sector:
//
//	bit 7-6: execution address bits 17-16
//	bit 5-4: length bits 17-16
//	bit 3-2: load address bits 17-16
//	bit 1-0: start sector bits 9-8
func PackExtraBits(load, exec, length U18, start U10) byte {
	return byte((exec.v>>16)<<6 | (length.v>>16)<<4 | (load.v>>16)<<2 | uint32(start.v>>8))
}

// UnpackExtraBits is the inverse of PackExtraBits. The returned values are
// already shifted into place.
func UnpackExtraBits(b byte) (loadTop, execTop, lengthTop uint32, startTop uint16) {
	loadTop = uint32((b&0b0000_1100)>>2) << 16
	execTop = uint32((b&0b1100_0000)>>6) << 16
	lengthTop = uint32((b&0b0011_0000)>>4) << 16
	startTop = uint16(b&0b0000_0011) << 8
	return
}

func decodeEntry(b []byte, index int) (CatalogueEntry, error) {
	o := (index + 1) * 8
	var e CatalogueEntry

	name := util.StringFromBytes(b[o:o+maxFileNameLength], "\x00 ")
	fileName, err := NewFileName(name)
	if err != nil {
		return e, fmt.Errorf("entry %d at catalogue offset 0x%03X: %w", index, o, err)
	}
	attr := b[o+7]
	dir, err := NewDirectory(attr & 0x7F)
	if err != nil {
		return e, byteError("directory", o+7, attr, fmt.Sprintf("entry %d has invalid directory character", index))
	}
	e.FileName = fileName
	e.Directory = dir
	e.Locked = attr&0x80 != 0

	o2 := SectorBytes + o
	loadTop, execTop, lengthTop, startTop := UnpackExtraBits(b[o2+6])
	e.LoadAddress = U18{uint32(util.ReadLEUint16(b, o2)) | loadTop}
	e.ExecutionAddress = U18{uint32(util.ReadLEUint16(b, o2+2)) | execTop}
	e.Length = U18{uint32(util.ReadLEUint16(b, o2+4)) | lengthTop}
	e.StartSector = U10{uint16(b[o2+7]) | startTop}
	return e, nil
}

func (e *CatalogueEntry) encode(b []byte, index int) {
	o := (index + 1) * 8
	util.WriteFixedLengthString(b, o, maxFileNameLength, e.FileName.s, ' ')
	attr := e.Directory.Char()
	if e.Locked {
		attr |= 0x80
	}
	b[o+7] = attr

	o2 := SectorBytes + o
	util.WriteLEUint16(b, o2, uint16(e.LoadAddress.v))
	util.WriteLEUint16(b, o2+2, uint16(e.ExecutionAddress.v))
	util.WriteLEUint16(b, o2+4, uint16(e.Length.v))
	b[o2+6] = PackExtraBits(e.LoadAddress, e.ExecutionAddress, e.Length, e.StartSector)
	b[o2+7] = byte(e.StartSector.v)
}
