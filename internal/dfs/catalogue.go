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
	"bytes"
	"fmt"
	"slices"

	"github.com/asig/dfsit/internal/util"
)

// Catalogue layout, see https://beebwiki.mdfs.net/Acorn_DFS_disc_format
//
// Sector 0:
//
//	0x00-0x07  first 8 characters of the title
//	0x08-0xFF  31 entries: 7 characters file name, directory (bit 7 = locked)
//
// Sector 1:
//
//	0x00-0x03  last 4 characters of the title
//	0x04       cycle number (BCD)
//	0x05       number of entries * 8
//	0x06       bit 5-4: boot option, bit 1-0: disc size bits 9-8
//	0x07       disc size bits 7-0
//	0x08-0xFF  31 entries: load, exec, length, extra bits, start sector
const (
	SectorBytes      = 256
	CatalogueSectors = 2
	CatalogueBytes   = CatalogueSectors * SectorBytes
	MaxFiles         = 31

	offsetTitle1      = 0x000
	offsetTitle2      = SectorBytes + 0x00
	offsetCycleNumber = SectorBytes + 0x04
	offsetFileOffset  = SectorBytes + 0x05
	offsetFlags       = SectorBytes + 0x06
	offsetDiscSize    = SectorBytes + 0x07

	flagsReservedMask = 0b1100_1100
	flagsBootMask     = 0b0011_0000
	flagsSizeMask     = 0b0000_0011
)

type Catalogue struct {
	Title       DiscTitle
	CycleNumber CycleNumber
	BootOption  BootOption
	DiscSize    DiscSize
	Entries     []CatalogueEntry
}

// NewCatalogue returns an empty catalogue for a disc side of the given size.
func NewCatalogue(title DiscTitle, boot BootOption, size DiscSize) *Catalogue {
	return &Catalogue{
		Title:      title,
		BootOption: boot,
		DiscSize:   size,
	}
}

func (c *Catalogue) FileCount() int {
	return len(c.Entries)
}

// SortedEntries returns a copy of the entries, ordered by directory and name.
func (c *Catalogue) SortedEntries() []CatalogueEntry {
	res := slices.Clone(c.Entries)
	slices.SortFunc(res, func(a, b CatalogueEntry) int {
		return a.Compare(&b)
	})
	return res
}

// IsValid applies the usual heuristic for recognising a DFS catalogue: the
// title consists of NUL or printable 7-bit characters, the file offset is a
// multiple of 8, and the reserved bits of the flags byte are clear.
func IsValid(b []byte) bool {
	if len(b) < CatalogueBytes {
		return false
	}
	titleOk := func(b []byte) bool {
		for _, c := range b {
			if c != 0 && !util.IsPrintable(c) {
				return false
			}
		}
		return true
	}
	if !titleOk(b[offsetTitle1:offsetTitle1+8]) || !titleOk(b[offsetTitle2:offsetTitle2+4]) {
		return false
	}
	if b[offsetFileOffset]&0b0000_0111 != 0 {
		return false
	}
	if b[offsetFlags]&flagsReservedMask != 0 {
		return false
	}
	return true
}

// Decode parses the two catalogue sectors.
func Decode(b []byte) (*Catalogue, error) {
	if len(b) != CatalogueBytes {
		return nil, fmt.Errorf("%w: catalogue must be %d bytes, got %d", ErrInvalidFormat, CatalogueBytes, len(b))
	}
	c := &Catalogue{}

	var title [maxTitleLength]byte
	copy(title[0:8], b[offsetTitle1:offsetTitle1+8])
	copy(title[8:12], b[offsetTitle2:offsetTitle2+4])
	for i, ch := range title {
		if !isTitleChar(ch) {
			offset := offsetTitle1 + i
			if i >= 8 {
				offset = offsetTitle2 + i - 8
			}
			return nil, byteError("title character", offset, ch, "control character")
		}
	}
	c.Title = DiscTitle{string(bytes.TrimRight(bytes.TrimRight(title[:], " "), "\x00"))}

	v, ok := fromBCD(b[offsetCycleNumber])
	if !ok {
		return nil, byteError("cycle number", offsetCycleNumber, b[offsetCycleNumber], "not a BCD value")
	}
	c.CycleNumber = CycleNumber{v}

	fileOffset := b[offsetFileOffset]
	if fileOffset&0b0000_0111 != 0 {
		return nil, byteError("file offset", offsetFileOffset, fileOffset, "not a multiple of 8")
	}
	count := int(fileOffset >> 3)

	flags := b[offsetFlags]
	if flags&flagsReservedMask != 0 {
		return nil, byteError("flags", offsetFlags, flags, "reserved bits set")
	}
	c.BootOption = BootOption((flags & flagsBootMask) >> 4)

	size := uint16(flags&flagsSizeMask)<<8 | uint16(b[offsetDiscSize])
	discSize, err := NewDiscSize(size)
	if err != nil {
		return nil, byteError("disc size", offsetDiscSize, b[offsetDiscSize], fmt.Sprintf("%d sectors is out of range", size))
	}
	c.DiscSize = discSize

	c.Entries = make([]CatalogueEntry, 0, count)
	for i := 0; i < count; i++ {
		e, err := decodeEntry(b, i)
		if err != nil {
			return nil, err
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// Encode serializes the catalogue into its two sectors. Entries are written in
// the order they appear in c.Entries.
func (c *Catalogue) Encode() ([]byte, error) {
	if len(c.Entries) > MaxFiles {
		return nil, fmt.Errorf("%w: %d files, at most %d allowed", ErrCatalogueFull, len(c.Entries), MaxFiles)
	}
	if c.DiscSize.v < MinDiscSize {
		return nil, valueError("disc size", c.DiscSize.v, "not set")
	}
	b := make([]byte, CatalogueBytes)

	var title [maxTitleLength]byte
	copy(title[:], c.Title.s)
	copy(b[offsetTitle1:offsetTitle1+8], title[0:8])
	copy(b[offsetTitle2:offsetTitle2+4], title[8:12])

	b[offsetCycleNumber] = toBCD(c.CycleNumber.v)
	b[offsetFileOffset] = byte(len(c.Entries) << 3)
	b[offsetFlags] = byte(c.BootOption&0b11)<<4 | byte(c.DiscSize.v>>8)&flagsSizeMask
	b[offsetDiscSize] = byte(c.DiscSize.v)

	for i := range c.Entries {
		c.Entries[i].encode(b, i)
	}
	return b, nil
}
