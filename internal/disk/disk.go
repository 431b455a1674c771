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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	SectorBytes     = 256
	SectorsPerTrack = 10
	SidesPerDisc    = 2
)

var (
	ErrUnsupportedSide  = errors.New("unsupported side")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrOutOfRange       = errors.New("access beyond end of image")
)

type Side uint8

const (
	Side0 Side = 0
	Side1 Side = 1
)

func ParseSide(n int) (Side, error) {
	switch n {
	case 0:
		return Side0, nil
	case 1:
		return Side1, nil
	}
	return 0, fmt.Errorf("side %d: %w", n, ErrUnsupportedSide)
}

// Device is the byte-range source and sink an image is stored on.
type Device interface {
	io.ReaderAt
	io.WriterAt
}

type Image struct {
	dev    Device
	closer io.Closer
	size   int64
	layout Layout
}

// LayoutForPath picks the sector layout from the image file extension:
// ".ssd" is single sided, ".dsd" is double sided.
func LayoutForPath(path string) (Layout, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ssd":
		return NewLinear(SectorBytes), nil
	case ".dsd":
		return NewInterleaved(SectorBytes, SectorsPerTrack, SidesPerDisc), nil
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedImage)
}

// Open opens an image file. The layout is derived from the extension.
func Open(imagePath string, writable bool) (*Image, error) {
	layout, err := LayoutForPath(imagePath)
	if err != nil {
		return nil, err
	}
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(imagePath, flag, 0644)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	img := NewImage(f, fi.Size(), layout)
	img.closer = f
	log.Debug().Msgf("Opened %s: %d bytes, %d side(s)", imagePath, fi.Size(), layout.Sides())
	return img, nil
}

// NewImage wraps a device of the given size.
func NewImage(dev Device, size int64, layout Layout) *Image {
	return &Image{dev: dev, size: size, layout: layout}
}

func (img *Image) Close() error {
	if img.closer == nil {
		return nil
	}
	return img.closer.Close()
}

func (img *Image) Size() int64 {
	return img.size
}

func (img *Image) Layout() Layout {
	return img.layout
}

func (img *Image) Sides() int {
	return img.layout.Sides()
}

// ReadBytes fills buf with len(buf) bytes starting at startSector on side.
func (img *Image) ReadBytes(side Side, startSector int, buf []byte) error {
	extents, err := img.layout.Extents(side, startSector, len(buf))
	if err != nil {
		return err
	}
	ptr := 0
	for _, e := range extents {
		if err := img.checkExtent(e); err != nil {
			return fmt.Errorf("ReadBytes: side %d sector %d: %w", side, startSector, err)
		}
		// log.Trace().Msgf("ReadBytes: %d bytes at offset %d", e.Length, e.Offset)
		if _, err := img.dev.ReadAt(buf[ptr:ptr+e.Length], e.Offset); err != nil {
			return fmt.Errorf("ReadBytes: reading %d bytes at offset %d: %w", e.Length, e.Offset, err)
		}
		ptr += e.Length
	}
	return nil
}

// WriteBytes stores buf starting at startSector on side.
func (img *Image) WriteBytes(side Side, startSector int, buf []byte) error {
	extents, err := img.layout.Extents(side, startSector, len(buf))
	if err != nil {
		return err
	}
	ptr := 0
	for _, e := range extents {
		if err := img.checkExtent(e); err != nil {
			return fmt.Errorf("WriteBytes: side %d sector %d: %w", side, startSector, err)
		}
		if _, err := img.dev.WriteAt(buf[ptr:ptr+e.Length], e.Offset); err != nil {
			return fmt.Errorf("WriteBytes: writing %d bytes at offset %d: %w", e.Length, e.Offset, err)
		}
		ptr += e.Length
	}
	return nil
}

func (img *Image) checkExtent(e Extent) error {
	if e.Offset+int64(e.Length) > img.size {
		return fmt.Errorf("%d bytes at offset %d, image has %d bytes: %w", e.Length, e.Offset, img.size, ErrOutOfRange)
	}
	return nil
}
