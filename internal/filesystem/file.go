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

package filesystem

import (
	"io"

	"github.com/asig/dfsit/internal/dfs"
)

// File is a snapshot of a catalogue entry together with access to its data.
type File struct {
	fs    *FileSystem
	entry dfs.CatalogueEntry
}

func (f *File) Entry() dfs.CatalogueEntry {
	return f.entry
}

// Name returns the host name of the file: "NAME" for the root directory,
// "D.NAME" otherwise.
func (f *File) Name() string {
	return dfs.HostName(f.entry.Directory, f.entry.FileName)
}

// Path returns "D.NAME", including "$." for the root directory.
func (f *File) Path() string {
	return f.entry.Path()
}

func (f *File) Size() int {
	return int(f.entry.Length.Value())
}

func (f *File) Locked() bool {
	return f.entry.Locked
}

func (f *File) StartSector() int {
	return int(f.entry.StartSector.Value())
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	size := int64(f.Size())
	if off >= size {
		return 0, io.EOF
	}
	n := len(p)
	if int64(n) > size-off {
		n = int(size - off)
	}
	sector := f.StartSector() + int(off/dfs.SectorBytes)
	skip := int(off % dfs.SectorBytes)
	buf := make([]byte, skip+n)
	if err := f.fs.img.ReadBytes(f.fs.side, sector, buf); err != nil {
		return 0, err
	}
	copy(p, buf[skip:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadAll returns the complete content of the file.
func (f *File) ReadAll() ([]byte, error) {
	data := make([]byte, f.Size())
	if len(data) == 0 {
		return data, nil
	}
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return data, nil
}
