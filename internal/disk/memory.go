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
	"io"
)

// Memory is a Device backed by a byte slice of fixed size.
type Memory []byte

func (m Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m)) {
		return 0, fmt.Errorf("memory device: offset %d out of range", off)
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m)) {
		return 0, fmt.Errorf("memory device: %d bytes at offset %d out of range", len(p), off)
	}
	return copy(m[off:], p), nil
}

// NewMemoryImage creates a zero filled image large enough to hold
// sectorsPerSide sectors on every side of the layout.
func NewMemoryImage(layout Layout, sectorsPerSide int) (*Image, Memory) {
	m := make(Memory, layout.StreamBytes(sectorsPerSide))
	return NewImage(m, int64(len(m)), layout), m
}
