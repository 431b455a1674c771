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

package util

import (
	"bytes"
)

func WriteLEUint16(b []byte, offset int, value uint16) {
	b[offset] = byte(value & 0xFF)
	b[offset+1] = byte((value >> 8) & 0xFF)
}

func ReadLEUint16(b []byte, offset int) uint16 {
	return uint16(b[offset]) | uint16(b[offset+1])<<8
}

func WriteBEUint16(b []byte, offset int, value uint16) {
	b[offset] = byte((value >> 8) & 0xFF)
	b[offset+1] = byte(value & 0xFF)
}

func ReadBEUint16(b []byte, offset int) uint16 {
	return uint16(b[offset])<<8 | uint16(b[offset+1])
}

// StringFromBytes returns b with any trailing bytes contained in cutset removed.
func StringFromBytes(b []byte, cutset string) string {
	return string(bytes.TrimRight(b, cutset))
}

// WriteFixedLengthString copies s to b[offset:] and fills the rest of the
// field with pad.
func WriteFixedLengthString(b []byte, offset int, length int, s string, pad byte) {
	copy(b[offset:offset+length], s)
	for i := len(s); i < length; i++ {
		b[offset+i] = pad
	}
}

// IsPrintable reports whether c is a printable 7-bit ASCII character.
func IsPrintable(c byte) bool {
	return c >= 0x20 && c < 0x7F
}

// IsControl reports whether c is an ASCII control character.
func IsControl(c byte) bool {
	return c < 0x20 || c == 0x7F
}
