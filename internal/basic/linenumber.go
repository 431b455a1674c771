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

package basic

// Line number references following GOTO, GOSUB, THEN and ELSE are stored as
// three bytes in the range 0x40-0x7F so that they can never be mistaken for
// a line start or a token. See https://xania.org/200711/bbc-basic-line-number-format

// EncodeLineNumber returns the three bytes following a 0x8D token for n.
func EncodeLineNumber(n uint16) (b0, b1, b2 byte) {
	hi := byte(n >> 8)
	lo := byte(n)
	top := (lo&0xC0)>>2 + (hi&0xC0)>>4
	return top ^ 0x54, lo&0x3F | 0x40, hi&0x3F | 0x40
}

// DecodeLineNumber is the inverse of EncodeLineNumber.
func DecodeLineNumber(b0, b1, b2 byte) uint16 {
	t0 := b0 ^ 0x54
	ll := (t0 >> 4) & 0b11
	hh := (t0 >> 2) & 0b11
	lo := b1&0x3F + ll<<6
	hi := b2&0x3F + hh<<6
	return uint16(hi)<<8 | uint16(lo)
}
