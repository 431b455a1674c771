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
	"fmt"
	"strings"
)

func hexLine(data []byte, length int) string {
	var hex, ascii strings.Builder
	for i := 0; i < length; i++ {
		if i < len(data) {
			fmt.Fprintf(&hex, "%02x ", data[i])
			if IsPrintable(data[i]) {
				ascii.WriteByte(data[i])
			} else {
				ascii.WriteByte('.')
			}
		} else {
			hex.WriteString("   ")
			ascii.WriteByte(' ')
		}
	}
	return hex.String() + "| " + ascii.String()
}

// HexDump formats len bytes of data starting at start, 16 bytes per line.
// Addresses are printed relative to base.
func HexDump(data []byte, base, start, len int) string {
	var res strings.Builder
	for len > 0 {
		n := 16
		if len < n {
			n = len
		}
		fmt.Fprintf(&res, "%06x: %s\n", base+start, hexLine(data[start:start+n], 16))
		start += n
		len -= n
	}
	return res.String()
}
