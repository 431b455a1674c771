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

import "bytes"

type LineEnding int

const (
	LF   LineEnding = iota // POSIX, and the default if nothing else can be guessed
	CR                     // *BUILD
	LFCR                   // *SPOOL
	CRLF                   // Windows
)

const (
	cr = 0x0D
	lf = 0x0A
)

func (le LineEnding) String() string {
	switch le {
	case CR:
		return "CR"
	case LFCR:
		return "LFCR"
	case CRLF:
		return "CRLF"
	}
	return "LF"
}

func (le LineEnding) separator() []byte {
	switch le {
	case CR:
		return []byte{cr}
	case LFCR:
		return []byte{lf, cr}
	case CRLF:
		return []byte{cr, lf}
	}
	return []byte{lf}
}

// GuessLineEnding looks at the first line break in b.
func GuessLineEnding(b []byte) LineEnding {
	for i := 1; i < len(b); i++ {
		switch b[i-1] {
		case cr:
			if b[i] == lf {
				return CRLF
			}
			return CR
		case lf:
			if b[i] == cr {
				return LFCR
			}
			return LF
		}
	}
	if len(b) > 0 && b[len(b)-1] == cr {
		return CR
	}
	return LF
}

// SplitLines splits b at le. A final line without terminator is returned as well.
func SplitLines(b []byte, le LineEnding) [][]byte {
	lines := bytes.Split(b, le.separator())
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
