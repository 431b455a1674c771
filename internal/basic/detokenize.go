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

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/asig/dfsit/internal/util"
)

// Detokenize writes the listing of the tokenized program b to w. In lossless
// mode, lines end with LF CR and all bytes are written unchanged; otherwise
// lines end with LF and non-printable bytes are dropped.
func Detokenize(w io.Writer, b []byte, lossless bool) error {
	p, err := ParseProgram(b)
	if err != nil {
		return err
	}
	return p.WriteText(w, lossless)
}

// WriteText writes the program listing to w, see Detokenize.
func (p *Program) WriteText(w io.Writer, lossless bool) error {
	bw := bufio.NewWriter(w)
	for _, l := range p.Lines {
		if err := writeLine(bw, l, lossless); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, l Line, lossless bool) error {
	out := make([]byte, 0, 2*len(l.Payload))
	out = fmt.Appendf(out, "%5d", l.Number)

	emit := func(c byte) {
		if lossless || util.IsPrintable(c) {
			out = append(out, c)
		}
	}

	payload := l.Payload
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		switch {
		case c == TokenLineNumber:
			if len(payload)-i-1 < 3 {
				return fmt.Errorf("%w: line %d: line number reference at offset %d", ErrUnexpectedEndOfData, l.Number, i)
			}
			n := DecodeLineNumber(payload[i+1], payload[i+2], payload[i+3])
			out = strconv.AppendUint(out, uint64(n), 10)
			i += 3
		case c&0x80 != 0:
			kw, ok := Keyword(c)
			if !ok {
				return fmt.Errorf("%w: 0x%02X in line %d at offset %d", ErrUnknownToken, c, l.Number, i)
			}
			out = append(out, kw...)
			if c == TokenRem {
				for _, c := range payload[i+1:] {
					emit(c)
				}
				i = len(payload)
			}
		default:
			emit(c)
		}
	}

	if lossless {
		out = append(out, lf, cr)
	} else {
		out = append(out, lf)
	}
	_, err := w.Write(out)
	return err
}
