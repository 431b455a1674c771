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
	"errors"
	"fmt"

	"github.com/asig/dfsit/internal/util"
)

var (
	ErrSyntax              = errors.New("syntax error")
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")
	ErrUnknownToken        = errors.New("unknown token")
	ErrLineNumber          = errors.New("invalid line number")
	ErrLineTooLong         = errors.New("line too long")
	ErrNonASCII            = errors.New("non-ASCII character in source")
)

// ExecutionAddress is the execution address BBC BASIC II stores for SAVEd programs.
const ExecutionAddress = 0x38023

const (
	lineHeaderBytes = 4
	maxLineBytes    = 0xFF

	// MaxLineNumber is the highest line number BBC BASIC accepts. A high
	// byte of 0xFF would read back as the end marker.
	MaxLineNumber = 32767
)

// Line is one tokenized program line.
type Line struct {
	Number  uint16
	Payload []byte
}

// Program is a tokenized BBC BASIC program. Each line is stored as
//
//	0x0D, line number (big endian), line length including this header, payload
//
// and the program ends with 0x0D, 0xFF.
type Program struct {
	Lines []Line
}

// ParseProgram splits tokenized program bytes into lines. Data after the end
// marker is ignored, and data ending at a line boundary without end marker
// is accepted.
func ParseProgram(b []byte) (*Program, error) {
	p := &Program{}
	pos := 0
	for pos < len(b) {
		if b[pos] != lineStart {
			return nil, fmt.Errorf("%w: expected 0x%02X at offset %d, got 0x%02X", ErrSyntax, lineStart, pos, b[pos])
		}
		if pos+1 >= len(b) {
			return nil, fmt.Errorf("%w: line header at offset %d", ErrUnexpectedEndOfData, pos)
		}
		if b[pos+1] == endMarker {
			break
		}
		if pos+lineHeaderBytes > len(b) {
			return nil, fmt.Errorf("%w: line header at offset %d", ErrUnexpectedEndOfData, pos)
		}
		number := util.ReadBEUint16(b, pos+1)
		length := int(b[pos+3])
		if length < lineHeaderBytes {
			return nil, fmt.Errorf("%w: line %d at offset %d has invalid length %d", ErrSyntax, number, pos, length)
		}
		if pos+length > len(b) {
			return nil, fmt.Errorf("%w: line %d at offset %d needs %d bytes, %d left", ErrUnexpectedEndOfData, number, pos, length, len(b)-pos)
		}
		p.Lines = append(p.Lines, Line{Number: number, Payload: b[pos+lineHeaderBytes : pos+length]})
		pos += length
	}
	return p, nil
}

// Bytes returns the tokenized form of the program, including the end marker.
func (p *Program) Bytes() ([]byte, error) {
	var res []byte
	for _, l := range p.Lines {
		if l.Number > MaxLineNumber {
			return nil, fmt.Errorf("%w: %d is greater than %d", ErrLineNumber, l.Number, MaxLineNumber)
		}
		length := lineHeaderBytes + len(l.Payload)
		if length > maxLineBytes {
			return nil, fmt.Errorf("%w: line %d has %d bytes", ErrLineTooLong, l.Number, length)
		}
		hdr := make([]byte, lineHeaderBytes)
		hdr[0] = lineStart
		util.WriteBEUint16(hdr, 1, l.Number)
		hdr[3] = byte(length)
		res = append(res, hdr...)
		res = append(res, l.Payload...)
	}
	return append(res, lineStart, endMarker), nil
}

// LooksLikeProgram reports whether a file with the given execution address
// and content is a tokenized BASIC program.
func LooksLikeProgram(execAddress uint32, content []byte) bool {
	return execAddress == ExecutionAddress && HasEndMarker(content)
}

// HasEndMarker reports whether content ends with the end-of-program marker.
func HasEndMarker(content []byte) bool {
	n := len(content)
	return n >= 2 && content[n-2] == lineStart && content[n-1] == endMarker
}
