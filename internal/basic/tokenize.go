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
	"fmt"
	"io"
)

type tokenizerState int

const (
	stateOther tokenizerState = iota
	stateComment
	stateLineNumber
	numStates
)

func (s tokenizerState) String() string {
	switch s {
	case stateComment:
		return "Comment"
	case stateLineNumber:
		return "LineNumber"
	}
	return "Other"
}

// What was just written to the output.
type tokenClass int

const (
	classKeyword          tokenClass = iota // any keyword not listed below
	classRem                                // REM
	classLineNumberPrefix                   // GOTO, GOSUB, THEN, ELSE
	classLineNumberRef                      // encoded line number
	classRaw                                // unmatched letters
	numClasses
)

var transitions = [numStates][numClasses]tokenizerState{
	stateOther: {
		classKeyword:          stateOther,
		classRem:              stateComment,
		classLineNumberPrefix: stateLineNumber,
		classLineNumberRef:    stateOther,
		classRaw:              stateOther,
	},
	stateLineNumber: {
		classKeyword:          stateOther,
		classRem:              stateComment,
		classLineNumberPrefix: stateLineNumber,
		classLineNumberRef:    stateOther,
		classRaw:              stateOther,
	},
	stateComment: {
		classKeyword:          stateComment,
		classRem:              stateComment,
		classLineNumberPrefix: stateComment,
		classLineNumberRef:    stateComment,
		classRaw:              stateComment,
	},
}

func classOf(token byte) tokenClass {
	switch token {
	case TokenRem:
		return classRem
	case TokenGoto, TokenGosub, TokenThen, TokenElse:
		return classLineNumberPrefix
	}
	return classKeyword
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

type lineTokenizer struct {
	src   []byte
	pos   int
	out   []byte
	state tokenizerState
}

func (t *lineTokenizer) commit(class tokenClass) {
	t.state = transitions[t.state][class]
}

// tokenizeLine tokenizes the content of a single line, without line number.
func tokenizeLine(src []byte) ([]byte, error) {
	t := &lineTokenizer{src: src, state: stateOther}
	for t.pos < len(t.src) {
		if t.state == stateComment {
			t.out = append(t.out, t.src[t.pos:]...)
			break
		}
		c := t.src[t.pos]
		switch {
		case c == '"':
			t.copyString()
		case isDigit(c) && t.state == stateLineNumber:
			if err := t.lineNumberRef(); err != nil {
				return nil, err
			}
		case isDigit(c):
			t.copyNumber()
		case isAlpha(c):
			t.keywords()
		default:
			t.out = append(t.out, c)
			t.pos++
		}
	}
	return t.out, nil
}

func (t *lineTokenizer) copyString() {
	end := t.pos + 1
	for end < len(t.src) && t.src[end] != '"' {
		end++
	}
	if end < len(t.src) {
		end++
	}
	t.out = append(t.out, t.src[t.pos:end]...)
	t.pos = end
}

func (t *lineTokenizer) copyNumber() {
	end := t.pos
	for end < len(t.src) && (isDigit(t.src[end]) || t.src[end] == '.') {
		end++
	}
	t.out = append(t.out, t.src[t.pos:end]...)
	t.pos = end
}

func (t *lineTokenizer) lineNumberRef() error {
	n, end, err := parseNumber(t.src, t.pos)
	if err != nil {
		return err
	}
	b0, b1, b2 := EncodeLineNumber(n)
	t.out = append(t.out, TokenLineNumber, b0, b1, b2)
	t.pos = end
	t.commit(classLineNumberRef)
	return nil
}

type tokenRun struct {
	index int
	token byte
}

// keywords tokenizes a run of letters, '$' and '('. Segments are extended as
// long as the longer text still is a keyword, so that "ENDPROC" becomes one
// token instead of END and PROC.
func (t *lineTokenizer) keywords() {
	end := t.pos + 1
	for end < len(t.src) && (isAlpha(t.src[end]) || t.src[end] == '$' || t.src[end] == '(') {
		end++
	}
	s := string(t.src[t.pos:end])
	t.pos = end

	var runs []tokenRun
	start := 0
	for i := 0; i <= len(s); i++ {
		if len(runs) > 0 {
			last := &runs[len(runs)-1]
			if token, ok := Token(s[last.index:i]); ok {
				last.token = token
				start = i
				continue
			}
		}
		if token, ok := Token(s[start:i]); ok {
			runs = append(runs, tokenRun{index: start, token: token})
			start = i
		}
	}

	for i, run := range runs {
		t.out = append(t.out, run.token)
		t.commit(classOf(run.token))
		if t.state == stateComment {
			runEnd := start
			if i+1 < len(runs) {
				runEnd = runs[i+1].index
			}
			t.out = append(t.out, s[runEnd:]...)
			return
		}
	}
	if start < len(s) {
		t.out = append(t.out, s[start:]...)
		t.commit(classRaw)
	}
}

// parseNumber parses the decimal number starting at b[pos], which must be a digit.
func parseNumber(b []byte, pos int) (uint16, int, error) {
	var n uint32
	end := pos
	for end < len(b) && isDigit(b[end]) {
		n = n*10 + uint32(b[end]-'0')
		if n > 0xFFFF {
			return 0, end, fmt.Errorf("%w: %s... does not fit into 16 bits", ErrLineNumber, b[pos:end+1])
		}
		end++
	}
	return uint16(n), end, nil
}

func parseLineNumber(line []byte) (uint16, []byte, error) {
	pos := 0
	for pos < len(line) && isSpace(line[pos]) {
		pos++
	}
	if pos >= len(line) || !isDigit(line[pos]) {
		return 0, nil, fmt.Errorf("%w: line number missing", ErrLineNumber)
	}
	n, end, err := parseNumber(line, pos)
	if err != nil {
		return 0, nil, err
	}
	if n > MaxLineNumber {
		return 0, nil, fmt.Errorf("%w: %d is greater than %d", ErrLineNumber, n, MaxLineNumber)
	}
	return n, line[end:], nil
}

func isBlank(line []byte) bool {
	for _, c := range line {
		if !isSpace(c) {
			return false
		}
	}
	return true
}

// ParseSource tokenizes BASIC source text. Every non-blank line must start
// with a line number. If requireASCII is set, bytes >= 0x80 are rejected.
func ParseSource(src []byte, requireASCII bool) (*Program, error) {
	p := &Program{}
	for i, line := range SplitLines(src, GuessLineEnding(src)) {
		if isBlank(line) {
			continue
		}
		if requireASCII {
			for col, c := range line {
				if c >= 0x80 {
					return nil, fmt.Errorf("source line %d, column %d: %w: 0x%02X", i+1, col+1, ErrNonASCII, c)
				}
			}
		}
		number, content, err := parseLineNumber(line)
		if err != nil {
			return nil, fmt.Errorf("source line %d: %w", i+1, err)
		}
		payload, err := tokenizeLine(content)
		if err != nil {
			return nil, fmt.Errorf("source line %d: %w", i+1, err)
		}
		if lineHeaderBytes+len(payload) > maxLineBytes {
			return nil, fmt.Errorf("source line %d: %w: %d bytes", i+1, ErrLineTooLong, lineHeaderBytes+len(payload))
		}
		p.Lines = append(p.Lines, Line{Number: number, Payload: payload})
	}
	return p, nil
}

// Tokenize writes the tokenized form of the BASIC source src to w.
func Tokenize(w io.Writer, src []byte, requireASCII bool) error {
	p, err := ParseSource(src, requireASCII)
	if err != nil {
		return err
	}
	b, err := p.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
