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

// BBC BASIC keyword tokens, see https://xania.org/200711/bbc-basic-v-format
const (
	TokenElse       = 0x8B
	TokenThen       = 0x8C
	TokenLineNumber = 0x8D
	TokenGosub      = 0xE4
	TokenGoto       = 0xE5
	TokenRem        = 0xF4

	lineStart = 0x0D
	endMarker = 0xFF
)

// keywords holds the text of tokens 0x80-0xFF. Empty entries are not valid
// tokens; 0x8D is decoded separately as a line number reference.
var keywords = [128]string{
	"AND", "DIV", "EOR", "MOD", "OR", "ERROR", "LINE", "OFF",
	"STEP", "SPC", "TAB(", "ELSE", "THEN", "", "OPENIN", "PTR",
	"PAGE", "TIME", "LOMEM", "HIMEM", "ABS", "ACS", "ADVAL", "ASC",
	"ASN", "ATN", "BGET", "COS", "COUNT", "DEG", "ERL", "ERR",
	"EVAL", "EXP", "EXT", "FALSE", "FN", "GET", "INKEY", "INSTR(",
	"INT", "LEN", "LN", "LOG", "NOT", "OPENUP", "OPENOUT", "PI",
	"POINT(", "POS", "RAD", "RND", "SGN", "SIN", "SQR", "TAN",
	"TO", "TRUE", "USR", "VAL", "VPOS", "CHR$", "GET$", "INKEY$",
	"LEFT$(", "MID$(", "RIGHT$(", "STR$", "STRING$(", "EOF", "", "",
	"", "WHEN", "OF", "ENDCASE", "ELSE", "ENDIF", "ENDWHILE", "PTR",
	"PAGE", "TIME", "LOMEM", "HIMEM", "SOUND", "BPUT", "CALL", "CHAIN",
	"CLEAR", "CLOSE", "CLG", "CLS", "DATA", "DEF", "DIM", "DRAW",
	"END", "ENDPROC", "ENVELOPE", "FOR", "GOSUB", "GOTO", "GCOL", "IF",
	"INPUT", "LET", "LOCAL", "MODE", "MOVE", "NEXT", "ON", "VDU",
	"PLOT", "PRINT", "PROC", "READ", "REM", "REPEAT", "REPORT", "RESTORE",
	"RETURN", "RUN", "STOP", "COLOUR", "TRACE", "UNTIL", "WIDTH", "OSCLI",
}

// Pseudo-variables have two tokens; the statement form is the one produced
// when tokenizing.
var statementForms = map[string]byte{
	"PTR":   0xCF,
	"PAGE":  0xD0,
	"TIME":  0xD1,
	"LOMEM": 0xD2,
	"HIMEM": 0xD3,
}

var tokensByName = func() map[string]byte {
	m := make(map[string]byte, len(keywords))
	for i, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, found := m[kw]; !found {
			m[kw] = byte(0x80 + i)
		}
	}
	for kw, t := range statementForms {
		m[kw] = t
	}
	return m
}()

// Keyword returns the text of token t.
func Keyword(t byte) (string, bool) {
	if t < 0x80 {
		return "", false
	}
	kw := keywords[t-0x80]
	return kw, kw != ""
}

// Token returns the token for keyword kw.
func Token(kw string) (byte, bool) {
	t, ok := tokensByName[kw]
	return t, ok
}
