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

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/asig/dfsit/internal/dfs"
)

const InfExt = ".inf"

const (
	accessLocked   = 0x08
	accessUnlocked = 0x00
)

var ErrInvalidInf = errors.New("invalid .inf file")

// InfPath returns the sidecar path for a content file.
func InfPath(contentPath string) string {
	return contentPath + InfExt
}

// ContentPath returns the content file a sidecar belongs to.
func ContentPath(infPath string) string {
	return strings.TrimSuffix(infPath, InfExt)
}

// WriteInf writes the sidecar line for e:
//
//	D.NAME LLLLLL EEEEEE SSSSSS AA DDDD
//
// Addresses and length are hex, AA is the access byte (08 if locked) and DDDD
// is the date, which is always 0000.
func WriteInf(w io.Writer, e dfs.CatalogueEntry) error {
	access := accessUnlocked
	if e.Locked {
		access = accessLocked
	}
	fields := []string{
		e.Path(),
		e.LoadAddress.String(),
		e.ExecutionAddress.String(),
		e.Length.String(),
		fmt.Sprintf("%02X", access),
		"0000",
	}

	var buf bytes.Buffer
	for i, f := range fields {
		for _, c := range []byte(f) {
			if c >= 0x80 || c < 0x20 || c == 0x7F || c == '"' {
				return fmt.Errorf("%w: can't encode %q", ErrInvalidInf, f)
			}
		}
		if i > 0 {
			buf.WriteByte(' ')
		}
		if strings.Contains(f, " ") {
			buf.WriteString(`"` + f + `"`)
		} else {
			buf.WriteString(f)
		}
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func WriteInfFile(path string, e dfs.CatalogueEntry, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	if err := WriteInf(f, e); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadInf parses a sidecar. The length field is ignored, the content file
// determines the length. The access field is locked if it is "L" or has bit
// 3 set.
func ReadInf(r io.Reader) (dfs.CatalogueEntry, error) {
	var e dfs.CatalogueEntry
	b, err := io.ReadAll(r)
	if err != nil {
		return e, err
	}
	fields := splitFields(string(b))
	if len(fields) < 6 {
		return e, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidInf, len(fields))
	}

	if e.Directory, e.FileName, err = dfs.ParsePath(fields[0]); err != nil {
		return e, fmt.Errorf("%w: %w", ErrInvalidInf, err)
	}
	if e.LoadAddress, err = parseU18(fields[1]); err != nil {
		return e, fmt.Errorf("%w: load address: %w", ErrInvalidInf, err)
	}
	if e.ExecutionAddress, err = parseU18(fields[2]); err != nil {
		return e, fmt.Errorf("%w: execution address: %w", ErrInvalidInf, err)
	}
	if fields[4] == "L" {
		e.Locked = true
	} else {
		access, err := strconv.ParseUint(fields[4], 16, 8)
		if err != nil {
			return e, fmt.Errorf("%w: access: %w", ErrInvalidInf, err)
		}
		e.Locked = access&accessLocked != 0
	}
	return e, nil
}

func ReadInfFile(path string) (dfs.CatalogueEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return dfs.CatalogueEntry{}, err
	}
	defer f.Close()

	e, err := ReadInf(f)
	if err != nil {
		return e, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

func parseU18(s string) (dfs.U18, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return dfs.U18{}, err
	}
	return dfs.NewU18(uint32(v))
}

// splitFields splits s at white space. A field starting with '"' extends to
// the next '"' and may contain spaces.
func splitFields(s string) []string {
	var fields []string
	for i := 0; i < len(s); {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '"':
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				fields = append(fields, s[i+1:])
				return fields
			}
			fields = append(fields, s[i+1:i+1+end])
			i += end + 2
		default:
			end := strings.IndexFunc(s[i:], unicode.IsSpace)
			if end < 0 {
				fields = append(fields, s[i:])
				return fields
			}
			fields = append(fields, s[i:i+end])
			i += end
		}
	}
	return fields
}
