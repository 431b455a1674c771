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

package dfs

import (
	"strings"

	"github.com/asig/dfsit/internal/util"
)

const (
	maxTitleLength    = 12
	maxFileNameLength = 7

	invalidFileNameChars = ".:\"#* "
)

func isTitleChar(c byte) bool {
	return c == 0 || !util.IsControl(c)
}

func isFileNameChar(c byte) bool {
	return util.IsPrintable(c) && !strings.ContainsRune(invalidFileNameChars, rune(c))
}

type DiscTitle struct {
	s string
}

func NewDiscTitle(s string) (DiscTitle, error) {
	if len(s) > maxTitleLength {
		return DiscTitle{}, valueError("disc title", s, "longer than 12 characters")
	}
	for i := 0; i < len(s); i++ {
		if !isTitleChar(s[i]) {
			return DiscTitle{}, valueError("disc title", s, "contains control character")
		}
	}
	return DiscTitle{s}, nil
}

func (t DiscTitle) String() string {
	return t.s
}

type FileName struct {
	s string
}

func NewFileName(s string) (FileName, error) {
	if len(s) == 0 || len(s) > maxFileNameLength {
		return FileName{}, valueError("file name", s, "must be 1 to 7 characters")
	}
	for i := 0; i < len(s); i++ {
		if !isFileNameChar(s[i]) {
			return FileName{}, valueError("file name", s, "contains invalid character")
		}
	}
	return FileName{s}, nil
}

func MustFileName(s string) FileName {
	n, err := NewFileName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n FileName) String() string {
	return n.s
}

// Directory is the single character DFS directory of a file; "$" is the root.
type Directory struct {
	c byte
}

var RootDirectory = Directory{'$'}

func NewDirectory(c byte) (Directory, error) {
	if !isFileNameChar(c) {
		return Directory{}, valueError("directory", string(rune(c)), "invalid character")
	}
	return Directory{c}, nil
}

func MustDirectory(c byte) Directory {
	d, err := NewDirectory(c)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Directory) Char() byte {
	if d.c == 0 {
		return RootDirectory.c
	}
	return d.c
}

func (d Directory) IsRoot() bool {
	return d.Char() == RootDirectory.c
}

func (d Directory) String() string {
	return string(rune(d.Char()))
}

// CompareDirectories orders the root directory before all others, the rest by
// character value.
func CompareDirectories(a, b Directory) int {
	ac, bc := a.Char(), b.Char()
	switch {
	case ac == bc:
		return 0
	case ac == '$':
		return -1
	case bc == '$':
		return 1
	case ac < bc:
		return -1
	}
	return 1
}

// ComparePaths orders files by directory, then by name.
func ComparePaths(da Directory, na FileName, db Directory, nb FileName) int {
	if c := CompareDirectories(da, db); c != 0 {
		return c
	}
	return strings.Compare(na.s, nb.s)
}

// ParsePath parses "D.NAME" or "NAME"; the latter is in the root directory.
func ParsePath(s string) (Directory, FileName, error) {
	dir := RootDirectory
	if len(s) >= 2 && s[1] == '.' {
		d, err := NewDirectory(s[0])
		if err != nil {
			return Directory{}, FileName{}, err
		}
		dir = d
		s = s[2:]
	}
	name, err := NewFileName(s)
	if err != nil {
		return Directory{}, FileName{}, err
	}
	return dir, name, nil
}

// HostName is the name used for a file on the host file system: root
// directory files are written without a directory prefix.
func HostName(d Directory, n FileName) string {
	if d.IsRoot() {
		return n.s
	}
	return d.String() + "." + n.s
}
