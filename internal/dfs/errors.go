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
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrCapacityExceeded = errors.New("exceeded capacity of disc")
	ErrCatalogueFull    = errors.New("catalogue full")
	ErrNotCatalogue     = errors.New("not a DFS catalogue")
)

// FormatError describes a field of the catalogue that violates the on-disk layout.
// Offset is relative to the start of the catalogue (sector 1 starts at 256), or -1
// if the value did not come from catalogue bytes.
type FormatError struct {
	Field  string
	Offset int
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("invalid %s %s: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s at catalogue offset 0x%03X: %s", e.Field, e.Value, e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

func byteError(field string, offset int, value byte, reason string) error {
	return &FormatError{Field: field, Offset: offset, Value: fmt.Sprintf("0x%02X", value), Reason: reason}
}

func valueError(field string, value any, reason string) error {
	return &FormatError{Field: field, Offset: -1, Value: fmt.Sprintf("%v", value), Reason: reason}
}
