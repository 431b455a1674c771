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
	"fmt"
	"strings"
)

const (
	MaxU18 = 1<<18 - 1
	MaxU10 = 1<<10 - 1

	MinDiscSize     = 2
	DefaultDiscSize = 800

	MaxCycleNumber = 99
)

// U18 is an unsigned 18 bit value: load and execution addresses, file lengths.
type U18 struct {
	v uint32
}

func NewU18(v uint32) (U18, error) {
	if v > MaxU18 {
		return U18{}, valueError("18-bit value", fmt.Sprintf("0x%X", v), "out of range")
	}
	return U18{v}, nil
}

func MustU18(v uint32) U18 {
	u, err := NewU18(v)
	if err != nil {
		panic(err)
	}
	return u
}

func (u U18) Value() uint32 {
	return u.v
}

func (u U18) String() string {
	return fmt.Sprintf("%06X", u.v)
}

// U10 is an unsigned 10 bit value: sector numbers.
type U10 struct {
	v uint16
}

func NewU10(v uint16) (U10, error) {
	if v > MaxU10 {
		return U10{}, valueError("10-bit value", fmt.Sprintf("0x%X", v), "out of range")
	}
	return U10{v}, nil
}

func MustU10(v uint16) U10 {
	u, err := NewU10(v)
	if err != nil {
		panic(err)
	}
	return u
}

func (u U10) Value() uint16 {
	return u.v
}

func (u U10) String() string {
	return fmt.Sprintf("%03X", u.v)
}

// DiscSize is the total number of sectors on one side of a disc.
type DiscSize struct {
	v uint16
}

func NewDiscSize(v uint16) (DiscSize, error) {
	if v < MinDiscSize || v > MaxU10 {
		return DiscSize{}, valueError("disc size", v, fmt.Sprintf("must be in %d..%d", MinDiscSize, MaxU10))
	}
	return DiscSize{v}, nil
}

func MustDiscSize(v uint16) DiscSize {
	s, err := NewDiscSize(v)
	if err != nil {
		panic(err)
	}
	return s
}

func (s DiscSize) Sectors() int {
	return int(s.v)
}

func (s DiscSize) String() string {
	return fmt.Sprintf("%d", s.v)
}

// CycleNumber counts catalogue writes; it is stored as two BCD digits.
type CycleNumber struct {
	v uint8
}

func NewCycleNumber(v uint8) (CycleNumber, error) {
	if v > MaxCycleNumber {
		return CycleNumber{}, valueError("cycle number", v, "must be in 0..99")
	}
	return CycleNumber{v}, nil
}

func (c CycleNumber) Value() uint8 {
	return c.v
}

func (c CycleNumber) String() string {
	return fmt.Sprintf("%d", c.v)
}

func fromBCD(b byte) (uint8, bool) {
	hi, lo := b>>4, b&0x0F
	if hi > 9 || lo > 9 {
		return 0, false
	}
	return hi*10 + lo, true
}

func toBCD(v uint8) byte {
	return (v/10)<<4 | v%10
}

type BootOption uint8

const (
	BootNone BootOption = 0
	BootLoad BootOption = 1
	BootRun  BootOption = 2
	BootExec BootOption = 3
)

var bootOptionNames = [...]string{"none", "load", "run", "exec"}

func (b BootOption) String() string {
	if int(b) < len(bootOptionNames) {
		return bootOptionNames[b]
	}
	return fmt.Sprintf("BootOption(%d)", uint8(b))
}

func ParseBootOption(s string) (BootOption, error) {
	for i, name := range bootOptionNames {
		if strings.EqualFold(s, name) {
			return BootOption(i), nil
		}
	}
	return BootNone, valueError("boot option", s, "must be one of none, load, run, exec")
}

func (b BootOption) MarshalText() ([]byte, error) {
	if int(b) >= len(bootOptionNames) {
		return nil, valueError("boot option", uint8(b), "out of range")
	}
	return []byte(bootOptionNames[b]), nil
}

func (b *BootOption) UnmarshalText(text []byte) error {
	v, err := ParseBootOption(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// SectorCount returns the number of sectors needed to hold length bytes.
func SectorCount(length U18) int {
	return int((length.v + SectorBytes - 1) / SectorBytes)
}
