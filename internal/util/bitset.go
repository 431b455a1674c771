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

type BitSet []uint64

func NewBitSet(size int) BitSet {
	return make(BitSet, (size+63)/64)
}

func (b BitSet) Set(bit int) {
	b[bit/64] |= 1 << (bit % 64)
}

func (b BitSet) Clear(bit int) {
	b[bit/64] &^= 1 << (bit % 64)
}

func (b BitSet) Test(bit int) bool {
	return b[bit/64]&(1<<(bit%64)) != 0
}

// Count returns the number of set bits.
func (b BitSet) Count() int {
	n := 0
	for _, w := range b {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}
