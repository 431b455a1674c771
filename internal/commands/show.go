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

package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/filesystem"
)

// Show prints the catalogue of every side of an image.
func Show(w io.Writer, imagePath string) error {
	img, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	sides, err := filesystem.OpenAll(img)
	if err != nil {
		return err
	}
	for i, fs := range sides {
		if len(sides) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "Side %d\n", fs.Side())
		}
		cat := fs.Catalogue()
		WriteCatalogue(w, &cat)
		for _, p := range fs.Problems() {
			log.Warn().Msgf("Side %d: %s", fs.Side(), p)
		}
	}
	return nil
}

// FreeSectors returns the sectors neither used by the catalogue nor by any
// file. Overlapping files are counted twice.
func FreeSectors(cat *dfs.Catalogue) int {
	used := dfs.CatalogueSectors
	for i := range cat.Entries {
		used += cat.Entries[i].Sectors()
	}
	return cat.DiscSize.Sectors() - used
}

func WriteCatalogue(w io.Writer, cat *dfs.Catalogue) {
	const label = "%-13s: "
	free := FreeSectors(cat)
	fmt.Fprintf(w, label+"%s\n", "Title", cat.Title)
	fmt.Fprintf(w, label+"%s\n", "Cycle number", cat.CycleNumber)
	fmt.Fprintf(w, label+"%d\n", "File count", cat.FileCount())
	fmt.Fprintf(w, label+"%s\n", "Boot option", cat.BootOption)
	fmt.Fprintf(w, label+"%d\n", "Total sectors", cat.DiscSize.Sectors())
	fmt.Fprintf(w, label+"%d (%d bytes)\n", "Free sectors", free, free*dfs.SectorBytes)
	fmt.Fprintln(w, "Files:")
	for _, e := range cat.SortedEntries() {
		locked := ""
		if e.Locked {
			locked = " L"
		}
		fmt.Fprintf(w, "  %s.%-7s %s %s %s %s%s\n", e.Directory, e.FileName, e.LoadAddress, e.ExecutionAddress, e.Length, e.StartSector, locked)
	}
}
