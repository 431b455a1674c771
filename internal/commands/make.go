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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/disk"
	"github.com/asig/dfsit/internal/filesystem"
	"github.com/asig/dfsit/internal/manifest"
)

// sideSpec is the content of one side of a new image. Relative content
// paths are resolved against dir.
type sideSpec struct {
	manifest *manifest.Manifest
	dir      string
}

type imageFile struct {
	attrs       dfs.CatalogueEntry
	contentPath string
}

// Make builds an image from one manifest per side. A double sided image
// built from a single manifest gets an empty catalogue on side 1.
func Make(manifestPaths []string, outputPath string, overwrite bool) error {
	var specs []sideSpec
	for _, p := range manifestPaths {
		m, err := manifest.ReadFile(p)
		if err != nil {
			return err
		}
		specs = append(specs, sideSpec{manifest: m, dir: filepath.Dir(p)})
	}
	return writeImage(outputPath, overwrite, specs)
}

// New creates an image with empty catalogues.
func New(outputPath string, size dfs.DiscSize, overwrite bool) error {
	m := manifest.New()
	m.DiscSize = uint16(size.Sectors())
	return writeImage(outputPath, overwrite, []sideSpec{{manifest: m, dir: filepath.Dir(outputPath)}})
}

func writeImage(outputPath string, overwrite bool, specs []sideSpec) error {
	layout, err := disk.LayoutForPath(outputPath)
	if err != nil {
		return err
	}
	if len(specs) == 0 || len(specs) > layout.Sides() {
		return fmt.Errorf("%s: can't write %d side(s) to an image with %d side(s)", outputPath, len(specs), layout.Sides())
	}
	for len(specs) < layout.Sides() {
		m := manifest.New()
		m.DiscSize = specs[0].manifest.DiscSize
		specs = append(specs, sideSpec{manifest: m})
	}

	sectors := 0
	for _, s := range specs {
		sectors = max(sectors, int(s.manifest.DiscSize))
	}
	img, mem := disk.NewMemoryImage(layout, sectors)
	for i, s := range specs {
		if err := buildSide(img, disk.Side(i), s); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	if err := writeFile(outputPath, mem, overwrite); err != nil {
		return err
	}
	log.Info().Msgf("Wrote image %s (%d bytes)", outputPath, len(mem))
	return nil
}

// buildSide formats a side and adds the files of the manifest: first the
// ones described by .inf files, in path order, then the others in directory
// and name order.
func buildSide(img *disk.Image, side disk.Side, s sideSpec) error {
	cat, err := s.manifest.Catalogue()
	if err != nil {
		return fmt.Errorf("side %d: %w", side, err)
	}

	var infFiles []imageFile
	for _, p := range slices.Sorted(slices.Values(s.manifest.InfFiles)) {
		p = resolve(s.dir, p)
		attrs, err := manifest.ReadInfFile(p)
		if err != nil {
			return err
		}
		infFiles = append(infFiles, imageFile{attrs: attrs, contentPath: manifest.ContentPath(p)})
	}

	var files []imageFile
	for _, f := range s.manifest.Files {
		attrs, err := f.Entry()
		if err != nil {
			return err
		}
		files = append(files, imageFile{attrs: attrs, contentPath: resolve(s.dir, f.ContentPath)})
	}
	slices.SortFunc(files, func(a, b imageFile) int {
		return a.attrs.Compare(&b.attrs)
	})

	fs, err := filesystem.Format(img, side, cat)
	if err != nil {
		return err
	}
	for _, f := range append(infFiles, files...) {
		data, err := os.ReadFile(f.contentPath)
		if err != nil {
			return err
		}
		if _, err := fs.AddFile(f.attrs, data); err != nil {
			return fmt.Errorf("side %d: %w", side, err)
		}
	}
	return fs.Close()
}

func resolve(dir, path string) string {
	path = filepath.FromSlash(strings.TrimSpace(path))
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
