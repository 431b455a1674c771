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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/basic"
	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/manifest"
)

// Addresses given to files that look like tokenized programs: PAGE &1900 on
// the I/O processor, and the BASIC language entry point.
const (
	programLoadAddress = 0x31900
	programExecAddress = basic.ExecutionAddress
)

const untitled = "Untitled"

type pathRecord struct {
	dir  dfs.Directory
	name dfs.FileName
	path string
}

// Manifest writes a manifest for the files in dir. Files whose names are not
// valid DFS paths are skipped. If outputPath is empty, the manifest is
// written to <dir>/<dir name>.json.
func Manifest(dir, outputPath string, overwrite bool) error {
	dir = filepath.Clean(dir)
	dirName := filepath.Base(dir)
	if outputPath == "" {
		outputPath = filepath.Join(dir, dirName+".json")
	}
	manifestDir := filepath.Dir(outputPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var infFiles []pathRecord
	var files []manifest.File
	for _, de := range entries {
		if !de.Type().IsRegular() {
			continue
		}
		p := filepath.Join(dir, de.Name())
		if sameFile(p, outputPath) {
			continue
		}

		if strings.HasSuffix(de.Name(), manifest.InfExt) {
			content := manifest.ContentPath(p)
			if fi, err := os.Stat(content); err != nil || !fi.Mode().IsRegular() {
				log.Warn().Msgf("Skipping %s, content file %s doesn't exist", p, content)
				continue
			}
			d, n, err := dfs.ParsePath(filepath.Base(content))
			if err != nil {
				log.Warn().Msgf("Skipping %s, %s is not a valid DFS file name", p, filepath.Base(content))
				continue
			}
			rel, err := filepath.Rel(manifestDir, p)
			if err != nil {
				return err
			}
			infFiles = append(infFiles, pathRecord{dir: d, name: n, path: filepath.ToSlash(rel)})
			continue
		}

		if _, err := os.Stat(manifest.InfPath(p)); err == nil {
			// Described by its .inf file.
			continue
		}
		d, n, err := dfs.ParsePath(de.Name())
		if err != nil {
			log.Warn().Msgf("Skipping %s, not a valid DFS file name", p)
			continue
		}
		rel, err := filepath.Rel(manifestDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		f := manifest.File{
			FileName:    n.String(),
			Directory:   d.String(),
			ContentPath: filepath.ToSlash(rel),
			Type:        manifest.FileTypeOther,
		}
		if basic.HasEndMarker(data) {
			f.Type = manifest.FileTypeBbcBasic
			f.LoadAddress = programLoadAddress
			f.ExecutionAddress = programExecAddress
		}
		files = append(files, f)
	}

	slices.SortFunc(infFiles, func(a, b pathRecord) int {
		return dfs.ComparePaths(a.dir, a.name, b.dir, b.name)
	})
	slices.SortFunc(files, func(a, b manifest.File) int {
		return compareFiles(&a, &b)
	})

	m := manifest.New()
	title := untitled
	if _, err := dfs.NewDiscTitle(dirName); err == nil {
		title = dirName
	}
	m.DiscTitle = &title
	for _, r := range infFiles {
		m.InfFiles = append(m.InfFiles, r.path)
	}
	m.Files = files

	out, err := openForWrite(outputPath, overwrite)
	if err != nil {
		return err
	}
	if err := m.Write(out); err != nil {
		out.Close()
		return err
	}
	log.Info().Msgf("Wrote manifest %s with %d file(s)", outputPath, len(infFiles)+len(files))
	return out.Close()
}

func compareFiles(a, b *manifest.File) int {
	// Names have been validated when the records were built.
	da, _ := dfs.NewDirectory(a.Directory[0])
	db, _ := dfs.NewDirectory(b.Directory[0])
	na, _ := dfs.NewFileName(a.FileName)
	nb, _ := dfs.NewFileName(b.FileName)
	return dfs.ComparePaths(da, na, db, nb)
}

func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}
