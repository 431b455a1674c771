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
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/basic"
	"github.com/asig/dfsit/internal/filesystem"
	"github.com/asig/dfsit/internal/manifest"
)

const (
	LossyBasicExt    = ".bas"
	LosslessBasicExt = ".lbas"
)

type ExtractOptions struct {
	Overwrite  bool
	Detokenize bool
	Lossless   bool
	Inf        bool
}

// Extract writes the files of every side of an image to outputDir, together
// with a manifest per side. Double sided images get a "side<N>" directory
// per side.
func Extract(imagePath, outputDir string, opts ExtractOptions) error {
	img, err := openImage(imagePath)
	if err != nil {
		return err
	}
	defer img.Close()

	sides, err := filesystem.OpenAll(img)
	if err != nil {
		return err
	}
	doubleSided := len(sides) > 1
	for _, fs := range sides {
		dir := outputDir
		manifestName := stem(imagePath) + ".json"
		if doubleSided {
			dir = filepath.Join(outputDir, fmt.Sprintf("side%d", fs.Side()))
			manifestName = fmt.Sprintf("%s-side%d.json", stem(imagePath), fs.Side())
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := extractSide(fs, dir, filepath.Join(dir, manifestName), opts); err != nil {
			return err
		}
	}
	return nil
}

func extractSide(fs *filesystem.FileSystem, dir, manifestPath string, opts ExtractOptions) error {
	cat := fs.Catalogue()
	m := manifest.FromCatalogue(&cat)

	files, err := fs.ListFiles(filesystem.AllFiles)
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := f.ReadAll()
		if err != nil {
			return fmt.Errorf("can't read %s: %w", f.Path(), err)
		}
		contentPath := filepath.Join(dir, f.Name())
		if err := writeFile(contentPath, data, opts.Overwrite); err != nil {
			return err
		}
		log.Info().Msgf("Extracted %s (%d bytes) to %s", f.Path(), len(data), contentPath)

		e := f.Entry()
		fileType := manifest.FileTypeOther
		if basic.LooksLikeProgram(e.ExecutionAddress.Value(), data) {
			fileType = manifest.FileTypeBbcBasic
			if opts.Detokenize {
				// A file can look like a program without being one.
				if err := detokenizeFile(contentPath, data, opts); err != nil {
					log.Warn().Err(err).Msgf("Can't detokenize %s, skipping it", f.Path())
				}
			}
		}

		if opts.Inf {
			infPath := manifest.InfPath(contentPath)
			if err := manifest.WriteInfFile(infPath, e, opts.Overwrite); err != nil {
				return err
			}
			m.InfFiles = append(m.InfFiles, filepath.Base(infPath))
		} else {
			m.Files = append(m.Files, manifest.NewFile(e, f.Name(), fileType))
		}
	}

	out, err := openForWrite(manifestPath, opts.Overwrite)
	if err != nil {
		return err
	}
	if err := m.Write(out); err != nil {
		out.Close()
		return err
	}
	log.Info().Msgf("Wrote manifest %s", manifestPath)
	return out.Close()
}

func detokenizeFile(contentPath string, data []byte, opts ExtractOptions) error {
	var buf bytes.Buffer
	if err := basic.Detokenize(&buf, data, opts.Lossless); err != nil {
		return err
	}
	ext := LossyBasicExt
	if opts.Lossless {
		ext = LosslessBasicExt
	}
	return writeFile(contentPath+ext, buf.Bytes(), opts.Overwrite)
}
