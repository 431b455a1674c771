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
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/disk"
)

var (
	ErrNoImageInArchive       = errors.New("no disc image found in archive")
	ErrSeveralImagesInArchive = errors.New("more than one disc image found in archive")
)

// openForWrite creates path. An existing file is an error unless overwrite
// is set.
func openForWrite(path string, overwrite bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%s exists, use --overwrite to replace it: %w", path, err)
	}
	return f, err
}

func writeFile(path string, data []byte, overwrite bool) error {
	f, err := openForWrite(path, overwrite)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// stem returns the file name of path without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openImage opens an .ssd or .dsd image read-only. A .zip archive must
// contain exactly one image, which is read into memory.
func openImage(path string) (*disk.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return openImageInZip(path)
	}
	return disk.Open(path, false)
}

func openImageInZip(path string) (*disk.Image, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var found *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, err := disk.LayoutForPath(f.Name); err != nil {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%s: %w", path, ErrSeveralImagesInArchive)
		}
		found = f
	}
	if found == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoImageInArchive)
	}

	layout, _ := disk.LayoutForPath(found.Name)
	rc, err := found.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("%s: can't read %s: %w", path, found.Name, err)
	}
	log.Debug().Msgf("Read %s (%d bytes) from %s", found.Name, buf.Len(), path)
	return disk.NewImage(disk.Memory(buf.Bytes()), int64(buf.Len()), layout), nil
}
