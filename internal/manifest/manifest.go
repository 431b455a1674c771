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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/asig/dfsit/internal/dfs"
)

const Version = 1

var ErrUnsupportedVersion = errors.New("unsupported manifest version")

type FileType string

const (
	FileTypeBbcBasic FileType = "BbcBasic"
	FileTypeOther    FileType = "Other"
)

// File describes one file of a disc side and where its content lives,
// relative to the manifest.
type File struct {
	FileName         string   `json:"fileName"`
	Directory        string   `json:"directory"`
	Locked           bool     `json:"locked"`
	LoadAddress      uint32   `json:"loadAddress"`
	ExecutionAddress uint32   `json:"executionAddress"`
	ContentPath      string   `json:"contentPath"`
	Type             FileType `json:"type"`
}

// Manifest describes the catalogue of one disc side. Files whose attributes
// are kept in .inf sidecars are listed in InfFiles instead of Files.
type Manifest struct {
	Version     *int           `json:"version,omitempty"`
	DiscTitle   *string        `json:"discTitle,omitempty"`
	DiscSize    uint16         `json:"discSize"`
	BootOption  dfs.BootOption `json:"bootOption"`
	CycleNumber uint8          `json:"cycleNumber"`
	InfFiles    []string       `json:"infFiles,omitempty"`
	Files       []File         `json:"files,omitempty"`
}

func New() *Manifest {
	v := Version
	return &Manifest{
		Version:  &v,
		DiscSize: dfs.DefaultDiscSize,
	}
}

// Read decodes a manifest. A missing disc size defaults to 800 sectors; a
// missing version is accepted.
func Read(r io.Reader) (*Manifest, error) {
	m := &Manifest{DiscSize: dfs.DefaultDiscSize}
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("can't decode manifest: %w", err)
	}
	if m.Version != nil && *m.Version != Version {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedVersion, *m.Version)
	}
	return m, nil
}

func ReadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// FromCatalogue returns a manifest carrying the disc attributes of cat,
// without any files.
func FromCatalogue(cat *dfs.Catalogue) *Manifest {
	m := New()
	title := cat.Title.String()
	m.DiscTitle = &title
	m.DiscSize = uint16(cat.DiscSize.Sectors())
	m.BootOption = cat.BootOption
	m.CycleNumber = cat.CycleNumber.Value()
	return m
}

// Catalogue returns an empty catalogue with the disc attributes of the manifest.
func (m *Manifest) Catalogue() (*dfs.Catalogue, error) {
	var title dfs.DiscTitle
	if m.DiscTitle != nil {
		t, err := dfs.NewDiscTitle(*m.DiscTitle)
		if err != nil {
			return nil, err
		}
		title = t
	}
	size, err := dfs.NewDiscSize(m.DiscSize)
	if err != nil {
		return nil, err
	}
	cycle, err := dfs.NewCycleNumber(m.CycleNumber)
	if err != nil {
		return nil, err
	}
	cat := dfs.NewCatalogue(title, m.BootOption, size)
	cat.CycleNumber = cycle
	return cat, nil
}

// NewFile describes the catalogue entry e stored at contentPath.
func NewFile(e dfs.CatalogueEntry, contentPath string, t FileType) File {
	return File{
		FileName:         e.FileName.String(),
		Directory:        e.Directory.String(),
		Locked:           e.Locked,
		LoadAddress:      e.LoadAddress.Value(),
		ExecutionAddress: e.ExecutionAddress.Value(),
		ContentPath:      contentPath,
		Type:             t,
	}
}

// Entry returns the catalogue attributes of f. Length and start sector are
// left zero.
func (f *File) Entry() (dfs.CatalogueEntry, error) {
	var e dfs.CatalogueEntry
	var err error
	if e.FileName, err = dfs.NewFileName(f.FileName); err != nil {
		return e, err
	}
	if len(f.Directory) != 1 {
		return e, fmt.Errorf("%s: invalid directory %q", f.FileName, f.Directory)
	}
	if e.Directory, err = dfs.NewDirectory(f.Directory[0]); err != nil {
		return e, err
	}
	if e.LoadAddress, err = dfs.NewU18(f.LoadAddress); err != nil {
		return e, fmt.Errorf("%s.%s: load address: %w", f.Directory, f.FileName, err)
	}
	if e.ExecutionAddress, err = dfs.NewU18(f.ExecutionAddress); err != nil {
		return e, fmt.Errorf("%s.%s: execution address: %w", f.Directory, f.FileName, err)
	}
	e.Locked = f.Locked
	return e, nil
}
