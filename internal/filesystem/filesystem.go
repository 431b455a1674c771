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

package filesystem

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/disk"
	"github.com/asig/dfsit/internal/util"
	"github.com/rs/zerolog/log"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileExists   = errors.New("file already exists")
	ErrFileLocked   = errors.New("file is locked")
)

// FileSystem is the catalogue and file data of one side of a disc image.
type FileSystem struct {
	img  *disk.Image
	side disk.Side

	sectorMapMutex       sync.RWMutex
	sectorReservationMap util.BitSet
	numUsedSectors       int

	filesMutex     sync.RWMutex
	catalogue      *dfs.Catalogue
	catalogueDirty bool
	bumpCycle      bool
}

// Open reads the catalogue of the given side. dfs.ErrNotCatalogue is returned
// if the catalogue sectors don't look like a DFS catalogue.
func Open(img *disk.Image, side disk.Side) (*FileSystem, error) {
	log.Debug().Msgf("Loading catalogue from side %d", side)
	buf := make([]byte, dfs.CatalogueBytes)
	if err := img.ReadBytes(side, 0, buf); err != nil {
		return nil, fmt.Errorf("can't read catalogue of side %d: %w", side, err)
	}
	if !dfs.IsValid(buf) {
		return nil, fmt.Errorf("side %d: %w", side, dfs.ErrNotCatalogue)
	}
	cat, err := dfs.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("side %d: %w", side, err)
	}

	fs := &FileSystem{
		img:       img,
		side:      side,
		catalogue: cat,
		bumpCycle: true,
	}
	fs.init()
	return fs, nil
}

// OpenAll opens every side of the image that carries a catalogue. Side 0
// must have one; a missing or undecodable catalogue on side 1 is not an error.
func OpenAll(img *disk.Image) ([]*FileSystem, error) {
	var res []*FileSystem
	for s := 0; s < img.Sides(); s++ {
		side := disk.Side(s)
		fs, err := Open(img, side)
		if err != nil {
			if side != disk.Side0 && (errors.Is(err, dfs.ErrNotCatalogue) || errors.Is(err, dfs.ErrInvalidFormat)) {
				log.Warn().Err(err).Msgf("Side %d has no catalogue, ignoring it", side)
				continue
			}
			return nil, err
		}
		res = append(res, fs)
	}
	return res, nil
}

// Format writes an empty catalogue to the given side. cat must not have any
// entries; its cycle number is written unchanged.
func Format(img *disk.Image, side disk.Side, cat *dfs.Catalogue) (*FileSystem, error) {
	if len(cat.Entries) > 0 {
		return nil, fmt.Errorf("can't format side %d with a catalogue containing %d files", side, len(cat.Entries))
	}
	fs := &FileSystem{
		img:            img,
		side:           side,
		catalogue:      cat,
		catalogueDirty: true,
	}
	fs.init()
	if err := fs.Flush(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileSystem) init() {
	size := fs.catalogue.DiscSize.Sectors()
	fs.sectorReservationMap = util.NewBitSet(size)
	fs.numUsedSectors = 0
	for s := 0; s < dfs.CatalogueSectors; s++ {
		fs.markSectorsUsed(s, 1)
	}
	for i := range fs.catalogue.Entries {
		e := &fs.catalogue.Entries[i]
		fs.markSectorsUsed(int(e.StartSector.Value()), e.Sectors())
	}
	log.Debug().Msgf("Side %d: %d files allocating %d of %d sectors found", fs.side, len(fs.catalogue.Entries), fs.numUsedSectors, size)
}

// Close writes the catalogue back if it has been modified.
func (fs *FileSystem) Close() error {
	log.Debug().Msgf("Closing side %d", fs.side)
	return fs.Flush()
}

// Flush writes the catalogue to the image if it has been modified. Changes to
// an existing catalogue increment its cycle number.
func (fs *FileSystem) Flush() error {
	fs.filesMutex.Lock()
	defer fs.filesMutex.Unlock()

	if !fs.catalogueDirty {
		return nil
	}
	if fs.bumpCycle {
		next, _ := dfs.NewCycleNumber((fs.catalogue.CycleNumber.Value() + 1) % (dfs.MaxCycleNumber + 1))
		fs.catalogue.CycleNumber = next
	}
	buf, err := fs.catalogue.Encode()
	if err != nil {
		return err
	}
	if err := fs.img.WriteBytes(fs.side, 0, buf); err != nil {
		return fmt.Errorf("can't write catalogue of side %d: %w", fs.side, err)
	}
	fs.catalogueDirty = false
	log.Debug().Msgf("Wrote catalogue of side %d with %d files, cycle number %s", fs.side, len(fs.catalogue.Entries), fs.catalogue.CycleNumber)
	return nil
}

func (fs *FileSystem) Side() disk.Side {
	return fs.side
}

// Catalogue returns a copy of the current catalogue.
func (fs *FileSystem) Catalogue() dfs.Catalogue {
	fs.filesMutex.RLock()
	defer fs.filesMutex.RUnlock()

	c := *fs.catalogue
	c.Entries = slices.Clone(fs.catalogue.Entries)
	return c
}

// FreeSectors returns the number of sectors not used by the catalogue or by files.
func (fs *FileSystem) FreeSectors() int {
	fs.sectorMapMutex.RLock()
	defer fs.sectorMapMutex.RUnlock()

	return fs.catalogue.DiscSize.Sectors() - fs.numUsedSectors
}

func (fs *FileSystem) Find(path string) (*File, error) {
	dir, name, err := dfs.ParsePath(path)
	if err != nil {
		return nil, err
	}

	fs.filesMutex.RLock()
	defer fs.filesMutex.RUnlock()

	idx := fs.indexOf_locked(dir, name)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	return &File{fs: fs, entry: fs.catalogue.Entries[idx]}, nil
}

func (fs *FileSystem) indexOf_locked(dir dfs.Directory, name dfs.FileName) int {
	return slices.IndexFunc(fs.catalogue.Entries, func(e dfs.CatalogueEntry) bool {
		return dfs.ComparePaths(e.Directory, e.FileName, dir, name) == 0
	})
}

type ListFileFilter func(*File) bool

var AllFiles ListFileFilter = func(f *File) bool {
	return true
}

// InDirectory returns a filter for the files in directory d.
func InDirectory(d dfs.Directory) ListFileFilter {
	return func(f *File) bool {
		return dfs.CompareDirectories(f.entry.Directory, d) == 0
	}
}

// ListFiles returns the files matching pred, sorted by directory and name.
func (fs *FileSystem) ListFiles(pred ListFileFilter) ([]*File, error) {
	fs.filesMutex.RLock()
	defer fs.filesMutex.RUnlock()

	var files []*File
	for _, e := range fs.catalogue.SortedEntries() {
		f := &File{fs: fs, entry: e}
		if pred(f) {
			files = append(files, f)
		}
	}
	return files, nil
}

// Remove deletes a file from the catalogue and releases its sectors.
func (fs *FileSystem) Remove(path string) error {
	dir, name, err := dfs.ParsePath(path)
	if err != nil {
		return err
	}

	fs.filesMutex.Lock()
	defer fs.filesMutex.Unlock()

	_, err = fs.remove_locked(dir, name)
	return err
}

func (fs *FileSystem) remove_locked(dir dfs.Directory, name dfs.FileName) (dfs.CatalogueEntry, error) {
	idx := fs.indexOf_locked(dir, name)
	if idx < 0 {
		return dfs.CatalogueEntry{}, fmt.Errorf("%s: %w", dfs.HostName(dir, name), ErrFileNotFound)
	}
	e := fs.catalogue.Entries[idx]
	if e.Locked {
		return e, fmt.Errorf("%s: %w", e.Path(), ErrFileLocked)
	}
	fs.catalogue.Entries = slices.Delete(fs.catalogue.Entries, idx, idx+1)
	fs.freeSectors(int(e.StartSector.Value()), e.Sectors())
	fs.catalogueDirty = true
	log.Debug().Msgf("Removed %s, freed %d sectors at %s", e.Path(), e.Sectors(), e.StartSector)
	return e, nil
}

// AddFile stores data in the first free run of sectors large enough to hold
// it and adds a catalogue entry for it. Length and StartSector of attrs are
// ignored.
func (fs *FileSystem) AddFile(attrs dfs.CatalogueEntry, data []byte) (*File, error) {
	fs.filesMutex.Lock()
	defer fs.filesMutex.Unlock()

	return fs.addFile_locked(attrs, data)
}

func (fs *FileSystem) addFile_locked(attrs dfs.CatalogueEntry, data []byte) (*File, error) {
	length, err := dfs.NewU18(uint32(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %d bytes: %w", attrs.Path(), len(data), dfs.ErrCapacityExceeded)
	}
	if fs.indexOf_locked(attrs.Directory, attrs.FileName) >= 0 {
		return nil, fmt.Errorf("%s: %w", attrs.Path(), ErrFileExists)
	}
	if len(fs.catalogue.Entries) >= dfs.MaxFiles {
		return nil, fmt.Errorf("can't add %s: %w", attrs.Path(), dfs.ErrCatalogueFull)
	}

	sectors := dfs.SectorCount(length)
	start, err := fs.allocSectors(sectors)
	if err != nil {
		return nil, fmt.Errorf("can't add %s with %d sectors: %w", attrs.Path(), sectors, err)
	}
	if len(data) > 0 {
		// Zero the slack of the last sector.
		buf := make([]byte, sectors*dfs.SectorBytes)
		copy(buf, data)
		if err := fs.img.WriteBytes(fs.side, start, buf); err != nil {
			fs.freeSectors(start, sectors)
			return nil, err
		}
	}

	e := attrs
	e.Length = length
	e.StartSector = dfs.MustU10(uint16(start))
	fs.catalogue.Entries = append(fs.catalogue.Entries, e)
	fs.catalogueDirty = true
	log.Debug().Msgf("Added %s: %d bytes at sector %d", e.Path(), len(data), start)
	return &File{fs: fs, entry: e}, nil
}

// WriteFile replaces the content of a file, keeping its attributes. If the
// file doesn't exist, it is created with load and execution address 0. If
// the new content doesn't fit, the old file is kept.
func (fs *FileSystem) WriteFile(path string, data []byte) (*File, error) {
	dir, name, err := dfs.ParsePath(path)
	if err != nil {
		return nil, err
	}

	fs.filesMutex.Lock()
	defer fs.filesMutex.Unlock()

	attrs := dfs.CatalogueEntry{FileName: name, Directory: dir}
	idx := fs.indexOf_locked(dir, name)
	if idx < 0 {
		return fs.addFile_locked(attrs, data)
	}

	old, err := fs.remove_locked(dir, name)
	if err != nil {
		return nil, err
	}
	f, err := fs.addFile_locked(old, data)
	if err != nil {
		// The old sectors have not been overwritten, so the entry can be restored.
		fs.markSectorsUsed(int(old.StartSector.Value()), old.Sectors())
		fs.catalogue.Entries = slices.Insert(fs.catalogue.Entries, idx, old)
		return nil, err
	}
	return f, nil
}

// Problems reports files that extend beyond the end of the disc or that
// share sectors with the catalogue or other files.
func (fs *FileSystem) Problems() []string {
	fs.filesMutex.RLock()
	defer fs.filesMutex.RUnlock()

	var res []string
	size := fs.catalogue.DiscSize.Sectors()
	owner := make([]string, size)
	for s := 0; s < dfs.CatalogueSectors; s++ {
		owner[s] = "catalogue"
	}
	for _, e := range fs.catalogue.Entries {
		start, n := int(e.StartSector.Value()), e.Sectors()
		if start+n > size {
			res = append(res, fmt.Sprintf("%s: sectors %d-%d extend beyond end of disc (%d sectors)", e.Path(), start, start+n-1, size))
		}
		for s := start; s < start+n && s < size; s++ {
			if owner[s] != "" {
				res = append(res, fmt.Sprintf("%s: sector %d is also used by %s", e.Path(), s, owner[s]))
				break
			}
			owner[s] = e.Path()
		}
	}
	return res
}

// IsSectorFree reports whether sector is on the disc and neither used by the
// catalogue nor by a file.
func (fs *FileSystem) IsSectorFree(sector int) bool {
	fs.sectorMapMutex.RLock()
	defer fs.sectorMapMutex.RUnlock()

	return fs.isSectorFree_locked(sector)
}

func (fs *FileSystem) isSectorFree_locked(sector int) bool {
	return sector < fs.catalogue.DiscSize.Sectors() && !fs.sectorReservationMap.Test(sector)
}

func (fs *FileSystem) markSectorsUsed(start, n int) {
	fs.sectorMapMutex.Lock()
	defer fs.sectorMapMutex.Unlock()

	for s := start; s < start+n && s < fs.catalogue.DiscSize.Sectors(); s++ {
		if !fs.sectorReservationMap.Test(s) {
			fs.sectorReservationMap.Set(s)
			fs.numUsedSectors++
		}
	}
}

func (fs *FileSystem) freeSectors(start, n int) {
	fs.sectorMapMutex.Lock()
	defer fs.sectorMapMutex.Unlock()

	for s := start; s < start+n && s < fs.catalogue.DiscSize.Sectors(); s++ {
		if fs.sectorReservationMap.Test(s) {
			fs.sectorReservationMap.Clear(s)
			fs.numUsedSectors--
		}
	}
}

// allocSectors reserves the first run of n free sectors. A run of 0 sectors
// starts at the first free sector, or at the end of the disc if it is full.
func (fs *FileSystem) allocSectors(n int) (int, error) {
	fs.sectorMapMutex.Lock()
	defer fs.sectorMapMutex.Unlock()

	size := fs.catalogue.DiscSize.Sectors()
	runStart, runLen := -1, 0
	for s := dfs.CatalogueSectors; s < size; s++ {
		if !fs.isSectorFree_locked(s) {
			runStart, runLen = -1, 0
			continue
		}
		if runStart < 0 {
			runStart = s
		}
		runLen++
		if runLen >= n {
			break
		}
	}
	if n == 0 {
		if runStart < 0 {
			return size, nil
		}
		return runStart, nil
	}
	if runStart < 0 || runLen < n {
		return 0, fmt.Errorf("no run of %d free sectors on side %d: %w", n, fs.side, dfs.ErrCapacityExceeded)
	}
	for s := runStart; s < runStart+n; s++ {
		fs.sectorReservationMap.Set(s)
	}
	fs.numUsedSectors += n
	return runStart, nil
}
