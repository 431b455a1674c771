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
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/disk"
)

func newSSD(t *testing.T, size uint16) (*FileSystem, *disk.Image) {
	t.Helper()
	img, _ := disk.NewMemoryImage(disk.NewLinear(disk.SectorBytes), int(size))
	title, _ := dfs.NewDiscTitle("TEST")
	fs, err := Format(img, disk.Side0, dfs.NewCatalogue(title, dfs.BootNone, dfs.MustDiscSize(size)))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	return fs, img
}

func attrs(path string, load, exec uint32) dfs.CatalogueEntry {
	dir, name, err := dfs.ParsePath(path)
	if err != nil {
		panic(err)
	}
	return dfs.CatalogueEntry{
		FileName:         name,
		Directory:        dir,
		LoadAddress:      dfs.MustU18(load),
		ExecutionAddress: dfs.MustU18(exec),
	}
}

func fill(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestFormat(t *testing.T) {
	fs, img := newSSD(t, 800)
	if got := fs.FreeSectors(); got != 798 {
		t.Errorf("Expected 798 free sectors, got %d", got)
	}

	// The catalogue on the image must be readable again, with an unchanged cycle number.
	fs2, err := Open(img, disk.Side0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	cat := fs2.Catalogue()
	if cat.Title.String() != "TEST" || cat.DiscSize.Sectors() != 800 || cat.CycleNumber.Value() != 0 {
		t.Errorf("Unexpected catalogue %+v", cat)
	}

	if _, err := Format(img, disk.Side0, &dfs.Catalogue{Entries: []dfs.CatalogueEntry{attrs("A", 0, 0)}, DiscSize: dfs.MustDiscSize(800)}); err == nil {
		t.Errorf("Format with entries should fail")
	}
}

func TestAddFileLayout(t *testing.T) {
	fs, _ := newSSD(t, 800)

	files := []struct {
		path  string
		size  int
		start int
	}{
		{"!BOOT", 10, 2},
		{"PROG", 256, 3},
		{"EMPTY", 0, 4},
		{"A.DATA", 257, 4},
		{"B.DATA", 1, 6},
	}
	for _, f := range files {
		file, err := fs.AddFile(attrs(f.path, 0x1900, 0x8023), fill(f.size, 0xAA))
		if err != nil {
			t.Fatalf("AddFile(%s) failed: %v", f.path, err)
		}
		if file.StartSector() != f.start {
			t.Errorf("%s: expected start sector %d, got %d", f.path, f.start, file.StartSector())
		}
		if file.Size() != f.size {
			t.Errorf("%s: expected size %d, got %d", f.path, f.size, file.Size())
		}
	}
	if got := fs.FreeSectors(); got != 800-7 {
		t.Errorf("Expected %d free sectors, got %d", 800-7, got)
	}
	if p := fs.Problems(); len(p) != 0 {
		t.Errorf("Unexpected problems: %v", p)
	}
}

func TestAddFileErrors(t *testing.T) {
	fs, _ := newSSD(t, 10)

	if _, err := fs.AddFile(attrs("X", 0, 0), make([]byte, dfs.MaxU18+1)); !errors.Is(err, dfs.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded for oversized file, got %v", err)
	}
	if _, err := fs.AddFile(attrs("BIG", 0, 0), fill(9*256, 1)); !errors.Is(err, dfs.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded for file larger than the disc, got %v", err)
	}
	if _, err := fs.AddFile(attrs("ONE", 0, 0), fill(5, 1)); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if _, err := fs.AddFile(attrs("$.ONE", 0, 0), fill(5, 1)); !errors.Is(err, ErrFileExists) {
		t.Errorf("Expected ErrFileExists, got %v", err)
	}
	// Same name in a different directory is fine.
	if _, err := fs.AddFile(attrs("A.ONE", 0, 0), nil); err != nil {
		t.Errorf("AddFile(A.ONE) failed: %v", err)
	}
}

func TestCatalogueFull(t *testing.T) {
	fs, _ := newSSD(t, 800)
	for i := 0; i < dfs.MaxFiles; i++ {
		name := string([]byte{'F', 'A' + byte(i/26), 'A' + byte(i%26)})
		if _, err := fs.AddFile(attrs(name, 0, 0), fill(1, byte(i))); err != nil {
			t.Fatalf("AddFile(%s) failed: %v", name, err)
		}
	}
	if _, err := fs.AddFile(attrs("LAST", 0, 0), nil); !errors.Is(err, dfs.ErrCatalogueFull) {
		t.Errorf("Expected ErrCatalogueFull, got %v", err)
	}
}

func TestFindAndRead(t *testing.T) {
	fs, _ := newSSD(t, 800)
	data := make([]byte, 600)
	for i := range data {
		data[i] = byte(i)
	}
	if _, err := fs.AddFile(attrs("W.DATA", 0x3000, 0x3000), data); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}

	f, err := fs.Find("W.DATA")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if f.Name() != "W.DATA" || f.Path() != "W.DATA" {
		t.Errorf("Unexpected names %q, %q", f.Name(), f.Path())
	}
	got, err := f.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadAll returned different content")
	}

	buf := make([]byte, 100)
	n, err := f.ReadAt(buf, 550)
	if n != 50 || err != io.EOF {
		t.Errorf("ReadAt at 550: expected 50 bytes and EOF, got %d, %v", n, err)
	}
	if !bytes.Equal(buf[:n], data[550:]) {
		t.Errorf("ReadAt at 550 returned wrong data")
	}
	n, err = f.ReadAt(buf, 250)
	if n != 100 || err != nil {
		t.Errorf("ReadAt at 250: expected 100 bytes, got %d, %v", n, err)
	}
	if !bytes.Equal(buf, data[250:350]) {
		t.Errorf("ReadAt at 250 returned wrong data")
	}
	if _, err := f.ReadAt(buf, 600); err != io.EOF {
		t.Errorf("ReadAt at end: expected EOF, got %v", err)
	}

	if _, err := fs.Find("DATA"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound for $.DATA, got %v", err)
	}
}

func TestListFiles(t *testing.T) {
	fs, _ := newSSD(t, 800)
	for _, p := range []string{"B.X", "ZED", "A.Y", "$.ALPHA", "A.B"} {
		if _, err := fs.AddFile(attrs(p, 0, 0), nil); err != nil {
			t.Fatalf("AddFile(%s) failed: %v", p, err)
		}
	}

	files, err := fs.ListFiles(AllFiles)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	expected := []string{"$.ALPHA", "$.ZED", "A.B", "A.Y", "B.X"}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d", len(expected), len(files))
	}
	for i, f := range files {
		if f.Path() != expected[i] {
			t.Errorf("File %d: expected %s, got %s", i, expected[i], f.Path())
		}
	}

	files, _ = fs.ListFiles(InDirectory(dfs.MustDirectory('A')))
	if len(files) != 2 || files[0].Name() != "A.B" || files[1].Name() != "A.Y" {
		t.Errorf("Unexpected files in directory A: %v", files)
	}
	files, _ = fs.ListFiles(InDirectory(dfs.RootDirectory))
	if len(files) != 2 || files[0].Name() != "ALPHA" {
		t.Errorf("Unexpected files in root directory: %v", files)
	}
}

func TestRemove(t *testing.T) {
	fs, _ := newSSD(t, 800)
	fs.AddFile(attrs("ONE", 0, 0), fill(300, 1))
	locked := attrs("LOCKED", 0, 0)
	locked.Locked = true
	fs.AddFile(locked, fill(10, 2))
	free := fs.FreeSectors()

	if err := fs.Remove("ONE"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := fs.FreeSectors(); got != free+2 {
		t.Errorf("Expected %d free sectors after Remove, got %d", free+2, got)
	}
	if err := fs.Remove("ONE"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if err := fs.Remove("LOCKED"); !errors.Is(err, ErrFileLocked) {
		t.Errorf("Expected ErrFileLocked, got %v", err)
	}

	// The freed sectors are reused first.
	f, err := fs.AddFile(attrs("TWO", 0, 0), fill(1, 3))
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if f.StartSector() != 2 {
		t.Errorf("Expected TWO at sector 2, got %d", f.StartSector())
	}
}

func TestWriteFile(t *testing.T) {
	fs, _ := newSSD(t, 10)
	if _, err := fs.AddFile(attrs("KEEP", 0x1900, 0x1950), fill(256, 1)); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}

	f, err := fs.WriteFile("KEEP", fill(300, 2))
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	e := f.Entry()
	if e.LoadAddress.Value() != 0x1900 || e.ExecutionAddress.Value() != 0x1950 || e.Length.Value() != 300 {
		t.Errorf("Attributes not kept: %s", e.String())
	}
	got, _ := f.ReadAll()
	if !bytes.Equal(got, fill(300, 2)) {
		t.Errorf("WriteFile content not stored")
	}

	// Doesn't fit: the old file must still be there.
	if _, err := fs.WriteFile("KEEP", fill(9*256, 3)); !errors.Is(err, dfs.ErrCapacityExceeded) {
		t.Fatalf("Expected ErrCapacityExceeded, got %v", err)
	}
	f, err = fs.Find("KEEP")
	if err != nil {
		t.Fatalf("Old file lost: %v", err)
	}
	if f.Size() != 300 || fs.FreeSectors() != 10-2-2 {
		t.Errorf("Old file not restored: size %d, %d free sectors", f.Size(), fs.FreeSectors())
	}

	f, err = fs.WriteFile("N.NEW", []byte("hello"))
	if err != nil {
		t.Fatalf("WriteFile for new file failed: %v", err)
	}
	if e := f.Entry(); e.LoadAddress.Value() != 0 || f.Size() != 5 {
		t.Errorf("Unexpected new entry %s", e.String())
	}
}

func TestFlushCycleNumber(t *testing.T) {
	fs, img := newSSD(t, 800)
	fs.AddFile(attrs("A", 0, 0), fill(1, 1))
	if err := fs.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	fs, err := Open(img, disk.Side0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := fs.Catalogue().CycleNumber.Value(); got != 0 {
		t.Errorf("Formatted disc: expected cycle number 0, got %d", got)
	}

	// Unmodified: no write, no bump.
	fs.Flush()
	fs.Remove("A")
	fs.Flush()
	fs, _ = Open(img, disk.Side0)
	cat := fs.Catalogue()
	if cat.CycleNumber.Value() != 1 || len(cat.Entries) != 0 {
		t.Errorf("Expected cycle number 1 and no files, got %d and %d", cat.CycleNumber.Value(), len(cat.Entries))
	}
}

func TestOpenAll(t *testing.T) {
	img, _ := disk.NewMemoryImage(disk.NewInterleaved(disk.SectorBytes, disk.SectorsPerTrack, disk.SidesPerDisc), 800)
	title, _ := dfs.NewDiscTitle("SIDE0")
	if _, err := Format(img, disk.Side0, dfs.NewCatalogue(title, dfs.BootRun, dfs.MustDiscSize(800))); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	// Side 1 is not a catalogue: the flags byte has reserved bits set.
	img.WriteBytes(disk.Side1, 1, []byte{0, 0, 0, 0, 0, 0, 0xFF, 0})

	sides, err := OpenAll(img)
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	if len(sides) != 1 || sides[0].Side() != disk.Side0 {
		t.Fatalf("Expected only side 0, got %d sides", len(sides))
	}
	if b := sides[0].Catalogue().BootOption; b != dfs.BootRun {
		t.Errorf("Expected boot option run, got %s", b)
	}

	// A blank side 1 decodes to a disc size of 0 and is ignored as well.
	img.WriteBytes(disk.Side1, 1, make([]byte, 8))
	if sides, err := OpenAll(img); err != nil || len(sides) != 1 {
		t.Errorf("Blank side 1: expected only side 0, got %d sides, err %v", len(sides), err)
	}

	// A broken side 0 is an error.
	img.WriteBytes(disk.Side0, 1, []byte{0, 0, 0, 0, 0, 0, 0xFF, 0})
	if _, err := OpenAll(img); !errors.Is(err, dfs.ErrNotCatalogue) {
		t.Errorf("Expected ErrNotCatalogue, got %v", err)
	}
}

func TestIsSectorFree(t *testing.T) {
	fs, _ := newSSD(t, 10)
	if _, err := fs.AddFile(attrs("$.A", 0, 0), make([]byte, 300)); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	for sector, expected := range []bool{false, false, false, false, true, true, true, true, true, true, false} {
		if got := fs.IsSectorFree(sector); got != expected {
			t.Errorf("IsSectorFree(%d): expected %t, got %t", sector, expected, got)
		}
	}
}

func TestProblems(t *testing.T) {
	img, _ := disk.NewMemoryImage(disk.NewLinear(disk.SectorBytes), 20)
	cat := dfs.NewCatalogue(dfs.DiscTitle{}, dfs.BootNone, dfs.MustDiscSize(20))
	cat.Entries = []dfs.CatalogueEntry{
		{FileName: dfs.MustFileName("A"), Directory: dfs.RootDirectory, Length: dfs.MustU18(512), StartSector: dfs.MustU10(2)},
		{FileName: dfs.MustFileName("B"), Directory: dfs.RootDirectory, Length: dfs.MustU18(10), StartSector: dfs.MustU10(3)},
		{FileName: dfs.MustFileName("C"), Directory: dfs.RootDirectory, Length: dfs.MustU18(1024), StartSector: dfs.MustU10(18)},
	}
	buf, err := cat.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img.WriteBytes(disk.Side0, 0, buf)

	fs, err := Open(img, disk.Side0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	problems := fs.Problems()
	if len(problems) != 2 {
		t.Fatalf("Expected 2 problems, got %v", problems)
	}
	// Sectors 2-3 and 18-19 are used; sectors beyond the disc are not counted.
	if got := fs.FreeSectors(); got != 20-2-2-2 {
		t.Errorf("Expected %d free sectors, got %d", 20-2-2-2, got)
	}
}
