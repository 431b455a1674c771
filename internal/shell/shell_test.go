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

package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asig/dfsit/internal/basic"
	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/disk"
	"github.com/asig/dfsit/internal/filesystem"
)

func newSession(t *testing.T, writable bool) *session {
	t.Helper()
	img, _ := disk.NewMemoryImage(disk.NewInterleaved(disk.SectorBytes, disk.SectorsPerTrack, disk.SidesPerDisc), 80)
	var sides []*filesystem.FileSystem
	for _, side := range []disk.Side{disk.Side0, disk.Side1} {
		fs, err := filesystem.Format(img, side, dfs.NewCatalogue(dfs.DiscTitle{}, dfs.BootNone, dfs.MustDiscSize(80)))
		if err != nil {
			t.Fatalf("Format failed: %v", err)
		}
		sides = append(sides, fs)
	}

	var prog bytes.Buffer
	if err := basic.Tokenize(&prog, []byte("10PRINT\"SIDE 0\"\n"), true); err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	_, err := sides[0].AddFile(dfs.CatalogueEntry{
		FileName:         dfs.MustFileName("PROG"),
		Directory:        dfs.RootDirectory,
		LoadAddress:      dfs.MustU18(0x31900),
		ExecutionAddress: dfs.MustU18(basic.ExecutionAddress),
	}, prog.Bytes())
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	_, err = sides[1].AddFile(dfs.CatalogueEntry{
		FileName:    dfs.MustFileName("TEXT"),
		Directory:   dfs.MustDirectory('T'),
		Locked:      true,
		LoadAddress: dfs.MustU18(0x3000),
	}, []byte("Side 1 text"))
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	return &session{sides: sides, writable: writable}
}

func run(t *testing.T, s *session, line ...string) (string, error) {
	t.Helper()
	for _, c := range shellCommands {
		if c.name == line[0] {
			var buf bytes.Buffer
			err := s.exec(&buf, c, line[1:])
			return buf.String(), err
		}
	}
	t.Fatalf("Unknown command %s", line[0])
	return "", nil
}

func TestCatAndSide(t *testing.T) {
	s := newSession(t, false)
	out, err := run(t, s, "cat")
	if err != nil || !strings.Contains(out, "$.PROG") {
		t.Errorf("cat on side 0: %v\n%s", err, out)
	}
	if _, err := run(t, s, "side", "1"); err != nil {
		t.Fatalf("side 1 failed: %v", err)
	}
	if s.prompt() != ":1> " {
		t.Errorf("Unexpected prompt %q", s.prompt())
	}
	out, _ = run(t, s, "cat")
	if !strings.Contains(out, "T.TEXT") || strings.Contains(out, "PROG") {
		t.Errorf("cat on side 1:\n%s", out)
	}
	if _, err := run(t, s, "side", "2"); !errors.Is(err, disk.ErrUnsupportedSide) {
		t.Errorf("Expected ErrUnsupportedSide, got %v", err)
	}
	out, _ = run(t, s, "side")
	if out != "Side 1 of 2\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestInfoTypeDump(t *testing.T) {
	s := newSession(t, false)
	out, err := run(t, s, "info", "PROG")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"$.PROG", "038023", "BASIC program"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in info output:\n%s", want, out)
		}
	}

	out, err = run(t, s, "type", "PROG")
	if err != nil || out != "   10PRINT\"SIDE 0\"\n" {
		t.Errorf("type: unexpected output %q, %v", out, err)
	}

	run(t, s, "side", "1")
	out, err = run(t, s, "dump", "T.TEXT")
	if err != nil || !strings.HasPrefix(out, "003000: 53 69 64 65") || !strings.Contains(out, "| Side 1 text") {
		t.Errorf("dump: unexpected output %q, %v", out, err)
	}

	if _, err := run(t, s, "info", "MISSING"); !errors.Is(err, filesystem.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
	if _, err := run(t, s, "info"); err == nil || !strings.HasPrefix(err.Error(), "usage:") {
		t.Errorf("Expected usage error, got %v", err)
	}
}

func TestGetPutDelete(t *testing.T) {
	tmp := t.TempDir()
	s := newSession(t, false)

	host := filepath.Join(tmp, "prog.bin")
	if _, err := run(t, s, "get", "PROG", host); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	data, err := os.ReadFile(host)
	if err != nil || !basic.HasEndMarker(data) {
		t.Errorf("get wrote unexpected content: %v", err)
	}

	if _, err := run(t, s, "put", host, "COPY"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("put on read-only image: expected ErrReadOnly, got %v", err)
	}
	if _, err := run(t, s, "delete", "PROG"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("delete on read-only image: expected ErrReadOnly, got %v", err)
	}

	s.writable = true
	out, err := run(t, s, "put", host, "B.COPY")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !strings.HasPrefix(out, "B.COPY: ") {
		t.Errorf("Unexpected put output %q", out)
	}
	if _, err := s.fs().Find("B.COPY"); err != nil {
		t.Errorf("B.COPY not stored: %v", err)
	}
	if _, err := run(t, s, "delete", "PROG"); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if _, err := s.fs().Find("PROG"); !errors.Is(err, filesystem.ErrFileNotFound) {
		t.Errorf("PROG not deleted: %v", err)
	}

	run(t, s, "side", "1")
	if _, err := run(t, s, "delete", "T.TEXT"); !errors.Is(err, filesystem.ErrFileLocked) {
		t.Errorf("Expected ErrFileLocked, got %v", err)
	}
	out, _ = run(t, s, "check")
	if out != "No problems found\n" {
		t.Errorf("Unexpected check output %q", out)
	}
}

func TestFree(t *testing.T) {
	s := newSession(t, true)
	out, err := run(t, s, "free")
	if err != nil {
		t.Fatalf("free failed: %v", err)
	}
	if out != "  3- 79 (77 sectors)\n77 sectors free\n" {
		t.Errorf("Unexpected free output %q", out)
	}

	s.sides[0].Remove("PROG")
	out, _ = run(t, s, "free")
	if out != "  2- 79 (78 sectors)\n78 sectors free\n" {
		t.Errorf("Unexpected free output after delete %q", out)
	}
}
