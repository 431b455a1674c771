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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/basic"
	"github.com/asig/dfsit/internal/commands"
	"github.com/asig/dfsit/internal/disk"
	"github.com/asig/dfsit/internal/filesystem"
	"github.com/asig/dfsit/internal/util"
)

var ErrReadOnly = errors.New("image is opened read-only")

type session struct {
	sides    []*filesystem.FileSystem
	cur      int
	writable bool
}

type command struct {
	name  string
	help  string
	nargs []int
	f     func(s *session, w io.Writer, args []string) error
}

var shellCommands = []command{
	{"cat", "cat: show the catalogue of the current side", []int{0}, (*session).cat},
	{"info", "info <file>: show the catalogue entry of a file", []int{1}, (*session).info},
	{"type", "type <file>: list a BASIC program", []int{1}, (*session).typeProgram},
	{"dump", "dump <file>: hex dump of a file", []int{1}, (*session).dump},
	{"side", "side [<n>]: show or select the current side", []int{0, 1}, (*session).side},
	{"check", "check: report files overlapping others or the end of the disc", []int{0}, (*session).check},
	{"free", "free: list the runs of free sectors on the current side", []int{0}, (*session).free},
	{"get", "get <file> [<host file>]: copy a file to the host", []int{1, 2}, (*session).get},
	{"put", "put <host file> [<file>]: copy a host file into the image", []int{1, 2}, (*session).put},
	{"delete", "delete <file>: remove a file", []int{1}, (*session).remove},
}

// Run opens an image and starts an interactive shell on it. Changes are only
// allowed if writable is set.
func Run(imagePath string, writable bool) error {
	img, err := disk.Open(imagePath, writable)
	if err != nil {
		return err
	}
	defer img.Close()

	sides, err := filesystem.OpenAll(img)
	if err != nil {
		return err
	}
	s := &session{sides: sides, writable: writable}

	sh := ishell.New()
	sh.SetPrompt(s.prompt())
	sh.Println(fmt.Sprintf("%s: %d side(s), type 'help' for a list of commands", imagePath, len(sides)))
	for _, c := range shellCommands {
		sh.AddCmd(&ishell.Cmd{
			Name: c.name,
			Help: c.help,
			Func: func(ctx *ishell.Context) {
				var buf bytes.Buffer
				err := s.exec(&buf, c, ctx.Args)
				ctx.Print(buf.String())
				if err != nil {
					ctx.Err(err)
				}
				ctx.SetPrompt(s.prompt())
			},
		})
	}
	sh.Run()

	var res error
	for _, fs := range sides {
		if err := fs.Close(); err != nil {
			res = err
		}
	}
	return res
}

func (s *session) prompt() string {
	return fmt.Sprintf(":%d> ", s.fs().Side())
}

func (s *session) fs() *filesystem.FileSystem {
	return s.sides[s.cur]
}

func (s *session) exec(w io.Writer, c command, args []string) error {
	for _, n := range c.nargs {
		if len(args) == n {
			return c.f(s, w, args)
		}
	}
	return fmt.Errorf("usage: %s", c.help)
}

func (s *session) cat(w io.Writer, args []string) error {
	cat := s.fs().Catalogue()
	commands.WriteCatalogue(w, &cat)
	return nil
}

func (s *session) info(w io.Writer, args []string) error {
	f, err := s.fs().Find(args[0])
	if err != nil {
		return err
	}
	e := f.Entry()
	fmt.Fprintf(w, "File:              %s\n", f.Path())
	fmt.Fprintf(w, "Locked:            %t\n", f.Locked())
	fmt.Fprintf(w, "Load address:      %s\n", e.LoadAddress)
	fmt.Fprintf(w, "Execution address: %s\n", e.ExecutionAddress)
	fmt.Fprintf(w, "Length:            %s (%d bytes)\n", e.Length, f.Size())
	fmt.Fprintf(w, "Start sector:      %s (%d sectors)\n", e.StartSector, e.Sectors())
	data, err := f.ReadAll()
	if err != nil {
		return err
	}
	if basic.LooksLikeProgram(e.ExecutionAddress.Value(), data) {
		fmt.Fprintf(w, "Type:              BASIC program\n")
	}
	return nil
}

func (s *session) typeProgram(w io.Writer, args []string) error {
	f, err := s.fs().Find(args[0])
	if err != nil {
		return err
	}
	data, err := f.ReadAll()
	if err != nil {
		return err
	}
	return basic.Detokenize(w, data, false)
}

func (s *session) dump(w io.Writer, args []string) error {
	f, err := s.fs().Find(args[0])
	if err != nil {
		return err
	}
	data, err := f.ReadAll()
	if err != nil {
		return err
	}
	e := f.Entry()
	io.WriteString(w, util.HexDump(data, int(e.LoadAddress.Value()), 0, len(data)))
	return nil
}

func (s *session) side(w io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(w, "Side %d of %d\n", s.fs().Side(), len(s.sides))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	for i, fs := range s.sides {
		if int(fs.Side()) == n {
			s.cur = i
			return nil
		}
	}
	return fmt.Errorf("side %d: %w", n, disk.ErrUnsupportedSide)
}

func (s *session) check(w io.Writer, args []string) error {
	problems := s.fs().Problems()
	for _, p := range problems {
		fmt.Fprintln(w, p)
	}
	if len(problems) == 0 {
		fmt.Fprintln(w, "No problems found")
	}
	return nil
}

func (s *session) free(w io.Writer, args []string) error {
	fs := s.fs()
	size := fs.Catalogue().DiscSize.Sectors()
	total := 0
	for start := 0; start < size; start++ {
		if !fs.IsSectorFree(start) {
			continue
		}
		end := start
		for end+1 < size && fs.IsSectorFree(end+1) {
			end++
		}
		fmt.Fprintf(w, "%3d-%3d (%d sectors)\n", start, end, end-start+1)
		total += end - start + 1
		start = end
	}
	fmt.Fprintf(w, "%d sectors free\n", total)
	return nil
}

func (s *session) get(w io.Writer, args []string) error {
	f, err := s.fs().Find(args[0])
	if err != nil {
		return err
	}
	dest := f.Name()
	if len(args) > 1 {
		dest = args[1]
	}
	data, err := f.ReadAll()
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d bytes written to %s\n", f.Path(), len(data), dest)
	return nil
}

func (s *session) put(w io.Writer, args []string) error {
	if !s.writable {
		return ErrReadOnly
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	name := filepath.Base(args[0])
	if len(args) > 1 {
		name = args[1]
	}
	f, err := s.fs().WriteFile(name, data)
	if err != nil {
		return err
	}
	log.Debug().Msgf("Stored %s as %s", args[0], f.Path())
	fmt.Fprintf(w, "%s: %d bytes at sector %d\n", f.Path(), f.Size(), f.StartSector())
	return s.fs().Flush()
}

func (s *session) remove(w io.Writer, args []string) error {
	if !s.writable {
		return ErrReadOnly
	}
	if err := s.fs().Remove(args[0]); err != nil {
		return err
	}
	return s.fs().Flush()
}
