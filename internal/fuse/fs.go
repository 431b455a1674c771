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

package fuse

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	fuse "bazil.org/fuse"
	fuse_fs "bazil.org/fuse/fs"
	"github.com/rs/zerolog/log"

	"github.com/asig/dfsit/internal/dfs"
	"github.com/asig/dfsit/internal/filesystem"
)

// FS exposes one side of a disc image as a flat directory. Files in the root
// directory appear as "NAME", all others as "D.NAME".
type FS struct {
	fs        *filesystem.FileSystem
	writable  bool
	uid       uint32
	gid       uint32
	mountTime time.Time
}

type dirNode struct {
	fs *FS
}

type fileNode struct {
	fs   *FS
	name string
}

// fileHandle buffers the content of a file opened for writing. The buffer is
// stored in the image on Flush and Release.
type fileHandle struct {
	node *fileNode

	mu    sync.Mutex
	data  []byte
	dirty bool
	write bool
}

func NewFS(fs *filesystem.FileSystem, writable bool) *FS {
	return &FS{
		fs:        fs,
		writable:  writable,
		uid:       uint32(os.Getuid()),
		gid:       uint32(os.Getgid()),
		mountTime: time.Now(),
	}
}

// Mount serves fs at mountpoint until ctx is cancelled or the file system is
// unmounted.
func Mount(ctx context.Context, fs *filesystem.FileSystem, mountpoint string, writable bool) error {
	options := []fuse.MountOption{fuse.FSName("dfsit"), fuse.Subtype("dfs")}
	if !writable {
		options = append(options, fuse.ReadOnly())
	}
	c, err := fuse.Mount(mountpoint, options...)
	if err != nil {
		return err
	}
	defer c.Close()

	go func() {
		<-ctx.Done()
		if err := fuse.Unmount(mountpoint); err != nil {
			log.Error().Err(err).Msgf("Can't unmount %s", mountpoint)
		}
	}()

	log.Info().Msgf("Serving side %d on %s", fs.Side(), mountpoint)
	return fuse_fs.Serve(c, NewFS(fs, writable))
}

func (f *FS) Root() (fuse_fs.Node, error) {
	return &dirNode{fs: f}, nil
}

// errno maps file system errors to the errors reported to the kernel.
func errno(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, filesystem.ErrFileNotFound), errors.Is(err, dfs.ErrInvalidFormat):
		return syscall.ENOENT
	case errors.Is(err, filesystem.ErrFileExists):
		return syscall.EEXIST
	case errors.Is(err, filesystem.ErrFileLocked):
		return syscall.EPERM
	case errors.Is(err, dfs.ErrCapacityExceeded), errors.Is(err, dfs.ErrCatalogueFull):
		return syscall.ENOSPC
	}
	log.Error().Err(err).Msg("FUSE operation failed")
	return syscall.EIO
}

func (d *dirNode) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = 1
	a.Mode = os.ModeDir | 0555
	if d.fs.writable {
		a.Mode |= 0200
	}
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	a.Mtime = d.fs.mountTime
	return nil
}

func (d *dirNode) Lookup(ctx context.Context, name string) (fuse_fs.Node, error) {
	log.Debug().Msgf("FUSE Lookup for %s", name)
	if _, err := d.fs.fs.Find(name); err != nil {
		return nil, errno(err)
	}
	return &fileNode{fs: d.fs, name: name}, nil
}

func (d *dirNode) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	log.Debug().Msgf("FUSE ReadDirAll")
	var res []fuse.Dirent
	files, err := d.fs.fs.ListFiles(filesystem.AllFiles)
	if err != nil {
		return nil, errno(err)
	}
	for _, f := range files {
		res = append(res, fuse.Dirent{
			Name: f.Name(),
			Type: fuse.DT_File,
		})
	}
	return res, nil
}

func (d *dirNode) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fuse_fs.Node, fuse_fs.Handle, error) {
	log.Debug().Msgf("FUSE Create for %s", req.Name)
	if !d.fs.writable {
		return nil, nil, syscall.EROFS
	}
	if _, err := d.fs.fs.Find(req.Name); err == nil {
		return nil, nil, syscall.EEXIST
	} else if !errors.Is(err, filesystem.ErrFileNotFound) {
		return nil, nil, errno(err)
	}

	if _, err := d.fs.fs.WriteFile(req.Name, nil); err != nil {
		return nil, nil, errno(err)
	}
	if err := d.fs.fs.Flush(); err != nil {
		return nil, nil, errno(err)
	}

	node := &fileNode{fs: d.fs, name: req.Name}
	return node, &fileHandle{node: node, data: []byte{}, write: true}, nil
}

func (d *dirNode) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	log.Debug().Msgf("FUSE Remove for %s", req.Name)
	if !d.fs.writable {
		return syscall.EROFS
	}
	if err := d.fs.fs.Remove(req.Name); err != nil {
		return errno(err)
	}
	return errno(d.fs.fs.Flush())
}

func (n *fileNode) Attr(ctx context.Context, a *fuse.Attr) error {
	log.Debug().Msgf("FUSE Attr for file %s", n.name)
	f, err := n.fs.fs.Find(n.name)
	if err != nil {
		return errno(err)
	}
	a.Mode = 0444
	if n.fs.writable && !f.Locked() {
		a.Mode |= 0200
	}
	e := f.Entry()
	a.Size = uint64(f.Size())
	a.Blocks = uint64(e.Sectors()) * dfs.SectorBytes / 512
	a.Mtime = n.fs.mountTime
	a.Ctime = n.fs.mountTime
	a.Atime = n.fs.mountTime
	a.Uid = n.fs.uid
	a.Gid = n.fs.gid
	return nil
}

func (n *fileNode) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fuse_fs.Handle, error) {
	log.Debug().Msgf("FUSE Open for file %s: req = %+v", n.name, req)
	if req.Flags.IsReadOnly() {
		return &fileHandle{node: n}, nil
	}
	if !n.fs.writable {
		return nil, syscall.EROFS
	}
	f, err := n.fs.fs.Find(n.name)
	if err != nil {
		return nil, errno(err)
	}
	if f.Locked() {
		return nil, syscall.EPERM
	}

	h := &fileHandle{node: n, write: true}
	if req.Flags&fuse.OpenTruncate != 0 {
		h.data = []byte{}
		h.dirty = true
		return h, nil
	}
	if h.data, err = f.ReadAll(); err != nil {
		return nil, errno(err)
	}
	return h, nil
}

// Setattr only supports changing the size, which is what truncate(2) does.
func (n *fileNode) Setattr(ctx context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	log.Debug().Msgf("FUSE Setattr for file %s: req = %+v", n.name, req)
	if req.Valid.Size() {
		if !n.fs.writable {
			return syscall.EROFS
		}
		if req.Size > dfs.MaxU18 {
			return syscall.EFBIG
		}
		f, err := n.fs.fs.Find(n.name)
		if err != nil {
			return errno(err)
		}
		data, err := f.ReadAll()
		if err != nil {
			return errno(err)
		}
		data = resize(data, int(req.Size))
		if _, err := n.fs.fs.WriteFile(n.name, data); err != nil {
			return errno(err)
		}
		if err := n.fs.fs.Flush(); err != nil {
			return errno(err)
		}
	}
	return n.Attr(ctx, &resp.Attr)
}

func resize(b []byte, size int) []byte {
	if size <= len(b) {
		return b[:size]
	}
	return append(b, make([]byte, size-len(b))...)
}

func (h *fileHandle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	log.Debug().Msgf("FUSE Read for file %s: offset = %d, size = %d", h.node.name, req.Offset, req.Size)
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.write {
		if req.Offset >= int64(len(h.data)) {
			resp.Data = []byte{}
			return nil
		}
		end := min(req.Offset+int64(req.Size), int64(len(h.data)))
		resp.Data = append([]byte(nil), h.data[req.Offset:end]...)
		return nil
	}

	f, err := h.node.fs.fs.Find(h.node.name)
	if err != nil {
		return errno(err)
	}
	buf := make([]byte, req.Size)
	n, err := f.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return errno(err)
	}
	resp.Data = buf[:n]
	return nil
}

func (h *fileHandle) Write(ctx context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	log.Debug().Msgf("FUSE Write for file %s: offset = %d, size = %d", h.node.name, req.Offset, len(req.Data))
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.write {
		return syscall.EBADF
	}
	end := int(req.Offset) + len(req.Data)
	if end > dfs.MaxU18 {
		return syscall.EFBIG
	}
	if end > len(h.data) {
		h.data = resize(h.data, end)
	}
	copy(h.data[req.Offset:], req.Data)
	h.dirty = true
	resp.Size = len(req.Data)
	return nil
}

func (h *fileHandle) Flush(ctx context.Context, req *fuse.FlushRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.store()
}

func (h *fileHandle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.store()
}

func (h *fileHandle) store() error {
	if !h.dirty {
		return nil
	}
	log.Debug().Msgf("Storing %d bytes for file %s", len(h.data), h.node.name)
	fs := h.node.fs.fs
	if _, err := fs.WriteFile(h.node.name, h.data); err != nil {
		return errno(err)
	}
	h.dirty = false
	return errno(fs.Flush())
}
