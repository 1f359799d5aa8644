package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/fsutil"
)

// Format names an archive format.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTarZst Format = "tar.zst"
)

// Extension returns the file extension for archives of this format.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the media type uploaded alongside the archive.
func (f Format) ContentType() string {
	if f == FormatTarZst {
		return "application/zstd"
	}
	return "application/zip"
}

// Archiver builds an archive in three steps: Open seeds it from a skeleton
// directory, AddContent appends generated files, Close returns the bytes.
type Archiver interface {
	Open(ctx context.Context, skeletonDir, skipExtension string) (*Handle, error)
	AddContent(h *Handle, data []byte, dest string) (*Handle, error)
	Close(h *Handle) ([]byte, error)
}

// entryWriter writes entries of one archive format.
type entryWriter interface {
	add(name string, data []byte, mode os.FileMode, modTime time.Time) error
	close() error
}

// Handle is an archive under construction. It is not safe for concurrent use.
type Handle struct {
	buf     *bytes.Buffer
	w       entryWriter
	entries map[string]struct{}
	closed  bool
	modTime time.Time
}

// Entries returns the number of entries written so far.
func (h *Handle) Entries() int {
	return len(h.entries)
}

var errClosed = errors.New("archive is already closed")

type archiver struct {
	format    Format
	newWriter func(w io.Writer) (entryWriter, error)
	now       func() time.Time
}

// New returns an Archiver producing archives of the given format.
func New(format Format) (Archiver, error) {
	a := &archiver{format: format, now: time.Now}
	switch format {
	case FormatZip:
		a.newWriter = newZipWriter
	case FormatTarZst:
		a.newWriter = newTarZstWriter
	default:
		return nil, fmt.Errorf("unsupported archive format %q (expected %q or %q)", format, FormatZip, FormatTarZst)
	}
	return a, nil
}

// Open starts an archive containing every file of skeletonDir except those
// whose name ends with skipExtension. An empty skeletonDir starts an empty
// archive.
func (a *archiver) Open(ctx context.Context, skeletonDir, skipExtension string) (*Handle, error) {
	logger := ctxlog.FromContext(ctx)

	buf := &bytes.Buffer{}
	w, err := a.newWriter(buf)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	h := &Handle{buf: buf, w: w, entries: make(map[string]struct{}), modTime: a.now().UTC()}
	if skeletonDir == "" {
		return h, nil
	}

	files, err := fsutil.FindFilesExcluding(skeletonDir, skipExtension)
	if err != nil {
		return nil, &Error{Op: "open", Path: skeletonDir, Err: err}
	}
	for _, rel := range files {
		full := filepath.Join(skeletonDir, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			return nil, &Error{Op: "open", Path: rel, Err: err}
		}
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, &Error{Op: "open", Path: rel, Err: err}
		}
		if err := h.add(rel, data, info.Mode().Perm()); err != nil {
			return nil, err
		}
	}

	logger.Debug("Archive seeded from skeleton.", "skeleton", skeletonDir, "entries", len(files), "format", a.format)
	return h, nil
}

// AddContent appends data at dest. Entries are never overwritten: a dest that
// is already in the archive is an error.
func (a *archiver) AddContent(h *Handle, data []byte, dest string) (*Handle, error) {
	if err := h.add(dest, data, 0o644); err != nil {
		return nil, err
	}
	return h, nil
}

// Close finalizes the archive and returns its bytes.
func (a *archiver) Close(h *Handle) ([]byte, error) {
	if h.closed {
		return nil, &Error{Op: "close", Err: errClosed}
	}
	h.closed = true
	if err := h.w.close(); err != nil {
		return nil, &Error{Op: "close", Err: err}
	}
	return h.buf.Bytes(), nil
}

func (h *Handle) add(dest string, data []byte, mode os.FileMode) error {
	if h.closed {
		return &Error{Op: "add", Path: dest, Err: errClosed}
	}
	name, err := cleanEntryName(dest)
	if err != nil {
		return &Error{Op: "add", Path: dest, Err: err}
	}
	if _, exists := h.entries[name]; exists {
		return &Error{Op: "add", Path: name, Err: errors.New("entry already exists")}
	}
	if err := h.w.add(name, data, mode, h.modTime); err != nil {
		return &Error{Op: "add", Path: name, Err: err}
	}
	h.entries[name] = struct{}{}
	return nil
}

// cleanEntryName normalizes dest to a relative slash path inside the archive.
func cleanEntryName(dest string) (string, error) {
	name := path.Clean(strings.ReplaceAll(dest, "\\", "/"))
	if name == "." || name == "" || strings.HasPrefix(name, "/") || name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("invalid entry path %q", dest)
	}
	return name, nil
}
