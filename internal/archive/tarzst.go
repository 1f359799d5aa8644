package archive

import (
	"archive/tar"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
)

type tarZstWriter struct {
	zw *zstd.Encoder
	tw *tar.Writer
}

func newTarZstWriter(w io.Writer) (entryWriter, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	return &tarZstWriter{zw: zw, tw: tar.NewWriter(zw)}, nil
}

func (t *tarZstWriter) add(name string, data []byte, mode os.FileMode, modTime time.Time) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     int64(mode.Perm()),
		Size:     int64(len(data)),
		ModTime:  modTime,
		Format:   tar.FormatPAX,
	}
	if err := t.tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := t.tw.Write(data)
	return err
}

func (t *tarZstWriter) close() error {
	if err := t.tw.Close(); err != nil {
		_ = t.zw.Close()
		return err
	}
	return t.zw.Close()
}
