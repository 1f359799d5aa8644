package archive

import (
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
)

type zipWriter struct {
	w *zip.Writer
}

func newZipWriter(w io.Writer) (entryWriter, error) {
	return &zipWriter{w: zip.NewWriter(w)}, nil
}

func (z *zipWriter) add(name string, data []byte, mode os.FileMode, modTime time.Time) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modTime,
	}
	hdr.SetMode(mode)
	f, err := z.w.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

func (z *zipWriter) close() error {
	return z.w.Close()
}
