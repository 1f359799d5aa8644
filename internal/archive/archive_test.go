package archive_test

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/specialistvlad/palletforge/internal/archive"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/testutil"
	"github.com/stretchr/testify/require"
)

func skeleton(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"README.md":               "# node template\n",
		"node/src/main.rs":        "fn main() {}\n",
		"runtime/Cargo.toml.tmpl": "{{ .PackageName }}\n",
		"runtime/build.rs":        "fn main() {}\n",
	})
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func readTarZst(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zstd.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer zr.Close()

	files := make(map[string]string)
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[hdr.Name] = string(content)
	}
	return files
}

func TestAssembler(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		format archive.Format
		read   func(t *testing.T, data []byte) map[string]string
	}{
		{format: archive.FormatZip, read: readZip},
		{format: archive.FormatTarZst, read: readTarZst},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.format), func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)

			archiver, err := archive.New(tc.format)
			require.NoError(t, err)
			asm := archive.NewAssembler(archiver, archive.AssemblerOptions{SkeletonDir: skeleton(t)})

			data, err := asm.Assemble(ctx, &synth.Output{Manifest: []byte("[package]\n"), Runtime: []byte("// runtime\n")})
			require.NoError(t, err)

			require.Equal(t, map[string]string{
				"README.md":          "# node template\n",
				"node/src/main.rs":   "fn main() {}\n",
				"runtime/build.rs":   "fn main() {}\n",
				"runtime/Cargo.toml": "[package]\n",
				"runtime/src/lib.rs": "// runtime\n",
			}, tc.read(t, data))
		})
	}
}

func TestArchiver_RejectsDuplicateEntries(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)

	archiver, err := archive.New(archive.FormatZip)
	require.NoError(t, err)
	asm := archive.NewAssembler(archiver, archive.AssemblerOptions{
		SkeletonDir:  skeleton(t),
		ManifestPath: "README.md",
	})

	_, err = asm.Assemble(ctx, &synth.Output{})
	var archiveErr *archive.Error
	require.ErrorAs(t, err, &archiveErr)
	require.Equal(t, "add", archiveErr.Op)
	require.Equal(t, "README.md", archiveErr.Path)
}

func TestArchiver_InvalidPaths(t *testing.T) {
	t.Parallel()

	archiver, err := archive.New(archive.FormatZip)
	require.NoError(t, err)
	h, err := archiver.Open(context.Background(), "", "")
	require.NoError(t, err)

	for _, dest := range []string{"", "/etc/passwd", "../escape", "a/../../b"} {
		_, err := archiver.AddContent(h, []byte("x"), dest)
		require.Error(t, err, dest)
	}

	h, err = archiver.AddContent(h, []byte("x"), "./a//b.txt")
	require.NoError(t, err)
	_, err = archiver.AddContent(h, []byte("y"), "a/b.txt")
	require.Error(t, err, "normalized duplicate")

	data, err := archiver.Close(h)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a/b.txt": "x"}, readZip(t, data))

	_, err = archiver.Close(h)
	require.Error(t, err)
	_, err = archiver.AddContent(h, []byte("z"), "c.txt")
	require.Error(t, err)
}

func TestArchiver_MissingSkeleton(t *testing.T) {
	t.Parallel()

	archiver, err := archive.New(archive.FormatTarZst)
	require.NoError(t, err)
	_, err = archiver.Open(context.Background(), "/definitely/not/here", ".tmpl")
	var archiveErr *archive.Error
	require.ErrorAs(t, err, &archiveErr)
	require.Equal(t, "open", archiveErr.Op)
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := archive.New("rar")
	require.Error(t, err)
}
