package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalFileStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "documents/u2_kbis_1.pdf", strings.NewReader("content"), "application/pdf"))
	_, err = os.Stat(filepath.Join(root, "documents", "u2_kbis_1.pdf"))
	require.NoError(t, err, "File should be written under the root")

	r, err := store.Open(ctx, "documents/u2_kbis_1.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "content", string(data))

	require.NoError(t, store.Delete(ctx, "documents/u2_kbis_1.pdf"))
	_, err = store.Open(ctx, "documents/u2_kbis_1.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	assert.NoError(t, store.Delete(ctx, "documents/u2_kbis_1.pdf"), "Deleting twice is fine")
}

func TestLocalFileStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../outside.pdf", "/etc/passwd", `documents\..\x.pdf`, ""} {
		assert.Error(t, store.Save(ctx, key, strings.NewReader("x"), ""), key)
		_, err := store.Open(ctx, key)
		assert.ErrorIs(t, err, ErrFileNotFound, key)
	}
}

func TestUploadServiceStore(t *testing.T) {
	files := NewMockFileStore()
	uploads := NewUploadService(files)
	ctx := context.Background()

	require.NoError(t, uploads.Store(ctx, DocumentsDir, "a.pdf", newFileHeader(t, "scan.pdf", pdf)))
	assert.Equal(t, pdf, files.Files()["documents/a.pdf"])

	err := uploads.Store(ctx, DocumentsDir, "b.gif", newFileHeader(t, "scan.gif", pdf))
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(err))

	_, err = uploads.Open(ctx, DocumentsDir, "../a.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)

	uploads.Remove(ctx, DocumentsDir, "a.pdf")
	assert.False(t, files.FileExists("documents/a.pdf"))
}
