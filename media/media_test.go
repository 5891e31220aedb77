package media

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("data:" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func TestSave_WritesUnderGenderDir(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "/uploads/")

	urls, err := s.Save("women", fileHeaders(t, "a.JPG", "b.png"))
	require.NoError(t, err)
	require.Len(t, urls, 2)

	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "/uploads/women/"), u)
		name := strings.TrimPrefix(u, "/uploads/women/")
		assert.Regexp(t, `^\d+-\d+\.(jpg|png)$`, name)

		_, err := os.Stat(filepath.Join(dir, "women", name))
		assert.NoError(t, err)
	}
}

func TestSave_DefaultsToUnisex(t *testing.T) {
	s := NewStore(t.TempDir(), "/uploads")
	urls, err := s.Save("", fileHeaders(t, "a.webp"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(urls[0], "/uploads/unisex/"))
}

func TestSave_Rejects(t *testing.T) {
	s := NewStore(t.TempDir(), "/uploads")

	_, err := s.Save("../../etc", fileHeaders(t, "a.jpg"))
	assert.ErrorIs(t, err, ErrBadGender)

	_, err = s.Save("men", fileHeaders(t, "shell.sh"))
	assert.ErrorIs(t, err, ErrBadExtension)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.Save("men", nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	names := make([]string, MaxFiles+1)
	for i := range names {
		names[i] = "x.jpg"
	}
	_, err = s.Save("men", fileHeaders(t, names...))
	assert.ErrorIs(t, err, ErrTooManyFiles)
}

func TestRemove_OnlyUploads(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, "/uploads")

	urls, err := s.Save("men", fileHeaders(t, "a.jpg"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "..", "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	errs := s.Remove(append(urls, "/assets/products/men/boxer.jpg", "/uploads/../keep.txt"))
	assert.Len(t, errs, 1, "traversal attempt is reported, not executed")

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(urls[0], "/uploads/")))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(outside)
	assert.NoError(t, err)

	errs = s.Remove(urls)
	assert.Len(t, errs, 1, "second removal reports the missing file")
}
