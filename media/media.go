// Package media stores product images uploaded from the admin panel on
// local disk, one directory per gender.
package media

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"storefront/models"
)

const MaxFiles = 12

var (
	ErrTooManyFiles  = fmt.Errorf("%w: at most %d images per upload", models.ErrValidation, MaxFiles)
	ErrNoFiles       = fmt.Errorf("%w: no images in upload", models.ErrValidation)
	ErrBadGender     = fmt.Errorf("%w: gender must be one of men, women, unisex, kids", models.ErrValidation)
	ErrBadExtension  = fmt.Errorf("%w: only image files are accepted", models.ErrValidation)
	errOutsideUpload = errors.New("path outside upload directory")
)

var imageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".avif": true,
}

type Store struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewStore serves files written under dir at urlPrefix (e.g. "/uploads").
func NewStore(dir, urlPrefix string) *Store {
	return &Store{
		dir:    dir,
		prefix: "/" + strings.Trim(urlPrefix, "/"),
		now:    time.Now,
	}
}

func (s *Store) Dir() string       { return s.dir }
func (s *Store) URLPrefix() string { return s.prefix }

// Save writes the files into the gender directory and returns their
// public URLs in upload order. An empty gender means unisex.
func (s *Store) Save(gender string, files []*multipart.FileHeader) ([]string, error) {
	g := models.Gender(strings.TrimSpace(gender))
	if g == "" {
		g = models.GenderUnisex
	}
	if !g.Valid() {
		return nil, ErrBadGender
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > MaxFiles {
		return nil, ErrTooManyFiles
	}
	for _, fh := range files {
		if !imageExt[strings.ToLower(filepath.Ext(fh.Filename))] {
			return nil, ErrBadExtension
		}
	}

	dir := filepath.Join(s.dir, string(g))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.fileName(fh.Filename)
		if err != nil {
			return nil, err
		}
		if err := writeFile(fh, filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("save %s: %w", fh.Filename, err)
		}
		urls = append(urls, path.Join(s.prefix, string(g), name))
	}
	return urls, nil
}

// Remove deletes the files behind urls that live under the upload
// prefix. Other URLs are skipped. Every failure is returned.
func (s *Store) Remove(urls []string) []error {
	var errs []error
	for _, u := range urls {
		rel, ok := strings.CutPrefix(u, s.prefix+"/")
		if !ok {
			continue
		}
		p, err := s.localPath(rel)
		if err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", u, err))
			continue
		}
		if err := os.Remove(p); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", u, err))
		}
	}
	return errs
}

func (s *Store) localPath(rel string) (string, error) {
	base, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(base, filepath.FromSlash(rel))
	if !strings.HasPrefix(p, base+string(filepath.Separator)) {
		return "", errOutsideUpload
	}
	return p, nil
}

func (s *Store) fileName(original string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1e9))
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%d%s", s.now().UnixMilli(), n.Int64(), ext), nil
}

func writeFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
