// Package uploads validates and stores seller product images on disk.
package uploads

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// MaxFiles is the number of images a product may carry.
	MaxFiles = 2
	// MaxFileSize is the per-image limit.
	MaxFileSize = 3 * 1024 * 1024
)

var (
	ErrTooManyFiles = errors.New("Too many files (max 2 images)")
	ErrFileTooLarge = errors.New("File too large (max 3MB per image)")
	ErrNotAnImage   = errors.New("Only images allowed (.png/.jpg/.jpeg/.webp)")

	allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// Store writes images under <root>/sellers/<sellerID>/ and serves them under
// <urlPrefix>/sellers/<sellerID>/.
type Store struct {
	root      string
	urlPrefix string
	now       func() time.Time
}

// NewStore returns a store rooted at dir. urlPrefix is the public mount
// point, e.g. "/uploads".
func NewStore(dir, urlPrefix string) *Store {
	return &Store{root: dir, urlPrefix: strings.TrimRight(urlPrefix, "/"), now: time.Now}
}

// Root is the directory served as static files.
func (s *Store) Root() string { return s.root }

// Validate checks count, extension and size of every file before anything
// is written.
func (s *Store) Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if !allowedExt[strings.ToLower(filepath.Ext(fh.Filename))] {
			return ErrNotAnImage
		}
		if fh.Size > MaxFileSize {
			return ErrFileTooLarge
		}
	}
	return nil
}

// Save validates and writes files, returning their public paths in order.
func (s *Store) Save(sellerID string, files []*multipart.FileHeader) ([]string, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []string{}, nil
	}

	sellerDir := sanitize(sellerID, "unknown")
	dir := filepath.Join(s.root, "sellers", sellerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	out := make([]string, 0, len(files))
	for _, fh := range files {
		name := s.fileName(fh.Filename)
		if err := fasthttp.SaveMultipartFile(fh, filepath.Join(dir, name)); err != nil {
			_ = s.Remove(out)
			return nil, fmt.Errorf("save %s: %w", fh.Filename, err)
		}
		out = append(out, path.Join(s.urlPrefix, "sellers", sellerDir, name))
	}
	return out, nil
}

// Remove deletes files by the public paths Save returned. Paths outside the
// store's sellers directory are refused; files already gone are ignored.
func (s *Store) Remove(paths []string) error {
	sellersDir := filepath.Join(s.root, "sellers")
	var errs []error
	for _, p := range paths {
		rel := strings.TrimPrefix(path.Clean(p), s.urlPrefix+"/")
		full := filepath.Join(s.root, filepath.FromSlash(rel))
		if !strings.HasPrefix(full, sellersDir+string(filepath.Separator)) {
			errs = append(errs, fmt.Errorf("remove %s: outside upload dir", p))
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// fileName keeps the original base name but makes it safe and unique.
func (s *Store) fileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	return sanitize(base, "image") + "_" + strconv.FormatInt(s.now().UnixNano(), 10) + ext
}

func sanitize(s, fallback string) string {
	if s == "" || s == "." {
		return fallback
	}
	return unsafeName.ReplaceAllString(s, "_")
}
