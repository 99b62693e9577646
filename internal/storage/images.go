package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const sniffLen = 3072

var (
	ErrNotAnImage = errors.New("file is not an image")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// URLResolver turns a stored filename into the public URL served under
// /uploads. Items and points share one resolver so both resolve identically.
type URLResolver struct {
	BaseURL string
}

func NewURLResolver(baseURL string) URLResolver {
	return URLResolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (r URLResolver) Resolve(filename string) string {
	if filename == "" {
		return ""
	}
	return r.BaseURL + "/uploads/" + filename
}

type ImageStore interface {
	Save(ctx context.Context, originalName string, content io.Reader) (string, error)
	Remove(ctx context.Context, filename string) error
}

type DiskImageStore struct {
	dir string
}

func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskImageStore{dir: dir}, nil
}

func (s *DiskImageStore) Dir() string { return s.dir }

// Save writes content under a freshly generated name and returns that name.
// The file is created exclusively, an existing upload is never replaced.
func (s *DiskImageStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := StoredFilename(originalName)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close image file: %w", err)
	}
	return name, nil
}

func (s *DiskImageStore) Remove(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error removing image %s: %v", filename, err)
		return err
	}
	return nil
}

// StoredFilename prefixes the sanitized base of the uploaded name with a
// random uuid.
func StoredFilename(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "image"
	}
	return uuid.NewString() + "-" + base
}

// SniffImage detects the MIME type of r from its first bytes. It returns the
// detected type and a reader that still yields the full content.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read image: %w", err)
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	body := io.MultiReader(bytes.NewReader(head), r)
	if !strings.HasPrefix(mime.String(), "image/") {
		return mime.String(), body, ErrNotAnImage
	}
	return mime.String(), body, nil
}
