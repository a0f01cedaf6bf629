package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when a requested file does not exist in the store.
	ErrNotFound = errors.New("file not found")
	// ErrEmptyName is returned when saving without a filename.
	ErrEmptyName = errors.New("empty filename")
)

// Store keeps uploaded files in a single flat directory.
// Operations are not serialized, a concurrent save, open or sweep of the
// same name may interleave.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a store for it.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the directory files are stored in.
func (s *Store) Root() string {
	return s.root
}

// Save writes r to the file named name, replacing any existing file.
// The name is used as given. It returns the path written to.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	path := filepath.Join(s.root, name)
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return path, nil
}

// Open opens the named file for reading. Directories and names that resolve
// outside the root are reported as ErrNotFound.
// The caller must close the returned file.
func (s *Store) Open(name string) (*os.File, fs.FileInfo, error) {
	path, ok := s.resolve(name)
	if !ok {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, nil, ErrNotFound
	}

	return f, info, nil
}

func (s *Store) resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	path := filepath.Join(s.root, name)
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}
