package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rfc-mirror/pkg/domain"
)

// DefaultRelativeDir is the destination folder below the user's home directory
const DefaultRelativeDir = "code/test/RFC"

// ErrEmptyDir is returned when no destination directory is configured
var ErrEmptyDir = errors.New("destination directory is empty")

// FileStore persists documents as individual text files in a single directory.
// The directory listing is read fresh on every existence check.
type FileStore struct {
	dir    string
	prefix string
}

// NewFileStore creates a store rooted at dir. An empty prefix uses domain.DefaultFilePrefix.
func NewFileStore(dir, prefix string) (*FileStore, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if prefix == "" {
		prefix = domain.DefaultFilePrefix
	}
	return &FileStore{dir: dir, prefix: prefix}, nil
}

// DefaultDir returns ~/code/test/RFC for the invoking user
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultRelativeDir), nil
}

// Dir returns the destination directory
func (s *FileStore) Dir() string {
	return s.dir
}

// FileName returns the file name used for id
func (s *FileStore) FileName(id domain.DocumentID) string {
	return domain.FileName(s.prefix, id)
}

// Prepare creates the destination directory and any missing parents.
// It reports whether the directory had to be created; an existing directory is left untouched.
func (s *FileStore) Prepare() (bool, error) {
	info, err := os.Stat(s.dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("destination %s exists and is not a directory", s.dir)
		}
		log.Printf("%s already exists.", s.dir)
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat destination: %w", err)
	}

	log.Printf("Folder doesn't exist...")
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("create destination: %w", err)
	}
	log.Printf("Folder: %s created!", s.dir)
	return true, nil
}

// Exists lists the destination directory and reports whether the file for id is present
func (s *FileStore) Exists(id domain.DocumentID) (bool, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return false, fmt.Errorf("list destination: %w", err)
	}

	name := s.FileName(id)
	for _, entry := range entries {
		if entry.Name() == name {
			return true, nil
		}
	}
	return false, nil
}

// Save writes text for id unless a file for it already exists.
// It reports whether a file was written.
func (s *FileStore) Save(id domain.DocumentID, text string) (bool, error) {
	exists, err := s.Exists(id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	path := filepath.Join(s.dir, s.FileName(id))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Count returns the number of entries currently in the destination directory
func (s *FileStore) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list destination: %w", err)
	}
	return len(entries), nil
}
