package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Local static asset store
//
// All artifacts (uploads, renders, music, narration cache) live under one
// data directory, served publicly at /static/. A public URL and a local path
// are two views of the same file.
// ---------------------------------------------------------------------------

const staticPrefix = "/static/"

// Well-known subdirectories under the data dir.
const (
	UploadsDir  = "uploads"
	RendersDir  = "renders"
	MusicDir    = "music"
	TTSCacheDir = "tts_cache"
)

type Store struct {
	dataDir string
}

func New(dataDir string) (*Store, error) {
	for _, sub := range []string{UploadsDir, RendersDir, MusicDir, TTSCacheDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data dir %s: %w", sub, err)
		}
	}
	return &Store{dataDir: dataDir}, nil
}

// DataDir is the root served at /static/.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Dir returns the absolute path of a well-known subdirectory.
func (s *Store) Dir(sub string) string {
	return filepath.Join(s.dataDir, sub)
}

// LocalPath maps a public /static/ URL onto its file under the data dir.
// Non-static URLs resolve to "" so callers treat them as missing files.
func (s *Store) LocalPath(url string) string {
	if !strings.HasPrefix(url, staticPrefix) {
		return ""
	}
	rel := strings.TrimPrefix(url, staticPrefix)

	// Reject traversal out of the data dir.
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		log.Printf("[Storage] Rejected path traversal in URL %s", url)
		return ""
	}

	return filepath.Join(s.dataDir, clean)
}

// PublicURL maps a file under the data dir onto its /static/ URL.
func (s *Store) PublicURL(localPath string) string {
	rel, err := filepath.Rel(s.dataDir, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return staticPrefix + filepath.ToSlash(rel)
}

// SaveUpload persists a multipart upload under uploads/ with a generated
// name, preserving the original extension. Returns the public URL.
func (s *Store) SaveUpload(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.dataDir, UploadsDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	log.Printf("[Storage] Saved upload %s (%d bytes)", name, written)
	return staticPrefix + UploadsDir + "/" + name, nil
}
