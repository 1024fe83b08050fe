package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	ErrInvalidID = errors.New("invalid artifact id")
	ErrNotFound  = errors.New("artifact not found")
)

// Artifact ids are opaque URL-safe tokens; this shape check doubles as the
// directory-traversal guard since a matching id can never contain a path
// separator.
var idRe = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// Meta is the bookkeeping kept per stored STEP document.
type Meta struct {
	ID        string    `json:"id"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps generated STEP documents on disk under a single directory,
// with a go-cache index of metadata so lookups skip the filesystem.
type Store struct {
	dir   string
	index *cache.Cache
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create step directory: %w", err)
	}
	return &Store{
		dir:   dir,
		index: cache.New(24*time.Hour, 30*time.Minute),
	}, nil
}

// NewID mints a fresh artifact id.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// PathFor returns the on-disk location for an id without checking existence.
// Used to hand the executor an export target before the artifact exists.
func (s *Store) PathFor(id string) (string, error) {
	if !idRe.MatchString(id) {
		return "", ErrInvalidID
	}
	return filepath.Join(s.dir, id+".step"), nil
}

// Register records a document the executor just exported.
func (s *Store) Register(id string) (*Meta, error) {
	path, err := s.PathFor(id)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrNotFound
	}
	meta := &Meta{
		ID:        id,
		Size:      info.Size(),
		CreatedAt: time.Now(),
	}
	s.index.Set(id, meta, cache.DefaultExpiration)
	return meta, nil
}

// Resolve returns the file path for a stored artifact.
func (s *Store) Resolve(id string) (string, error) {
	path, err := s.PathFor(id)
	if err != nil {
		return "", err
	}
	if _, found := s.index.Get(id); found {
		return path, nil
	}
	// Index miss is not authoritative; the file may predate this process.
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}

// Read returns the raw STEP bytes for a stored artifact.
func (s *Store) Read(id string) ([]byte, error) {
	path, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// DownloadName derives the human-facing filename from an id by truncation.
// Ids are opaque, so nothing beyond the prefix is ever inferred from them.
func DownloadName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "model-" + short + ".step"
}
