package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Velocidex/ttlcache/v2"
	"github.com/google/uuid"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

// artifactExt marks files owned by a DiskStore.
const artifactExt = ".artifact"

// DefaultTTL is how long an unclaimed artifact is kept.
const DefaultTTL = 10 * time.Minute

type diskEntry struct {
	path        string
	name        string
	contentType string
	rows        int
}

// DiskStore stores artifacts as files under dir. Metadata lives in a TTL
// cache; when an entry expires its file is deleted.
type DiskStore struct {
	dir   string
	cache *ttlcache.Cache

	// mu makes Take's read-then-remove atomic so an ID is served once.
	mu sync.Mutex
}

// NewDiskStore creates dir if needed and removes artifacts left behind by a
// previous process.
func NewDiskStore(dir string, ttl time.Duration) (*DiskStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if err := sweep(dir); err != nil {
		return nil, err
	}

	s := &DiskStore{
		dir:   dir,
		cache: ttlcache.NewCache(),
	}
	_ = s.cache.SetTTL(ttl)
	s.cache.SkipTTLExtensionOnHit(true)
	s.cache.SetExpirationCallback(func(key string, value interface{}) error {
		if e, ok := value.(*diskEntry); ok {
			removeFile(e.path)
			slog.Debug("artifact expired", "artifact_id", key, "artifact", e.name)
		}
		return nil
	})
	return s, nil
}

// sweep deletes stale artifact files in dir.
func sweep(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read storage dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactExt) {
			continue
		}
		removeFile(filepath.Join(dir, e.Name()))
	}
	return nil
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("remove artifact file", "path", path, "error", err)
	}
}

// Dir returns the directory artifacts are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Put(ctx context.Context, a *core.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+artifactExt)
	if err := os.WriteFile(path, a.Data, 0o600); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	entry := &diskEntry{
		path:        path,
		name:        a.Name,
		contentType: a.ContentType,
		rows:        a.Rows,
	}
	if err := s.cache.Set(id, entry); err != nil {
		removeFile(path)
		return "", fmt.Errorf("index artifact: %w", err)
	}
	return id, nil
}

func (s *DiskStore) Take(ctx context.Context, id string) (*core.Artifact, error) {
	// IDs are only ever UUIDs; anything else cannot name a stored file.
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.ErrArtifactNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.cache.Get(id)
	if err != nil {
		return nil, core.ErrArtifactNotFound
	}
	e, ok := v.(*diskEntry)
	if !ok {
		return nil, core.ErrArtifactNotFound
	}

	data, err := os.ReadFile(e.path)
	_ = s.cache.Remove(id)
	removeFile(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	return &core.Artifact{
		Data:        data,
		Name:        e.name,
		ContentType: e.contentType,
		Rows:        e.rows,
	}, nil
}

func (s *DiskStore) Len() int {
	return len(s.cache.GetKeys())
}

// Close stops expiry and deletes every artifact still on disk.
func (s *DiskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Close()
	return sweep(s.dir)
}
