package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Velocidex/ttlcache/v2"
	"github.com/google/uuid"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

// MemoryStore keeps artifacts in memory until taken or expired.
type MemoryStore struct {
	cache *ttlcache.Cache
	mu    sync.Mutex
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{cache: ttlcache.NewCache()}
	_ = s.cache.SetTTL(ttl)
	s.cache.SkipTTLExtensionOnHit(true)
	return s
}

func (s *MemoryStore) Put(ctx context.Context, a *core.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.cache.Set(id, a); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Take(ctx context.Context, id string) (*core.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.cache.Get(id)
	if err != nil {
		return nil, core.ErrArtifactNotFound
	}
	_ = s.cache.Remove(id)

	a, ok := v.(*core.Artifact)
	if !ok {
		return nil, core.ErrArtifactNotFound
	}
	return a, nil
}

func (s *MemoryStore) Len() int {
	return len(s.cache.GetKeys())
}

func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}

var (
	_ core.ArtifactStore = (*MemoryStore)(nil)
	_ core.ArtifactStore = (*DiskStore)(nil)
)
