package core

import (
	"context"
	"errors"
)

// ErrArtifactNotFound is returned for an artifact ID that was never issued,
// has already been downloaded, or has expired.
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore holds generated artifacts between the conversion request and
// the download request. Take hands an artifact out at most once.
type ArtifactStore interface {
	Put(ctx context.Context, a *Artifact) (string, error)
	Take(ctx context.Context, id string) (*Artifact, error)
	Len() int
	Close() error
}
