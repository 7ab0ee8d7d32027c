package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/RdgUpload/internal/logging"
)

// ConvertTimeout bounds a single conversion, including the wait for a slot.
var ConvertTimeout = 2 * time.Minute

// DefaultPreviewRows is the preview size when the caller does not pick one.
const DefaultPreviewRows = 20

// ServiceConfig tunes a Service.
type ServiceConfig struct {
	MaxConcurrent int           // Parallel conversions (0 = DefaultMaxConcurrentConversions)
	MaxWait       time.Duration // Wait for a free slot (0 = DefaultConversionWait)
	PreviewRows   int           // Default preview size (0 = DefaultPreviewRows)
}

// Service runs conversions and hands out their artifacts.
type Service struct {
	profiles    *ProfileSet
	store       ArtifactStore
	limiter     *ConversionLimiter
	previewRows int
}

// NewService creates a Service over the given profiles and artifact store.
func NewService(profiles *ProfileSet, store ArtifactStore, cfg ServiceConfig) *Service {
	if profiles == nil {
		profiles = BuiltinProfiles()
	}
	preview := cfg.PreviewRows
	if preview <= 0 {
		preview = DefaultPreviewRows
	}
	return &Service{
		profiles:    profiles,
		store:       store,
		limiter:     NewConversionLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		previewRows: preview,
	}
}

// ConvertInput is one uploaded file plus the options chosen for it.
type ConvertInput struct {
	FileName  string
	Data      []byte
	Profile   string // "" selects the default profile
	Overrides Overrides
}

// StoredArtifact describes an artifact waiting for download.
type StoredArtifact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Rows        int    `json:"rows"`
}

// PreviewResult is the head of a filtered table.
type PreviewResult struct {
	Table *Table // Columns plus at most the requested number of rows
	Total int    // Rows that passed the filter
}

// Profiles returns the configured profiles.
func (s *Service) Profiles() *ProfileSet {
	return s.profiles
}

// LimiterStatus reports active and available conversion slots.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// PendingArtifacts returns the number of artifacts not yet downloaded.
func (s *Service) PendingArtifacts() int {
	return s.store.Len()
}

// Convert processes an upload and stores the artifact for a later Download.
func (s *Service) Convert(ctx context.Context, in ConvertInput) (*StoredArtifact, error) {
	profile, err := s.profiles.Get(in.Profile)
	if err != nil {
		return nil, err
	}
	req, err := profile.Request(in.Data, in.FileName, in.Overrides)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(ctx,
		"file", in.FileName,
		"profile", profile.Name,
		"output", req.Output.String(),
		"size", humanize.Bytes(uint64(len(in.Data))),
	)
	if ip := ClientIPFromContext(ctx); ip != "" {
		logger = logger.With("ip", ip)
	}

	start := time.Now()
	art, err := s.run(ctx, req)
	metricConversionSeconds.WithLabelValues(req.Output.String()).Observe(time.Since(start).Seconds())
	metricConversions.WithLabelValues(req.Output.String(), conversionResult(err)).Inc()
	if err != nil {
		logger.Warn("conversion failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	metricRowsEmitted.WithLabelValues(req.Output.String()).Add(float64(art.Rows))

	id, err := s.store.Put(ctx, art)
	if err != nil {
		logger.Error("store artifact failed", "error", err)
		return nil, fmt.Errorf("store artifact: %w", err)
	}
	metricPendingArtifacts.Set(float64(s.store.Len()))

	logger.Info("conversion complete",
		"artifact_id", id,
		"artifact", art.Name,
		"rows", art.Rows,
		"artifact_size", humanize.Bytes(uint64(len(art.Data))),
		"duration", time.Since(start),
	)

	return &StoredArtifact{
		ID:          id,
		Name:        art.Name,
		ContentType: art.ContentType,
		Size:        int64(len(art.Data)),
		Rows:        art.Rows,
	}, nil
}

type processResult struct {
	art *Artifact
	err error
}

// run executes Process under the limiter and ConvertTimeout. If ctx ends
// first the conversion keeps its slot until Process returns.
func (s *Service) run(ctx context.Context, req Request) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, ConvertTimeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	done := make(chan processResult, 1)
	go func() {
		defer s.limiter.Release()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in conversion", "panic", r, "file", req.SourceName)
				done <- processResult{err: fmt.Errorf("conversion panicked: %v", r)}
			}
		}()
		art, err := Process(req)
		done <- processResult{art: art, err: err}
	}()

	select {
	case res := <-done:
		return res.art, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Preview loads and filters an upload and returns its first limit rows
// without storing anything. limit <= 0 uses the configured preview size.
func (s *Service) Preview(ctx context.Context, in ConvertInput, limit int) (*PreviewResult, error) {
	profile, err := s.profiles.Get(in.Profile)
	if err != nil {
		return nil, err
	}
	req, err := profile.Request(in.Data, in.FileName, in.Overrides)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.previewRows
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	table, err := Load(req.Input, req.Kind, req.Load)
	if err != nil {
		return nil, err
	}
	table, err = Filter(table, req.Filter)
	if err != nil {
		return nil, err
	}
	if req.Columns.SecretURL != "" {
		table = UnwrapHyperlinks(table, req.Columns.SecretURL)
	}

	total := table.Len()
	rows := table.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}

	logging.FromContext(ctx).Debug("preview",
		"file", in.FileName,
		"profile", profile.Name,
		"rows", total,
	)

	return &PreviewResult{Table: table.withRows(rows), Total: total}, nil
}

// Download returns the artifact stored under id and forgets it. A second
// call with the same id fails with ErrArtifactNotFound.
func (s *Service) Download(ctx context.Context, id string) (*Artifact, error) {
	art, err := s.store.Take(ctx, id)
	metricPendingArtifacts.Set(float64(s.store.Len()))
	if err != nil {
		metricDownloads.WithLabelValues("miss").Inc()
		return nil, err
	}
	metricDownloads.WithLabelValues("ok").Inc()

	logging.FromContext(ctx).Info("artifact downloaded",
		"artifact_id", id,
		"artifact", art.Name,
		"size", humanize.Bytes(uint64(len(art.Data))),
	)
	return art, nil
}

// WaitForConversions blocks until in-flight conversions finish or ctx ends.
func (s *Service) WaitForConversions(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close releases the artifact store.
func (s *Service) Close() error {
	return s.store.Close()
}
