// Package application assembles a core.Service from configuration.
package application

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/RdgUpload/internal/config"
	"github.com/JonMunkholm/RdgUpload/internal/core"
	"github.com/JonMunkholm/RdgUpload/internal/storage"
)

// LoadProfiles returns the profiles named by cfg: the profiles file when set,
// otherwise the built-ins, with the configured default applied.
func LoadProfiles(cfg config.ConvertConfig) (*core.ProfileSet, error) {
	profiles := core.BuiltinProfiles()
	if cfg.ProfilesFile != "" {
		loaded, err := core.LoadProfiles(cfg.ProfilesFile)
		if err != nil {
			return nil, err
		}
		profiles = loaded
	}

	if cfg.DefaultProfile != "" {
		withDefault, err := profiles.WithDefault(cfg.DefaultProfile)
		if err != nil {
			return nil, fmt.Errorf("CONVERT_DEFAULT_PROFILE: %w", err)
		}
		profiles = withDefault
	}
	return profiles, nil
}

// NewStore opens the artifact store selected by cfg.
func NewStore(cfg config.StorageConfig) (core.ArtifactStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return storage.NewMemoryStore(cfg.TTL), nil
	case "disk", "":
		return storage.NewDiskStore(cfg.StorageDir(), cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewService wires profiles, storage and limits into a core.Service.
func NewService(cfg *config.Config) (*core.Service, error) {
	profiles, err := LoadProfiles(cfg.Convert)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	core.ConvertTimeout = cfg.Upload.Timeout

	slog.Info("conversion service ready",
		"profiles", strings.Join(profiles.Names(), ","),
		"default_profile", profiles.Default().Name,
		"storage", cfg.Storage.Backend,
		"artifact_ttl", cfg.Storage.TTL,
	)

	return core.NewService(profiles, store, core.ServiceConfig{
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
		PreviewRows:   cfg.Convert.PreviewRows,
	}), nil
}
