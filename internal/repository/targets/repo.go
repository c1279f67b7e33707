package targets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
)

// Repo serves the configured default target-field file, reloading it when its
// modification time or size changes.
type Repo struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	fields  []field.Field
	modTime time.Time
	size    int64
	loaded  bool
}

// NewRepo creates a repository for the file at path. Nothing is read until the first List.
func NewRepo(path string, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{path: path, logger: logger}
}

// Path returns the backing file path.
func (r *Repo) Path() string { return r.path }

// List returns the current target fields. The returned slice must not be modified.
func (r *Repo) List(_ context.Context) ([]field.Field, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, &LoadError{Path: r.path, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded && info.ModTime().Equal(r.modTime) && info.Size() == r.size {
		return r.fields, nil
	}

	fields, err := Load(r.path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &LoadError{Path: r.path, Err: err}
	}

	r.fields = fields
	r.modTime = info.ModTime()
	r.size = info.Size()
	r.loaded = true

	r.logger.Info("Target fields loaded",
		zap.String("path", r.path),
		zap.Int("count", len(fields)),
	)
	return fields, nil
}

// HealthCheck verifies the file loads.
func (r *Repo) HealthCheck(ctx context.Context) error {
	if _, err := r.List(ctx); err != nil {
		return fmt.Errorf("target fields: %w", err)
	}
	return nil
}
