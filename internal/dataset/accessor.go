package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nao1215/stopverifage/internal/metrics"
	"github.com/nao1215/stopverifage/internal/model"
)

// loadKey is the single flight key; an Accessor holds one dataset.
const loadKey = "dataset"

// Snapshot is a memoized dataset together with where it came from.
type Snapshot struct {
	// Dataset is the loaded document. It is never nil.
	Dataset *model.Dataset

	// Source is the name of the source that answered, or empty when every
	// source failed.
	Source string

	// Digest is the fingerprint of Dataset.
	Digest string

	// LoadedAt is when the snapshot was memoized.
	LoadedAt time.Time

	// Err holds the joined source errors when every source failed.
	Err error
}

// Sites returns the site list of the snapshot.
func (s *Snapshot) Sites() []model.Site {
	if s == nil || s.Dataset == nil {
		return []model.Site{}
	}
	return s.Dataset.Sites
}

// Failed reports whether the snapshot stands in for a load that failed.
func (s *Snapshot) Failed() bool {
	return s != nil && s.Err != nil
}

// Accessor loads a dataset from an ordered list of sources and memoizes
// the result until Invalidate is called.
type Accessor struct {
	sources []Source
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithLogger sets the logger used to report load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Accessor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAccessor returns an Accessor reading the sources in order.
func NewAccessor(sources []Source, opts ...Option) *Accessor {
	a := &Accessor{
		sources: sources,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sources returns the configured sources in load order.
func (a *Accessor) Sources() []Source {
	out := make([]Source, len(a.sources))
	copy(out, a.sources)
	return out
}

// Load returns the memoized snapshot, loading it on first use.
// It never fails: when no source answers, the failure is logged and an
// empty dataset is memoized. Concurrent first calls share one load.
func (a *Accessor) Load(ctx context.Context) *Snapshot {
	a.mu.RLock()
	snap, gen := a.snapshot, a.generation
	a.mu.RUnlock()
	if snap != nil {
		return snap
	}

	// The shared load outlives any single caller.
	loadCtx := context.WithoutCancel(ctx)

	v, _, _ := a.group.Do(loadKey, func() (any, error) {
		a.mu.RLock()
		current := a.snapshot
		a.mu.RUnlock()
		if current != nil {
			return current, nil
		}

		loaded := a.load(loadCtx)

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.generation == gen {
			a.snapshot = loaded
			metrics.SetDatasetSites(len(loaded.Sites()))
		}
		return loaded, nil
	})
	return v.(*Snapshot) //nolint:forcetypeassert // the group only stores snapshots
}

// Sites is shorthand for Load(ctx).Sites().
func (a *Accessor) Sites(ctx context.Context) []model.Site {
	return a.Load(ctx).Sites()
}

// Invalidate drops the memoized snapshot; the next Load reads the sources again.
func (a *Accessor) Invalidate() {
	a.mu.Lock()
	a.snapshot = nil
	a.generation++
	a.mu.Unlock()
	a.group.Forget(loadKey)
}

func (a *Accessor) load(ctx context.Context) *Snapshot {
	var errs []error
	for _, src := range a.sources {
		ds, err := src.Load(ctx)
		if err != nil {
			metrics.RecordDatasetLoad(src.Name(), metrics.OutcomeFailure)
			a.logger.Debug("dataset source failed", "source", src.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		metrics.RecordDatasetLoad(src.Name(), metrics.OutcomeSuccess)
		a.logger.Debug("dataset loaded", "source", src.Name(), "sites", len(ds.Sites))
		return &Snapshot{
			Dataset:  ds,
			Source:   src.Name(),
			Digest:   ds.Digest(),
			LoadedAt: a.now(),
		}
	}

	err := errors.Join(errs...)
	if err == nil {
		err = ErrNoSources
	}
	a.logger.Error("failed to load site data", "error", err)

	empty := &model.Dataset{Sites: []model.Site{}}
	return &Snapshot{
		Dataset:  empty,
		Digest:   empty.Digest(),
		LoadedAt: a.now(),
		Err:      err,
	}
}

// ErrNoSources is reported when an Accessor has no source configured.
var ErrNoSources = errors.New("no dataset source configured")
