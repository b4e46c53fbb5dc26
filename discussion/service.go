package discussion

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/letmevibethatforyou/discussx"
	"github.com/letmevibethatforyou/discussx/cache"
)

// Runner produces a fresh ranked result.
type Runner interface {
	Run(ctx context.Context) ([]discussx.Record, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) ([]discussx.Record, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context) ([]discussx.Record, error) {
	return f(ctx)
}

// Archiver receives every freshly computed, non-empty result.
type Archiver interface {
	Archive(ctx context.Context, records []discussx.Record) error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithArchiver copies fresh results to a.
func WithArchiver(a Archiver) ServiceOption {
	return func(s *Service) {
		s.archiver = a
	}
}

// Service is the externally triggered entry point. It serves the cached
// result while it is fresh and runs the pipeline otherwise.
type Service struct {
	runner   Runner
	slot     *cache.Slot
	cfg      Config
	group    singleflight.Group
	archiver Archiver
}

// NewService creates a Service. The cache slot is derived from cfg.CacheKey
// and cfg.CacheTTL.
func NewService(runner Runner, store cache.Store, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		runner: runner,
		slot:   cache.NewSlot(store, cfg.CacheKey, cfg.CacheTTL),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discussions returns the ranked discussions. It never fails: any error
// yields an empty, non-nil list.
func (s *Service) Discussions(ctx context.Context) (records []discussx.Record) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "discussion trigger panicked", "panic", fmt.Sprint(r))
			records = []discussx.Record{}
		}
	}()

	if cached, ok := s.cached(ctx); ok {
		return cached
	}

	if !s.cfg.Coalesce {
		return s.refresh(ctx)
	}

	// The flight is shared by every caller and ignores the leader's
	// cancellation.
	flightCtx := context.WithoutCancel(ctx)
	v, _, shared := s.group.Do(s.slot.Key(), func() (any, error) {
		if cached, ok := s.cached(flightCtx); ok {
			return cached, nil
		}
		return s.refresh(flightCtx), nil
	})
	if shared {
		slog.DebugContext(ctx, "joined in-flight discussion run")
	}
	out := v.([]discussx.Record)
	if shared {
		out = append([]discussx.Record(nil), out...)
		if out == nil {
			out = []discussx.Record{}
		}
	}
	return out
}

func (s *Service) cached(ctx context.Context) ([]discussx.Record, bool) {
	records, ok, err := s.slot.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed, treating as miss", "key", s.slot.Key(), "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if records == nil {
		records = []discussx.Record{}
	}
	slog.DebugContext(ctx, "serving cached discussions", "key", s.slot.Key(), "results", len(records))
	return records, true
}

func (s *Service) refresh(ctx context.Context) []discussx.Record {
	records, err := s.runner.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "discussion run failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			slog.WarnContext(ctx, "caller gave up, failed run not cached", "cause", ctxErr)
			return []discussx.Record{}
		}
		if s.cfg.CacheFailedRuns {
			s.store(ctx, []discussx.Record{})
		}
		return []discussx.Record{}
	}
	if records == nil {
		records = []discussx.Record{}
	}

	s.store(ctx, records)
	if s.archiver != nil && len(records) > 0 {
		if err := s.archiver.Archive(ctx, records); err != nil {
			slog.WarnContext(ctx, "archiving discussions failed", "results", len(records), "error", err)
		}
	}
	return records
}

func (s *Service) store(ctx context.Context, records []discussx.Record) {
	if err := s.slot.Set(ctx, records); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", s.slot.Key(), "error", err)
	}
}
