package discussion

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/letmevibethatforyou/discussx"
)

// Pipeline fans queries out to a Searcher and reduces the hits to ranked
// records.
type Pipeline struct {
	searcher discussx.Searcher
	cfg      Config
	filter   *Filter
	plan     []Query
}

// NewPipeline creates a Pipeline over searcher.
func NewPipeline(searcher discussx.Searcher, cfg Config) (*Pipeline, error) {
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	plan := BuildPlan(cfg)
	if len(plan) == 0 {
		return nil, errors.Mark(errors.New("query plan is empty"), discussx.ErrInvalidOption)
	}
	return &Pipeline{
		searcher: searcher,
		cfg:      cfg,
		filter:   NewFilter(cfg.Subjects, cfg.SpamWords),
		plan:     plan,
	}, nil
}

// Run executes every planned query concurrently, waits for all of them, and
// returns the deduplicated, filtered and ranked records. A failing query
// contributes no hits. Run fails when the searcher's preflight fails or when
// every query failed.
func (p *Pipeline) Run(ctx context.Context) ([]discussx.Record, error) {
	start := time.Now()
	logger := slog.Default().With("run_id", ksuid.New().String())

	if pf, ok := p.searcher.(discussx.Preflighter); ok {
		if err := pf.Preflight(ctx); err != nil {
			logger.ErrorContext(ctx, "search preflight failed", "error", err)
			return nil, errors.Wrap(err, "preflight")
		}
	}

	batches := make([][]discussx.Post, len(p.plan))
	var failed atomic.Int32

	var g errgroup.Group
	if p.cfg.Concurrency > 0 {
		g.SetLimit(p.cfg.Concurrency)
	}
	for i, q := range p.plan {
		i, q := i, q
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					logger.ErrorContext(ctx, "query panicked",
						"query", q.Expr.String(),
						"community", q.Community,
						"panic", fmt.Sprint(r),
					)
				}
			}()

			res, err := p.searcher.Search(ctx, q.Expr, q.Options(p.cfg)...)
			if err == nil && res == nil {
				err = errors.Mark(errors.New("searcher returned no results value"), discussx.ErrBackendUnavailable)
			}
			if err != nil {
				failed.Add(1)
				logger.WarnContext(ctx, "query failed",
					"query", q.Expr.String(),
					"community", q.Community,
					"error", err,
				)
				return nil
			}
			batches[i] = res.Items
			return nil
		})
	}
	_ = g.Wait()

	if int(failed.Load()) == len(p.plan) {
		logger.ErrorContext(ctx, "all queries failed", "queries", len(p.plan))
		return nil, errors.Mark(
			errors.Newf("all %d queries failed", len(p.plan)),
			discussx.ErrBackendUnavailable,
		)
	}

	var hits []discussx.Post
	for _, b := range batches {
		hits = append(hits, b...)
	}

	candidates := Dedupe(hits)
	selected := p.filter.Select(candidates, p.cfg.MaxResults)

	records := make([]discussx.Record, len(selected))
	for i, c := range selected {
		records[i] = p.record(c)
	}
	Rank(records, p.cfg.Subjects)

	logger.InfoContext(ctx, "discussion pipeline finished",
		"queries", len(p.plan),
		"failed_queries", failed.Load(),
		"hits", len(hits),
		"unique", len(candidates),
		"results", len(records),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return records, nil
}

func (p *Pipeline) record(c Candidate) discussx.Record {
	community := c.Community
	if community == "" {
		community = "r/unknown"
	}
	return discussx.Record{
		ID:          c.ID,
		Title:       c.Title,
		Author:      c.Author,
		Created:     c.CreatedAt,
		URL:         p.cfg.PermalinkBase + c.Permalink,
		Community:   community,
		Score:       c.Score,
		NumComments: c.NumComments,
		Snippet:     Snippet(c.Body, c.Title, p.cfg.Subjects, p.cfg.SnippetLength),
	}
}
