package algolia

import (
	"context"
	"strings"
	"time"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/discussx"
)

const permalinkBase = "https://www.reddit.com"

// Searcher implements discussx.Searcher over an archive index, so a query
// plan can be replayed against previously archived discussions.
type Searcher struct {
	client    *Client
	indexName string
}

// NewSearcher creates a Searcher reading indexName.
func NewSearcher(client *Client, indexName string) *Searcher {
	return &Searcher{client: client, indexName: indexName}
}

// Search implements the discussx.Searcher interface. Algolia has no boolean
// query language, so the positive words of the expression become the text
// query and negations are dropped. Recency and sort options are ignored.
func (s *Searcher) Search(ctx context.Context, query discussx.Expression, opts ...discussx.SearchOption) (*discussx.Results, error) {
	startTime := time.Now()

	select {
	case <-ctx.Done():
		return nil, discussx.ErrCanceled
	default:
	}

	if discussx.IsEmpty(query) {
		return nil, discussx.ErrEmptyQuery
	}

	cfg := discussx.NewSearchConfig(opts...)
	text := strings.Join(words(query), " ")

	_, span := s.client.tracer.Start(ctx, "algolia.search",
		trace.WithAttributes(
			attribute.String("algolia.index_name", s.indexName),
			attribute.String("algolia.query", text),
		),
	)
	defer span.End()

	index, err := s.client.openIndex(s.indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return nil, errors.Mark(
			errors.Wrap(err, "failed to get Algolia client"),
			discussx.ErrBackendUnavailable,
		)
	}

	params := []interface{}{opt.HitsPerPage(cfg.Limit)}
	if cfg.Community != "" {
		params = append(params, opt.Filters(`subreddit:"r/`+cfg.Community+`"`))
	}

	res, err := index.Search(text, params...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, errors.Mark(
			errors.Wrapf(err, "Algolia search failed"),
			discussx.ErrBackendUnavailable,
		)
	}

	var hits []object
	if err := res.UnmarshalHits(&hits); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode hits failed")
		return nil, errors.Mark(
			errors.Wrap(err, "failed to decode Algolia hits"),
			discussx.ErrBackendUnavailable,
		)
	}

	items := make([]discussx.Post, 0, len(hits))
	for _, h := range hits {
		items = append(items, postFromRecord(h.Record))
	}

	span.SetAttributes(attribute.Int("algolia.hit_count", len(items)))
	span.SetStatus(codes.Ok, "")
	return &discussx.Results{
		Items: items,
		Query: text,
		Took:  time.Since(startTime).Milliseconds(),
	}, nil
}

// postFromRecord turns an archived record back into a raw hit. The snippet
// stands in for the body.
func postFromRecord(r discussx.Record) discussx.Post {
	return discussx.Post{
		ID:          r.ID,
		Title:       r.Title,
		Body:        r.Snippet,
		Author:      r.Author,
		CreatedUTC:  r.Created,
		Permalink:   strings.TrimPrefix(r.URL, permalinkBase),
		Community:   r.Community,
		Score:       r.Score,
		NumComments: r.NumComments,
	}
}

// words collects the positive terms of expr in order.
func words(expr discussx.Expression) []string {
	switch e := expr.(type) {
	case discussx.TermExpr:
		return strings.Fields(e.Value)
	case discussx.PhraseExpr:
		return strings.Fields(e.Value)
	case discussx.TitleExpr:
		return strings.Fields(e.Value)
	case discussx.AndExpr:
		return collect(e.Exprs)
	case discussx.OrExpr:
		return collect(e.Exprs)
	default:
		return nil
	}
}

func collect(exprs []discussx.Expression) []string {
	var out []string
	for _, e := range exprs {
		if e != nil {
			out = append(out, words(e)...)
		}
	}
	return out
}
