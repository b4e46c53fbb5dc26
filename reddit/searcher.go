package reddit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/discussx"
)

const maxLimit = 100

// Searcher implements the discussx.Searcher interface using Reddit search.
type Searcher struct {
	client *Client
}

// NewSearcher creates a new Reddit searcher.
func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

// Preflight implements discussx.Preflighter.
func (s *Searcher) Preflight(ctx context.Context) error {
	return s.client.Preflight(ctx)
}

// Search implements the discussx.Searcher interface. In authenticated mode a
// 401 response invalidates the token, fetches exactly one fresh token and
// retries the query once; a second rejection returns discussx.ErrUnauthorized.
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
	if cfg.Limit <= 0 || cfg.Limit > maxLimit {
		return nil, errors.Mark(
			errors.Newf("limit must be between 1 and %d, got %d", maxLimit, cfg.Limit),
			discussx.ErrInvalidOption,
		)
	}

	rendered := query.String()
	ctx, span := s.client.tracer.Start(ctx, "reddit.search",
		trace.WithAttributes(
			attribute.String("reddit.query", rendered),
			attribute.String("reddit.community", cfg.Community),
			attribute.Int("reddit.limit", cfg.Limit),
			attribute.Bool("reddit.authenticated", s.client.Authenticated()),
		),
	)
	defer span.End()

	posts, err := s.attempt(ctx, rendered, cfg)
	if se := asStatusError(err); se != nil && se.unauthorized() && s.client.Authenticated() {
		slog.WarnContext(ctx, "reddit rejected bearer token, refreshing once",
			"query", rendered, "community", cfg.Community)
		s.client.invalidateToken(se.token)
		posts, err = s.attempt(ctx, rendered, cfg)
	}
	err = wrapStatusError(err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reddit search failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("reddit.result_count", len(posts)))
	span.SetStatus(codes.Ok, "search completed")

	return &discussx.Results{
		Items: posts,
		Query: rendered,
		Took:  time.Since(startTime).Milliseconds(),
	}, nil
}

// attempt issues one HTTP request with its own timeout.
func (s *Searcher) attempt(ctx context.Context, rendered string, cfg *discussx.SearchConfig) ([]discussx.Post, error) {
	var token string
	if s.client.Authenticated() {
		var err error
		token, err = s.client.accessToken(ctx)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.client.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL(rendered, cfg), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.client.userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, classify(err, "reddit search request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, classify(err, "read search response")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &statusError{code: res.StatusCode, token: token}
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, errors.Mark(
			errors.Wrap(err, "failed to decode search listing"),
			discussx.ErrBackendUnavailable,
		)
	}
	return l.posts(), nil
}

// searchURL builds the global or community-restricted search URL.
func (s *Searcher) searchURL(rendered string, cfg *discussx.SearchConfig) string {
	base, suffix := s.client.publicBase, ".json"
	if s.client.Authenticated() {
		base, suffix = s.client.oauthBase, ""
	}
	base = strings.TrimRight(base, "/")

	path := "/search" + suffix
	params := url.Values{}
	params.Set("q", rendered)
	params.Set("limit", strconv.Itoa(cfg.Limit))
	params.Set("sort", string(cfg.Sort))
	params.Set("t", string(cfg.TimeRange))
	if cfg.Community != "" {
		path = "/r/" + url.PathEscape(cfg.Community) + path
		params.Set("restrict_sr", "true")
	}
	return base + path + "?" + params.Encode()
}

// statusError carries a non-2xx response status and the token that was sent.
type statusError struct {
	code  int
	token string
}

func (e *statusError) Error() string {
	return "reddit returned status " + strconv.Itoa(e.code)
}

func (e *statusError) unauthorized() bool {
	return e.code == http.StatusUnauthorized
}

func asStatusError(err error) *statusError {
	var se *statusError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// wrapStatusError attaches the matching sentinel to a status error.
func wrapStatusError(err error) error {
	se := asStatusError(err)
	if se == nil {
		return err
	}
	if se.unauthorized() {
		return errors.Mark(err, discussx.ErrUnauthorized)
	}
	return errors.Mark(err, discussx.ErrBackendUnavailable)
}

// classify maps transport errors onto the discussx sentinels.
func classify(err error, msg string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Mark(errors.Wrap(err, msg), discussx.ErrTimeout)
	case errors.Is(err, context.Canceled):
		return errors.Mark(errors.Wrap(err, msg), discussx.ErrCanceled)
	default:
		return errors.Mark(errors.Wrap(err, msg), discussx.ErrBackendUnavailable)
	}
}
