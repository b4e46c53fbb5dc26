package discussion

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/letmevibethatforyou/discussx"
)

const (
	DefaultCacheKey   = "redditComments"
	DefaultCacheTTL   = time.Hour
	DefaultMaxResults = 10

	defaultGlobalLimit    = 30
	defaultCommunityLimit = 50
	defaultPermalinkBase  = "https://www.reddit.com"
)

// DefaultCommunities are the subreddits searched with a community-restricted
// query on every run.
var DefaultCommunities = []string{
	"webdev",
	"reactjs",
	"nextjs",
	"javascript",
	"jamstack",
	"vercel",
	"netlify",
}

// Config holds the pipeline and cache tuning.
type Config struct {
	// Subjects is the pair of terms every result must mention.
	Subjects Subjects

	// Communities receive one restricted query each.
	Communities []string

	// GlobalLimit and CommunityLimit cap each query's hits.
	GlobalLimit    int
	CommunityLimit int

	// Plan overrides the generated query plan when non-empty.
	Plan []Query

	// SpamWords overrides DefaultSpamWords when non-nil.
	SpamWords []string

	// MaxResults caps the output length.
	MaxResults int

	// SnippetLength caps each snippet, ellipsis included.
	SnippetLength int

	// PermalinkBase is prefixed to post permalinks to build record URLs.
	PermalinkBase string

	// Concurrency limits in-flight queries. Zero means unlimited.
	Concurrency int

	Sort      discussx.Sort
	TimeRange discussx.TimeRange

	// CacheKey names the single cache slot.
	CacheKey string

	// CacheTTL is how long a stored result stays fresh.
	CacheTTL time.Duration

	// CacheFailedRuns stores an empty result when a run fails, so repeated
	// triggers are served empty until the TTL lapses instead of re-running.
	CacheFailedRuns bool

	// Coalesce shares one in-flight run among concurrent cache misses.
	Coalesce bool
}

// DefaultConfig returns the configuration for comparing Vercel and Netlify.
func DefaultConfig() Config {
	return Config{
		Subjects:       Subjects{A: "vercel", B: "netlify"},
		Communities:    DefaultCommunities,
		GlobalLimit:    defaultGlobalLimit,
		CommunityLimit: defaultCommunityLimit,
		MaxResults:     DefaultMaxResults,
		SnippetLength:  DefaultSnippetLength,
		PermalinkBase:  defaultPermalinkBase,
		Sort:           discussx.SortRelevance,
		TimeRange:      discussx.TimeRangeYear,
		CacheKey:       DefaultCacheKey,
		CacheTTL:       DefaultCacheTTL,
	}
}

func (c Config) validate() error {
	switch {
	case c.Subjects.A == "" || c.Subjects.B == "":
		return errors.Mark(errors.New("both subjects are required"), discussx.ErrInvalidOption)
	case c.MaxResults <= 0:
		return errors.Mark(errors.Newf("max results must be positive, got %d", c.MaxResults), discussx.ErrInvalidOption)
	case c.SnippetLength <= len(ellipsis):
		return errors.Mark(errors.Newf("snippet length too small: %d", c.SnippetLength), discussx.ErrInvalidOption)
	case c.Concurrency < 0:
		return errors.Mark(errors.Newf("concurrency cannot be negative: %d", c.Concurrency), discussx.ErrInvalidOption)
	}
	return nil
}
