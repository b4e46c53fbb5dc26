package discussx

// SearchOption represents a search configuration option.
type SearchOption interface {
	Apply(*SearchConfig)
}

// Sort selects the ordering requested from the search source.
type Sort string

const (
	// SortRelevance orders hits by source-defined relevance.
	SortRelevance Sort = "relevance"
	// SortNew orders hits newest first.
	SortNew Sort = "new"
	// SortTop orders hits by score.
	SortTop Sort = "top"
)

// TimeRange restricts hits to a recent window.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "day"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
	TimeRangeAll   TimeRange = "all"
)

// SearchConfig holds all search configuration parameters.
type SearchConfig struct {
	// Limit specifies the maximum number of results to return.
	Limit int

	// Community restricts the search to a single community (a subreddit name
	// without the "r/" prefix). Empty means the global search surface.
	Community string

	// Sort specifies the ordering requested from the source.
	Sort Sort

	// TimeRange restricts results to a recent window.
	TimeRange TimeRange
}

// NewSearchConfig applies opts over the defaults shared by every backend.
func NewSearchConfig(opts ...SearchOption) *SearchConfig {
	cfg := &SearchConfig{
		Limit:     25,
		Sort:      SortRelevance,
		TimeRange: TimeRangeYear,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// optionFunc is a function that implements SearchOption.
type optionFunc func(*SearchConfig)

// Apply implements the SearchOption interface for optionFunc.
func (f optionFunc) Apply(cfg *SearchConfig) {
	f(cfg)
}

// WithLimit sets the maximum number of results to return.
func WithLimit(n int) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.Limit = n
	})
}

// WithCommunity restricts the search to one community.
func WithCommunity(name string) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.Community = name
	})
}

// WithSort sets the requested ordering.
func WithSort(s Sort) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.Sort = s
	})
}

// WithTimeRange sets the recency window.
func WithTimeRange(t TimeRange) SearchOption {
	return optionFunc(func(cfg *SearchConfig) {
		cfg.TimeRange = t
	})
}
