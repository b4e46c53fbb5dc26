// Package inmemory provides a discussx.Searcher over posts held in memory.
// It evaluates query expressions directly, so a saved fixture can be replayed
// through the same query plan the live source receives.
package inmemory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/letmevibethatforyou/discussx"
)

var windows = map[discussx.TimeRange]time.Duration{
	discussx.TimeRangeDay:   24 * time.Hour,
	discussx.TimeRangeWeek:  7 * 24 * time.Hour,
	discussx.TimeRangeMonth: 30 * 24 * time.Hour,
	discussx.TimeRangeYear:  365 * 24 * time.Hour,
}

// Searcher implements the discussx.Searcher interface using an in-memory store.
type Searcher struct {
	mu      sync.RWMutex
	posts   []discussx.Post
	idIndex map[string]int // maps post ID to index in posts slice
	now     func() time.Time
}

// New creates a new in-memory searcher.
// The searcher is ready to use and is safe for concurrent operations.
func New() *Searcher {
	return &Searcher{
		posts:   make([]discussx.Post, 0),
		idIndex: make(map[string]int),
		now:     time.Now,
	}
}

// AddPost adds a post to the store. A post with an existing ID replaces the
// stored one in place.
func (s *Searcher) AddPost(p discussx.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, exists := s.idIndex[p.ID]; exists {
		s.posts[idx] = p
		return
	}
	s.idIndex[p.ID] = len(s.posts)
	s.posts = append(s.posts, p)
}

// AddJSON adds every post of a JSON array.
func (s *Searcher) AddJSON(data []byte) error {
	var posts []discussx.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return errors.Wrap(err, "failed to unmarshal posts")
	}
	for _, p := range posts {
		s.AddPost(p)
	}
	return nil
}

// RemovePost removes a post by ID. It reports whether the post was present.
func (s *Searcher) RemovePost(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, exists := s.idIndex[id]
	if !exists {
		return false
	}

	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	delete(s.idIndex, id)
	for i := idx; i < len(s.posts); i++ {
		s.idIndex[s.posts[i].ID] = i
	}
	return true
}

// Clear removes all posts from the store.
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make([]discussx.Post, 0)
	s.idIndex = make(map[string]int)
}

// Size returns the number of stored posts.
func (s *Searcher) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Search implements the discussx.Searcher interface. Relevance order is
// insertion order.
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
	if cfg.Limit <= 0 {
		return nil, errors.Mark(errors.Newf("limit must be positive, got %d", cfg.Limit), discussx.ErrInvalidOption)
	}
	community := ""
	if cfg.Community != "" {
		community = "r/" + cfg.Community
	}
	var since int64
	if w, ok := windows[cfg.TimeRange]; ok {
		since = s.now().Add(-w).Unix()
	}

	s.mu.RLock()
	hits := make([]discussx.Post, 0)
	for _, p := range s.posts {
		if community != "" && !equalFold(p.Community, community) {
			continue
		}
		if p.CreatedUTC < since {
			continue
		}
		if !matches(p, query) {
			continue
		}
		hits = append(hits, p)
	}
	s.mu.RUnlock()

	sortPosts(hits, cfg.Sort)
	if len(hits) > cfg.Limit {
		hits = hits[:cfg.Limit]
	}

	return &discussx.Results{
		Items: hits,
		Query: query.String(),
		Took:  time.Since(startTime).Milliseconds(),
	}, nil
}

func sortPosts(posts []discussx.Post, order discussx.Sort) {
	switch order {
	case discussx.SortNew:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedUTC > posts[j].CreatedUTC
		})
	case discussx.SortTop:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Score > posts[j].Score
		})
	}
}
