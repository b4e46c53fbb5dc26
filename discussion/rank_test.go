package discussion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/letmevibethatforyou/discussx"
)

func recordIDs(records []discussx.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestScore(t *testing.T) {
	r := discussx.Record{Title: "Vercel vs Netlify", Score: 10, NumComments: 3, Created: 1_700_000_000}
	assert.InDelta(t, 100+5+6+170.0, Score(r, subjects), 1e-9)

	r.Title = "Vercel only"
	assert.InDelta(t, 5+6+170.0, Score(r, subjects), 1e-9)
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	records := []discussx.Record{
		{ID: "low", Title: "Netlify question", Score: 1},
		{ID: "title", Title: "Vercel vs Netlify", Score: 1},
		{ID: "busy", Title: "Netlify thread", Score: 10, NumComments: 60},
	}
	Rank(records, subjects)
	assert.Equal(t, []string{"busy", "title", "low"}, recordIDs(records))
}

func TestRank_StableForTies(t *testing.T) {
	records := []discussx.Record{
		{ID: "a", Title: "x", Score: 4},
		{ID: "b", Title: "y", NumComments: 1},
		{ID: "c", Title: "z", Score: 4},
	}
	Rank(records, subjects)
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(records))
}

func TestRank_Idempotent(t *testing.T) {
	records := []discussx.Record{
		{ID: "1", Title: "Vercel vs Netlify", Score: 3, Created: 1_600_000_000},
		{ID: "2", Title: "netlify", Score: 300, NumComments: 2, Created: 1_700_000_000},
		{ID: "3", Title: "vercel", Score: 3, Created: 1_600_000_000},
		{ID: "4", Title: "vercel", Score: 3, Created: 1_600_000_000},
	}
	Rank(records, subjects)
	first := recordIDs(records)

	Rank(records, subjects)
	assert.Equal(t, first, recordIDs(records))
}
