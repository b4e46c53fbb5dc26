package discussion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmevibethatforyou/discussx"
)

func TestBuildPlan_Default(t *testing.T) {
	plan := BuildPlan(DefaultConfig())
	require.Len(t, plan, len(DefaultCommunities)+7)

	for i, c := range DefaultCommunities {
		q := plan[i]
		assert.Equal(t, c, q.Community)
		assert.Equal(t, 50, q.Limit)
		assert.Equal(t, "vercel AND netlify", q.Expr.String())
	}

	var globals []string
	for _, q := range plan[len(DefaultCommunities):] {
		assert.Empty(t, q.Community)
		assert.Equal(t, 30, q.Limit)
		globals = append(globals, q.Expr.String())
	}
	assert.Equal(t, []string{
		`"vercel vs netlify"`,
		`"netlify vs vercel"`,
		`"vercel netlify comparison"`,
		`"netlify vercel comparison"`,
		`"vercel or netlify"`,
		`"netlify or vercel"`,
		`title:"vercel" AND title:"netlify"`,
	}, globals)
}

func TestBuildPlan_Override(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plan = []Query{{Expr: discussx.Term("astro"), Limit: 5}}
	assert.Equal(t, cfg.Plan, BuildPlan(cfg))
}

func TestQuery_Options(t *testing.T) {
	cfg := DefaultConfig()
	q := Query{Expr: discussx.Term("x"), Community: "webdev", Limit: 50}

	sc := discussx.NewSearchConfig(q.Options(cfg)...)
	assert.Equal(t, 50, sc.Limit)
	assert.Equal(t, "webdev", sc.Community)
	assert.Equal(t, discussx.SortRelevance, sc.Sort)
	assert.Equal(t, discussx.TimeRangeYear, sc.TimeRange)
}
