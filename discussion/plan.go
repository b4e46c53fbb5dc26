package discussion

import (
	"fmt"

	"github.com/letmevibethatforyou/discussx"
)

// Query is one entry of the query plan.
type Query struct {
	// Expr is the search expression.
	Expr discussx.Expression
	// Community restricts the query to one community. Empty means global.
	Community string
	// Limit caps the hits requested.
	Limit int
}

// Options converts the query into search options.
func (q Query) Options(cfg Config) []discussx.SearchOption {
	opts := []discussx.SearchOption{
		discussx.WithLimit(q.Limit),
		discussx.WithSort(cfg.Sort),
		discussx.WithTimeRange(cfg.TimeRange),
	}
	if q.Community != "" {
		opts = append(opts, discussx.WithCommunity(q.Community))
	}
	return opts
}

// GlobalVariants are the exact-phrase and boolean framings searched on the
// global surface: both term orders of "vs", "comparison" and "or", plus a
// title-scoped AND.
func GlobalVariants(s Subjects) []discussx.Expression {
	a, b := s.A, s.B
	return []discussx.Expression{
		discussx.Phrase(fmt.Sprintf("%s vs %s", a, b)),
		discussx.Phrase(fmt.Sprintf("%s vs %s", b, a)),
		discussx.Phrase(fmt.Sprintf("%s %s comparison", a, b)),
		discussx.Phrase(fmt.Sprintf("%s %s comparison", b, a)),
		discussx.Phrase(fmt.Sprintf("%s or %s", a, b)),
		discussx.Phrase(fmt.Sprintf("%s or %s", b, a)),
		discussx.And(discussx.InTitle(a), discussx.InTitle(b)),
	}
}

// BuildPlan returns the configured plan, or the default one: a restricted
// query per community followed by the global variants.
func BuildPlan(cfg Config) []Query {
	if len(cfg.Plan) > 0 {
		return cfg.Plan
	}

	plan := make([]Query, 0, len(cfg.Communities)+7)
	communityExpr := discussx.And(discussx.Term(cfg.Subjects.A), discussx.Term(cfg.Subjects.B))
	for _, c := range cfg.Communities {
		plan = append(plan, Query{Expr: communityExpr, Community: c, Limit: cfg.CommunityLimit})
	}
	for _, expr := range GlobalVariants(cfg.Subjects) {
		plan = append(plan, Query{Expr: expr, Limit: cfg.GlobalLimit})
	}
	return plan
}
