package inmemory

import (
	"strings"

	"github.com/letmevibethatforyou/discussx"
)

// matches evaluates expr against a post. Term and phrase expressions match a
// case-insensitive substring of the title or body; title expressions only
// look at the title.
func matches(p discussx.Post, expr discussx.Expression) bool {
	switch e := expr.(type) {
	case discussx.TermExpr:
		return containsFold(p.Title, e.Value) || containsFold(p.Body, e.Value)
	case discussx.PhraseExpr:
		return containsFold(p.Title, e.Value) || containsFold(p.Body, e.Value)
	case discussx.TitleExpr:
		return containsFold(p.Title, e.Value)
	case discussx.AndExpr:
		for _, inner := range e.Exprs {
			if inner != nil && !matches(p, inner) {
				return false
			}
		}
		return true
	case discussx.OrExpr:
		for _, inner := range e.Exprs {
			if inner != nil && matches(p, inner) {
				return true
			}
		}
		return false
	case discussx.NotExpr:
		if e.Inner == nil {
			return true
		}
		return !matches(p, e.Inner)
	default:
		return false
	}
}

func containsFold(text, sub string) bool {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(sub))
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
