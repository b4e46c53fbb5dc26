package discussx

import "strings"

// Expression represents a composable search query. Every Expression renders
// itself in Lucene-style syntax through String, which is the form accepted by
// the Reddit search endpoint.
type Expression interface {
	String() string
	// expr is a marker method to distinguish expressions from arbitrary Stringers.
	expr()
}

// baseExpr provides the expr marker method for all expression types.
type baseExpr struct{}

func (baseExpr) expr() {}

// TermExpr matches a single bare term anywhere in a post.
type TermExpr struct {
	baseExpr
	// Value is the term to match.
	Value string
}

// Term creates a bare term expression.
func Term(value string) Expression {
	return TermExpr{Value: value}
}

func (t TermExpr) String() string {
	v := strings.TrimSpace(t.Value)
	if strings.ContainsAny(v, " \t") {
		return quote(v)
	}
	return v
}

// PhraseExpr matches an exact phrase anywhere in a post.
type PhraseExpr struct {
	baseExpr
	// Value is the phrase to match.
	Value string
}

// Phrase creates an exact-phrase expression.
func Phrase(value string) Expression {
	return PhraseExpr{Value: value}
}

func (p PhraseExpr) String() string {
	v := strings.TrimSpace(p.Value)
	if v == "" {
		return ""
	}
	return quote(v)
}

// TitleExpr matches a phrase in the post title only.
type TitleExpr struct {
	baseExpr
	// Value is the phrase the title must contain.
	Value string
}

// InTitle creates a title-scoped expression.
func InTitle(value string) Expression {
	return TitleExpr{Value: value}
}

func (t TitleExpr) String() string {
	v := strings.TrimSpace(t.Value)
	if v == "" {
		return ""
	}
	return "title:" + quote(v)
}

// AndExpr represents an AND combination of expressions.
type AndExpr struct {
	baseExpr
	// Exprs contains the expressions to combine with AND logic.
	Exprs []Expression
}

// And creates an AND expression combining multiple expressions.
func And(exprs ...Expression) Expression {
	return AndExpr{Exprs: exprs}
}

func (a AndExpr) String() string {
	return join(a.Exprs, " AND ")
}

// OrExpr represents an OR combination of expressions.
type OrExpr struct {
	baseExpr
	// Exprs contains the expressions to combine with OR logic.
	Exprs []Expression
}

// Or creates an OR expression combining multiple expressions.
func Or(exprs ...Expression) Expression {
	return OrExpr{Exprs: exprs}
}

func (o OrExpr) String() string {
	return join(o.Exprs, " OR ")
}

// NotExpr represents a NOT negation of an expression.
type NotExpr struct {
	baseExpr
	// Inner is the expression to negate.
	Inner Expression
}

// Not creates a NOT expression negating the given expression.
func Not(expr Expression) Expression {
	return NotExpr{Inner: expr}
}

func (n NotExpr) String() string {
	if n.Inner == nil {
		return ""
	}
	inner := n.Inner.String()
	if inner == "" {
		return ""
	}
	if isCompound(n.Inner) {
		inner = "(" + inner + ")"
	}
	return "NOT " + inner
}

// IsEmpty reports whether expr renders to nothing.
func IsEmpty(expr Expression) bool {
	return expr == nil || strings.TrimSpace(expr.String()) == ""
}

func join(exprs []Expression, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e == nil {
			continue
		}
		s := e.String()
		if s == "" {
			continue
		}
		if isCompound(e) && len(exprs) > 1 {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}

func isCompound(e Expression) bool {
	switch v := e.(type) {
	case AndExpr:
		return len(v.Exprs) > 1
	case OrExpr:
		return len(v.Exprs) > 1
	default:
		return false
	}
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}
