package discussion

import "strings"

// DefaultSpamWords is the promotional vocabulary that disqualifies a post
// already mentioning both subjects.
var DefaultSpamWords = []string{
	"buy", "sell", "offer", "discount", "coupon",
	"deal", "price", "cheap", "free", "promotion",
	"crypto", "nft", "token", "investment",
}

// Subjects is the pair of terms every accepted discussion must mention.
type Subjects struct {
	A string
	B string
}

func (s Subjects) lower() Subjects {
	return Subjects{A: strings.ToLower(s.A), B: strings.ToLower(s.B)}
}

// Both reports whether text contains both subjects, case-insensitively.
func (s Subjects) Both(text string) bool {
	text = strings.ToLower(text)
	l := s.lower()
	return strings.Contains(text, l.A) && strings.Contains(text, l.B)
}

// Either reports whether text contains at least one subject, case-insensitively.
func (s Subjects) Either(text string) bool {
	text = strings.ToLower(text)
	l := s.lower()
	return strings.Contains(text, l.A) || strings.Contains(text, l.B)
}

// Filter decides whether candidates are on-topic and not promotional.
type Filter struct {
	subjects  Subjects
	spamWords []string
}

// NewFilter creates a Filter. A nil spamWords uses DefaultSpamWords.
func NewFilter(subjects Subjects, spamWords []string) *Filter {
	if spamWords == nil {
		spamWords = DefaultSpamWords
	}
	lowered := make([]string, len(spamWords))
	for i, w := range spamWords {
		lowered[i] = strings.ToLower(w)
	}
	return &Filter{subjects: subjects.lower(), spamWords: lowered}
}

// Relevant is the dual-mention test: both subjects in the title, or both in
// the body while the title names at least one of them.
func (f *Filter) Relevant(c Candidate) bool {
	if f.subjects.Both(c.TitleLower) {
		return true
	}
	return f.subjects.Both(c.BodyLower) && f.subjects.Either(c.TitleLower)
}

// Promotional reports whether the title or the body mentions both subjects
// together with a promotional word.
func (f *Filter) Promotional(c Candidate) bool {
	titleBoth := f.subjects.Both(c.TitleLower)
	bodyBoth := f.subjects.Both(c.BodyLower)
	if !titleBoth && !bodyBoth {
		return false
	}
	for _, w := range f.spamWords {
		if titleBoth && strings.Contains(c.TitleLower, w) {
			return true
		}
		if bodyBoth && strings.Contains(c.BodyLower, w) {
			return true
		}
	}
	return false
}

// Engaged rejects heavily downvoted posts that nobody commented on.
func Engaged(c Candidate) bool {
	return c.Score > -2 || c.NumComments > 0
}

// Accept applies the stateless rules in order.
func (f *Filter) Accept(c Candidate) bool {
	return f.Relevant(c) && !f.Promotional(c) && Engaged(c)
}

// Select walks candidates in order and keeps accepted ones, at most one per
// author, stopping once max have been kept. Candidates after the cap are not
// evaluated.
func (f *Filter) Select(candidates []Candidate, max int) []Candidate {
	authors := make(map[string]struct{})
	out := make([]Candidate, 0, max)
	for _, c := range candidates {
		if len(out) >= max {
			break
		}
		if !f.Accept(c) {
			continue
		}
		if _, dup := authors[c.Author]; dup {
			continue
		}
		authors[c.Author] = struct{}{}
		out = append(out, c)
	}
	return out
}
