// Package discussion implements the discovery pipeline that turns raw search
// hits into a short, ranked list of discussions mentioning both subjects.
package discussion

import (
	"strings"

	"github.com/letmevibethatforyou/discussx"
)

const unknownAuthor = "unknown"

// Candidate is the normalized projection of a Post used while filtering.
type Candidate struct {
	ID          string
	Title       string
	TitleLower  string
	Body        string
	BodyLower   string
	Author      string
	CreatedAt   int64
	Score       int
	NumComments int
	Community   string
	Permalink   string
}

// NewCandidate normalizes a raw post.
func NewCandidate(p discussx.Post) Candidate {
	author := p.Author
	if author == "" {
		author = unknownAuthor
	}
	return Candidate{
		ID:          p.ID,
		Title:       p.Title,
		TitleLower:  strings.ToLower(p.Title),
		Body:        p.Body,
		BodyLower:   strings.ToLower(p.Body),
		Author:      author,
		CreatedAt:   p.CreatedUTC,
		Score:       p.Score,
		NumComments: p.NumComments,
		Community:   p.Community,
		Permalink:   p.Permalink,
	}
}

// Dedupe collapses posts by identifier. The first occurrence wins and posts
// without an identifier are dropped.
func Dedupe(posts []discussx.Post) []Candidate {
	seen := make(map[string]struct{}, len(posts))
	out := make([]Candidate, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, NewCandidate(p))
	}
	return out
}
