package discussion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmevibethatforyou/discussx"
)

var subjects = Subjects{A: "vercel", B: "netlify"}

func candidate(id, title, body, author string, score, comments int) Candidate {
	return NewCandidate(discussx.Post{
		ID:          id,
		Title:       title,
		Body:        body,
		Author:      author,
		Score:       score,
		NumComments: comments,
	})
}

func TestDedupe(t *testing.T) {
	posts := []discussx.Post{
		{ID: "a", Title: "first", Author: "x"},
		{ID: "", Title: "no id"},
		{ID: "b", Title: "second"},
		{ID: "a", Title: "duplicate", Author: "y"},
	}

	got := Dedupe(posts)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "first", got[0].Title, "first occurrence wins")
	assert.Equal(t, "x", got[0].Author)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "unknown", got[1].Author, "empty author is normalized")
}

func TestFilter_Relevant(t *testing.T) {
	f := NewFilter(subjects, nil)

	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{"both in title", "Vercel vs Netlify", "", true},
		{"both in title any case", "NETLIFY or vercel?", "", true},
		{"body corroborates one title term", "Moving off Vercel", "we compared vercel and netlify", true},
		{"body only without title term", "Hosting advice", "vercel and netlify both work", false},
		{"one term only", "Vercel pricing", "it is fine", false},
		{"substring match", "vercel.app vs netlify.app", "", true},
		{"none", "random post", "no relevant content", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Relevant(candidate("1", tt.title, tt.body, "x", 1, 1)))
		})
	}
}

func TestFilter_Promotional(t *testing.T) {
	f := NewFilter(subjects, nil)

	tests := []struct {
		name  string
		title string
		body  string
		want  bool
	}{
		{"spam title", "Cheap Vercel and Netlify deals", "", true},
		{"spam in body with both terms", "Vercel vs Netlify", "use my coupon for netlify and vercel", true},
		{"spam word without both terms", "Free Vercel credits", "", false},
		{"spam word in body while only title has both terms", "Vercel vs Netlify", "what does it cost, is there a discount", false},
		{"clean", "Vercel vs Netlify for a blog", "thoughts?", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Promotional(candidate("1", tt.title, tt.body, "x", 1, 1)))
		})
	}
}

func TestFilter_AcceptRejectsSpamScenario(t *testing.T) {
	f := NewFilter(subjects, nil)
	assert.False(t, f.Accept(candidate("1", "Cheap Vercel and Netlify deals", "", "x", 50, 10)))
}

func TestEngaged(t *testing.T) {
	tests := []struct {
		score, comments int
		want            bool
	}{
		{-2, 0, false},
		{-10, 0, false},
		{-1, 0, true},
		{-5, 1, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("score=%d comments=%d", tt.score, tt.comments), func(t *testing.T) {
			assert.Equal(t, tt.want, Engaged(candidate("1", "t", "", "x", tt.score, tt.comments)))
		})
	}
}

func TestFilter_SelectKeepsFirstPerAuthor(t *testing.T) {
	f := NewFilter(subjects, nil)
	in := []Candidate{
		candidate("1", "Vercel vs Netlify", "", "sam", 1, 1),
		candidate("2", "Netlify or Vercel for Astro", "", "sam", 100, 40),
	}

	got := f.Select(in, DefaultMaxResults)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilter_SelectRejectedDoesNotClaimAuthor(t *testing.T) {
	f := NewFilter(subjects, nil)
	in := []Candidate{
		candidate("1", "Cheap Vercel Netlify deal", "", "sam", 1, 1),
		candidate("2", "Vercel vs Netlify", "", "sam", 1, 1),
	}

	got := f.Select(in, DefaultMaxResults)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilter_SelectCapsResults(t *testing.T) {
	f := NewFilter(subjects, nil)
	var in []Candidate
	for i := 0; i < 25; i++ {
		in = append(in, candidate(fmt.Sprint(i), "Vercel vs Netlify", "", fmt.Sprintf("author-%d", i), 1, 1))
	}

	got := f.Select(in, 10)
	require.Len(t, got, 10)
	assert.Equal(t, "9", got[9].ID)

	authors := map[string]bool{}
	for _, c := range got {
		assert.False(t, authors[c.Author], "duplicate author %s", c.Author)
		authors[c.Author] = true
	}
}

func TestNewFilter_CustomSpamWords(t *testing.T) {
	f := NewFilter(subjects, []string{"Sponsored"})
	assert.True(t, f.Promotional(candidate("1", "Vercel vs Netlify (sponsored)", "", "x", 1, 1)))
	assert.False(t, f.Promotional(candidate("2", "Cheap Vercel and Netlify deals", "", "x", 1, 1)))
}
