package discussion

import (
	"sort"

	"github.com/letmevibethatforyou/discussx"
)

// Score is the composite ranking score of a record: a title bonus when the
// title names both subjects, plus votes, comments and a small recency term.
func Score(r discussx.Record, subjects Subjects) float64 {
	title := 0.0
	if subjects.Both(r.Title) {
		title = 100
	}
	return title + 0.5*float64(r.Score) + 2*float64(r.NumComments) + float64(r.Created)/10_000_000
}

// Rank sorts records by descending Score in place. Equal scores keep their
// input order.
func Rank(records []discussx.Record, subjects Subjects) {
	type scored struct {
		record discussx.Record
		score  float64
	}
	tmp := make([]scored, len(records))
	for i, r := range records {
		tmp[i] = scored{record: r, score: Score(r, subjects)}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].score > tmp[j].score
	})
	for i := range tmp {
		records[i] = tmp[i].record
	}
}
