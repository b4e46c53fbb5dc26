package reddit

import "github.com/letmevibethatforyou/discussx"

// listing is the envelope Reddit wraps search hits in.
type listing struct {
	Data struct {
		Children []struct {
			Kind string  `json:"kind"`
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	ID                    string  `json:"id"`
	Title                 string  `json:"title"`
	Selftext              string  `json:"selftext"`
	Author                string  `json:"author"`
	CreatedUTC            float64 `json:"created_utc"`
	Permalink             string  `json:"permalink"`
	Subreddit             string  `json:"subreddit"`
	SubredditNamePrefixed string  `json:"subreddit_name_prefixed"`
	Score                 int     `json:"score"`
	NumComments           int     `json:"num_comments"`
}

// posts converts the listing children, skipping entries without an id.
func (l *listing) posts() []discussx.Post {
	out := make([]discussx.Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		d := child.Data
		if d.ID == "" {
			continue
		}
		community := d.SubredditNamePrefixed
		if community == "" && d.Subreddit != "" {
			community = "r/" + d.Subreddit
		}
		out = append(out, discussx.Post{
			ID:          d.ID,
			Title:       d.Title,
			Body:        d.Selftext,
			Author:      d.Author,
			CreatedUTC:  int64(d.CreatedUTC),
			Permalink:   d.Permalink,
			Community:   community,
			Score:       d.Score,
			NumComments: d.NumComments,
		})
	}
	return out
}
