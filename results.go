package discussx

// Post is a single raw search hit as returned by the source. Posts are
// read-only and only live for the duration of a pipeline run.
type Post struct {
	// ID is the source identifier of the post.
	ID string `json:"id"`

	// Title is the post title.
	Title string `json:"title"`

	// Body is the optional self text of the post.
	Body string `json:"selftext,omitempty"`

	// Author is the author handle.
	Author string `json:"author"`

	// CreatedUTC is the creation time in epoch seconds.
	CreatedUTC int64 `json:"created_utc"`

	// Permalink is the path of the post on the source site.
	Permalink string `json:"permalink"`

	// Community is the prefixed community label, e.g. "r/webdev".
	Community string `json:"subreddit_name_prefixed"`

	// Score is the net vote score.
	Score int `json:"score"`

	// NumComments is the comment count.
	NumComments int `json:"num_comments"`
}

// Results represents a collection of search hits with metadata.
type Results struct {
	// Items contains the individual hits in source order.
	Items []Post

	// Query is the rendered query string for reference.
	Query string

	// Took is the time taken to execute the search in milliseconds.
	Took int64
}

// Record is one ranked discussion returned to consumers. The JSON field names
// are a wire contract.
type Record struct {
	ID          string `json:"id" dynamodbav:"id"`
	Title       string `json:"title" dynamodbav:"title"`
	Author      string `json:"author" dynamodbav:"author"`
	Created     int64  `json:"created" dynamodbav:"created"`
	URL         string `json:"url" dynamodbav:"url"`
	Community   string `json:"subreddit" dynamodbav:"subreddit"`
	Score       int    `json:"score" dynamodbav:"score"`
	NumComments int    `json:"num_comments" dynamodbav:"num_comments"`
	Snippet     string `json:"snippet" dynamodbav:"snippet"`
}
