package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/discussx"
)

var (
	communities = []string{"webdev", "reactjs", "nextjs", "javascript", "jamstack", "vercel", "netlify"}

	relevantTitles = []string{
		"Vercel vs Netlify for a Next.js side project?",
		"Netlify or Vercel in %d",
		"Moving from Netlify to Vercel: what I learned",
		"Vercel vs Netlify build times",
		"Why we left Vercel for Netlify",
	}

	oneSidedTitles = []string{
		"Vercel edge functions question",
		"Netlify forms not submitting",
		"Deploying Astro on Vercel",
		"Netlify DNS propagation",
	}

	offTopicTitles = []string{
		"Best CSS framework in %d?",
		"How do you structure a monorepo?",
		"React server components explained",
	}

	promoTitles = []string{
		"Cheap Vercel and Netlify hosting deals",
		"Vercel vs Netlify discount coupon inside",
	}

	comparisonBodies = []string{
		"We tried both vercel and netlify.\n\nNetlify was easier for forms, Vercel was faster for SSR.",
		"Our team compared Vercel and Netlify on cold starts and pricing tiers.",
		"",
	}

	authors = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy", "mallory", "niaj"}
)

// generatePost produces one synthetic hit, drawn from a mix that exercises
// every filter rule.
func generatePost(now time.Time) discussx.Post {
	id := ksuid.New().String()
	community := communities[rand.Intn(len(communities))]
	year := now.Year()

	var title, body string
	switch roll := rand.Intn(10); {
	case roll < 5:
		title = relevantTitles[rand.Intn(len(relevantTitles))]
		body = comparisonBodies[rand.Intn(len(comparisonBodies))]
	case roll < 7:
		title = oneSidedTitles[rand.Intn(len(oneSidedTitles))]
		body = comparisonBodies[rand.Intn(len(comparisonBodies))]
	case roll < 9:
		title = offTopicTitles[rand.Intn(len(offTopicTitles))]
	default:
		title = promoTitles[rand.Intn(len(promoTitles))]
	}
	if strings.Contains(title, "%d") {
		title = fmt.Sprintf(title, year)
	}

	created := now.Add(-time.Duration(rand.Intn(300*24)) * time.Hour)
	return discussx.Post{
		ID:          id,
		Title:       title,
		Body:        body,
		Author:      authors[rand.Intn(len(authors))],
		CreatedUTC:  created.Unix(),
		Permalink:   fmt.Sprintf("/r/%s/comments/%s/", community, id),
		Community:   "r/" + community,
		Score:       rand.Intn(200) - 5,
		NumComments: rand.Intn(80),
	}
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	count := c.Int("count")
	duplicates := c.Int("duplicates")
	out := c.String("out")

	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	slog.InfoContext(ctx, "Starting post generator", "count", count, "duplicates", duplicates, "out", out)

	now := time.Now()
	posts := make([]discussx.Post, 0, count+duplicates)
	for i := 0; i < count; i++ {
		posts = append(posts, generatePost(now))
	}
	for i := 0; i < duplicates; i++ {
		dup := posts[rand.Intn(count)]
		dup.Title = "crosspost: " + dup.Title
		posts = append(posts, dup)
	}
	rand.Shuffle(len(posts), func(i, j int) { posts[i], posts[j] = posts[j], posts[i] })

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}

	if out == "" || out == "-" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	slog.InfoContext(ctx, "Successfully generated posts", "count", len(posts))
	return nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "generator",
		Usage: "Generate a synthetic post fixture for offline pipeline runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "Number of distinct posts to generate",
				Value:   50,
			},
			&cli.IntFlag{
				Name:    "duplicates",
				Aliases: []string{"d"},
				Usage:   "Number of repeated ids to mix in",
				Value:   5,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file; stdout when empty or -",
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
