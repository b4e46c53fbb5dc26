package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/discussx/discussion"
	"github.com/letmevibethatforyou/discussx/reddit"
)

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "discuss",
		Usage: "Find and rank Reddit discussions comparing Vercel and Netlify",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Usage:   "Where posts come from: reddit, fixture or archive",
				EnvVars: []string{"DISCUSSX_SOURCE"},
				Value:   "reddit",
			},
			&cli.StringFlag{
				Name:    "auth",
				Usage:   "Reddit credential source: public, env, static or aws",
				EnvVars: []string{"REDDIT_AUTH"},
				Value:   "public",
			},
			&cli.StringFlag{
				Name:  "reddit-client-id",
				Usage: "Reddit OAuth client ID (auth=static)",
			},
			&cli.StringFlag{
				Name:  "reddit-client-secret",
				Usage: "Reddit OAuth client secret (auth=static)",
			},
			&cli.StringFlag{
				Name:  "reddit-username",
				Usage: "Reddit account name (auth=static)",
			},
			&cli.StringFlag{
				Name:  "reddit-password",
				Usage: "Reddit account password (auth=static)",
			},
			&cli.StringFlag{
				Name:    "reddit-secret-arn",
				Usage:   "ARN of the Secrets Manager secret holding Reddit credentials (auth=aws)",
				EnvVars: []string{"REDDIT_SECRET_ARN"},
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name; credentials are read from {env}/reddit when no ARN is given (auth=aws)",
				EnvVars: []string{"ENV", "ENVIRONMENT"},
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "Client identifier sent to Reddit",
				EnvVars: []string{"REDDIT_USER_AGENT"},
				Value:   reddit.DefaultUserAgent,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: reddit.DefaultTimeout,
			},
			&cli.StringFlag{
				Name:    "fixture",
				Usage:   "JSON file of posts (source=fixture)",
				EnvVars: []string{"DISCUSSX_FIXTURE"},
			},
			&cli.StringFlag{
				Name:    "archive-index",
				Usage:   "Algolia index to archive results to, and to read from with source=archive",
				EnvVars: []string{"ALGOLIA_INDEX"},
			},
			&cli.StringFlag{
				Name:    "algolia-secret-arn",
				Usage:   "ARN of the Secrets Manager secret holding Algolia credentials",
				EnvVars: []string{"ALGOLIA_SECRET_ARN"},
			},
			&cli.StringFlag{
				Name:    "cache-path",
				Usage:   "SQLite file for the result cache; in-memory when empty",
				EnvVars: []string{"DISCUSSX_CACHE_PATH"},
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "How long a result stays fresh",
				Value: discussion.DefaultCacheTTL,
			},
			&cli.BoolFlag{
				Name:  "cache-failed-runs",
				Usage: "Cache an empty result when a run fails",
			},
			&cli.BoolFlag{
				Name:  "coalesce",
				Usage: "Share one run among concurrent cache misses",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum in-flight queries; 0 is unlimited",
			},
			&cli.IntFlag{
				Name:  "max-results",
				Usage: "Maximum discussions returned",
				Value: discussion.DefaultMaxResults,
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			serveCommand(),
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// pipelineConfig applies the tuning flags over the defaults.
func pipelineConfig(c *cli.Context) discussion.Config {
	cfg := discussion.DefaultConfig()
	cfg.CacheTTL = positiveDuration(c, "cache-ttl", discussion.DefaultCacheTTL)
	cfg.CacheFailedRuns = c.Bool("cache-failed-runs")
	cfg.Coalesce = c.Bool("coalesce")
	cfg.Concurrency = c.Int("concurrency")
	if n := c.Int("max-results"); n > 0 {
		cfg.MaxResults = n
	} else {
		slog.WarnContext(c.Context, "max-results must be positive; using default", "max_results", n, "default", discussion.DefaultMaxResults)
	}
	return cfg
}

func positiveDuration(c *cli.Context, name string, fallback time.Duration) time.Duration {
	d := c.Duration(name)
	if d <= 0 {
		slog.WarnContext(c.Context, "duration must be positive; using default", "flag", name, "value", d, "default", fallback)
		return fallback
	}
	return d
}
