package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/discussx"
	"github.com/letmevibethatforyou/discussx/algolia"
	"github.com/letmevibethatforyou/discussx/cache"
	"github.com/letmevibethatforyou/discussx/discussion"
	"github.com/letmevibethatforyou/discussx/inmemory"
	"github.com/letmevibethatforyou/discussx/reddit"
)

// redditSecrets picks the credential source named by --auth. A nil result
// selects the public endpoints.
func redditSecrets(c *cli.Context) (reddit.FetchSecrets, error) {
	ctx := c.Context
	switch mode := strings.ToLower(strings.TrimSpace(c.String("auth"))); mode {
	case "", "public":
		slog.InfoContext(ctx, "using public Reddit search")
		return nil, nil
	case "env":
		slog.InfoContext(ctx, "using environment variables for Reddit credentials")
		return reddit.EnvSecrets(), nil
	case "static":
		slog.InfoContext(ctx, "using static Reddit credentials from flags")
		return reddit.StaticSecrets(
			c.String("reddit-client-id"),
			c.String("reddit-client-secret"),
			c.String("reddit-username"),
			c.String("reddit-password"),
		), nil
	case "aws":
		sm, err := secretsClient(ctx)
		if err != nil {
			return nil, err
		}
		if arn := strings.TrimSpace(c.String("reddit-secret-arn")); arn != "" {
			slog.InfoContext(ctx, "using AWS Secrets Manager for Reddit credentials", "secret_arn", arn)
			return reddit.AWSSecretsFromARN(ctx, sm, arn), nil
		}
		env := strings.TrimSpace(c.String("env"))
		if env == "" {
			return nil, fmt.Errorf("auth=aws requires --reddit-secret-arn or --env")
		}
		slog.InfoContext(ctx, "using AWS Secrets Manager for Reddit credentials", "environment", env)
		return reddit.AWSSecrets(ctx, sm, env), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", mode)
	}
}

func algoliaSecrets(c *cli.Context) (algolia.FetchSecrets, error) {
	arn := strings.TrimSpace(c.String("algolia-secret-arn"))
	if arn == "" {
		return algolia.EnvSecrets(), nil
	}
	sm, err := secretsClient(c.Context)
	if err != nil {
		return nil, err
	}
	return algolia.AWSSecretsFromARN(c.Context, sm, arn), nil
}

func secretsClient(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// searcher builds the post source named by --source.
func searcher(c *cli.Context) (discussx.Searcher, error) {
	switch source := strings.ToLower(strings.TrimSpace(c.String("source"))); source {
	case "", "reddit":
		secrets, err := redditSecrets(c)
		if err != nil {
			return nil, err
		}
		client := reddit.NewClient(secrets,
			reddit.WithUserAgent(c.String("user-agent")),
			reddit.WithTimeout(positiveDuration(c, "timeout", reddit.DefaultTimeout)),
		)
		return reddit.NewSearcher(client), nil
	case "fixture":
		path := strings.TrimSpace(c.String("fixture"))
		if path == "" {
			return nil, fmt.Errorf("source=fixture requires --fixture")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture: %w", err)
		}
		s := inmemory.New()
		if err := s.AddJSON(data); err != nil {
			return nil, fmt.Errorf("failed to load fixture %s: %w", path, err)
		}
		slog.InfoContext(c.Context, "loaded fixture", "path", path, "posts", s.Size())
		return s, nil
	case "archive":
		index := strings.TrimSpace(c.String("archive-index"))
		if index == "" {
			return nil, fmt.Errorf("source=archive requires --archive-index")
		}
		secrets, err := algoliaSecrets(c)
		if err != nil {
			return nil, err
		}
		return algolia.NewSearcher(algolia.NewClient(secrets), index), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

// store opens the SQLite cache when --cache-path is set. The returned closer
// is never nil.
func store(c *cli.Context) (cache.Store, func() error, error) {
	path := strings.TrimSpace(c.String("cache-path"))
	if path == "" {
		return cache.NewMemory(), func() error { return nil }, nil
	}
	s, err := cache.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	slog.InfoContext(c.Context, "using sqlite result cache", "path", path)
	return s, s.Close, nil
}

// service wires searcher, pipeline, cache and the optional archive.
func service(c *cli.Context) (*discussion.Service, func() error, error) {
	src, err := searcher(c)
	if err != nil {
		return nil, nil, err
	}
	cfg := pipelineConfig(c)
	pipeline, err := discussion.NewPipeline(src, cfg)
	if err != nil {
		return nil, nil, err
	}
	st, closer, err := store(c)
	if err != nil {
		return nil, nil, err
	}

	var opts []discussion.ServiceOption
	source := strings.ToLower(strings.TrimSpace(c.String("source")))
	if index := strings.TrimSpace(c.String("archive-index")); index != "" && source != "archive" {
		secrets, err := algoliaSecrets(c)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		slog.InfoContext(c.Context, "archiving results to Algolia", "index", index)
		opts = append(opts, discussion.WithArchiver(algolia.NewArchive(algolia.NewClient(secrets), index)))
	}

	return discussion.NewService(pipeline, st, cfg, opts...), closer, nil
}
