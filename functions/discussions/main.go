package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/discussx/algolia"
	"github.com/letmevibethatforyou/discussx/cache"
	"github.com/letmevibethatforyou/discussx/discussion"
	"github.com/letmevibethatforyou/discussx/internal/api"
	"github.com/letmevibethatforyou/discussx/reddit"
)

// Handler answers API Gateway requests with the ranked discussions.
type Handler struct {
	source  api.Source
	headers map[string]string
}

// NewHandler serves source with the trigger headers, advertising maxAge
// as the client cache lifetime.
func NewHandler(source api.Source, maxAge time.Duration) *Handler {
	return &Handler{
		source:  source,
		headers: api.Headers(maxAge),
	}
}

// HandleRequest ignores the request contents; the trigger is parameterless.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.InfoContext(ctx, "Handling discussion request", "path", req.Path, "request_id", req.RequestContext.RequestID)

	records := h.source.Discussions(ctx)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    h.headers,
		Body:       string(api.Encode(records)),
	}, nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "discussions",
		Usage: "Serve ranked Vercel/Netlify discussions from AWS Lambda",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "table-name",
				Usage:    "DynamoDB table holding the result cache",
				EnvVars:  []string{"TABLE_NAME"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name; Reddit credentials are read from {env}/reddit",
				EnvVars: []string{"ENV", "ENVIRONMENT"},
			},
			&cli.StringFlag{
				Name:    "reddit-secret-arn",
				Usage:   "ARN of the Secrets Manager secret holding Reddit credentials (takes precedence over env)",
				EnvVars: []string{"REDDIT_SECRET_ARN"},
			},
			&cli.StringFlag{
				Name:    "algolia-index",
				Usage:   "Algolia index to archive fresh results to; archiving is off when empty",
				EnvVars: []string{"ALGOLIA_INDEX"},
			},
			&cli.StringFlag{
				Name:    "algolia-secret-arn",
				Usage:   "ARN of the Secrets Manager secret holding Algolia credentials",
				EnvVars: []string{"ALGOLIA_SECRET_ARN"},
			},
			&cli.BoolFlag{
				Name:    "cache-failed-runs",
				Usage:   "Cache an empty result when a run fails",
				EnvVars: []string{"CACHE_FAILED_RUNS"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "How long a result stays fresh",
				EnvVars: []string{"CACHE_TTL"},
				Value:   discussion.DefaultCacheTTL,
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	tableName := c.String("table-name")
	env := strings.TrimSpace(c.String("env"))
	redditArn := strings.TrimSpace(c.String("reddit-secret-arn"))

	slog.InfoContext(ctx, "Starting discussion function", "table", tableName, "environment", env)

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load AWS config", "error", err)
		return err
	}
	sm := secretsmanager.NewFromConfig(awsCfg)

	// Without a secret the function falls back to the public endpoints.
	var fetchSecrets reddit.FetchSecrets
	switch {
	case redditArn != "":
		slog.InfoContext(ctx, "Using AWS Secrets Manager ARN for Reddit credentials", "secret_arn", redditArn)
		fetchSecrets = reddit.AWSSecretsFromARN(ctx, sm, redditArn)
	case env != "":
		slog.InfoContext(ctx, "Using AWS Secrets Manager for Reddit credentials", "environment", env)
		fetchSecrets = reddit.AWSSecrets(ctx, sm, env)
	default:
		slog.InfoContext(ctx, "No Reddit credentials configured, using public search")
	}

	cfg := discussion.DefaultConfig()
	cfg.Coalesce = true
	cfg.CacheFailedRuns = c.Bool("cache-failed-runs")
	if ttl := c.Duration("cache-ttl"); ttl > 0 {
		cfg.CacheTTL = ttl
	}

	pipeline, err := discussion.NewPipeline(reddit.NewSearcher(reddit.NewClient(fetchSecrets)), cfg)
	if err != nil {
		return err
	}

	var opts []discussion.ServiceOption
	if index := strings.TrimSpace(c.String("algolia-index")); index != "" {
		var algoliaSecrets algolia.FetchSecrets
		if arn := strings.TrimSpace(c.String("algolia-secret-arn")); arn != "" {
			algoliaSecrets = algolia.AWSSecretsFromARN(ctx, sm, arn)
		} else if env != "" {
			algoliaSecrets = algolia.AWSSecrets(ctx, sm, env)
		} else {
			algoliaSecrets = algolia.EnvSecrets()
		}
		slog.InfoContext(ctx, "Archiving fresh results to Algolia", "index", index)
		opts = append(opts, discussion.WithArchiver(algolia.NewArchive(algolia.NewClient(algoliaSecrets), index)))
	}

	store := cache.NewDynamoDB(dynamodb.NewFromConfig(awsCfg), tableName)
	handler := NewHandler(discussion.NewService(pipeline, store, cfg, opts...), cfg.CacheTTL)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		slog.InfoContext(ctx, "Running in Lambda environment")
		lambda.Start(handler.HandleRequest)
	} else {
		slog.InfoContext(ctx, "Function cannot run outside of AWS Lambda environment")
	}

	return nil
}
