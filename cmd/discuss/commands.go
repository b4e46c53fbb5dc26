package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/discussx"
	"github.com/letmevibethatforyou/discussx/internal/api"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Trigger the pipeline once and print the ranked discussions as JSON",
		Action: func(c *cli.Context) error {
			svc, closer, err := service(c)
			if err != nil {
				return err
			}
			defer closer()

			records := svc.Discussions(c.Context)
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the discussion trigger over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				EnvVars: []string{"SERVER_ADDR"},
				Value:   ":8080",
			},
		},
		Action: func(c *cli.Context) error {
			svc, closer, err := service(c)
			if err != nil {
				return err
			}
			defer closer()

			ginMode := os.Getenv("GIN_MODE")
			if ginMode == "" {
				ginMode = gin.ReleaseMode
			}
			gin.SetMode(ginMode)

			addr := c.String("addr")
			srv := &http.Server{
				Addr:    addr,
				Handler: api.NewRouter(svc, pipelineConfig(c).CacheTTL),
			}

			errCh := make(chan error, 1)
			go func() {
				slog.InfoContext(c.Context, "starting discussion server", "addr", addr, "paths", api.Paths)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.InfoContext(c.Context, "shutting down discussion server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// searchCommand issues a single ad-hoc query against the configured source,
// bypassing filtering, ranking and the cache.
func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one raw query and print the hits",
		ArgsUsage: "<terms...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "community",
				Usage: "Restrict to one subreddit (without r/)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of hits",
				Value:   25,
			},
			&cli.BoolFlag{
				Name:  "phrase",
				Usage: "Match the terms as one exact phrase",
			},
			&cli.BoolFlag{
				Name:  "title",
				Usage: "Require every term in the title",
			},
		},
		Action: func(c *cli.Context) error {
			terms := c.Args().Slice()
			if len(terms) == 0 {
				return fmt.Errorf("at least one search term is required")
			}

			src, err := searcher(c)
			if err != nil {
				return err
			}
			if pf, ok := src.(discussx.Preflighter); ok {
				if err := pf.Preflight(c.Context); err != nil {
					return err
				}
			}

			opts := []discussx.SearchOption{discussx.WithLimit(c.Int("limit"))}
			if community := strings.TrimSpace(c.String("community")); community != "" {
				opts = append(opts, discussx.WithCommunity(community))
			}

			query := buildQuery(terms, c.Bool("phrase"), c.Bool("title"))
			slog.InfoContext(c.Context, "executing query", "query", query.String(), "community", c.String("community"), "limit", c.Int("limit"))

			res, err := src.Search(c.Context, query, opts...)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return printResults(res)
		},
	}
}

func buildQuery(terms []string, phrase, title bool) discussx.Expression {
	if phrase {
		return discussx.Phrase(strings.Join(terms, " "))
	}
	exprs := make([]discussx.Expression, len(terms))
	for i, t := range terms {
		if title {
			exprs[i] = discussx.InTitle(t)
		} else {
			exprs[i] = discussx.Term(t)
		}
	}
	return discussx.And(exprs...)
}

func printResults(res *discussx.Results) error {
	payload := struct {
		Took  int64           `json:"took_ms"`
		Query string          `json:"query"`
		Items []discussx.Post `json:"items"`
	}{
		Took:  res.Took,
		Query: res.Query,
		Items: res.Items,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
