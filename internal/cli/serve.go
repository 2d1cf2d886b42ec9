package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timsueberkrueb/lsp-graph-poc/internal/server"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/cache"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	mongoURL string // MongoDB connection string, in-memory store if empty
	redisURL string // Redis connection string, file cache if empty
	noCache  bool   // disable caching
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored graphs over HTTP",
		Long: `Serve stored graphs over HTTP.

The server accepts analyzed graphs via POST /api/graphs and exposes
layouts and SVG renderings for them. Graphs live in memory unless
--mongo-url points to a MongoDB instance, and layout results are cached
in the local file cache unless --redis-url points to a Redis instance.

Flag defaults can be set in the [serve] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, falls back to :8080)")
	cmd.Flags().StringVar(&opts.mongoURL, "mongo-url", "", "MongoDB connection string (in-memory store if empty)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis connection string (file cache if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds the store, cache and runner, then serves until the
// context is canceled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.Serve.Addr
	}
	if opts.mongoURL == "" {
		opts.mongoURL = cfg.Serve.MongoURL
	}
	if opts.redisURL == "" {
		opts.redisURL = cfg.Serve.RedisURL
	}

	st, err := newServeStore(ctx, opts.mongoURL)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	ch, err := newServeCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Store:  st,
		Runner: runner,
		Logger: c.Logger,
	})

	printInfo("Serving on %s", opts.addr)
	return srv.Run(ctx)
}

func newServeStore(ctx context.Context, mongoURL string) (store.Store, error) {
	if mongoURL == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, mongoURL, appName)
}

func newServeCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		return cache.NewRedisCache(ctx, opts.redisURL)
	}
	return newCache(false)
}
