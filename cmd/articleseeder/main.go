package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"ArticleSeeder/internal/app"
	"ArticleSeeder/internal/config"
	"ArticleSeeder/internal/logging"
)

// Opts with all CLI options
type Opts struct {
	Config      string `short:"c" long:"config" env:"ARTICLE_SEEDER_CONFIG" description:"path to yaml config"`
	Output      string `short:"o" long:"output" env:"ARTICLE_SEEDER_OUTPUT" description:"seed file path (overrides config)"`
	BaseURL     string `long:"base-url" env:"ARTICLE_SEEDER_BASE_URL" description:"site base url (overrides config)"`
	MaxArticles int    `long:"max-articles" env:"ARTICLE_SEEDER_MAX_ARTICLES" default:"-1" description:"article cap (overrides config when >= 0)"`
	Debug       bool   `long:"dbg" env:"DEBUG" description:"debug mode"`
}

func main() {
	var opts Opts
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	os.Exit(run(opts))
}

func run(opts Opts) int {
	cfg := config.Load(opts.Config)
	applyOpts(&cfg, opts)
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, nil, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		return 1
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return 1
	}
	return 0
}

func applyOpts(cfg *config.Config, opts Opts) {
	if opts.Output != "" {
		cfg.Output.Path = opts.Output
	}
	if opts.BaseURL != "" {
		cfg.Site.BaseURL = opts.BaseURL
	}
	if opts.MaxArticles >= 0 {
		cfg.Crawl.MaxArticles = opts.MaxArticles
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}
}
