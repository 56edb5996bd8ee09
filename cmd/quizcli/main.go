package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/letsssgooo/knowledgecheck/internal/client"
	"github.com/letsssgooo/knowledgecheck/internal/config"
	"github.com/letsssgooo/knowledgecheck/internal/console"
	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/events/fetcher"
	"github.com/letsssgooo/knowledgecheck/internal/events/publisher"
	"github.com/letsssgooo/knowledgecheck/internal/events/sender"
	"github.com/letsssgooo/knowledgecheck/internal/lib/slogcustom"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
	"github.com/letsssgooo/knowledgecheck/internal/storage"
	"github.com/letsssgooo/knowledgecheck/internal/storage/postgres"
)

type flags struct {
	config    string
	video     string
	questions string
	offline   bool
}

func main() {
	var f flags

	pflag.StringVarP(&f.config, "config", "c", "", "path to YAML config")
	pflag.StringVarP(&f.video, "video", "v", "", "video ID to take the quiz for")
	pflag.StringVarP(&f.questions, "questions", "q", "", "path to question set JSON, implies --offline")
	pflag.BoolVar(&f.offline, "offline", false, "score attempts locally instead of the content service")
	pflag.Parse()

	cfg, err := config.Load(f.config)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := setupLogger(cfg.App.LogLevel)
	slog.SetDefault(log)

	if f.video == "" {
		log.Error("flag --video is required")
		pflag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting quiz cli...", "video_id", f.video, "env", cfg.App.Env)

	if err = run(ctx, cfg, f, log); err != nil {
		log.Error("quiz cli stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, f flags, log *slog.Logger) error {
	input := fetcher.NewLineFetcher(os.Stdin)
	defer func() { _ = input.Close() }()

	deps := engine.Deps{Logger: log}
	opts := console.Options{
		Fetcher:      input,
		Sender:       sender.NewTerminal(os.Stdout, cfg.Quiz.ExportDir),
		Logger:       log,
		TickInterval: cfg.Quiz.TickInterval,
	}

	if f.offline || f.questions != "" {
		if f.questions == "" {
			return errors.New("offline mode needs --questions")
		}

		src, err := engine.LoadStaticSource(f.questions)
		if err != nil {
			return err
		}

		store, closeStore, err := openStorage(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer closeStore()

		deps.Source = src
		deps.Submitter = &engine.LocalSubmitter{Source: src, Store: store}
		deps.History = store
		deps.Starts = store
		opts.History = store
		opts.Summary = console.SummaryFunc(func(ctx context.Context) (stats.Summary, error) {
			return storage.Summary(ctx, store)
		})
	} else {
		api := client.NewHTTPClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)

		deps.Source = api
		deps.Submitter = api
		deps.History = api
		opts.History = api
		opts.Summary = api
	}

	if cfg.Events.Enabled {
		pub, err := publisher.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			return err
		}
		defer pub.Close()

		deps.Publisher = pub
	}

	opts.Engine = engine.NewEngine(deps)
	defer opts.Engine.Close()

	return console.NewConsole(opts).Run(ctx, f.video)
}

// openStorage открывает журнал попыток. Возвращаемая функция закрывает его.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, func(), error) {
	if cfg.Driver != "postgres" {
		return storage.NewMemoryStorage(), func() {}, nil
	}

	st, err := postgres.NewStorage(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	if err = st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}

	return st, st.Close, nil
}

func setupLogger(level string) *slog.Logger {
	lvl, err := slogcustom.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slogcustom.NewCustomHandler(os.Stderr, lvl))
}
