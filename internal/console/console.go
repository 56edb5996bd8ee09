package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/events/fetcher"
	"github.com/letsssgooo/knowledgecheck/internal/events/sender"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// SummarySource возвращает сводку по всем видео пользователя.
type SummarySource interface {
	Summary(ctx context.Context) (stats.Summary, error)
}

// SummaryFunc позволяет использовать функцию как SummarySource.
type SummaryFunc func(ctx context.Context) (stats.Summary, error)

func (f SummaryFunc) Summary(ctx context.Context) (stats.Summary, error) {
	return f(ctx)
}

// Options содержит зависимости консоли. History и Summary необязательны.
type Options struct {
	Engine       *engine.Engine
	Fetcher      fetcher.Fetcher
	Sender       sender.Sender
	History      engine.HistoryService
	Summary      SummarySource
	Logger       *slog.Logger
	TickInterval time.Duration
}

// Console реализует интерактивное прохождение теста в терминале.
type Console struct {
	engine       *engine.Engine
	fetcher      fetcher.Fetcher
	sender       sender.Sender
	history      engine.HistoryService
	summary      SummarySource
	log          *slog.Logger
	tickInterval time.Duration

	inflight sync.WaitGroup
}

// NewConsole создаёт новую консоль.
func NewConsole(opts Options) *Console {
	c := &Console{
		engine:       opts.Engine,
		fetcher:      opts.Fetcher,
		sender:       opts.Sender,
		history:      opts.History,
		summary:      opts.Summary,
		log:          opts.Logger,
		tickInterval: opts.TickInterval,
	}

	if c.log == nil {
		c.log = slog.Default()
	}
	if c.tickInterval <= 0 {
		c.tickInterval = time.Second
	}

	return c
}

// Run открывает тест по видео и обрабатывает команды, пока не закончится ввод
// или пользователь не выйдет.
func (c *Console) Run(ctx context.Context, videoID string) error {
	if err := c.open(ctx, videoID); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if err := c.engine.Begin(gctx); err != nil {
		return err
	}
	if err := c.engine.StartTimer(gctx, c.tickInterval); err != nil {
		return err
	}

	c.sender.Message(msgHelp)
	c.showQuestion()

	g.Go(func() error {
		defer cancel()
		defer c.inflight.Wait()

		return c.loop(gctx, g)
	})

	g.Go(func() error {
		<-gctx.Done()
		c.engine.Close()

		return nil
	})

	return g.Wait()
}

// open загружает готовый тест или генерирует новый, если его ещё нет.
func (c *Console) open(ctx context.Context, videoID string) error {
	c.sender.Message(msgLoading)

	err := c.engine.Load(ctx, videoID)
	if isNotFound(err) {
		c.sender.Message(msgGenerating)
		err = c.engine.Generate(ctx, videoID)
	}

	if err != nil {
		return fmt.Errorf("failed to open quiz for video %s: %w", videoID, err)
	}

	return nil
}

func (c *Console) loop(ctx context.Context, g *errgroup.Group) error {
	for {
		cmd, err := c.fetcher.Fetch(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		c.log.Debug("command", "kind", cmd.Kind, "arg", cmd.Arg)

		if cmd.Kind == fetcher.KindQuit {
			c.sender.Message(msgBye)
			return nil
		}

		c.handle(ctx, g, cmd)
	}
}

// handle выполняет одну команду.
func (c *Console) handle(ctx context.Context, g *errgroup.Group, cmd fetcher.Command) {
	switch cmd.Kind {
	case fetcher.KindKey:
		if err := c.engine.HandleKey(cmd.Arg); err != nil {
			c.report(err)
			return
		}
		c.showQuestion()

	case fetcher.KindShow:
		c.showQuestion()

	case fetcher.KindSubmit:
		if !c.checkComplete() {
			return
		}

		c.inflight.Add(1)
		g.Go(func() error {
			defer c.inflight.Done()
			c.submit(ctx)

			return nil
		})

	case fetcher.KindReset:
		if err := c.engine.Reset(ctx); err != nil {
			c.report(err)
			return
		}
		if err := c.engine.StartTimer(ctx, c.tickInterval); err != nil {
			c.log.Warn("failed to restart timer", "error", err)
		}
		c.sender.Message(msgReset)
		c.showQuestion()

	case fetcher.KindReview:
		v, err := c.engine.View()
		if err != nil {
			c.report(err)
			return
		}
		if v.Result == nil {
			c.sender.Warning(msgNotSubmitted)
			return
		}
		c.sender.Result(v)

	case fetcher.KindStats:
		c.showStatistics(ctx, true)

	case fetcher.KindExport:
		c.export(ctx, cmd.Arg)

	case fetcher.KindHelp:
		c.sender.Message(msgHelp)
	}
}

// checkComplete проверяет ответы до отправки и ведёт к первому пропущенному вопросу.
func (c *Console) checkComplete() bool {
	res, err := c.engine.Validate()
	if err != nil {
		c.report(err)
		return false
	}

	if res.Valid {
		return true
	}

	c.report(res.Err())
	if err = c.engine.GoTo(res.Missing[0] - 1); err == nil {
		c.showQuestion()
	}

	return false
}

func (c *Console) submit(ctx context.Context) {
	c.sender.Message(msgSubmitting)

	if _, err := c.engine.Submit(ctx); err != nil {
		c.report(err)
		return
	}

	v, err := c.engine.View()
	if err != nil {
		c.report(err)
		return
	}

	c.sender.Result(v)
	c.showStatistics(ctx, false)
}

func (c *Console) showQuestion() {
	v, err := c.engine.View()
	if err != nil {
		c.report(err)
		return
	}

	c.sender.Question(v)
}

func (c *Console) showStatistics(ctx context.Context, withSummary bool) {
	st, err := c.engine.Statistics(ctx, "")
	if err != nil {
		c.log.Warn("failed to load statistics", "error", err)
		c.sender.Warning(msgStatsUnavailable)
		return
	}

	c.sender.Statistics(st)

	if !withSummary || c.summary == nil {
		return
	}

	sum, err := c.summary.Summary(ctx)
	if err != nil {
		c.log.Warn("failed to load summary", "error", err)
		return
	}

	c.sender.Summary(sum)
}

// export сохраняет историю попыток по текущему видео в CSV.
func (c *Console) export(ctx context.Context, fileName string) {
	if c.history == nil {
		c.sender.Warning(msgHistoryUnavailable)
		return
	}

	v, err := c.engine.View()
	if err != nil {
		c.report(err)
		return
	}

	if fileName == "" {
		fileName = v.VideoID + "-attempts.csv"
	}

	history, err := c.history.ListAttempts(ctx, v.VideoID)
	if err != nil {
		c.log.Warn("failed to load history", "video_id", v.VideoID, "error", err)
		c.sender.Warning(msgHistoryUnavailable)
		return
	}

	data, err := stats.ExportCSV(history)
	if err != nil {
		c.report(err)
		return
	}

	if err = c.sender.Document(fileName, data); err != nil {
		c.report(err)
	}
}

// report показывает ошибку пользователю.
func (c *Console) report(err error) {
	c.log.Debug("command failed", "error", err)
	c.sender.Warning(errorText(err))
}
