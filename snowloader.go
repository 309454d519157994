package snowloader

import (
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// SnowLoader stages transformed data on S3 and bulk-loads it into Snowflake
// tables in response to object-created events.
type SnowLoader interface {
	AddHandler(context.Context, *Handler) error
	MustAddHandler(context.Context, *Handler)
	Handle(context.Context, Event) error
}

// New builds a new SnowLoader.
func New(opts ...Option) (SnowLoader, error) {
	l := &snowLoader{
		handlers:    []*Handler{},
		concurrency: runtime.NumCPU(),
		logLevel:    zerolog.InfoLevel,
	}

	for _, o := range opts {
		if err := o.apply(l); err != nil {
			return nil, xerrors.Errorf("failed to apply option: %w", err)
		}
	}

	var w io.Writer = os.Stdout
	if l.prettyLogging {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	l.logger = zerolog.New(w).Level(l.logLevel).With().Timestamp().Logger()

	l.semaphore = make(chan struct{}, l.concurrency)

	return l, nil
}

type snowLoader struct {
	handlers []*Handler
	mu       sync.RWMutex

	concurrency   int
	prettyLogging bool
	logLevel      zerolog.Level
	logger        zerolog.Logger
	semaphore     chan struct{}
}

func (l *snowLoader) AddHandler(ctx context.Context, h *Handler) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h.Projector == nil {
		return xerrors.Errorf("handler %s has no projector", h.Name)
	}

	if h.Parser == nil {
		h.Parser = CSVParser()
	}

	if h.BatchSize == 0 {
		h.BatchSize = defaultBatchSize
	}

	if h.Extractor == nil {
		ex, err := newDefaultExtractor(ctx, h.Region)
		if err != nil {
			return xerrors.Errorf("failed to build extractor for handler %s: %w", h.Name, err)
		}
		h.Extractor = ex
	}

	if h.Loader == nil {
		ld, err := newDefaultLoader(ctx, h)
		if err != nil {
			return xerrors.Errorf("failed to build loader for handler %s: %w", h.Name, err)
		}
		h.Loader = ld
	}

	if h.semaphore == nil {
		h.semaphore = l.semaphore
	}

	l.handlers = append(l.handlers, h)

	return nil
}

func (l *snowLoader) MustAddHandler(ctx context.Context, h *Handler) {
	if err := l.AddHandler(ctx, h); err != nil {
		panic(err)
	}
}

func (l *snowLoader) Handle(ctx context.Context, e Event) error {
	ctx = l.logger.WithContext(ctx)
	ctx = withStartedTime(ctx)

	lg := log.Ctx(ctx)
	lg.Info().Msgf("loader started for %s", e.FullPath())
	defer lg.Info().Msg("loader finished")

	l.mu.RLock()
	handlers := make([]*Handler, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.RUnlock()

	for _, h := range handlers {
		if !h.match(e.Key) {
			continue
		}

		lg.Info().Msgf("handling %s with %s", e.Key, h.Name)

		loaded, skipped, err := h.handle(ctx, e)

		if h.Notifier != nil {
			res := &Result{Event: e, Handler: h, Error: err, Loaded: loaded, Skipped: skipped}
			if nerr := h.Notifier.Notify(ctx, res); nerr != nil {
				lg.Error().Msgf("[%s] failed to notify: %v", h.Name, nerr)
			}
		}

		if err != nil {
			lg.Error().Msgf("[%s] %v", h.Name, err)
			return xerrors.Errorf("handler %s failed: %w", h.Name, err)
		}
	}

	return nil
}
