package snowloader

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"
)

const defaultBatchSize = 10000

// Handler defines how to handle events which match specified pattern.
type Handler struct {
	// Name is the handler's name.
	Name string

	Pattern         *regexp.Regexp
	Encoding        encoding.Encoding
	Parser          Parser
	Preprocessor    Preprocessor
	Projector       Projector
	SkipLeadingRows int
	BatchSize       int
	Notifier        Notifier

	// DSN is the Snowflake connection string of the destination account.
	DSN string

	// Database, Schema and Table identify the destination Snowflake table.
	Database string
	Schema   string
	Table    string

	// Stage is the external stage the COPY INTO statement reads from.
	Stage string

	// StageBucket and StagePrefix locate the S3 area the stage points at,
	// where projected rows are written before loading. Region is the AWS
	// region of both the landing and stage buckets.
	StageBucket string
	StagePrefix string
	Region      string

	// Extractor and Loader may be injected for tests or custom sources and
	// destinations; AddHandler fills in the S3 and Snowflake defaults.
	Extractor Extractor
	Loader    Loader

	semaphore chan struct{}
}

// Projector transforms a source row into a row for the destination table.
// Returning (nil, nil) drops the row silently. A returned error that is
// record-scoped (see RowError in package energy) drops the row and adds it
// to the skipped-row audit; any other error aborts the whole load.
type Projector func(context.Context, []string) ([]string, error)

// Preprocessor runs once per event before any row is projected. It can stash
// per-file metadata, such as values parsed from the object key, into the
// returned context for the Projector to use.
type Preprocessor func(context.Context, Event) (context.Context, error)

// SkippedRow is one source row dropped by the Projector under the
// continue-on-error policy.
type SkippedRow struct {
	// Line is the 1-based line number in the source object, counting
	// skipped leading rows.
	Line int

	// RecordID is the first column of the row, conventionally the record
	// identifier.
	RecordID string

	Err error
}

// recordScoped is implemented by errors that invalidate a single row only.
type recordScoped interface {
	RecordScoped() bool
}

func isRecordScoped(err error) bool {
	var rs recordScoped
	return errors.As(err, &rs) && rs.RecordScoped()
}

func (h *Handler) match(key string) bool {
	return h.Pattern != nil && h.Pattern.MatchString(key)
}

func (h *Handler) batchSize() int {
	if h.BatchSize > 0 {
		return h.BatchSize
	}
	return defaultBatchSize
}

// SetConcurrency bounds how many rows this handler projects in parallel,
// overriding the loader-wide setting.
func (h *Handler) SetConcurrency(n int) {
	h.semaphore = make(chan struct{}, n)
}

// Handle processes one event with this handler alone. Most callers go
// through SnowLoader.Handle instead, which dispatches on Pattern and
// notifies the result.
func (h *Handler) Handle(ctx context.Context, e Event) error {
	if h.semaphore == nil {
		h.SetConcurrency(1)
	}
	_, _, err := h.handle(ctx, e)
	return err
}

func (h *Handler) handle(ctx context.Context, e Event) (int, []SkippedRow, error) {
	l := log.Ctx(ctx)

	if h.Preprocessor != nil {
		var err error
		ctx, err = h.Preprocessor(ctx, e)
		if err != nil {
			return 0, nil, xerrors.Errorf("failed to preprocess: %w", err)
		}
	}

	r, closer, err := h.Extractor.Extract(ctx, e)
	if err != nil {
		return 0, nil, xerrors.Errorf("failed to extract: %w", err)
	}
	defer closer()

	if h.Encoding != nil {
		r = transform.NewReader(r, h.Encoding.NewDecoder())
	}

	source, err := h.Parser(ctx, r)
	if err != nil {
		l.Error().Msgf("[%s] failed to parse object: %v", h.Name, err)
		return 0, nil, xerrors.Errorf("failed to parse: %w", err)
	}

	if len(source) <= h.SkipLeadingRows {
		source = nil
	} else {
		source = source[h.SkipLeadingRows:]
	}

	projected := make([][]string, len(source))

	var mu sync.Mutex
	var skipped []SkippedRow

	for start := 0; start < len(source); start += h.batchSize() {
		end := min(start+h.batchSize(), len(source))

		eg, egctx := errgroup.WithContext(ctx)

		for i := start; i < end; i++ {
			i := i
			eg.Go(func() error {
				h.semaphore <- struct{}{}
				defer func() { <-h.semaphore }()

				row, err := h.Projector(egctx, source[i])
				if err != nil {
					if !isRecordScoped(err) {
						return xerrors.Errorf("failed to project row %d: %w", i, err)
					}

					mu.Lock()
					skipped = append(skipped, SkippedRow{
						Line:     i + h.SkipLeadingRows + 1,
						RecordID: rowID(source[i]),
						Err:      err,
					})
					mu.Unlock()

					return nil
				}

				projected[i] = row

				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return 0, nil, err
		}
	}

	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Line < skipped[j].Line })

	for _, s := range skipped {
		l.Warn().Msgf("[%s] skipped line %d (record %q): %v", h.Name, s.Line, s.RecordID, s.Err)
	}

	records := make([][]string, 0, len(projected))
	for _, row := range projected {
		if row != nil {
			records = append(records, row)
		}
	}

	if err := h.Loader.Load(ctx, records); err != nil {
		return 0, skipped, xerrors.Errorf("failed to load: %w", err)
	}

	return len(records), skipped, nil
}

func rowID(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
