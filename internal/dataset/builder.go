package dataset

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	apperrors "histcli/internal/errors"
	"histcli/internal/files"
	"histcli/pkg/contracts/domain"
)

// BuildProgress describes one step of an in-flight build. Emitted after each
// file is parsed and once when the build finishes.
type BuildProgress struct {
	File        string `json:"file,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	FilesDone   int    `json:"files_done"`
	FilesTotal  int    `json:"files_total"`
	RecordCount int    `json:"record_count"`
	Done        bool   `json:"done"`
}

// Builder constructs validated combined datasets from a directory of
// per-symbol price files.
type Builder struct {
	logger   *slog.Logger
	workers  int
	progress func(BuildProgress)
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProgress installs a callback invoked as files finish parsing.
// The callback runs on the builder goroutine and must not block.
func WithProgress(fn func(BuildProgress)) BuilderOption {
	return func(b *Builder) { b.progress = fn }
}

// NewBuilder creates a dataset builder.
func NewBuilder(logger *slog.Logger, opts ...BuilderOption) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{
		logger:  logger.With(slog.String("component", "dataset_builder")),
		workers: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads every per-symbol file in dir, parses them (concurrently, up to
// the configured worker count), concatenates the results, sorts by
// (symbol, date) and validates key uniqueness and ordering. Any failure
// aborts the whole build.
func (b *Builder) Build(ctx context.Context, dir string) (*Dataset, error) {
	discovery := files.NewDiscovery("")
	sources, err := discovery.FindPriceFiles(dir)
	if err != nil {
		return nil, apperrors.NewInputError("cannot read price directory", err)
	}

	b.logger.InfoContext(ctx, "starting dataset build",
		slog.String("dir", dir),
		slog.Int("files", len(sources)),
		slog.Int("workers", b.workers))

	if len(sources) == 0 {
		b.emit(BuildProgress{Done: true})
		return Empty(), nil
	}

	// Parse files in parallel; each goroutine writes only its own slot so
	// the final pass stays deterministic.
	perFile := make([][]domain.PriceRecord, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	done := make(chan int, len(sources))
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := ParseFile(src.Path, src.Symbol)
			if err != nil {
				return err
			}
			perFile[i] = records
			done <- i
			return nil
		})
	}

	go func() {
		g.Wait()
		close(done)
	}()

	filesDone := 0
	for i := range done {
		filesDone++
		b.emit(BuildProgress{
			File:        sources[i].Name,
			Symbol:      sources[i].Symbol,
			FilesDone:   filesDone,
			FilesTotal:  len(sources),
			RecordCount: len(perFile[i]),
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.ErrorContext(ctx, "dataset build failed",
			slog.String("error", err.Error()))
		return nil, err
	}

	var combined []domain.PriceRecord
	for _, records := range perFile {
		combined = append(combined, records...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Less(combined[j])
	})

	if err := validate(combined); err != nil {
		b.logger.ErrorContext(ctx, "dataset validation failed",
			slog.String("error", err.Error()))
		return nil, err
	}

	ds := newDataset(combined)
	b.logger.InfoContext(ctx, "dataset build complete",
		slog.Int("records", ds.Len()),
		slog.Int("symbols", len(ds.Symbols())))
	b.emit(BuildProgress{
		FilesDone:   len(sources),
		FilesTotal:  len(sources),
		RecordCount: ds.Len(),
		Done:        true,
	})

	return ds, nil
}

func (b *Builder) emit(p BuildProgress) {
	if b.progress != nil {
		b.progress(p)
	}
}

// validate checks the combined-dataset invariants: strictly increasing
// (symbol, date) keys, which implies both uniqueness and ordering.
func validate(records []domain.PriceRecord) error {
	for i := 1; i < len(records); i++ {
		prev, curr := records[i-1], records[i]
		if prev.Symbol == curr.Symbol && prev.Date.Equal(curr.Date) {
			return apperrors.NewValidationError("duplicate (symbol, date) key", curr.Key())
		}
		if curr.Less(prev) {
			return apperrors.NewValidationError("records out of (symbol, date) order", curr.Key())
		}
	}
	return nil
}
