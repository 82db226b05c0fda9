// Package loader owns the cached health dataset. The first query
// triggers a download and parse; concurrent callers share that single
// load; later callers get the cached dataset until it is invalidated.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/journal"
	"github.com/healthmetrics/healthmcp/internal/logger"
	"github.com/healthmetrics/healthmcp/internal/observability"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Acquirer fetches the raw workbook.
type Acquirer interface {
	Download(ctx context.Context) ([]byte, error)
}

// Inspector reports metadata about the remote workbook without
// downloading it.
type Inspector interface {
	Metadata(ctx context.Context) (*healthdata.SourceMetadata, error)
}

// Parser converts workbook bytes into a dataset.
type Parser interface {
	Parse(data []byte) (*healthdata.Dataset, error)
}

// Journal records load attempts.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

var timeNow = time.Now

const flightKey = "dataset"

// Loader lazily loads and caches the dataset.
type Loader struct {
	acquirer Acquirer
	parser   Parser
	journal  Journal
	log      *logger.Logger

	group singleflight.Group

	mu       sync.RWMutex
	dataset  *healthdata.Dataset
	loadedAt time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithJournal records every load attempt in j.
func WithJournal(j Journal) Option {
	return func(l *Loader) { l.journal = j }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a Loader. Nothing is fetched until Dataset is called.
func New(acquirer Acquirer, parser Parser, opts ...Option) *Loader {
	l := &Loader{
		acquirer: acquirer,
		parser:   parser,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dataset returns the cached dataset, loading it first if needed.
// Concurrent callers during a load wait for the same result. A failed
// load leaves nothing cached, so the next call retries from scratch.
// Cancelling ctx stops the wait but not a load other callers share.
func (l *Loader) Dataset(ctx context.Context) (*healthdata.Dataset, error) {
	if ds := l.Cached(); ds != nil {
		return ds, nil
	}

	ch := l.group.DoChan(flightKey, func() (any, error) {
		if ds := l.Cached(); ds != nil {
			return ds, nil
		}
		return l.load(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*healthdata.Dataset), nil
	}
}

// Cached returns the dataset if one is loaded, or nil.
func (l *Loader) Cached() *healthdata.Dataset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dataset
}

// Invalidate drops the cached dataset. The next Dataset call reloads.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.dataset = nil
	l.loadedAt = time.Time{}
	l.mu.Unlock()
}

// Reload drops the cached dataset and loads it again.
func (l *Loader) Reload(ctx context.Context) (*healthdata.Dataset, error) {
	l.Invalidate()
	return l.Dataset(ctx)
}

func (l *Loader) load(ctx context.Context) (*healthdata.Dataset, error) {
	started := timeNow()
	l.log.Info("loading health dataset")

	var (
		data []byte
		ds   *healthdata.Dataset
		err  error
	)
	data, err = l.acquirer.Download(ctx)
	if err == nil {
		ds, err = l.parser.Parse(data)
	}

	finished := timeNow()
	took := finished.Sub(started)
	observability.RecordDatasetLoad(finished, took, err)

	entry := journal.Entry{
		StartedAt:  started,
		DurationMS: took.Milliseconds(),
		Bytes:      len(data),
		Outcome:    journal.OutcomeOK,
	}
	if err != nil {
		entry.Outcome = journal.OutcomeError
		entry.Error = err.Error()
		l.log.Error("dataset load failed", "error", err, "duration", took)
	} else {
		entry.Counts = ds.Counts()
		l.log.Info("dataset loaded",
			"duration", took,
			"bytes", len(data),
			"activity", entry.Counts.Activity,
			"sleep", entry.Counts.Sleep,
			"heart", entry.Counts.Heart,
			"nutrition", entry.Counts.Nutrition,
		)
	}
	l.record(ctx, entry)

	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.dataset = ds
	l.loadedAt = finished
	l.mu.Unlock()
	return ds, nil
}

func (l *Loader) record(ctx context.Context, e journal.Entry) {
	if l.journal == nil {
		return
	}
	if _, err := l.journal.Record(ctx, e); err != nil {
		l.log.Warn("failed to journal dataset load", "error", err)
	}
}

// Status describes the data source and the loader state.
type Status struct {
	Source      *healthdata.SourceMetadata `json:"source,omitempty"`
	SourceError string                     `json:"sourceError,omitempty"`
	Loaded      bool                       `json:"loaded"`
	LoadedAt    *time.Time                 `json:"loadedAt,omitempty"`
	Counts      *healthdata.Counts         `json:"counts,omitempty"`
	RecentLoads []journal.Entry            `json:"recentLoads"`
}

// Status reports source metadata and recent loads. It never triggers a
// dataset load. A failing metadata probe is reported in SourceError
// rather than failing the call.
func (l *Loader) Status(ctx context.Context, limit int) (*Status, error) {
	st := &Status{RecentLoads: []journal.Entry{}}

	l.mu.RLock()
	if l.dataset != nil {
		counts := l.dataset.Counts()
		loadedAt := l.loadedAt
		st.Loaded = true
		st.Counts = &counts
		st.LoadedAt = &loadedAt
	}
	l.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	if inspector, ok := l.acquirer.(Inspector); ok {
		g.Go(func() error {
			meta, err := inspector.Metadata(gctx)
			if err != nil {
				st.SourceError = err.Error()
				return nil
			}
			st.Source = meta
			return nil
		})
	}
	if l.journal != nil {
		g.Go(func() error {
			recent, err := l.journal.Recent(gctx, limit)
			if err != nil {
				return err
			}
			st.RecentLoads = recent
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return st, nil
}
