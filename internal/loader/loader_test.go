package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/healthmetrics/healthmcp/internal/healthdata"
	"github.com/healthmetrics/healthmcp/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakeAcquirer struct {
	calls   atomic.Int32
	release chan struct{} // nil means return immediately
	err     error
	meta    *healthdata.SourceMetadata
	metaErr error
}

func (f *fakeAcquirer) Download(ctx context.Context) ([]byte, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("workbook"), nil
}

func (f *fakeAcquirer) Metadata(ctx context.Context) (*healthdata.SourceMetadata, error) {
	return f.meta, f.metaErr
}

type fakeParser struct {
	calls atomic.Int32
	err   error
}

func (f *fakeParser) Parse(data []byte) (*healthdata.Dataset, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &healthdata.Dataset{
		Profile:  healthdata.UserProfile{UserID: "USR001"},
		Activity: []healthdata.DailyActivity{{Date: "2024-01-15", Steps: 9000}},
		Sleep:    []healthdata.SleepRecord{{Date: "2024-01-15"}, {Date: "2024-01-16"}},
	}, nil
}

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (j *memJournal) Record(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return journal.Entry{}, j.err
	}
	j.entries = append(j.entries, e)
	return e, nil
}

func (j *memJournal) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []journal.Entry{}
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestDataset_LoadsOnce(t *testing.T) {
	acq, parser := &fakeAcquirer{}, &fakeParser{}
	l := New(acq, parser)

	assert.Nil(t, l.Cached())

	first, err := l.Dataset(context.Background())
	require.NoError(t, err)
	second, err := l.Dataset(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Cached())
	assert.EqualValues(t, 1, acq.calls.Load())
	assert.EqualValues(t, 1, parser.calls.Load())
}

func TestDataset_ConcurrentCallersShareOneLoad(t *testing.T) {
	acq := &fakeAcquirer{release: make(chan struct{})}
	l := New(acq, &fakeParser{})

	const callers = 16
	results := make([]*healthdata.Dataset, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := l.Dataset(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}

	require.Eventually(t, func() bool { return acq.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(acq.release)
	wg.Wait()

	assert.EqualValues(t, 1, acq.calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestDataset_FailureIsNotCached(t *testing.T) {
	acq := &fakeAcquirer{err: &healthdata.AcquisitionError{Op: "download file from Google Drive", Err: errors.New("timeout")}}
	l := New(acq, &fakeParser{})

	_, err := l.Dataset(context.Background())
	require.ErrorIs(t, err, healthdata.ErrAcquisition)
	assert.Nil(t, l.Cached())

	acq.err = nil
	ds, err := l.Dataset(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.EqualValues(t, 2, acq.calls.Load())
}

func TestDataset_ParseErrorPropagates(t *testing.T) {
	parser := &fakeParser{err: &healthdata.ParseError{Err: &healthdata.MissingSheetError{Sheet: "nutrition"}}}
	l := New(&fakeAcquirer{}, parser)

	_, err := l.Dataset(context.Background())
	require.ErrorIs(t, err, healthdata.ErrParse)
	assert.Contains(t, err.Error(), "nutrition sheet not found")
	assert.Nil(t, l.Cached())
}

func TestDataset_CancelledWaitDoesNotAbortLoad(t *testing.T) {
	acq := &fakeAcquirer{release: make(chan struct{})}
	l := New(acq, &fakeParser{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := l.Dataset(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return acq.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(acq.release)
	require.Eventually(t, func() bool { return l.Cached() != nil }, time.Second, time.Millisecond)
	assert.EqualValues(t, 1, acq.calls.Load())
}

func TestReload_ReacquiresOncePerReload(t *testing.T) {
	acq := &fakeAcquirer{}
	l := New(acq, &fakeParser{})
	ctx := context.Background()

	first, err := l.Dataset(ctx)
	require.NoError(t, err)

	second, err := l.Reload(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.EqualValues(t, 2, acq.calls.Load())

	_, err = l.Dataset(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, acq.calls.Load())

	l.Invalidate()
	assert.Nil(t, l.Cached())
	_, err = l.Dataset(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, acq.calls.Load())
}

func TestLoad_Journaled(t *testing.T) {
	acq := &fakeAcquirer{}
	j := &memJournal{}
	l := New(acq, &fakeParser{}, WithJournal(j))
	ctx := context.Background()

	acq.err = &healthdata.AcquisitionError{Op: "download file from Google Drive", Err: errors.New("403")}
	_, err := l.Dataset(ctx)
	require.Error(t, err)

	acq.err = nil
	_, err = l.Dataset(ctx)
	require.NoError(t, err)

	require.Len(t, j.entries, 2)
	assert.Equal(t, journal.OutcomeError, j.entries[0].Outcome)
	assert.Contains(t, j.entries[0].Error, "403")
	assert.Equal(t, journal.OutcomeOK, j.entries[1].Outcome)
	assert.Equal(t, len("workbook"), j.entries[1].Bytes)
	assert.Equal(t, healthdata.Counts{Activity: 1, Sleep: 2}, j.entries[1].Counts)
}

func TestLoad_JournalFailureDoesNotFailLoad(t *testing.T) {
	l := New(&fakeAcquirer{}, &fakeParser{}, WithJournal(&memJournal{err: errors.New("disk full")}))

	ds, err := l.Dataset(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds)
}

func TestStatus_NeverLoads(t *testing.T) {
	acq := &fakeAcquirer{meta: &healthdata.SourceMetadata{Name: "health.xlsx", Size: 2048}}
	l := New(acq, &fakeParser{}, WithJournal(&memJournal{}))

	st, err := l.Status(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, st.Loaded)
	assert.Nil(t, st.Counts)
	assert.Equal(t, "health.xlsx", st.Source.Name)
	assert.Empty(t, st.RecentLoads)
	assert.EqualValues(t, 0, acq.calls.Load())
}

func TestStatus_AfterLoad(t *testing.T) {
	fixed := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = orig })

	acq := &fakeAcquirer{metaErr: errors.New("forbidden")}
	l := New(acq, &fakeParser{}, WithJournal(&memJournal{}))
	_, err := l.Dataset(context.Background())
	require.NoError(t, err)

	st, err := l.Status(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, st.Loaded)
	assert.Equal(t, &healthdata.Counts{Activity: 1, Sleep: 2}, st.Counts)
	assert.Equal(t, fixed, *st.LoadedAt)
	assert.Nil(t, st.Source)
	assert.Equal(t, "forbidden", st.SourceError)
	require.Len(t, st.RecentLoads, 1)
	assert.Equal(t, journal.OutcomeOK, st.RecentLoads[0].Outcome)
}
