package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/storage"
	"github.com/poiesic/curator/storage/badger"
	"github.com/stretchr/testify/require"
)

const (
	urlA = "https://docs.example.com/a"
	urlB = "https://docs.example.com/b"
	urlC = "https://docs.example.com/c"
	urlD = "https://docs.example.com/d"
)

// fakeReader returns canned text for every URL.
type fakeReader struct {
	mu    sync.Mutex
	fail  map[string]error
	calls map[string]int
}

func newFakeReader() *fakeReader {
	return &fakeReader{fail: make(map[string]error), calls: make(map[string]int)}
}

func (r *fakeReader) ReadURL(_ context.Context, u string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[u]++
	if err := r.fail[u]; err != nil {
		return "", err
	}
	return "text of " + u, nil
}

func (r *fakeReader) callCount(u string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[u]
}

// recordingMonitor remembers every transition per group.
type recordingMonitor struct {
	mu       sync.Mutex
	history  map[core.GroupID][]core.Status
	finished []*StageReport
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{history: make(map[core.GroupID][]core.Status)}
}

func (m *recordingMonitor) Transition(id core.GroupID, from, to core.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history[id]) == 0 {
		m.history[id] = append(m.history[id], from)
	}
	m.history[id] = append(m.history[id], to)
}

func (m *recordingMonitor) StageFinished(report *StageReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, report)
}

func (m *recordingMonitor) path(id core.GroupID) []core.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Status(nil), m.history[id]...)
}

type testEnv struct {
	engine   *Engine
	units    storage.UnitRepository
	ledger   storage.CommitLedger
	provider *mock.MockProvider
	reader   *fakeReader
	monitor  *recordingMonitor
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	units, ledger, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	env := &testEnv{
		units:    units,
		ledger:   ledger,
		provider: mock.NewMockProvider(),
		reader:   newFakeReader(),
		monitor:  newRecordingMonitor(),
	}

	all := append([]Option{
		WithPoolSize(4),
		WithSourceReader(env.reader),
		WithMonitor(env.monitor),
	}, opts...)
	env.engine, err = NewEngine(units, ledger, env.provider, all...)
	require.NoError(t, err)

	t.Cleanup(func() {
		env.engine.Release()
		ledger.Close()
		units.Close()
		backend.Close()
	})
	return env
}

// classifyInto makes the classifier return groups verbatim.
func (env *testEnv) classifyInto(groups ...ai.ProposedGroup) {
	env.provider.GetMockClassifier().ClassifyFunc = func(_ context.Context, _ ai.ClassifyRequest) ([]ai.ProposedGroup, error) {
		return groups, nil
	}
}

func (env *testEnv) propose(t *testing.T, urls ...string) *Batch {
	t.Helper()
	ws := source.NewWorkSet()
	for _, u := range urls {
		require.NoError(t, ws.AddURL(u))
	}
	b, err := env.engine.Propose(context.Background(), ws)
	require.NoError(t, err)
	return b
}

func (env *testEnv) createUnit(t *testing.T, title, content string) *core.Unit {
	t.Helper()
	unit, err := env.units.CreateUnit(context.Background(), title, content, nil)
	require.NoError(t, err)
	return unit
}

// groupByTitle finds a group by title in the batch.
func groupByTitle(t *testing.T, b *Batch, title string) *core.Group {
	t.Helper()
	for _, g := range b.Groups() {
		if g.Title == title {
			return g
		}
	}
	require.FailNow(t, fmt.Sprintf("no group titled %q", title))
	return nil
}

func create(title string, urls ...string) ai.ProposedGroup {
	return ai.ProposedGroup{Kind: core.KindCreate, Title: title, URLs: urls}
}

func update(title string, unitID core.ID, urls ...string) ai.ProposedGroup {
	return ai.ProposedGroup{Kind: core.KindUpdate, Title: title, ExistingUnitID: unitID, URLs: urls}
}

func boolPtr(v bool) *bool {
	return &v
}

// flakyLedger fails the first RecordCommit call and delegates the rest.
type flakyLedger struct {
	storage.CommitLedger
	failed atomic.Bool
}

func (l *flakyLedger) RecordCommit(ctx context.Context, key, unitID core.ID) error {
	if l.failed.CompareAndSwap(false, true) {
		return errors.New("disk hiccup")
	}
	return l.CommitLedger.RecordCommit(ctx, key, unitID)
}
