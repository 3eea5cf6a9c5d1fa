package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"shoof/internal/adapters/ingest/channel"
	"shoof/internal/adapters/ingest/channel/channeltest"
	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
	kit "shoof/internal/platform/testkit"
	ingestdom "shoof/internal/services/ingest/domain"
	"shoof/internal/services/monitor/domain"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (d nopDB) Tx(ctx context.Context, fn func(repokit.Queryer) error) error   { return fn(d) }

type memCursors struct {
	mu     sync.Mutex
	ids    map[string]int64
	getErr error
}

func (m *memCursors) Get(_ context.Context, ref string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	id, ok := m.ids[ref]
	return id, ok, nil
}

func (m *memCursors) Advance(ctx context.Context, ref string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if m.ids == nil {
		m.ids = map[string]int64{}
	}
	if id > m.ids[ref] {
		m.ids[ref] = id
	}
	return nil
}

type lastID int64

func (l lastID) LastMessageID(context.Context, string) (int64, error) { return int64(l), nil }

// stopProc records posts and cancels once stopAt is processed
// fail holds how many more times a message id reports a store failure; -1 fails forever
type stopProc struct {
	seen   []int64
	stopAt int64
	cancel context.CancelFunc
	fail   map[int64]int
}

func (p *stopProc) Process(_ context.Context, post channel.Post) ingestdom.Outcome {
	p.seen = append(p.seen, post.ID)
	if n := p.fail[post.ID]; n != 0 {
		if n > 0 {
			p.fail[post.ID] = n - 1
		}
		return ingestdom.Failed
	}
	if post.ID == p.stopAt && p.cancel != nil {
		p.cancel()
	}
	return ingestdom.Imported
}

type harness struct {
	svc     *Svc
	src     *channeltest.Source
	cursors *memCursors
	proc    *stopProc
	sleeps  []time.Duration
}

func newHarness(t *testing.T, resume domain.ResumePort, cfg Config, sessions ...channeltest.Session) *harness {
	t.Helper()
	h := &harness{
		src:     channeltest.New("aflam").Script(sessions...),
		cursors: &memCursors{},
		proc:    &stopProc{},
	}
	b := repokit.Static[domain.CursorRepo](h.cursors)
	h.svc = New(nopDB{}, b, h.src, h.proc, resume, cfg)
	h.svc.sleep = func(_ context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return nil
	}
	return h
}

func (h *harness) run(t *testing.T, stopAt int64) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.proc.stopAt, h.proc.cancel = stopAt, cancel
	return h.svc.Run(ctx)
}

func post(id int64) channel.Post { return channel.Post{ID: id, Text: "برغم القانون 25"} }

var errDrop = errors.New("connection reset by peer")

func TestRun_ResumesFromCursor(t *testing.T) {
	h := newHarness(t, lastID(99), Config{}, channeltest.Session{Posts: []channel.Post{post(4), post(5), post(6), post(7)}})
	h.cursors.ids = map[string]int64{"aflam": 5}

	if err := h.run(t, 7); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{5}) {
		t.Fatalf("after ids = %v", got)
	}
	if !slices.Equal(h.proc.seen, []int64{6, 7}) {
		t.Fatalf("processed = %v", h.proc.seen)
	}
	if h.cursors.ids["aflam"] != 7 {
		t.Fatalf("cursor = %d, want 7", h.cursors.ids["aflam"])
	}
}

func TestRun_ResumesFromCatalogWithoutCursor(t *testing.T) {
	h := newHarness(t, lastID(41), Config{}, channeltest.Session{Posts: []channel.Post{post(42)}})

	if err := h.run(t, 42); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{41}) {
		t.Fatalf("after ids = %v", got)
	}
}

func TestRun_ResumeFromZero(t *testing.T) {
	h := newHarness(t, nil, Config{}, channeltest.Session{Posts: []channel.Post{post(1)}})

	if err := h.run(t, 1); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{0}) {
		t.Fatalf("after ids = %v", got)
	}
}

func TestRun_ReconnectsWithBackoff(t *testing.T) {
	h := newHarness(t, nil, Config{BackoffBase: time.Second, BackoffMax: time.Minute},
		channeltest.Session{Posts: []channel.Post{post(1)}, Err: errDrop},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Posts: []channel.Post{post(1), post(2)}},
	)

	if err := h.run(t, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{0, 1, 1, 1}) {
		t.Fatalf("after ids = %v", got)
	}
	if !slices.Equal(h.proc.seen, []int64{1, 2}) {
		t.Fatalf("processed = %v, want each post once", h.proc.seen)
	}
	if len(h.sleeps) != 3 {
		t.Fatalf("sleeps = %v", h.sleeps)
	}
	// consecutive failures 1, 2, 3
	bounds := [][2]time.Duration{{500 * time.Millisecond, time.Second}, {time.Second, 2 * time.Second}, {2 * time.Second, 4 * time.Second}}
	for i, d := range h.sleeps {
		if d < bounds[i][0] || d > bounds[i][1] {
			t.Fatalf("sleep %d = %v, want within %v", i, d, bounds[i])
		}
	}
}

func TestRun_GivesUpAfterMaxReconnects(t *testing.T) {
	h := newHarness(t, nil, Config{MaxReconnects: 3},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Posts: []channel.Post{post(1)}},
	)

	err := h.run(t, 1)
	if !perr.IsUnavailable(err) || !errors.Is(err, errDrop) {
		t.Fatalf("err = %v, want unavailable wrapping the drop", err)
	}
	if n := len(h.src.AfterIDs()); n != 3 {
		t.Fatalf("stream calls = %d, want 3", n)
	}
}

func TestRun_DeliveryResetsFailures(t *testing.T) {
	h := newHarness(t, nil, Config{MaxReconnects: 2},
		channeltest.Session{Err: errDrop},
		channeltest.Session{Posts: []channel.Post{post(1)}, Err: errDrop},
		channeltest.Session{Err: errDrop},
	)

	if err := h.run(t, -1); !perr.IsUnavailable(err) {
		t.Fatalf("err = %v", err)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{0, 0, 1}) {
		t.Fatalf("after ids = %v", got)
	}
}

func TestRun_StoreFailureHoldsCursorAndGivesUp(t *testing.T) {
	both := channeltest.Session{Posts: []channel.Post{post(1), post(2)}}
	h := newHarness(t, nil, Config{MaxReconnects: 3}, both, both, both, both)
	h.proc.fail = map[int64]int{1: -1}

	err := h.run(t, 2)
	if !perr.IsUnavailable(err) {
		t.Fatalf("err = %v, want unavailable after repeated store failures", err)
	}
	if !slices.Equal(h.proc.seen, []int64{1, 1, 1}) {
		t.Fatalf("processed = %v, want message 1 retried and 2 never reached", h.proc.seen)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{0, 0, 0}) {
		t.Fatalf("after ids = %v", got)
	}
	if id, ok := h.cursors.ids["aflam"]; ok {
		t.Fatalf("cursor advanced to %d past a failed write", id)
	}
}

func TestRun_StoreFailureReplaysPost(t *testing.T) {
	h := newHarness(t, nil, Config{MaxReconnects: 3},
		channeltest.Session{Posts: []channel.Post{post(1), post(2), post(3)}},
		channeltest.Session{Posts: []channel.Post{post(1), post(2), post(3)}},
	)
	h.proc.fail = map[int64]int{2: 1}

	if err := h.run(t, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !slices.Equal(h.proc.seen, []int64{1, 2, 2, 3}) {
		t.Fatalf("processed = %v", h.proc.seen)
	}
	if got := h.src.AfterIDs(); !slices.Equal(got, []int64{0, 1}) {
		t.Fatalf("after ids = %v, want the replay to resume after 1", got)
	}
	if h.cursors.ids["aflam"] != 3 || len(h.sleeps) != 1 {
		t.Fatalf("cursor = %d sleeps = %v", h.cursors.ids["aflam"], h.sleeps)
	}
}

func TestRun_CursorReadFailure(t *testing.T) {
	h := newHarness(t, nil, Config{})
	h.cursors.getErr = errors.New("dial tcp: connection refused")

	if err := h.run(t, -1); err == nil {
		t.Fatalf("want error")
	}
	if n := len(h.src.AfterIDs()); n != 0 {
		t.Fatalf("stream must not start, calls = %d", n)
	}
}

func TestRun_CancelDuringBackoff(t *testing.T) {
	h := newHarness(t, nil, Config{}, channeltest.Session{Err: errDrop})
	h.svc.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := h.svc.Run(ctx); err != nil {
		t.Fatalf("Run = %v, want nil on cancel", err)
	}
}

func TestBackoff_Capped(t *testing.T) {
	s := &Svc{cfg: Config{BackoffBase: time.Second, BackoffMax: 4 * time.Second}}
	for _, f := range []int{3, 10, 50} {
		if d := s.backoff(f); d < 2*time.Second || d > 4*time.Second {
			t.Fatalf("backoff(%d) = %v", f, d)
		}
	}
}

func TestNew_Panics(t *testing.T) {
	b := repokit.Static[domain.CursorRepo](&memCursors{})
	kit.MustPanic(t, func() { New(nil, b, channeltest.New("x"), &stopProc{}, nil, Config{}) })
	kit.MustPanic(t, func() { New(nopDB{}, b, nil, &stopProc{}, nil, Config{}) })
}
