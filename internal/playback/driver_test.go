package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
)

type recordedPing struct {
	sessionID string
	ping      Ping
}

type stubRecorder struct {
	mu    sync.Mutex
	pings []recordedPing
	err   error
}

func (s *stubRecorder) Record(_ context.Context, sessionID string, pings []Ping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, p := range pings {
		s.pings = append(s.pings, recordedPing{sessionID: sessionID, ping: p})
	}
	return nil
}

func (s *stubRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pings)
}

func (s *stubRecorder) at(i int) recordedPing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pings[i]
}

type stubResolver struct {
	items []Item
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) ([]Item, error) {
	return s.items, s.err
}

type stubStarter struct {
	shareCode string
	sessionID string
	calls     int
	err       error
}

func (s *stubStarter) StartSession(_ context.Context, shareCode, sessionID string) error {
	s.calls++
	s.shareCode = shareCode
	s.sessionID = sessionID
	return s.err
}

type stubEnder struct {
	mu       sync.Mutex
	sessions []string
}

func (s *stubEnder) NotifyEnd(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
}

func (s *stubEnder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func playlist(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{MediaID: uuid.New(), Kind: KindImage})
	}
	return items
}

func newTestDriver(t *testing.T, params DriverParams) *Driver {
	t.Helper()
	if params.SessionID == "" {
		params.SessionID = "sess-1"
	}
	if params.Resolver == nil {
		params.Resolver = &stubResolver{items: playlist(2)}
	}
	if params.Starter == nil {
		params.Starter = &stubStarter{}
	}
	if params.Recorder == nil {
		params.Recorder = &stubRecorder{}
	}
	if params.SlideInterval == 0 {
		params.SlideInterval = 10 * time.Second
	}
	driver, err := NewDriver(params)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return driver
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDriverFullCycleWrapsAndPings(t *testing.T) {
	items := playlist(3)
	rec := &stubRecorder{}
	starter := &stubStarter{}
	driver := newTestDriver(t, DriverParams{
		Resolver: &stubResolver{items: items},
		Starter:  starter,
		Recorder: rec,
	})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := driver.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := driver.Advance(context.Background()); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}

	if starter.calls != 1 || starter.shareCode != "AbCd1234" || starter.sessionID != "sess-1" {
		t.Fatalf("session start = %+v", starter)
	}
	if rec.count() != 4 {
		t.Fatalf("expected 4 pings for start + 3 advances, got %d", rec.count())
	}

	wantOrder := []uuid.UUID{items[0].MediaID, items[1].MediaID, items[2].MediaID, items[0].MediaID}
	for i, want := range wantOrder {
		got := rec.at(i)
		if got.ping.MediaID != want {
			t.Fatalf("ping %d: expected media %s, got %s", i, want, got.ping.MediaID)
		}
		if got.ping.VisibleDurationMs != 10000 {
			t.Fatalf("ping %d: expected 10000ms, got %d", i, got.ping.VisibleDurationMs)
		}
		if got.sessionID != "sess-1" {
			t.Fatalf("ping %d: unexpected session %s", i, got.sessionID)
		}
	}

	current, ok := driver.Current()
	if !ok || current.MediaID != items[0].MediaID {
		t.Fatalf("expected wrap back to first item, got %v", current)
	}
}

func TestDriverRejectsEmptyGroup(t *testing.T) {
	driver := newTestDriver(t, DriverParams{Resolver: &stubResolver{}})

	err := driver.Load(context.Background(), "AbCd1234")
	if err == nil {
		t.Fatal("expected error for empty group")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if driver.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", driver.State())
	}
}

func TestDriverFailedLookupStaysIdle(t *testing.T) {
	driver := newTestDriver(t, DriverParams{
		Resolver: &stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "group not found")},
	})

	err := driver.Load(context.Background(), "AbCd1234")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if driver.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", driver.State())
	}
}

func TestDriverFailedSessionStartAbortsWithoutPings(t *testing.T) {
	rec := &stubRecorder{}
	driver := newTestDriver(t, DriverParams{
		Starter:  &stubStarter{err: errors.New("ingest down")},
		Recorder: rec,
	})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	err := driver.Start(context.Background())
	if err == nil {
		t.Fatal("expected session start failure to surface")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if rec.count() != 0 {
		t.Fatalf("expected no pings after failed start, got %d", rec.count())
	}
	if driver.State() != StateLoaded {
		t.Fatalf("expected loaded state, got %s", driver.State())
	}
}

func TestDriverSwallowsPingFailures(t *testing.T) {
	rec := &stubRecorder{err: errors.New("ingest down")}
	driver := newTestDriver(t, DriverParams{Recorder: rec})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := driver.Start(context.Background()); err != nil {
		t.Fatalf("ping failure interrupted start: %v", err)
	}
	if err := driver.Advance(context.Background()); err != nil {
		t.Fatalf("ping failure interrupted advance: %v", err)
	}
	if driver.State() != StatePlaying {
		t.Fatalf("expected playing state, got %s", driver.State())
	}
}

func TestDriverRejectsOutOfOrderTransitions(t *testing.T) {
	driver := newTestDriver(t, DriverParams{})

	if err := driver.Start(context.Background()); err == nil {
		t.Fatal("start before load should fail")
	}
	if err := driver.Advance(context.Background()); err == nil {
		t.Fatal("advance before start should fail")
	}

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := driver.Load(context.Background(), "AbCd1234"); err == nil {
		t.Fatal("double load should fail")
	}

	if err := driver.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	driver.Stop()
	if err := driver.Advance(context.Background()); err == nil {
		t.Fatal("advance after stop should fail")
	}
	if driver.State() != StateStopped {
		t.Fatalf("expected stopped state, got %s", driver.State())
	}
}

func TestDriverStopNotifiesEndOnce(t *testing.T) {
	ender := &stubEnder{}
	driver := newTestDriver(t, DriverParams{Ender: ender})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := driver.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	driver.Stop()
	driver.Stop()

	if ender.count() != 1 {
		t.Fatalf("expected exactly one end signal, got %d", ender.count())
	}
	if ender.sessions[0] != "sess-1" {
		t.Fatalf("unexpected session %q", ender.sessions[0])
	}
}

func TestDriverStopBeforeSessionStartsStaysQuiet(t *testing.T) {
	ender := &stubEnder{}
	driver := newTestDriver(t, DriverParams{Ender: ender})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	driver.Stop()

	if ender.count() != 0 {
		t.Fatalf("expected no end signal before a session opens, got %d", ender.count())
	}
}

func TestDriverRunAdvancesImagesAndWaitsForVideos(t *testing.T) {
	image := Item{MediaID: uuid.New(), Kind: KindImage}
	video := Item{MediaID: uuid.New(), Kind: KindVideo}
	rec := &stubRecorder{}
	ender := &stubEnder{}
	driver := newTestDriver(t, DriverParams{
		Resolver:      &stubResolver{items: []Item{image, video}},
		Recorder:      rec,
		Ender:         ender,
		SlideInterval: 15 * time.Millisecond,
	})

	if err := driver.Load(context.Background(), "AbCd1234"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := driver.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	// Slide timer moves the image off, landing on the video.
	waitFor(t, "timer advance onto video", func() bool { return rec.count() >= 2 })
	if got := rec.at(1).ping.MediaID; got != video.MediaID {
		t.Fatalf("expected video ping after timer, got %s", got)
	}

	// The video item holds until its end signal arrives.
	time.Sleep(40 * time.Millisecond)
	if rec.count() != 2 {
		t.Fatalf("video advanced without a media-end signal: %d pings", rec.count())
	}

	driver.MediaEnded()
	waitFor(t, "wrap back to image", func() bool { return rec.count() >= 3 })
	if got := rec.at(2).ping.MediaID; got != image.MediaID {
		t.Fatalf("expected wrap to image, got %s", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if driver.State() != StateStopped {
		t.Fatalf("expected stopped state, got %s", driver.State())
	}
	if ender.count() != 1 {
		t.Fatalf("expected one end signal on teardown, got %d", ender.count())
	}
}
