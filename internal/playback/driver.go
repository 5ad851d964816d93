package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/galeria-midia/backend/pkg/errors"
	"github.com/galeria-midia/backend/pkg/logger"
)

// DefaultSlideInterval is how long an image stays on screen before the
// driver moves on. Videos play to their end instead.
const DefaultSlideInterval = 10 * time.Second

// State is the driver's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateLoaded
	StatePlaying
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Kind distinguishes timed slides from run-to-completion videos.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

// Item is one entry in the playlist.
type Item struct {
	MediaID uuid.UUID
	Kind    Kind
}

// Ping reports one media exposure.
type Ping struct {
	MediaID           uuid.UUID
	VisibleDurationMs int64
}

// Resolver turns a share code into a playlist.
type Resolver interface {
	Resolve(ctx context.Context, shareCode string) ([]Item, error)
}

// SessionStarter opens the analytics session before any pings flow.
type SessionStarter interface {
	StartSession(ctx context.Context, shareCode, sessionID string) error
}

// Recorder receives exposure pings; in production it posts to the analytics
// ingest endpoint.
type Recorder interface {
	Record(ctx context.Context, sessionID string, pings []Ping) error
}

// EndNotifier delivers the end-of-session signal on teardown. Delivery is
// at most once and must not block the caller.
type EndNotifier interface {
	NotifyEnd(sessionID string)
}

// DriverParams wire a driver's collaborators.
type DriverParams struct {
	SessionID     string
	SlideInterval time.Duration
	Resolver      Resolver
	Starter       SessionStarter
	Recorder      Recorder
	Ender         EndNotifier
	Logger        *logger.Logger
}

// Driver cycles a playlist and reports a ping per displayed item. Each slide
// reports the fixed slide interval; the viewer clock is deliberately not
// consulted so totals stay comparable across devices. A ping that fails is
// logged and dropped, never interrupting playback.
type Driver struct {
	sessionID string
	slide     time.Duration
	resolver  Resolver
	starter   SessionStarter
	recorder  Recorder
	ender     EndNotifier
	logg      *logger.Logger

	mu        sync.Mutex
	state     State
	shareCode string
	items     []Item
	index     int
	started   bool

	mediaEnd chan struct{}
}

// NewDriver prepares a driver in the idle state.
func NewDriver(params DriverParams) (*Driver, error) {
	if params.SessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("resolver required")
	}
	if params.Starter == nil {
		return nil, fmt.Errorf("session starter required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("recorder required")
	}
	slide := params.SlideInterval
	if slide <= 0 {
		slide = DefaultSlideInterval
	}
	return &Driver{
		sessionID: params.SessionID,
		slide:     slide,
		resolver:  params.Resolver,
		starter:   params.Starter,
		recorder:  params.Recorder,
		ender:     params.Ender,
		logg:      params.Logger,
		state:     StateIdle,
		mediaEnd:  make(chan struct{}, 1),
	}, nil
}

// Load resolves the share code into a playlist. A failed lookup or an empty
// group leaves the driver idle with the error surfaced.
func (d *Driver) Load(ctx context.Context, shareCode string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cannot load while %s", d.state))
	}

	items, err := d.resolver.Resolve(ctx, shareCode)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve share code")
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "group has no media to play")
	}

	d.shareCode = shareCode
	d.items = items
	d.index = 0
	d.state = StateLoaded
	return nil
}

// Start opens the analytics session and reports the first item's exposure.
// A failed session start aborts playback; no pings are sent.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateLoaded {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cannot start while %s", d.state))
	}

	if err := d.starter.StartSession(ctx, d.shareCode, d.sessionID); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session")
	}

	d.started = true
	d.state = StatePlaying
	d.ping(ctx)
	return nil
}

// Advance moves to the next item, wrapping at the end, and reports the new
// item's exposure. Image timers and video end events both land here.
func (d *Driver) Advance(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StatePlaying {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cannot advance while %s", d.state))
	}
	d.index = (d.index + 1) % len(d.items)
	d.ping(ctx)
	return nil
}

// MediaEnded signals that the current video finished. Safe to call from the
// playback surface at any time; extra signals coalesce.
func (d *Driver) MediaEnded() {
	select {
	case d.mediaEnd <- struct{}{}:
	default:
	}
}

// Run drives the slideshow until the context is canceled: images advance on
// the slide timer, videos wait for MediaEnded. Call after Start.
func (d *Driver) Run(ctx context.Context) error {
	if d.State() != StatePlaying {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot run before playback starts")
	}

	for {
		item, ok := d.Current()
		if !ok {
			return nil
		}

		if item.Kind == KindVideo {
			select {
			case <-ctx.Done():
				d.Stop()
				return ctx.Err()
			case <-d.mediaEnd:
			}
		} else {
			timer := time.NewTimer(d.slide)
			select {
			case <-ctx.Done():
				timer.Stop()
				d.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := d.Advance(ctx); err != nil {
			// Stopped from outside between the wait and the advance.
			return nil
		}
	}
}

// Stop tears playback down and, if a session was opened, emits the end
// signal through the notifier exactly once. Safe to call repeatedly.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateStopped {
		return
	}
	if d.started && d.ender != nil {
		d.ender.NotifyEnd(d.sessionID)
	}
	d.state = StateStopped
}

// Current returns the item on screen.
func (d *Driver) Current() (Item, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StatePlaying && d.state != StateLoaded {
		return Item{}, false
	}
	if len(d.items) == 0 {
		return Item{}, false
	}
	return d.items[d.index], true
}

// State reports the driver's lifecycle position.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// ping reports the current item's exposure. Failures are logged and
// dropped; the stale-session sweep repairs any resulting gaps.
func (d *Driver) ping(ctx context.Context) {
	item := d.items[d.index]
	p := Ping{
		MediaID:           item.MediaID,
		VisibleDurationMs: d.slide.Milliseconds(),
	}
	if err := d.recorder.Record(ctx, d.sessionID, []Ping{p}); err != nil && d.logg != nil {
		logCtx := d.logg.WithFields(ctx, map[string]any{
			"media_id": item.MediaID.String(),
			"error":    err.Error(),
		})
		d.logg.Warn(logCtx, "playback.ping.dropped")
	}
}
