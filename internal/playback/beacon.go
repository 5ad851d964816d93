package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/galeria-midia/backend/pkg/logger"
)

const beaconTimeout = 3 * time.Second

// Beacon is a fire-and-forget POST used for end-of-session reporting, where
// the page may be unloading and nobody is left to read a response.
type Beacon struct {
	client *http.Client
	logg   *logger.Logger
}

// NewBeacon builds a beacon with a short-timeout HTTP client.
func NewBeacon(logg *logger.Logger) *Beacon {
	return &Beacon{
		client: &http.Client{Timeout: beaconTimeout},
		logg:   logg,
	}
}

// Send posts the payload and discards the outcome. Failures are logged and
// swallowed; a lost end signal is repaired later by the stale-session sweep.
func (b *Beacon) Send(ctx context.Context, url string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.warn(ctx, url, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		b.warn(ctx, url, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.warn(ctx, url, err)
		return
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		b.warn(ctx, url, fmt.Errorf("beacon returned %s", resp.Status))
	}
}

// SessionEndBeacon posts the end-session payload to the analytics ingest
// endpoint through a Beacon, satisfying the driver's EndNotifier.
type SessionEndBeacon struct {
	beacon *Beacon
	url    string
}

// NewSessionEndBeacon targets the given end-session URL.
func NewSessionEndBeacon(logg *logger.Logger, url string) *SessionEndBeacon {
	return &SessionEndBeacon{beacon: NewBeacon(logg), url: url}
}

// NotifyEnd fires from a detached goroutine with its own deadline; the
// caller may be tearing down and never waits for the outcome.
func (s *SessionEndBeacon) NotifyEnd(sessionID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
		defer cancel()
		s.beacon.Send(ctx, s.url, map[string]string{"session_id": sessionID})
	}()
}

func (b *Beacon) warn(ctx context.Context, url string, err error) {
	if b.logg == nil {
		return
	}
	logCtx := b.logg.WithFields(ctx, map[string]any{"url": url, "error": err.Error()})
	b.logg.Warn(logCtx, "playback.beacon.send_failed")
}
