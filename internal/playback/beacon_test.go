package playback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBeaconPostsPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	beacon := NewBeacon(nil)
	beacon.Send(context.Background(), srv.URL, map[string]string{"session_id": "sess-1"})

	if got["session_id"] != "sess-1" {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestSessionEndBeaconPostsSessionID(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		got <- payload["session_id"]
	}))
	defer srv.Close()

	notifier := NewSessionEndBeacon(nil, srv.URL)
	notifier.NotifyEnd("sess-9")

	select {
	case id := <-got:
		if id != "sess-9" {
			t.Fatalf("unexpected session id %q", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("beacon never reached the server")
	}
}

func TestBeaconSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	beacon := NewBeacon(nil)
	// must not panic or return anything
	beacon.Send(context.Background(), srv.URL, map[string]string{"session_id": "sess-1"})
}

func TestBeaconSwallowsConnectionFailure(t *testing.T) {
	beacon := NewBeacon(nil)
	beacon.Send(context.Background(), "http://127.0.0.1:1/unreachable", map[string]string{"session_id": "sess-1"})
}
