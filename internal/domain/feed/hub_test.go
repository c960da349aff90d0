package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- client

	hub.Publish("booking.created", map[string]string{"bookingCode": "BK1TEST0001"})

	select {
	case raw := <-client.send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		if ev.Event != "booking.created" {
			t.Errorf("Event = %q, want booking.created", ev.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// zero-buffer channel with no reader simulates a stuck consumer
	slow := &Client{hub: hub, send: make(chan []byte)}
	healthy := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- slow
	hub.register <- healthy

	hub.Publish("booking.created", nil)
	hub.Publish("booking.status_changed", nil)

	got := 0
	timeout := time.After(2 * time.Second)
	for got < 2 {
		select {
		case <-healthy.send:
			got++
		case <-timeout:
			t.Fatalf("healthy client received %d events, want 2", got)
		}
	}

	// the slow client's channel was closed when it was dropped
	select {
	case _, ok := <-slow.send:
		if ok {
			t.Error("slow client still receiving")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("slow client channel not closed")
	}
}
