package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(topics ...string) *Client {
	return &Client{
		ID:     "client-" + topics[0],
		Topics: topics,
		Send:   make(chan []byte, 8),
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	c := newTestClient(TopicAll)
	hub.Register(c)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
	if got := hub.TopicCount(TopicAll); got != 1 {
		t.Fatalf("expected 1 subscriber on %q, got %d", TopicAll, got)
	}

	hub.Unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients after unregister, got %d", got)
	}
	if _, ok := <-c.Send; ok {
		t.Fatal("expected send channel to be closed")
	}

	// second unregister is a no-op, not a double close
	hub.Unregister(c)
}

func TestHubBroadcastToTopic(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	global := newTestClient(TopicAll)
	patient := newTestClient(PatientTopic("p1"))
	other := newTestClient(PatientTopic("p2"))
	hub.Register(global)
	hub.Register(patient)
	hub.Register(other)

	event := Event{
		Type:      "alert.raised",
		Topic:     PatientTopic("p1"),
		PatientID: "p1",
		Timestamp: time.Now().UTC(),
	}
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for name, c := range map[string]*Client{"global": global, "patient": patient} {
		select {
		case raw := <-c.Send:
			var got Event
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("%s: unmarshal: %v", name, err)
			}
			if got.PatientID != "p1" {
				t.Errorf("%s: patient id = %q, want p1", name, got.PatientID)
			}
		default:
			t.Fatalf("%s subscriber received nothing", name)
		}
	}

	select {
	case <-other.Send:
		t.Fatal("subscriber on another patient topic should not receive the event")
	default:
	}
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	slow := &Client{ID: "slow", Topics: []string{TopicAll}, Send: make(chan []byte)}
	fast := newTestClient(TopicAll)
	hub.Register(slow)
	hub.Register(fast)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(TopicAll, Event{Type: "alert.raised", Topic: TopicAll})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	select {
	case <-fast.Send:
	default:
		t.Fatal("fast client should still receive the event")
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	c := newTestClient(TopicAll)
	hub.Register(c)

	hub.ProcessMessage(c, ClientMessage{Action: "subscribe", Topics: []string{PatientTopic("p9")}})
	if got := hub.TopicCount(PatientTopic("p9")); got != 1 {
		t.Fatalf("expected subscription to p9, got %d", got)
	}

	hub.ProcessMessage(c, ClientMessage{Action: "unsubscribe", Topics: []string{PatientTopic("p9")}})
	if got := hub.TopicCount(PatientTopic("p9")); got != 0 {
		t.Fatalf("expected no subscribers on p9, got %d", got)
	}
	if got := hub.TopicCount(TopicAll); got != 1 {
		t.Fatalf("unsubscribe removed the wrong topic, %q has %d", TopicAll, got)
	}
}
