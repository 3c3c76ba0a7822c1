package api

import (
	"testing"
	"time"
)

func TestBroadcasterDeliversMatchingEvents(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess1", []EventType{EventTypeSession})
	defer b.Unsubscribe(sub)

	b.Broadcast(BroadcastEvent{Type: EventTypeSession, SessionID: "sess1", Data: "hello"})

	select {
	case evt := <-sub.Channel:
		if evt.SessionID != "sess1" || evt.Data != "hello" {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcasterFiltersBySession(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess1", nil)
	defer b.Unsubscribe(sub)

	b.Broadcast(BroadcastEvent{Type: EventTypeSession, SessionID: "other", Data: "nope"})

	select {
	case evt := <-sub.Channel:
		t.Fatalf("did not expect an event for a different session, got %+v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcasterSubscriptionCount(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	if b.SubscriptionCount() != 0 {
		t.Fatalf("expected 0 subscriptions initially, got %d", b.SubscriptionCount())
	}

	sub := b.Subscribe("", nil)
	if b.SubscriptionCount() != 1 {
		t.Errorf("expected 1 subscription, got %d", b.SubscriptionCount())
	}

	b.Unsubscribe(sub)
	time.Sleep(50 * time.Millisecond)
	if b.SubscriptionCount() != 0 {
		t.Errorf("expected 0 subscriptions after unsubscribe, got %d", b.SubscriptionCount())
	}
}

func TestBroadcastSessionWrapsEvent(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess1", []EventType{EventTypeSession})
	defer b.Unsubscribe(sub)

	status := SessionStatusResponse{SessionID: "sess1", Version: "4.2", State: "valid"}
	b.BroadcastSession("sess1", status)

	select {
	case evt := <-sub.Channel:
		got, ok := evt.Data.(SessionStatusResponse)
		if !ok || got.Version != "4.2" {
			t.Errorf("unexpected event data: %+v", evt.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for session broadcast")
	}
}
