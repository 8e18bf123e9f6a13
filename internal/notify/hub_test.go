package notify

import "testing"

func TestHubDeliversToGroupSubscribers(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe("g1")
	defer cancel()
	other, cancelOther := hub.Subscribe("g2")
	defer cancelOther()

	hub.Emit(EventSettlementCreated, "g1", map[string]string{"id": "s1"})

	select {
	case ev := <-ch:
		if ev.Name != EventSettlementCreated || ev.GroupID != "g1" {
			t.Errorf("got %+v", ev)
		}
	default:
		t.Fatal("expected event on g1 channel")
	}

	select {
	case ev := <-other:
		t.Errorf("g2 subscriber received %+v", ev)
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g1")

	cancel()
	cancel() // second cancel is a no-op

	if _, open := <-ch; open {
		t.Error("expected channel to be closed after cancel")
	}

	// Emitting after cancel must not panic or deliver.
	hub.Emit(EventExpenseCreated, "g1", nil)
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("g1")
	defer cancel()

	for i := 0; i < 100; i++ {
		hub.Emit(EventExpenseCreated, "g1", i)
	}

	// Buffer holds 16; the rest were dropped without blocking Emit.
	if len(ch) != 16 {
		t.Errorf("buffered %d events, want 16", len(ch))
	}
}
