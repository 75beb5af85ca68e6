package bus

import "testing"

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()

	var got []Event
	b.Subscribe(TopicCatalogUpdated, func(e Event) { got = append(got, e) })

	b.Publish(Event{Topic: TopicCatalogUpdated})
	b.Publish(Event{Topic: TopicCatalogUpdated})

	if len(got) != 2 {
		t.Errorf("delivered %d events, want 2", len(got))
	}
}

func TestPublishScopedToTopic(t *testing.T) {
	b := New()

	catalog := 0
	payments := 0
	b.Subscribe(TopicCatalogUpdated, func(Event) { catalog++ })
	b.Subscribe(TopicPaymentsUpdated, func(Event) { payments++ })

	b.Publish(Event{Topic: TopicCatalogUpdated})

	if catalog != 1 || payments != 0 {
		t.Errorf("catalog=%d payments=%d, want 1/0", catalog, payments)
	}
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	b := New()
	b.Publish(Event{Topic: TopicOrderSubmitted, OrderID: "42"})

	fired := false
	b.Subscribe(TopicOrderSubmitted, func(Event) { fired = true })

	if fired {
		t.Error("late subscriber saw an event published before registration")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()

	count := 0
	unsubscribe := b.Subscribe(TopicOrdersUpdated, func(Event) { count++ })

	b.Publish(Event{Topic: TopicOrdersUpdated})
	unsubscribe()
	unsubscribe() // second call is a no-op
	b.Publish(Event{Topic: TopicOrdersUpdated})

	if count != 1 {
		t.Errorf("delivered %d events after unsubscribe, want 1", count)
	}
}

func TestHandlerMaySubscribeDuringPublish(t *testing.T) {
	b := New()

	b.Subscribe(TopicCatalogUpdated, func(Event) {
		b.Subscribe(TopicCatalogUpdated, func(Event) {})
	})

	// Must not deadlock.
	b.Publish(Event{Topic: TopicCatalogUpdated})
}

func TestOrderSubmittedCarriesOrderID(t *testing.T) {
	b := New()

	var got string
	b.Subscribe(TopicOrderSubmitted, func(e Event) { got = e.OrderID })

	b.Publish(Event{Topic: TopicOrderSubmitted, OrderID: "ORDER-7"})

	if got != "ORDER-7" {
		t.Errorf("OrderID = %q, want ORDER-7", got)
	}
}
