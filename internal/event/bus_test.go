package event

import (
	"errors"
	"sync"
	"testing"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe(TypeTaskAdded, func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if bus.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", bus.SubscriptionCount())
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe(TypeQueueCleared, func(e Event) {
		received = e
	})
	bus.Subscribe(TypeTaskAdded, func(e Event) {
		t.Error("handler for another type should not be called")
	})

	bus.Publish(NewQueueClearedEvent(3))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	cleared, ok := received.(QueueClearedEvent)
	if !ok {
		t.Fatalf("received %T, want QueueClearedEvent", received)
	}
	if cleared.Removed != 3 {
		t.Errorf("Removed = %d, want 3", cleared.Removed)
	}
	if cleared.Timestamp().IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestBus_Order(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "all") })
	bus.Subscribe(TypeTaskRemoved, func(e Event) { order = append(order, "first") })
	bus.Subscribe(TypeTaskRemoved, func(e Event) { order = append(order, "second") })

	bus.Publish(NewTaskRemovedEvent("t1", 0, 0))

	want := []string{"first", "second", "all"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe(TypeBulkLoaded, func(e Event) { count++ })
	bus.Subscribe(TypeBulkLoaded, func(e Event) { count++ })

	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe should find the subscription")
	}
	if bus.Unsubscribe(id) {
		t.Error("second Unsubscribe should report false")
	}

	bus.Publish(NewBulkLoadedEvent(2, 1, 1))
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBus_PanicRecovery(t *testing.T) {
	bus := NewBus()

	var recovered any
	bus.OnPanic(func(e Event, r any) { recovered = r })

	reached := false
	bus.Subscribe(TypeAnalysisFailed, func(e Event) { panic("boom") })
	bus.Subscribe(TypeAnalysisFailed, func(e Event) { reached = true })

	bus.Publish(NewAnalysisFailedEvent("run-1", errors.New("down")))

	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
	if !reached {
		t.Error("a panicking handler should not stop later handlers")
	}
}

func TestBus_Concurrent(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe(TypeAnalysisStarted, func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(NewAnalysisStartedEvent("run", "smart_balance", 1))
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
}
