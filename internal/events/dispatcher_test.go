package events

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []Event

	d.Subscribe(EventUserRegistered, func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	})
	d.Subscribe(EventRoleGranted, func(_ context.Context, ev Event) error {
		t.Fatalf("wrong event type delivered: %s", ev.Type)
		return nil
	})

	ev := Event{ID: "ev-1", Type: EventUserRegistered, UserID: "u-1"}
	if err := d.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ev-1" {
		t.Fatalf("delivered %v", got)
	}
}

func TestInMemoryDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := 0

	d.Subscribe(EventEnrollmentCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventEnrollmentCreated, func(context.Context, Event) error {
		delivered++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventEnrollmentCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if delivered != 1 {
		t.Fatal("second handler not invoked after first failed")
	}
}

func TestInMemoryDispatcher_NoSubscribersIsANoOp(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventEnrollmentDeleted}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
