package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/CWALabs/SkyCMS-sub002/internal/events"
)

func TestHub_DeliversToObservers(t *testing.T) {
	hub := events.NewHub(nil, zerolog.Nop())

	var first, second []events.TitleChanged
	hub.Subscribe(func(ev events.TitleChanged) { first = append(first, ev) })
	hub.Subscribe(func(ev events.TitleChanged) { second = append(second, ev) })

	hub.TitleChanged(context.Background(), events.TitleChanged{
		ArticleNumber: 7,
		OldPath:       "old",
		NewPath:       "new",
	})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Observer deliveries = %d, %d, want 1 each", len(first), len(second))
	}
	if first[0].ArticleNumber != 7 || first[0].NewPath != "new" {
		t.Errorf("Delivered event = %+v", first[0])
	}
}

func TestHub_FillsIDAndTimestamp(t *testing.T) {
	hub := events.NewHub(nil, zerolog.Nop())

	var got events.TitleChanged
	hub.Subscribe(func(ev events.TitleChanged) { got = ev })

	before := time.Now().UTC()
	hub.TitleChanged(context.Background(), events.TitleChanged{ArticleNumber: 1})

	if got.ID == "" {
		t.Error("Event ID should be generated")
	}
	if got.Occurred.Before(before) {
		t.Errorf("Occurred = %v, want at or after %v", got.Occurred, before)
	}
}

func TestHub_ObserverPanicDoesNotStopDelivery(t *testing.T) {
	hub := events.NewHub(nil, zerolog.Nop())

	delivered := false
	hub.Subscribe(func(events.TitleChanged) { panic("observer bug") })
	hub.Subscribe(func(events.TitleChanged) { delivered = true })

	hub.TitleChanged(context.Background(), events.TitleChanged{ArticleNumber: 1})

	if !delivered {
		t.Error("Later observers must still receive the event")
	}
}

func TestHub_NoObserversNoRedis(t *testing.T) {
	hub := events.NewHub(nil, zerolog.Nop())
	// must not panic or block
	hub.TitleChanged(context.Background(), events.TitleChanged{ArticleNumber: 1})
}

func TestNoop(t *testing.T) {
	var d events.Dispatcher = events.Noop{}
	d.TitleChanged(context.Background(), events.TitleChanged{ArticleNumber: 1})
}
