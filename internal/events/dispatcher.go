// Package events delivers domain notifications to in-process observers and,
// when Redis is configured, to interested processes. Delivery is best-effort
// and at-least-once; a failed delivery is logged and never propagated back
// into the workflow that raised the event.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis channels
const (
	ChannelTitleChanged = "events:title-changed"
)

// TitleChanged is raised after a rename cascade completes so downstream
// caches and search indexes can refresh.
type TitleChanged struct {
	ID            string    `json:"id"`
	Domain        string    `json:"domain,omitempty"`
	ArticleNumber int       `json:"articleNumber"`
	OldTitle      string    `json:"oldTitle"`
	NewTitle      string    `json:"newTitle"`
	OldPath       string    `json:"oldPath"`
	NewPath       string    `json:"newPath"`
	Occurred      time.Time `json:"occurred"`
}

// Dispatcher is the outbound notification contract
type Dispatcher interface {
	TitleChanged(ctx context.Context, ev TitleChanged)
}

// Hub fans events out to subscribed observers and publishes them on Redis
// when a client is present. A nil client disables publication.
type Hub struct {
	rdb *redis.Client
	log zerolog.Logger

	mu        sync.RWMutex
	observers []func(TitleChanged)
}

// NewHub creates a new Hub; rdb may be nil
func NewHub(rdb *redis.Client, log zerolog.Logger) *Hub {
	return &Hub{
		rdb: rdb,
		log: log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers an in-process observer. Observers run synchronously on
// the dispatching goroutine and must not block.
func (h *Hub) Subscribe(fn func(TitleChanged)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, fn)
}

// TitleChanged delivers the event to every observer and publishes it
func (h *Hub) TitleChanged(ctx context.Context, ev TitleChanged) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Occurred.IsZero() {
		ev.Occurred = time.Now().UTC()
	}

	h.mu.RLock()
	observers := make([]func(TitleChanged), len(h.observers))
	copy(observers, h.observers)
	h.mu.RUnlock()

	for _, fn := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					h.log.Error().
						Interface("panic", r).
						Str("event_id", ev.ID).
						Msg("Title-changed observer panicked - recovered")
				}
			}()
			fn(ev)
		}()
	}

	if h.rdb == nil {
		return
	}

	message, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", ev.ID).Msg("Failed to marshal title-changed event")
		return
	}
	if err := h.rdb.Publish(ctx, ChannelTitleChanged, message).Err(); err != nil {
		h.log.Error().Err(err).Str("event_id", ev.ID).Msg("Failed to publish title-changed event")
		return
	}

	h.log.Debug().
		Str("event_id", ev.ID).
		Int("article_number", ev.ArticleNumber).
		Str("old_path", ev.OldPath).
		Str("new_path", ev.NewPath).
		Msg("Title-changed event dispatched")
}

// Noop discards every event
type Noop struct{}

func (Noop) TitleChanged(context.Context, TitleChanged) {}
