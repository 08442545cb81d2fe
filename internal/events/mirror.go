package events

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/weiawesome/wes-io-live/collab-service/internal/registry"
	pkglog "github.com/weiawesome/wes-io-live/collab-service/pkg/log"
	"github.com/weiawesome/wes-io-live/collab-service/pkg/pubsub"
)

const (
	DefaultQueueSize = 1024
	publishTimeout   = 5 * time.Second
)

// Mirror forwards room lifecycle events to the event bus and keeps the
// room registry in step, off the hub's event loop. Delivery is best-effort.
type Mirror struct {
	publisher pubsub.Publisher
	registry  registry.Registry
	queue     chan *pubsub.Event
	dropped   atomic.Int64
}

func NewMirror(publisher pubsub.Publisher, reg registry.Registry, queueSize int) *Mirror {
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	if reg == nil {
		reg = registry.NopRegistry{}
	}
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	return &Mirror{
		publisher: publisher,
		registry:  reg,
		queue:     make(chan *pubsub.Event, queueSize),
	}
}

// Emit queues an event without blocking. Events are dropped when the
// queue is full.
func (m *Mirror) Emit(eventType, roomID string, payload interface{}) {
	event, err := pubsub.NewEvent(eventType, roomID, payload)
	if err != nil {
		l := pkglog.L()
		l.Error().Err(err).Str(pkglog.FieldEvent, eventType).Msg("failed to encode lifecycle event")
		return
	}

	select {
	case m.queue <- event:
	default:
		m.dropped.Add(1)
		l := pkglog.L()
		l.Warn().Str(pkglog.FieldEvent, eventType).Str(pkglog.FieldRoomID, roomID).Msg("event queue full, dropping event")
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (m *Mirror) Dropped() int64 {
	return m.dropped.Load()
}

// Run delivers queued events until ctx is cancelled.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-m.queue:
			m.deliver(ctx, event)
		}
	}
}

func (m *Mirror) deliver(ctx context.Context, event *pubsub.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	l := pkglog.L()

	switch event.Type {
	case pubsub.EventRoomCreated:
		if err := m.registry.Register(ctx, event.RoomID); err != nil {
			l.Error().Err(err).Str(pkglog.FieldRoomID, event.RoomID).Msg("failed to register room")
		}
	case pubsub.EventRoomClosed:
		if err := m.registry.Deregister(ctx, event.RoomID); err != nil {
			l.Error().Err(err).Str(pkglog.FieldRoomID, event.RoomID).Msg("failed to deregister room")
		}
	}

	if err := m.publisher.Publish(ctx, pubsub.RoomEventsChannel(event.RoomID), event); err != nil {
		l.Error().Err(err).
			Str(pkglog.FieldEvent, event.Type).
			Str(pkglog.FieldRoomID, event.RoomID).
			Msg("failed to publish lifecycle event")
	}
}
