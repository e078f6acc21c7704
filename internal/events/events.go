package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"innkeep/internal/logger"
	"innkeep/internal/models"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	// RoomStatusChannel carries room status transitions persisted by the
	// reconciliation engine and manual operations.
	RoomStatusChannel Channel = "room.status"
)

type EventType string

const (
	RoomStatusChanged EventType = "room_status_changed"
)

type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Channel   Channel        `json:"channel"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out over valkey pub/sub so every process sees
// transitions, plus directly to in-process handlers.
type EventBus struct {
	client   valkey.Client
	log      logger.Logger
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		log:      logger.New("EventBus"),
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.log.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Channel == "" {
		event.Channel = channel
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx,
		eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build(),
	).Error()
	if err != nil {
		return log.Err("failed to publish event to valkey", err,
			"channel", channel, "eventID", event.ID)
	}

	// Local handlers hear the event through the subscription echo, so no
	// direct notify here; publishing twice would double-deliver.
	return nil
}

// PublishRoomStatusChanged implements the engine's publisher port.
// Best-effort: a publish failure is logged and swallowed, it must never fail
// a reconciliation.
func (eb *EventBus) PublishRoomStatusChanged(
	ctx context.Context,
	roomID uuid.UUID,
	from, to models.RoomStatus,
) {
	err := eb.Publish(RoomStatusChannel, Event{
		Type: RoomStatusChanged,
		Data: map[string]any{
			"roomId": roomID.String(),
			"from":   string(from),
			"to":     string(to),
		},
	})
	if err != nil {
		eb.log.Function("PublishRoomStatusChanged").
			Er("failed to publish room status change", err, "roomID", roomID)
	}
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.log.Function("Subscribe")

	eb.mutex.Lock()
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	first := len(eb.handlers[channel]) == 1
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if first {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.log.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := eb.handlers[channel]
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er("handler failed", err,
					"channel", channel, "eventID", event.ID, "handlerIndex", handlerIndex)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.log.Function("listenToChannel")

	ctx, cancel := context.WithCancel(eb.ctx)
	defer cancel()

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.log.Info("EventBus closed")
	return nil
}
