package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a round event.
type EventType string

const (
	EventGameStarted      EventType = "GAME_STARTED"
	EventCardDealt        EventType = "CARD_DEALT"
	EventSupplyExhausted  EventType = "SUPPLY_EXHAUSTED"
	EventCardPlayed       EventType = "CARD_PLAYED"
	EventAlliedCardPlayed EventType = "ALLIED_CARD_PLAYED"
	EventFertilized       EventType = "FERTILIZED"
	EventGiantTrade       EventType = "GIANT_TRADE"
	EventStolen           EventType = "STOLEN"
	EventProtectionUsed   EventType = "PROTECTION_USED"
	EventProtectionGained EventType = "PROTECTION_GAINED"
	EventRaided           EventType = "RAIDED"
	EventTurnEnded        EventType = "TURN_ENDED"
	EventSeasonChanged    EventType = "SEASON_CHANGED"
	EventGameFinished     EventType = "GAME_FINISHED"
)

// NoParticipant marks an event field that does not refer to a participant.
const NoParticipant = -1

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	RoundID     string
	Participant int    // acting participant index
	Target      int    // affected participant index, NoParticipant if none
	Card        string // card type involved, if any
	Action      string
	Amount      int // units actually moved, gained or absorbed
	Season      Season
	Timestamp   time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty for all events
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Listeners are called in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if eventType == "" {
		return -1
	}
	return bus.add(eventType, listener)
}

func (bus *EventBus) add(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i := range bus.subs {
		if bus.subs[i].handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.mu.RUnlock()

	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.callback(event)
		}
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, roundID string, participant int, season Season) Event {
	return Event{
		Type:        eventType,
		RoundID:     roundID,
		Participant: participant,
		Target:      NoParticipant,
		Season:      season,
		Timestamp:   time.Now(),
	}
}

// NewEventWithAmount creates a new event with a target and an amount.
func NewEventWithAmount(eventType EventType, roundID string, participant, target int, season Season, amount int) Event {
	evt := NewEvent(eventType, roundID, participant, season)
	evt.Target = target
	evt.Amount = amount
	return evt
}
