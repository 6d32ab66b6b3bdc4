package game

import (
	"slices"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventRoundStart EventType = "round_start"
	EventDeal       EventType = "deal"
	EventAction     EventType = "action"
	EventDealerTurn EventType = "dealer_turn"
	EventSettle     EventType = "settle"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is the base interface for all game events
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// ActorView is the presentation view of one seat.
type ActorView struct {
	Name       string
	Role       Role
	Hand       deck.Hand
	SplitHand  deck.Hand
	Wager      float64
	SplitWager float64
	Balance    float64
	Status     Status
	Best       int
}

// Snapshot is a read-only copy of the table after a state transition. The
// dealer's hole card is left out until the dealer's turn.
type Snapshot struct {
	Round    int
	Dealer   ActorView
	HoleDown bool
	Players  []ActorView
	Showing  []deck.Card
	Results  []HandResult
}

// Player returns the view of the named player.
func (s Snapshot) Player(name string) (ActorView, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return ActorView{}, false
}

// RoundStartEvent is published once wagers are placed
type RoundStartEvent struct {
	Snapshot  Snapshot
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// DealEvent is published after the initial two cards are dealt
type DealEvent struct {
	Snapshot  Snapshot
	timestamp time.Time
}

func (e DealEvent) EventType() EventType { return EventDeal }
func (e DealEvent) Timestamp() time.Time { return e.timestamp }

// ActionEvent is published after any actor's decision is applied
type ActionEvent struct {
	Actor     string
	Action    Action
	Reasoning string
	Snapshot  Snapshot
	timestamp time.Time
}

func (e ActionEvent) EventType() EventType { return EventAction }
func (e ActionEvent) Timestamp() time.Time { return e.timestamp }

// DealerTurnEvent is published when the hole card is revealed
type DealerTurnEvent struct {
	Snapshot  Snapshot
	timestamp time.Time
}

func (e DealerTurnEvent) EventType() EventType { return EventDealerTurn }
func (e DealerTurnEvent) Timestamp() time.Time { return e.timestamp }

// SettleEvent is published after wagers are applied to balances
type SettleEvent struct {
	Results   []HandResult
	Snapshot  Snapshot
	timestamp time.Time
}

func (e SettleEvent) EventType() EventType { return EventSettle }
func (e SettleEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to an EventSubscriber.
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery is
// synchronous on the publishing goroutine.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers are not comparable and cannot be removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	bus.subscribers = slices.DeleteFunc(bus.subscribers, func(s EventSubscriber) bool {
		if _, ok := s.(SubscriberFunc); ok {
			return false
		}
		return s == subscriber
	})
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

type nopEventBus struct{}

func (nopEventBus) Subscribe(EventSubscriber)   {}
func (nopEventBus) Unsubscribe(EventSubscriber) {}
func (nopEventBus) Publish(GameEvent)           {}
