package game

import (
	"context"
	"iter"

	"github.com/lox/blackjack/internal/deck"
)

// Decision represents an actor's decision with reasoning
type Decision struct {
	Action    Action
	Reasoning string // Human-readable explanation
}

// TurnState is the read-only view an actor decides from
type TurnState struct {
	Name      string
	Role      Role
	Hand      deck.Hand // active hand, copied
	SplitHand deck.Hand // waiting hand while in StatusSplit1
	Status    Status
	DealerUp  deck.Card
	Wager     float64
	Balance   float64
	CanDouble bool
	CanSplit  bool
	Showing   []deck.Card // face up cards dealt this round
}

// Policy represents anything (human or bot) that decides the next action for
// an actor. Policies receive a copy of the state and must not mutate the table.
type Policy interface {
	Decide(ctx context.Context, state TurnState) (Decision, error)
}

// PolicyFunc adapts an ordinary function to a Policy.
type PolicyFunc func(ctx context.Context, state TurnState) (Decision, error)

// Decide calls f(ctx, state).
func (f PolicyFunc) Decide(ctx context.Context, state TurnState) (Decision, error) {
	return f(ctx, state)
}

// Rejecter is implemented by policies that want to be told when a decision
// was illegal. The round asks them again instead of aborting.
type Rejecter interface {
	Reject(decision Decision, err error)
}

// ShoeView is the read-only part of the shoe visible to wager policies.
type ShoeView interface {
	Len() int
	Cards() iter.Seq[deck.Card]
}

// WagerState is the view a wager policy sizes the next bet from
type WagerState struct {
	Name    string
	Balance float64
	Shoe    ShoeView
}

// Wagerer sizes a player's wager before the deal.
type Wagerer interface {
	PlaceWager(ctx context.Context, state WagerState) (float64, error)
}

// WagerFunc adapts an ordinary function to a Wagerer.
type WagerFunc func(ctx context.Context, state WagerState) (float64, error)

// PlaceWager calls f(ctx, state).
func (f WagerFunc) PlaceWager(ctx context.Context, state WagerState) (float64, error) {
	return f(ctx, state)
}
