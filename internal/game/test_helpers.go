package game

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/shoe"
)

// TestTableOption configures test table creation
type TestTableOption func(*testTableBuilder)

type testTableBuilder struct {
	cards   string
	dealer  Policy
	players []*Actor
	opts    []TableOption
}

// WithStackedCards deals the given cards in order, players first on each pass.
func WithStackedCards(cards string) TestTableOption {
	return func(b *testTableBuilder) { b.cards = cards }
}

// WithDealerPolicy replaces the default hit-below-17 dealer.
func WithDealerPolicy(p Policy) TestTableOption {
	return func(b *testTableBuilder) { b.dealer = p }
}

// WithSeats seats the given players.
func WithSeats(players ...*Actor) TestTableOption {
	return func(b *testTableBuilder) { b.players = players }
}

// WithTableOptions passes options through to NewTable.
func WithTableOptions(opts ...TableOption) TestTableOption {
	return func(b *testTableBuilder) { b.opts = append(b.opts, opts...) }
}

// NewTestTable creates a table over a stacked shoe with a quiet logger. The
// default seat is one player with a 100 balance who stands and bets 10.
func NewTestTable(opts ...TestTableOption) *Table {
	b := &testTableBuilder{
		dealer: HitBelow(17),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.players == nil {
		b.players = []*Actor{NewActor("Player", 100, &ScriptedPolicy{}, FixedWager(10))}
	}
	s := shoe.NewStacked(deck.MustParseCards(b.cards))
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewTable(s, NewDealer(b.dealer), b.players, logger, b.opts...)
}

// ScriptedPolicy replays Actions in order and stands once they run out.
// Rejected decisions are recorded.
type ScriptedPolicy struct {
	Actions  []Action
	Rejected []error
	next     int
}

// Decide returns the next scripted action.
func (p *ScriptedPolicy) Decide(_ context.Context, _ TurnState) (Decision, error) {
	if p.next >= len(p.Actions) {
		return Decision{Action: Stand, Reasoning: "script finished"}, nil
	}
	a := p.Actions[p.next]
	p.next++
	return Decision{Action: a, Reasoning: "scripted"}, nil
}

// Reject records err.
func (p *ScriptedPolicy) Reject(_ Decision, err error) {
	p.Rejected = append(p.Rejected, err)
}

// HitBelow hits while the best total is above zero and under n.
func HitBelow(n int) Policy {
	return PolicyFunc(func(_ context.Context, s TurnState) (Decision, error) {
		if v := s.Hand.Best(); v > 0 && v < n {
			return Decision{Action: Hit}, nil
		}
		return Decision{Action: Stand}, nil
	})
}

// FixedWager always bets unit.
func FixedWager(unit float64) Wagerer {
	return WagerFunc(func(context.Context, WagerState) (float64, error) {
		return unit, nil
	})
}
