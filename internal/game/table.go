package game

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/shoe"
)

// DefaultMaxSteps bounds the decisions one actor may take in a round.
const DefaultMaxSteps = 64

// TableOption configures a Table
type TableOption func(*Table)

// WithEventBus publishes round events to bus.
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) { t.bus = bus }
}

// WithMaxSteps overrides the per-actor decision limit.
func WithMaxSteps(n int) TableOption {
	return func(t *Table) {
		if n > 0 {
			t.maxSteps = n
		}
	}
}

// Table is one blackjack table: a shoe, a dealer and players in seat order.
type Table struct {
	shoe     *shoe.Shoe
	dealer   *Actor
	players  []*Actor
	showing  []deck.Card
	revealed bool
	round    int

	bus      EventBus
	logger   *log.Logger
	maxSteps int
}

// NewTable seats the dealer and players at a table dealing from s.
func NewTable(s *shoe.Shoe, dealer *Actor, players []*Actor, logger *log.Logger, opts ...TableOption) *Table {
	if logger == nil {
		logger = log.Default()
	}
	t := &Table{
		shoe:     s,
		dealer:   dealer,
		players:  players,
		bus:      nopEventBus{},
		logger:   logger,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Dealer returns the house actor.
func (t *Table) Dealer() *Actor { return t.dealer }

// Players returns the seated players in seat order.
func (t *Table) Players() []*Actor { return t.players }

// Shoe returns a read-only view of the shoe.
func (t *Table) Shoe() ShoeView { return t.shoe }

// Round returns the number of rounds started at this table.
func (t *Table) Round() int { return t.round }

// Showing returns the face up cards dealt since the table was last cleared.
func (t *Table) Showing() []deck.Card {
	return slices.Clone(t.showing)
}

// CardsInPlay counts the cards held by every actor.
func (t *Table) CardsInPlay() int {
	n := t.dealer.cardsHeld()
	for _, p := range t.players {
		n += p.cardsHeld()
	}
	return n
}

// CardCount is every card the table knows about: undealt, used and in play.
// It never changes over the life of the table.
func (t *Table) CardCount() int {
	return t.shoe.Len() + t.shoe.UsedLen() + t.CardsInPlay()
}

// PlayRound runs one deal-to-settlement cycle and clears the table. On error
// no wager is settled, but the cards still go back to the used pile.
func (t *Table) PlayRound(ctx context.Context) ([]HandResult, error) {
	t.round++
	r := &Round{
		table:  t,
		logger: t.logger.With("round", t.round),
	}
	return r.Play(ctx)
}

// Snapshot copies the current table state for presentation.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Round:    t.round,
		Dealer:   t.view(t.dealer),
		HoleDown: !t.revealed && len(t.dealer.Hand) >= 2,
		Players:  make([]ActorView, len(t.players)),
		Showing:  t.Showing(),
	}
	if s.HoleDown {
		s.Dealer.Hand = slices.Delete(s.Dealer.Hand, 1, 2)
		s.Dealer.Best = s.Dealer.Hand.Best()
	}
	for i, p := range t.players {
		s.Players[i] = t.view(p)
	}
	return s
}

func (t *Table) view(a *Actor) ActorView {
	return ActorView{
		Name:       a.Name,
		Role:       a.Role,
		Hand:       slices.Clone(a.Hand),
		SplitHand:  slices.Clone(a.SplitHand),
		Wager:      a.Wager,
		SplitWager: a.SplitWager,
		Balance:    a.Balance,
		Status:     a.Status,
		Best:       a.Hand.Best(),
	}
}

func (t *Table) show(card deck.Card) {
	t.showing = append(t.showing, card)
}

// reveal turns the dealer's hole card face up.
func (t *Table) reveal() {
	if t.revealed {
		return
	}
	t.revealed = true
	if len(t.dealer.Hand) >= 2 {
		t.show(t.dealer.Hand[1])
	}
}

func (t *Table) dealerUp() deck.Card {
	if len(t.dealer.Hand) == 0 {
		return deck.Card{}
	}
	return t.dealer.Hand[0]
}

func (t *Table) clear() {
	t.dealer.clear(t)
	for _, p := range t.players {
		p.clear(t)
	}
	t.showing = t.showing[:0]
	t.revealed = false
}
