package game

import (
	"fmt"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// Actor is a seat at the table: a player, or the dealer when Role is
// RoleDealer. The active hand is always Hand; standing on the first half of a
// split swaps the two hands so the second becomes active.
type Actor struct {
	Name       string
	Role       Role
	Hand       deck.Hand
	SplitHand  deck.Hand
	Wager      float64
	SplitWager float64
	Balance    float64
	Status     Status

	Policy  Policy
	Wagerer Wagerer

	split        bool
	doubled      bool
	splitDoubled bool
}

// NewActor seats a player with a starting balance.
func NewActor(name string, balance float64, policy Policy, wagerer Wagerer) *Actor {
	return &Actor{
		Name:    name,
		Role:    RolePlayer,
		Balance: balance,
		Policy:  policy,
		Wagerer: wagerer,
	}
}

// NewDealer creates the house actor.
func NewDealer(policy Policy) *Actor {
	return &Actor{
		Name:   "Dealer",
		Role:   RoleDealer,
		Policy: policy,
	}
}

// HidesHoleCard reports whether the actor's second card is dealt face down.
func (a *Actor) HidesHoleCard() bool {
	return a.Role == RoleDealer
}

// HasSplit reports whether the actor split this round.
func (a *Actor) HasSplit() bool {
	return a.split
}

// Doubled reports whether the active hand was doubled.
func (a *Actor) Doubled() bool {
	return a.doubled
}

// SplitDoubled reports whether the waiting or finished split hand was doubled.
func (a *Actor) SplitDoubled() bool {
	return a.splitDoubled
}

// CanDouble reports whether Double is legal right now.
func (a *Actor) CanDouble() bool {
	return a.Role != RoleDealer && !a.Status.Done() && len(a.Hand) == 2
}

// CanSplit reports whether Split is legal right now.
func (a *Actor) CanSplit() bool {
	return a.Role != RoleDealer && a.Status == StatusPlay && !a.split && a.Hand.IsPair()
}

// Hit draws one card into the active hand.
func (a *Actor) Hit(t *Table) error {
	if a.Status.Done() {
		return fmt.Errorf("%w: %s has already stood", ErrIllegalAction, a.Name)
	}
	card, err := t.shoe.Draw()
	if err != nil {
		return err
	}
	a.Hand = append(a.Hand, card)
	if !(a.HidesHoleCard() && len(a.Hand) == 2) {
		t.show(card)
	}
	return nil
}

// Stand ends the active hand. On the first half of a split the hands and
// wagers are swapped and the second hand becomes active.
func (a *Actor) Stand() {
	switch a.Status {
	case StatusSplit1:
		a.swapHands()
		a.Status = StatusSplit2
	default:
		a.Status = StatusStand
	}
}

// Double doubles the active wager, takes exactly one card and stands.
func (a *Actor) Double(t *Table) error {
	if a.Status.Done() {
		return fmt.Errorf("%w: %s has already stood", ErrIllegalAction, a.Name)
	}
	if !a.CanDouble() {
		return fmt.Errorf("%w: %s holds %d cards", ErrIllegalDouble, a.Name, len(a.Hand))
	}
	if err := a.Hit(t); err != nil {
		return err
	}
	a.Wager *= 2
	a.doubled = true
	a.Stand()
	return nil
}

// Split moves the second card of a pair into SplitHand and mirrors the wager.
func (a *Actor) Split() error {
	if !a.CanSplit() {
		return fmt.Errorf("%w: %s cannot split %s", ErrIllegalSplit, a.Name, a.Hand)
	}
	a.SplitHand = append(a.SplitHand[:0], a.Hand[1])
	a.Hand = a.Hand[:1]
	a.SplitWager = a.Wager
	a.split = true
	a.Status = StatusSplit1
	return nil
}

// swapHands exchanges the active and split hands with their wagers.
func (a *Actor) swapHands() {
	a.Hand, a.SplitHand = a.SplitHand, a.Hand
	a.Wager, a.SplitWager = a.SplitWager, a.Wager
	a.doubled, a.splitDoubled = a.splitDoubled, a.doubled
}

// Win credits wager × mult.
func (a *Actor) Win(mult float64) {
	a.Balance += a.Wager * mult
}

// Lose debits wager × mult.
func (a *Actor) Lose(mult float64) {
	a.Balance -= a.Wager * mult
}

// Apply performs a decided action.
func (a *Actor) Apply(t *Table, action Action) error {
	switch action {
	case Stand:
		if a.Status.Done() {
			return nil
		}
		a.Stand()
		return nil
	case Hit:
		return a.Hit(t)
	case Double:
		return a.Double(t)
	case Split:
		return a.Split()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidCommand, action)
	}
}

// clear returns every card to the used pile and resets the round state.
func (a *Actor) clear(t *Table) {
	t.shoe.Discard(a.Hand...)
	t.shoe.Discard(a.SplitHand...)
	a.Hand = a.Hand[:0]
	a.SplitHand = a.SplitHand[:0]
	a.Wager = 0
	a.SplitWager = 0
	a.Status = StatusPlay
	a.split = false
	a.doubled = false
	a.splitDoubled = false
}

func (a *Actor) cardsHeld() int {
	return len(a.Hand) + len(a.SplitHand)
}

func (a *Actor) turnState(dealerUp deck.Card, showing []deck.Card) TurnState {
	return TurnState{
		Name:      a.Name,
		Role:      a.Role,
		Hand:      slices.Clone(a.Hand),
		SplitHand: slices.Clone(a.SplitHand),
		Status:    a.Status,
		DealerUp:  dealerUp,
		Wager:     a.Wager,
		Balance:   a.Balance,
		CanDouble: a.CanDouble(),
		CanSplit:  a.CanSplit(),
		Showing:   showing,
	}
}
