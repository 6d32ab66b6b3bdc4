// Package shoe implements the multi-deck card source used at a blackjack table.
//
// Cards are dealt from the top of the shoe (the end of the slice). Dealt cards
// are returned to a used pile when the table is cleared and only come back into
// play when the plastic cut card is drawn, at which point the used pile is
// merged back, the shoe is reshuffled, and a new cut card is placed about one
// sixth of the way up from the bottom.
//
// For deterministic tests build a shoe from a fixed card order:
//
//	s := shoe.NewStacked(deck.MustParseCards("Tc 6d Ah 9s 5c"))
//	card, err := s.Draw() // 10♣
package shoe

import (
	"errors"
	"iter"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// ErrShoeExhausted means there is nothing left to deal, not even after a
// reshuffle. With a correctly sized shoe this can only follow a broken card
// conservation invariant, so callers should abort rather than retry.
var ErrShoeExhausted = errors.New("shoe exhausted")

// DefaultCutJitter is how far either side of the penetration target the cut
// card may land.
const DefaultCutJitter = 8

// Option configures a Shoe
type Option func(*Shoe)

// WithCutJitter sets the random spread around the cut card position.
func WithCutJitter(jitter int) Option {
	return func(s *Shoe) {
		if jitter >= 0 {
			s.jitter = jitter
		}
	}
}

// WithRand sets the random source used for reshuffles of a stacked shoe.
func WithRand(rng *rand.Rand) Option {
	return func(s *Shoe) { s.rng = rng }
}

// Shoe holds the undealt cards, the used pile and the cut card.
type Shoe struct {
	cards      []deck.Card // top of the shoe is the end of the slice
	used       []deck.Card
	rng        *rand.Rand
	cut        bool
	jitter     int
	reshuffles int
}

// New creates a shuffled shoe of the given number of decks with a cut card.
func New(decks int, rng *rand.Rand, opts ...Option) *Shoe {
	s := &Shoe{
		cards:  make([]deck.Card, 0, decks*52+1),
		rng:    rng,
		cut:    true,
		jitter: DefaultCutJitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	for range decks {
		s.cards = append(s.cards, deck.StandardDeck()...)
	}
	s.shuffle()
	return s
}

// NewStacked creates a shoe that deals cards in exactly the given order. The
// shoe only carries a cut card if one is included in cards. Without WithRand,
// reshuffles keep the used pile in discard order, which keeps tests
// deterministic.
func NewStacked(cards []deck.Card, opts ...Option) *Shoe {
	s := &Shoe{
		cards:  make([]deck.Card, len(cards)),
		jitter: DefaultCutJitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, c := range cards {
		s.cards[len(cards)-1-i] = c
		if c.IsBlank() {
			s.cut = true
		}
	}
	return s
}

// Draw removes and returns the top card. Drawing the cut card reshuffles the
// shoe and the draw continues with the next real card, so the cut card is never
// returned.
func (s *Shoe) Draw() (deck.Card, error) {
	if card, ok := s.pop(); ok {
		return card, nil
	}
	s.Reshuffle()
	if card, ok := s.pop(); ok {
		return card, nil
	}
	if s.cut {
		s.cards = append(s.cards, deck.BlankCard())
	}
	return deck.Card{}, ErrShoeExhausted
}

// pop takes the top card. It reports false if the shoe is empty or the top
// card was the cut card, which is consumed.
func (s *Shoe) pop() (deck.Card, bool) {
	n := len(s.cards)
	if n == 0 {
		return deck.Card{}, false
	}
	card := s.cards[n-1]
	s.cards = s.cards[:n-1]
	if card.IsBlank() {
		return deck.Card{}, false
	}
	return card, true
}

// Reshuffle merges the used pile back into the shoe, shuffles, and places a
// single cut card near the bottom.
func (s *Shoe) Reshuffle() {
	s.cards = slices.DeleteFunc(s.cards, deck.Card.IsBlank)
	s.cards = append(s.cards, s.used...)
	s.used = s.used[:0]
	s.reshuffles++
	s.shuffle()
}

func (s *Shoe) shuffle() {
	if s.rng != nil {
		for i := len(s.cards) - 1; i > 0; i-- {
			j := s.rng.IntN(i + 1)
			s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
		}
	}
	if s.cut {
		s.cards = slices.Insert(s.cards, s.cutIndex(), deck.BlankCard())
	}
}

// cutIndex picks the cut card position counted from the bottom of the shoe.
// The card is never placed on top, so a reshuffle is always followed by at
// least one real card when any remain.
func (s *Shoe) cutIndex() int {
	n := len(s.cards)
	idx := n / 6
	if s.jitter > 0 && s.rng != nil {
		idx += s.rng.IntN(2*s.jitter+1) - s.jitter
	}
	return max(0, min(idx, n-1))
}

// Discard moves cards to the used pile.
func (s *Shoe) Discard(cards ...deck.Card) {
	for _, c := range cards {
		if c.IsBlank() {
			continue
		}
		s.used = append(s.used, c)
	}
}

// Len returns the number of cards left in the shoe, cut card included.
func (s *Shoe) Len() int {
	return len(s.cards)
}

// UsedLen returns the size of the used pile.
func (s *Shoe) UsedLen() int {
	return len(s.used)
}

// Reshuffles returns how many times the shoe has been reshuffled.
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}

// Cards iterates over the undealt playable cards from the top of the shoe
// down. The cut card is skipped.
func (s *Shoe) Cards() iter.Seq[deck.Card] {
	return func(yield func(deck.Card) bool) {
		for i := len(s.cards) - 1; i >= 0; i-- {
			if s.cards[i].IsBlank() {
				continue
			}
			if !yield(s.cards[i]) {
				return
			}
		}
	}
}
