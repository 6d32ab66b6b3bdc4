package deck

import "strings"

// Hand is an ordered set of cards held by one player.
type Hand []Card

// Value returns the hard total (every Ace counts 1) when hard is set.
// Otherwise it returns the soft total, where a single Ace is promoted to 11;
// a second Ace at 11 would always bust, so promoting more never helps. The
// cut card never reaches a hand and contributes nothing.
func (h Hand) Value(hard bool) int {
	total, aces := 0, 0
	for _, c := range h {
		v, err := c.Value(true)
		if err != nil {
			continue
		}
		if c.IsAce() {
			aces++
		}
		total += v
	}
	if !hard && aces > 0 {
		total += 10
	}
	return total
}

// Best returns the most favourable total of the hand, or 0 when the hand is
// bust. A real hand can never total 0, so 0 doubles as the bust sentinel.
func (h Hand) Best() int {
	if h.Value(true) > 21 {
		return 0
	}
	if soft := h.Value(false); soft <= 21 {
		return soft
	}
	return h.Value(true)
}

// IsBust reports whether the hand is over 21 with every Ace counted as 1.
func (h Hand) IsBust() bool {
	return h.Best() == 0
}

// HasBlackjack reports a natural: exactly two cards totalling 21.
func (h Hand) HasBlackjack() bool {
	return len(h) == 2 && h.Value(false) == 21
}

// IsSoft reports whether counting Aces as 11 changes the total.
func (h Hand) IsSoft() bool {
	return h.Value(false) != h.Value(true)
}

// IsPair reports an untouched two card hand of equal rank.
func (h Hand) IsPair() bool {
	return len(h) == 2 && h[0].Rank == h[1].Rank
}

// String renders the cards separated by spaces.
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
