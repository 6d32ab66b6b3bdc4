package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// BasicStrategy plays the fixed basic strategy chart. Pairs are checked
// first, then soft totals, then hard totals. The dealer's up card is read Ace
// high (2 to 11).
type BasicStrategy struct {
	logger *log.Logger
}

// NewBasicStrategy creates a BasicStrategy instance
func NewBasicStrategy(logger *log.Logger) *BasicStrategy {
	return &BasicStrategy{logger: logger.WithPrefix("basic")}
}

// Decide looks the hand up in the chart. A double the table refuses falls
// back to a hit, or a stand on soft 18.
func (b *BasicStrategy) Decide(_ context.Context, s game.TurnState) (game.Decision, error) {
	d := b.chart(s)
	if d.Action == game.Double && !s.CanDouble {
		d = b.doubleFallback(s)
	}
	b.logger.Debug("decision",
		"actor", s.Name,
		"hand", s.Hand,
		"dealer", s.DealerUp,
		"action", d.Action,
		"reason", d.Reasoning)
	return d, nil
}

func (b *BasicStrategy) chart(s game.TurnState) game.Decision {
	if s.Hand.Best() == 0 {
		return decide(game.Stand, "bust")
	}
	up := upValue(s.DealerUp)

	if s.CanSplit && splittable(s.Hand) {
		return pairDecision(s.Hand[0].Rank, up)
	}

	soft, hard := s.Hand.Value(false), s.Hand.Value(true)
	if soft != hard && soft >= 13 && soft <= 21 {
		return softDecision(soft, up)
	}
	return hardDecision(s.Hand.Best(), up)
}

// splittable excludes pairs the chart never splits: ten values and fives.
func splittable(h deck.Hand) bool {
	r := h[0].Rank
	return !r.IsTenValue() && r != deck.Five
}

func pairDecision(r deck.Rank, up int) game.Decision {
	switch r {
	case deck.Ace, deck.Eight:
		return decide(game.Split, "always split %ss", r)
	case deck.Nine:
		if up == 7 || up >= 10 {
			return decide(game.Stand, "9s stand against %d", up)
		}
		return decide(game.Split, "split 9s against %d", up)
	case deck.Seven:
		if up <= 7 {
			return decide(game.Split, "split 7s against %d", up)
		}
		return decide(game.Hit, "hit 7s against %d", up)
	case deck.Six:
		if up <= 6 {
			return decide(game.Split, "split 6s against %d", up)
		}
		return decide(game.Hit, "hit 6s against %d", up)
	case deck.Four:
		if up == 5 || up == 6 {
			return decide(game.Split, "split 4s against %d", up)
		}
		return decide(game.Hit, "hit 4s against %d", up)
	default: // twos and threes
		if up <= 7 {
			return decide(game.Split, "split %ss against %d", r, up)
		}
		return decide(game.Hit, "hit %ss against %d", r, up)
	}
}

func softDecision(soft, up int) game.Decision {
	switch {
	case soft >= 19:
		return decide(game.Stand, "soft %d stands", soft)
	case up >= 9:
		return decide(game.Hit, "soft %d hits against %d", soft, up)
	case soft == 18:
		if up >= 3 && up <= 6 {
			return decide(game.Double, "soft 18 doubles against %d", up)
		}
		return decide(game.Stand, "soft 18 stands against %d", up)
	case up >= 7:
		return decide(game.Hit, "soft %d hits against %d", soft, up)
	case soft == 17:
		if up == 2 {
			return decide(game.Hit, "soft 17 hits against 2")
		}
		return decide(game.Double, "soft 17 doubles against %d", up)
	case soft >= 15:
		if up <= 3 {
			return decide(game.Hit, "soft %d hits against %d", soft, up)
		}
		return decide(game.Double, "soft %d doubles against %d", soft, up)
	default:
		if up <= 4 {
			return decide(game.Hit, "soft %d hits against %d", soft, up)
		}
		return decide(game.Double, "soft %d doubles against %d", soft, up)
	}
}

func hardDecision(total, up int) game.Decision {
	switch {
	case total >= 17:
		return decide(game.Stand, "hard %d stands", total)
	case total >= 13:
		if up <= 6 {
			return decide(game.Stand, "hard %d stands against %d", total, up)
		}
		return decide(game.Hit, "hard %d hits against %d", total, up)
	case total == 12:
		if up >= 4 && up <= 6 {
			return decide(game.Stand, "hard 12 stands against %d", up)
		}
		return decide(game.Hit, "hard 12 hits against %d", up)
	case total == 11:
		if up == 11 {
			return decide(game.Hit, "hard 11 hits against an ace")
		}
		return decide(game.Double, "hard 11 doubles against %d", up)
	case total == 10:
		if up >= 10 {
			return decide(game.Hit, "hard 10 hits against %d", up)
		}
		return decide(game.Double, "hard 10 doubles against %d", up)
	case total == 9:
		if up >= 3 && up <= 6 {
			return decide(game.Double, "hard 9 doubles against %d", up)
		}
		return decide(game.Hit, "hard 9 hits against %d", up)
	default:
		return decide(game.Hit, "hard %d hits", total)
	}
}

// doubleFallback replaces a double the table will not allow.
func (b *BasicStrategy) doubleFallback(s game.TurnState) game.Decision {
	if s.Hand.IsSoft() && s.Hand.Value(false) == 18 {
		return decide(game.Stand, "soft 18 stands, double not allowed")
	}
	return decide(game.Hit, "hit %d, double not allowed", s.Hand.Best())
}
