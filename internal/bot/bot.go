// Package bot provides the automated decision and wager policies that sit at a
// blackjack table: the house rule for the dealer, a naive threshold player,
// the basic strategy chart, and Hi-Lo bet sizing. Human input is bridged in
// through the same interfaces.
package bot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Strategy names accepted by NewPolicy.
const (
	StrategyThreshold = "threshold"
	StrategyBasic     = "basic"
)

// Wagering names accepted by NewWagerer.
const (
	WageringFlat = "flat"
	WageringHiLo = "hilo"
)

// NewPolicy returns the named player strategy.
func NewPolicy(name string, logger *log.Logger) (game.Policy, error) {
	switch strings.ToLower(name) {
	case StrategyThreshold:
		return NewThreshold(17, logger), nil
	case StrategyBasic:
		return NewBasicStrategy(logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want %s or %s)", name, StrategyThreshold, StrategyBasic)
	}
}

// NewWagerer returns the named wager policy.
func NewWagerer(name string, unit, max float64, logger *log.Logger) (game.Wagerer, error) {
	switch strings.ToLower(name) {
	case WageringFlat:
		return Flat{Unit: unit}, nil
	case WageringHiLo:
		return NewHiLo(unit, max, logger), nil
	default:
		return nil, fmt.Errorf("unknown wagering %q (want %s or %s)", name, WageringFlat, WageringHiLo)
	}
}

// upValue is the dealer's face up card as the charts read it, Ace high.
func upValue(c deck.Card) int {
	v, err := c.Value(false)
	if err != nil {
		return 0
	}
	return v
}

func decide(action game.Action, format string, args ...any) game.Decision {
	return game.Decision{Action: action, Reasoning: fmt.Sprintf(format, args...)}
}
