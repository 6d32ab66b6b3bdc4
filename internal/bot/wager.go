package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// DefaultMaxWager caps Hi-Lo bets when no maximum is configured.
const DefaultMaxWager = 50

// Flat bets the same unit every round.
type Flat struct {
	Unit float64
}

// PlaceWager returns Unit.
func (f Flat) PlaceWager(context.Context, game.WagerState) (float64, error) {
	return f.Unit, nil
}

// HiLo sizes bets from the Hi-Lo true count of the cards left in the shoe.
type HiLo struct {
	Unit   float64
	Max    float64
	logger *log.Logger
}

// NewHiLo creates a Hi-Lo wager policy betting between unit and max.
func NewHiLo(unit, max float64, logger *log.Logger) *HiLo {
	if max <= 0 {
		max = DefaultMaxWager
	}
	return &HiLo{Unit: unit, Max: max, logger: logger.WithPrefix("hilo")}
}

// HiLoValue is the count tag of a card: +1 for 2 to 6, -1 for tens and Aces.
func HiLoValue(c deck.Card) int {
	switch {
	case c.Rank >= deck.Two && c.Rank <= deck.Six:
		return 1
	case c.Rank.IsTenValue(), c.Rank == deck.Ace:
		return -1
	default:
		return 0
	}
}

// Count returns the running count of the undealt cards and the true count,
// the running count per estimated deck left. Decks are estimated in whole
// half-deck units of 26 cards and never below one.
func Count(shoe game.ShoeView) (running int, trueCount float64) {
	for c := range shoe.Cards() {
		running += HiLoValue(c)
	}
	decks := max(1, shoe.Len()/26)
	return running, float64(running) / float64(decks)
}

// PlaceWager bets Unit × true count, clamped to [Unit, Max].
func (h *HiLo) PlaceWager(_ context.Context, s game.WagerState) (float64, error) {
	running, trueCount := Count(s.Shoe)
	bet := h.Unit * trueCount
	bet = max(h.Unit, min(bet, h.Max))
	h.logger.Debug("wager", "player", s.Name, "running", running, "true", trueCount, "bet", bet)
	return bet, nil
}

// PromptFunc asks a person for a line of input. msg describes what is wanted
// and, after a bad answer, why the previous one was refused.
type PromptFunc func(ctx context.Context, msg string) (string, error)

// PromptWager asks a human player for each wager. An empty answer repeats the
// previous wager.
type PromptWager struct {
	prompt PromptFunc
	last   float64
	logger *log.Logger
}

// NewPromptWager creates a wager policy reading bets from prompt.
func NewPromptWager(prompt PromptFunc, initial float64, logger *log.Logger) *PromptWager {
	return &PromptWager{prompt: prompt, last: initial, logger: logger.WithPrefix("wager")}
}

// PlaceWager prompts until the answer parses as a positive amount.
func (p *PromptWager) PlaceWager(ctx context.Context, s game.WagerState) (float64, error) {
	msg := fmt.Sprintf("Balance %.2f. Wager [%.2f]:", s.Balance, p.last)
	for {
		input, err := p.prompt(ctx, msg)
		if err != nil {
			return 0, err
		}
		w, err := ParseWager(input, p.last)
		if err != nil {
			p.logger.Debug("wager rejected", "input", input, "error", err)
			msg = fmt.Sprintf("%v. Wager [%.2f]:", err, p.last)
			continue
		}
		p.last = w
		return w, nil
	}
}

// ParseWager reads a positive amount. Blank input returns fallback.
func ParseWager(input string, fallback float64) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		input = strconv.FormatFloat(fallback, 'f', -1, 64)
	}
	w, err := strconv.ParseFloat(input, 64)
	if err != nil || !(w > 0) {
		return 0, fmt.Errorf("%w: %q", game.ErrInvalidWager, input)
	}
	return w, nil
}
