package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Threshold hits until the hand reaches a fixed total. At 17 it is the house
// rule, standing on soft 17, and doubles as the naive simulation baseline.
type Threshold struct {
	StandOn int
	logger  *log.Logger
}

// NewThreshold creates a policy that stands on standOn or more.
func NewThreshold(standOn int, logger *log.Logger) *Threshold {
	return &Threshold{StandOn: standOn, logger: logger.WithPrefix("threshold")}
}

// NewDealer returns the house policy.
func NewDealer(logger *log.Logger) *Threshold {
	return &Threshold{StandOn: 17, logger: logger.WithPrefix("dealer")}
}

// Decide hits below StandOn and stands otherwise. A bust hand stands.
func (p *Threshold) Decide(_ context.Context, s game.TurnState) (game.Decision, error) {
	best := s.Hand.Best()
	var d game.Decision
	switch {
	case best == 0:
		d = decide(game.Stand, "bust")
	case best >= p.StandOn:
		d = decide(game.Stand, "standing on %d", best)
	default:
		d = decide(game.Hit, "hitting %d below %d", best, p.StandOn)
	}
	p.logger.Debug("decision", "actor", s.Name, "hand", s.Hand, "action", d.Action)
	return d, nil
}
