package bot

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Human represents a person choosing actions through a user interface
type Human struct {
	prompt PromptFunc
	notice string
	logger *log.Logger
}

// NewHuman creates a human policy with a prompt function
func NewHuman(prompt PromptFunc, logger *log.Logger) *Human {
	return &Human{prompt: prompt, logger: logger.WithPrefix("human")}
}

// Decide asks for a command until one parses. A busted hand stands without
// asking.
func (h *Human) Decide(ctx context.Context, s game.TurnState) (game.Decision, error) {
	if s.Hand.Best() == 0 {
		return decide(game.Stand, "bust"), nil
	}
	msg := h.message(s)
	for {
		input, err := h.prompt(ctx, msg)
		if err != nil {
			return game.Decision{}, err
		}
		action, err := game.ParseAction(input)
		if err != nil {
			h.logger.Debug("command rejected", "input", input)
			msg = fmt.Sprintf("%v. %s", err, options(s))
			continue
		}
		return decide(action, "player chose %s", action), nil
	}
}

// Reject keeps the reason an action was refused for the next prompt.
func (h *Human) Reject(d game.Decision, err error) {
	h.logger.Debug("action rejected", "action", d.Action, "error", err)
	h.notice = fmt.Sprintf("Can't %s: %v.", d.Action, err)
}

func (h *Human) message(s game.TurnState) string {
	msg := options(s)
	if h.notice != "" {
		msg = h.notice + " " + msg
		h.notice = ""
	}
	return msg
}

func options(s game.TurnState) string {
	msg := "(h)it, (s)tand"
	if s.CanDouble {
		msg += ", (d)ouble"
	}
	if s.CanSplit {
		msg += ", s(p)lit"
	}
	return msg + ":"
}
