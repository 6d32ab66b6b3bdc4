package game

import (
	"fmt"
	"strings"
)

// Action represents a player action
type Action int

const (
	Stand Action = iota
	Hit
	Double
	Split
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// ParseAction maps a typed command to an action. Commands are the action
// names or their single letter shortcuts (s, h, d, p) in any case.
func ParseAction(input string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "stand", "s":
		return Stand, nil
	case "hit", "h":
		return Hit, nil
	case "double", "d":
		return Double, nil
	case "split", "p":
		return Split, nil
	}
	return Stand, fmt.Errorf("%w: %q", ErrInvalidCommand, input)
}
