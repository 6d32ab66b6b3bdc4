package game

import "errors"

var (
	// ErrIllegalSplit is returned when splitting anything other than an
	// untouched pair, splitting twice, or splitting the dealer.
	ErrIllegalSplit = errors.New("illegal split")
	// ErrIllegalDouble is returned when doubling a hand that does not hold
	// exactly two cards.
	ErrIllegalDouble = errors.New("illegal double")
	// ErrIllegalAction is returned for any action taken after standing.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidCommand is returned when player input does not name an action.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidWager is returned for zero or negative wagers.
	ErrInvalidWager = errors.New("invalid wager")
	// ErrRunaway is returned when a policy keeps acting without reaching a
	// terminal status.
	ErrRunaway = errors.New("policy did not stand")
)

// IsIllegalMove reports whether err rejects a single decision without
// damaging the round, so the decision can be asked for again.
func IsIllegalMove(err error) bool {
	return errors.Is(err, ErrIllegalSplit) ||
		errors.Is(err, ErrIllegalDouble) ||
		errors.Is(err, ErrIllegalAction)
}
