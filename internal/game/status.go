package game

// Status is where an actor is in its turn
type Status int

const (
	// StatusPlay is the normal state before any terminal decision.
	StatusPlay Status = iota
	// StatusStand is terminal until the table is cleared.
	StatusStand
	// StatusSplit1 means the first hand of a split is active and the second
	// is waiting.
	StatusSplit1
	// StatusSplit2 means the second hand of a split is active.
	StatusSplit2
)

func (s Status) String() string {
	switch s {
	case StatusPlay:
		return "PLAY"
	case StatusStand:
		return "STAND"
	case StatusSplit1:
		return "SPLIT_1"
	case StatusSplit2:
		return "SPLIT_2"
	default:
		return "UNKNOWN"
	}
}

// Done reports whether the actor has nothing left to play this round.
func (s Status) Done() bool {
	return s == StatusStand
}

// Role distinguishes the house from seated players.
type Role int

const (
	RolePlayer Role = iota
	// RoleDealer actors have no wager or balance, never split, and keep their
	// second card face down until their turn.
	RoleDealer
)

func (r Role) String() string {
	if r == RoleDealer {
		return "dealer"
	}
	return "player"
}

// Outcome is how a single hand settled against the dealer
type Outcome int

const (
	Lose Outcome = iota
	Push
	Win
	Blackjack
)

func (o Outcome) String() string {
	switch o {
	case Lose:
		return "lose"
	case Push:
		return "push"
	case Win:
		return "win"
	case Blackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// Payout is the signed multiple of the wager the outcome pays.
func (o Outcome) Payout() float64 {
	switch o {
	case Blackjack:
		return 1.5
	case Win:
		return 1
	case Lose:
		return -1
	default:
		return 0
	}
}
