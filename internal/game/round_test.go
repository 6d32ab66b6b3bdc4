package game

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
)

func hand(s string) deck.Hand {
	return deck.Hand(deck.MustParseCards(s))
}

func TestPlayRoundNaturalPaysThreeToTwo(t *testing.T) {
	player := NewActor("Alice", 100, &ScriptedPolicy{}, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("Tc 6d Ah 9s 5c"),
		WithSeats(player),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, Blackjack, r.Outcome)
	assert.Equal(t, 15.0, r.Net)
	assert.Equal(t, hand("Tc Ah"), r.Hand)
	assert.Equal(t, 115.0, player.Balance)
}

func TestPlayRoundDealerHitsToSeventeen(t *testing.T) {
	var dealerHands []deck.Hand
	bus := NewEventBus()
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		if ev, ok := e.(SettleEvent); ok {
			dealerHands = append(dealerHands, ev.Snapshot.Dealer.Hand)
		}
	}))

	table := NewTestTable(
		WithStackedCards("Tc 6d 8h 9s 5c"),
		WithTableOptions(WithEventBus(bus)),
	)
	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, dealerHands, 1)
	assert.Equal(t, hand("6d 9s 5c"), dealerHands[0])
	assert.Equal(t, Lose, results[0].Outcome, "18 loses to 20")
	assert.Equal(t, 90.0, table.Players()[0].Balance)
}

func TestPlayRoundSplitSettlesEachHand(t *testing.T) {
	policy := &ScriptedPolicy{Actions: []Action{Split, Hit, Double, Hit, Stand}}
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("8s Ts 8h 9d 3c Kc Td"),
		WithSeats(player),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	first, second := results[0], results[1]
	assert.Equal(t, hand("8s 3c Kc"), first.Hand)
	assert.Equal(t, 20.0, first.Wager)
	assert.True(t, first.Doubled)
	assert.True(t, first.Split)
	assert.Equal(t, Win, first.Outcome)

	assert.Equal(t, hand("8h Td"), second.Hand)
	assert.Equal(t, 10.0, second.Wager)
	assert.False(t, second.Doubled)
	assert.Equal(t, Lose, second.Outcome)

	// +wager - split_wager
	assert.Equal(t, 110.0, player.Balance)
	assert.Empty(t, policy.Rejected)
}

func TestPlayRoundSplitSettlementKeepsHands(t *testing.T) {
	var settled ActorView
	bus := NewEventBus()
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		if ev, ok := e.(SettleEvent); ok {
			settled, _ = ev.Snapshot.Player("Alice")
		}
	}))

	policy := &ScriptedPolicy{Actions: []Action{Split, Hit, Double, Hit, Stand}}
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("8s Ts 8h 9d 3c Kc Td"),
		WithSeats(player),
		WithTableOptions(WithEventBus(bus)),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)

	net := 0.0
	for _, r := range results {
		net += r.Net
	}
	assert.Equal(t, 10.0, net)
	assert.Equal(t, 100+net, player.Balance, "balance moves by exactly the settled nets")

	// The second hand is still the active one after settlement
	assert.Equal(t, hand("8h Td"), settled.Hand)
	assert.Equal(t, 10.0, settled.Wager)
	assert.Equal(t, hand("8s 3c Kc"), settled.SplitHand)
	assert.Equal(t, 20.0, settled.SplitWager)
	assert.Equal(t, 110.0, settled.Balance)
}

func TestPlayRoundSplitHandIsNeverNatural(t *testing.T) {
	policy := &ScriptedPolicy{Actions: []Action{Split, Hit, Stand, Hit, Stand}}
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("As Ts Ah 9d Kc Kd"),
		WithSeats(player),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, Win, r.Outcome, "split 21 is paid even money")
		assert.Equal(t, 10.0, r.Net)
	}
	assert.Equal(t, 120.0, player.Balance)
}

func TestPlayRoundNaturals(t *testing.T) {
	tests := []struct {
		name    string
		cards   string
		outcome Outcome
		balance float64
	}{
		{"dealer natural beats 19", "Ts As 9h Kd", Lose, 90},
		{"both natural push", "As Ah Kd Kh", Push, 100},
		{"dealer natural beats 21 of three cards", "7s As 7h Kd 7c", Lose, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := PolicyFunc(func(_ context.Context, s TurnState) (Decision, error) {
				if s.Hand.Best() == 14 {
					return Decision{Action: Hit}, nil
				}
				return Decision{Action: Stand}, nil
			})
			player := NewActor("Alice", 100, policy, FixedWager(10))
			table := NewTestTable(WithStackedCards(tt.cards), WithSeats(player))

			results, err := table.PlayRound(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, results[0].Outcome)
			assert.Equal(t, tt.balance, player.Balance)
		})
	}
}

func TestPlayRoundDealerPlaysAfterPlayerBust(t *testing.T) {
	policy := &ScriptedPolicy{Actions: []Action{Hit}}
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("Ts 6d 5h 9s Kc 2c"),
		WithSeats(player),
	)

	var dealerBest int
	bus := NewEventBus()
	bus.Subscribe(SubscriberFunc(func(e GameEvent) {
		if ev, ok := e.(SettleEvent); ok {
			dealerBest = ev.Snapshot.Dealer.Best
		}
	}))
	table.bus = bus

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Lose, results[0].Outcome)
	assert.Equal(t, 17, dealerBest)
	assert.Equal(t, 90.0, player.Balance)
}

func TestPlayRoundRejectsIllegalSplit(t *testing.T) {
	policy := &ScriptedPolicy{Actions: []Action{Split}}
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("Ts 6d 9h 9s 5c"),
		WithSeats(player),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, policy.Rejected, 1)
	assert.ErrorIs(t, policy.Rejected[0], ErrIllegalSplit)
	assert.Equal(t, Lose, results[0].Outcome, "19 loses to 20")
}

func TestPlayRoundAbortsOnIllegalDecision(t *testing.T) {
	policy := PolicyFunc(func(context.Context, TurnState) (Decision, error) {
		return Decision{Action: Split}, nil
	})
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("Ts 6d 9h 9s"),
		WithSeats(player),
	)

	_, err := table.PlayRound(context.Background())
	assert.ErrorIs(t, err, ErrIllegalSplit)

	assert.Equal(t, 100.0, player.Balance, "nothing settles on error")
	assert.Equal(t, 0, table.CardsInPlay())
	assert.Equal(t, 4, table.shoe.UsedLen())
	assert.Equal(t, StatusPlay, player.Status)
}

func TestPlayRoundRunawayPolicy(t *testing.T) {
	policy := PolicyFunc(func(context.Context, TurnState) (Decision, error) {
		return Decision{Action: Hit}, nil
	})
	player := NewActor("Alice", 100, policy, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("2s 6d 2h 9s 2c 2d 3h"),
		WithSeats(player),
		WithTableOptions(WithMaxSteps(3)),
	)

	_, err := table.PlayRound(context.Background())
	assert.ErrorIs(t, err, ErrRunaway)
}

func TestPlayRoundInvalidWager(t *testing.T) {
	for _, w := range []float64{0, -5} {
		player := NewActor("Alice", 100, &ScriptedPolicy{}, FixedWager(w))
		table := NewTestTable(WithStackedCards("Ts 6d 9h 9s"), WithSeats(player))

		_, err := table.PlayRound(context.Background())
		assert.ErrorIs(t, err, ErrInvalidWager, "wager %v", w)
		assert.Equal(t, 4, table.shoe.Len(), "nothing dealt")
	}
}

func TestPlayRoundShoeExhausted(t *testing.T) {
	table := NewTestTable(WithStackedCards("Ts 6d 9h"))

	_, err := table.PlayRound(context.Background())
	assert.ErrorIs(t, err, shoe.ErrShoeExhausted)
	assert.Equal(t, 0, table.CardsInPlay())
}

func TestPlayRoundCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := NewTestTable(WithStackedCards("Ts 6d 9h 9s"))
	_, err := table.PlayRound(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayRoundSeatOrder(t *testing.T) {
	alice := NewActor("Alice", 100, &ScriptedPolicy{}, FixedWager(10))
	bob := NewActor("Bob", 100, &ScriptedPolicy{}, FixedWager(10))
	table := NewTestTable(
		WithStackedCards("Ts 9s 8d Qs 7c Kh"),
		WithSeats(alice, bob),
	)

	results, err := table.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Alice", results[0].Actor)
	assert.Equal(t, hand("Ts Qs"), results[0].Hand)
	assert.Equal(t, "Bob", results[1].Actor)
	assert.Equal(t, hand("9s 7c"), results[1].Hand)
	// dealer 8 K = 18
	assert.Equal(t, Win, results[0].Outcome)
	assert.Equal(t, Lose, results[1].Outcome)
}

func TestTableConservesCards(t *testing.T) {
	const decks = 1
	s := shoe.New(decks, randutil.New(11))
	logger := log.NewWithOptions(io.Discard, log.Options{})
	player := NewActor("Alice", 1000, HitBelow(17), FixedWager(10))
	table := NewTable(s, NewDealer(HitBelow(17)), []*Actor{player}, logger)

	for i := range 500 {
		_, err := table.PlayRound(context.Background())
		require.NoError(t, err, "round %d", i)
		require.Equal(t, decks*52+1, table.CardCount(), "round %d", i)
		require.Equal(t, 0, table.CardsInPlay())
		require.Empty(t, table.Showing())
	}
	assert.Greater(t, s.Reshuffles(), 0)
	assert.Equal(t, 500, table.Round())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		player string
		dealer string
		split  bool
		want   Outcome
	}{
		{"player bust loses to dealer bust", "Ts 6s Kd", "Th 6h Kc", false, Lose},
		{"dealer bust", "Ts 6s", "Th 6h Kc", false, Win},
		{"natural", "As Kd", "Th 7h", false, Blackjack},
		{"split natural is a win", "As Kd", "Th 7h", true, Win},
		{"dealer natural", "Ts 9d", "Ah Kc", false, Lose},
		{"higher wins", "Ts 9d", "Th 8c", false, Win},
		{"lower loses", "Ts 7d", "Th 8c", false, Lose},
		{"equal pushes", "Ts 8d", "Th 8c", false, Push},
		{"soft total counts", "As 7d", "Th 7c", false, Win},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(hand(tt.player), hand(tt.dealer), tt.split))
		})
	}
}

func TestOutcomePayout(t *testing.T) {
	assert.Equal(t, 1.5, Blackjack.Payout())
	assert.Equal(t, 1.0, Win.Payout())
	assert.Equal(t, 0.0, Push.Payout())
	assert.Equal(t, -1.0, Lose.Payout())
}
