package game

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// HandResult is the settlement of one player hand. A player who split has two
// results, one per hand.
type HandResult struct {
	Actor   string
	Hand    deck.Hand
	Wager   float64
	Outcome Outcome
	Net     float64 // balance change, signed
	Split   bool
	Doubled bool
}

// Round drives one deal-to-settlement cycle at a table.
type Round struct {
	table  *Table
	logger *log.Logger
}

// Play places wagers, deals, polls every player then the dealer, settles and
// clears the table.
func (r *Round) Play(ctx context.Context) ([]HandResult, error) {
	t := r.table
	defer t.clear()

	if err := r.placeWagers(ctx); err != nil {
		return nil, err
	}
	t.bus.Publish(RoundStartEvent{Snapshot: t.Snapshot(), timestamp: time.Now()})

	if err := r.deal(); err != nil {
		return nil, err
	}
	t.bus.Publish(DealEvent{Snapshot: t.Snapshot(), timestamp: time.Now()})

	for _, p := range t.players {
		if err := r.playTurn(ctx, p); err != nil {
			return nil, err
		}
	}

	t.reveal()
	t.bus.Publish(DealerTurnEvent{Snapshot: t.Snapshot(), timestamp: time.Now()})
	if err := r.playTurn(ctx, t.dealer); err != nil {
		return nil, err
	}

	results := r.settle()
	snap := t.Snapshot()
	snap.Results = results
	t.bus.Publish(SettleEvent{Results: results, Snapshot: snap, timestamp: time.Now()})
	return results, nil
}

func (r *Round) placeWagers(ctx context.Context) error {
	t := r.table
	for _, p := range t.players {
		if p.Wagerer == nil {
			return fmt.Errorf("%s: %w: no wager policy", p.Name, ErrInvalidWager)
		}
		w, err := p.Wagerer.PlaceWager(ctx, WagerState{
			Name:    p.Name,
			Balance: p.Balance,
			Shoe:    t.shoe,
		})
		if err != nil {
			return fmt.Errorf("%s wager: %w", p.Name, err)
		}
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%s: %w: %v", p.Name, ErrInvalidWager, w)
		}
		p.Wager = w
		r.logger.Debug("wager placed", "player", p.Name, "wager", w, "balance", p.Balance)
	}
	return nil
}

// deal gives every player then the dealer one card, twice.
func (r *Round) deal() error {
	t := r.table
	seats := append(slices.Clone(t.players), t.dealer)
	for range 2 {
		for _, a := range seats {
			if err := a.Hit(t); err != nil {
				return fmt.Errorf("deal to %s: %w", a.Name, err)
			}
		}
	}
	r.logger.Debug("dealt", "dealer_up", t.dealerUp(), "shoe", t.shoe.Len())
	return nil
}

// playTurn polls a's policy until its status is terminal.
func (r *Round) playTurn(ctx context.Context, a *Actor) error {
	t := r.table
	if a.Policy == nil {
		return fmt.Errorf("%s has no policy", a.Name)
	}
	for steps := 0; !a.Status.Done(); steps++ {
		if steps >= t.maxSteps {
			return fmt.Errorf("%s after %d decisions: %w", a.Name, steps, ErrRunaway)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		decision, err := a.Policy.Decide(ctx, a.turnState(t.dealerUp(), t.Showing()))
		if err != nil {
			return fmt.Errorf("%s decide: %w", a.Name, err)
		}

		if err := a.Apply(t, decision.Action); err != nil {
			if rejecter, ok := a.Policy.(Rejecter); ok && IsIllegalMove(err) {
				r.logger.Debug("decision rejected", "actor", a.Name, "action", decision.Action, "error", err)
				rejecter.Reject(decision, err)
				continue
			}
			return fmt.Errorf("%s %s: %w", a.Name, decision.Action, err)
		}

		r.logger.Debug("action",
			"actor", a.Name,
			"action", decision.Action,
			"hand", a.Hand,
			"status", a.Status,
			"reason", decision.Reasoning)
		t.bus.Publish(ActionEvent{
			Actor:     a.Name,
			Action:    decision.Action,
			Reasoning: decision.Reasoning,
			Snapshot:  t.Snapshot(),
			timestamp: time.Now(),
		})
	}
	return nil
}

// settle resolves every player hand against the dealer and applies the
// result to balances.
func (r *Round) settle() []HandResult {
	t := r.table
	dealer := t.dealer.Hand
	results := make([]HandResult, 0, len(t.players))

	for _, p := range t.players {
		if p.split {
			// The first hand finished in SplitHand. Settle it as the active
			// hand, then swap back for the second.
			p.swapHands()
			first := r.settleHand(p, dealer)
			p.swapHands()
			results = append(results, first, r.settleHand(p, dealer))
			continue
		}
		results = append(results, r.settleHand(p, dealer))
	}
	return results
}

// settleHand pays or collects the active wager.
func (r *Round) settleHand(p *Actor, dealer deck.Hand) HandResult {
	outcome := Resolve(p.Hand, dealer, p.split)
	switch outcome {
	case Blackjack:
		p.Win(1.5)
	case Win:
		p.Win(1)
	case Lose:
		p.Lose(1)
	}
	net := p.Wager * outcome.Payout()

	r.logger.Debug("settled",
		"player", p.Name,
		"hand", p.Hand,
		"dealer", dealer,
		"outcome", outcome,
		"net", net,
		"balance", p.Balance)

	return HandResult{
		Actor:   p.Name,
		Hand:    slices.Clone(p.Hand),
		Wager:   p.Wager,
		Outcome: outcome,
		Net:     net,
		Split:   p.split,
		Doubled: p.doubled,
	}
}

// Resolve decides a player hand against the dealer's final hand. A hand
// formed by splitting can never count as a natural.
func Resolve(player, dealer deck.Hand, split bool) Outcome {
	pv, dv := player.Best(), dealer.Best()
	playerNatural := !split && player.HasBlackjack()
	dealerNatural := dealer.HasBlackjack()

	switch {
	case pv == 0:
		return Lose
	case playerNatural && !dealerNatural:
		return Blackjack
	case dealerNatural && !playerNatural:
		return Lose
	case pv > dv:
		return Win
	case pv < dv:
		return Lose
	default:
		return Push
	}
}
