// Package game implements the blackjack table: actors, hands in play, the
// round state machine and settlement.
//
// The main type is Table, which owns the shoe, the dealer, the seated players
// and the cards-showing view that counting policies observe.
//
// # Basic Usage
//
// Seat a player against the dealer and play rounds until done:
//
//	s := shoe.New(8, randutil.New(42))
//	dealer := game.NewDealer(bot.NewDealer(logger))
//	player := game.NewActor("Alice", 1000, bot.NewBasicStrategy(logger), bot.Flat{Unit: 10})
//	t := game.NewTable(s, dealer, []*game.Actor{player}, logger)
//	results, err := t.PlayRound(ctx)
//
// # Deterministic Testing
//
// A stacked shoe deals cards in a fixed order. Players receive their cards
// before the dealer on each of the two passes:
//
//	s := shoe.NewStacked(deck.MustParseCards("Tc 6d Ah 9s 5c"))
//	// player: 10♣ A♥, dealer: 6♦ 9♠, dealer hits 5♣
//
// # Architecture
//
// Round drives one deal-to-settlement cycle:
//   - Wagerer: each player's wager policy sizes the bet before the deal
//   - Policy: each actor's decision policy is polled until its status is terminal
//   - Actor: applies hit, stand, double and split and tracks split sub-hands
//   - EventBus: receives a Snapshot after every state transition
//
// The engine never renders anything itself; presenters subscribe to events.
package game
