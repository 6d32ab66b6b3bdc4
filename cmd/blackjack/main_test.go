package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/tui"
)

func TestCheckpointHands(t *testing.T) {
	assert.Equal(t, []int{1, 3, 5, 7, 9}, checkpointHands(10, 5))
	assert.Equal(t, []int{0, 1, 2}, checkpointHands(3, 10))
	assert.Equal(t, []int{99}, checkpointHands(100, 1))
}

func TestSimulateApply(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := SimulateCmd{Trials: 3, Hands: 40, Strategy: "threshold", BaseWager: 100, Output: "out.csv", Percentiles: true}
	cmd.apply(cfg)

	assert.Equal(t, 3, cfg.Simulation.Trials)
	assert.Equal(t, 40, cfg.Simulation.Hands)
	assert.Equal(t, "threshold", cfg.Simulation.Strategy)
	assert.Equal(t, 100.0, cfg.Simulation.BaseWager)
	assert.Equal(t, 100.0, cfg.Simulation.MaxWager, "max wager follows a larger base")
	assert.Equal(t, "out.csv", cfg.Simulation.Output)
	assert.True(t, cfg.Simulation.Percentiles)
	assert.Equal(t, config.DefaultConfig().Table, cfg.Table, "unset flags keep file values")
	assert.NoError(t, cfg.Validate())
}

func TestSimulateApplySingleDeck(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := SimulateCmd{Decks: 1, Trials: 2, Hands: 50}
	cmd.apply(cfg)
	require.NoError(t, cfg.Validate())

	sim := cfg.SimulatorConfig(log.NewWithOptions(io.Discard, log.Options{}))
	sim.ProgressInterval = 0
	result, err := simulator.New(sim).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Config.Decks)
	assert.Len(t, result.Trials[1].Balances, 50)
}

func TestPlayApply(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := PlayCmd{Name: "Sam", Balance: 500, Pace: 250 * time.Millisecond}
	cmd.apply(cfg)

	assert.Equal(t, "Sam", cfg.Play.Name)
	assert.Equal(t, 500.0, cfg.Table.StartingBalance)
	pace, err := cfg.PlayPace()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, pace)
}

func TestRenderReport(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	cfg := simulator.DefaultConfig()
	cfg.Trials = 2
	cfg.Hands = 100
	cfg.Decks = 2
	cfg.ProgressInterval = 0
	cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})

	result, err := simulator.New(cfg).Run(context.Background())
	require.NoError(t, err)

	report := renderReport(result, 4)
	assert.Contains(t, report, "Blackjack simulation")
	assert.Contains(t, report, "2 × 100 hands")
	assert.Contains(t, report, "basic, flat wagering")
	assert.Contains(t, report, "blackjack")
	assert.Contains(t, report, "Balance across trials")
	for _, hand := range []string{"25", "50", "75", "100"} {
		assert.Contains(t, report, hand)
	}

	assert.NotContains(t, renderReport(result, 0), "Balance across trials")
	assert.NotContains(t, report, "Median net", "percentiles are opt in")

	cfg.Percentiles = true
	result, err = simulator.New(cfg).Run(context.Background())
	require.NoError(t, err)
	report = renderReport(result, 4)
	assert.Contains(t, report, "Median net")
	assert.Contains(t, report, "5th/95th pct")
}

func TestPlaySessionStopsOnQuit(t *testing.T) {
	quit := game.PolicyFunc(func(context.Context, game.TurnState) (game.Decision, error) {
		return game.Decision{}, tui.ErrQuit
	})
	player := game.NewActor("Player", 0, quit, game.FixedWager(1))
	table := game.NewTestTable(
		game.WithStackedCards("Tc 6d 2h 9s 5c 3d"),
		game.WithSeats(player),
	)

	err := playSession(context.Background(), table, log.NewWithOptions(io.Discard, log.Options{}))
	assert.NoError(t, err)
	assert.Equal(t, 1, table.Round())
	assert.Zero(t, player.Balance, "an abandoned round settles nothing")
}

func TestPlaySessionReturnsEngineErrors(t *testing.T) {
	player := game.NewActor("Player", 0, &game.ScriptedPolicy{}, game.FixedWager(1))
	// One card short of a deal
	table := game.NewTestTable(
		game.WithStackedCards("Tc 6d 2h"),
		game.WithSeats(player),
	)

	err := playSession(context.Background(), table, log.NewWithOptions(io.Discard, log.Options{}))
	assert.Error(t, err)
}
