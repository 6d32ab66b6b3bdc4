package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd seats one person at the table against the dealer
type PlayCmd struct {
	Name    string        `env:"BLACKJACK_NAME" help:"Player name"`
	Balance float64       `help:"Starting balance"`
	Wager   float64       `help:"Wager offered at the first prompt"`
	Decks   int           `env:"BLACKJACK_DECKS" help:"Decks in the shoe"`
	Pace    time.Duration `help:"Delay between dealer cards"`
	Seed    int64         `help:"Shuffle seed (0 picks one from the clock)"`
	LogFile string        `default:"blackjack.log" type:"path" help:"Debug log file (the terminal is taken by the UI)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	pace, err := cfg.PlayPace()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close debug log", "error", err)
		}
	}()
	logger, err := g.newLogger(logFile, "play")
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting session", "player", cfg.Play.Name, "decks", cfg.Table.Decks, "seed", seed)

	bridge := tui.NewBridge(quartz.NewReal(), pace, logger)
	model := tui.NewTUIModel(bridge, cfg.Play.Name, logger)

	bus := game.NewEventBus()
	bus.Subscribe(bridge)

	player := game.NewActor(cfg.Play.Name, cfg.Table.StartingBalance,
		bot.NewHuman(bridge.Prompt, logger),
		bot.NewPromptWager(bridge.Prompt, cfg.Play.Wager, logger))
	sh := shoe.New(cfg.Table.Decks, randutil.New(seed), shoe.WithCutJitter(cfg.Table.Jitter()))
	table := game.NewTable(sh, game.NewDealer(bot.NewDealer(logger)), []*game.Actor{player}, logger,
		game.WithEventBus(bus))

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := playSession(ctx, table, logger)
		done <- err
		bridge.Finish(err)
	}()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		bridge.Quit()
		return fmt.Errorf("running UI: %w", err)
	}
	bridge.Quit()
	if err := <-done; err != nil {
		return err
	}

	fmt.Printf("%s leaves after %d rounds with %s\n",
		player.Name, table.Round(), signed(player.Balance-cfg.Table.StartingBalance, "%+.2f"))
	return nil
}

// playSession deals rounds until the player quits or the context ends.
func playSession(ctx context.Context, table *game.Table, logger *log.Logger) error {
	for {
		results, err := table.PlayRound(ctx)
		switch {
		case errors.Is(err, tui.ErrQuit), errors.Is(err, context.Canceled):
			logger.Info("Session ended", "rounds", table.Round())
			return nil
		case err != nil:
			logger.Error("Round aborted", "round", table.Round(), "error", err)
			return err
		}
		for _, r := range results {
			logger.Debug("Hand settled", "hand", r.Hand, "outcome", r.Outcome, "net", r.Net)
		}
	}
}

func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Name != "" {
		cfg.Play.Name = c.Name
	}
	if c.Balance != 0 {
		cfg.Table.StartingBalance = c.Balance
	}
	if c.Wager != 0 {
		cfg.Play.Wager = c.Wager
	}
	if c.Decks != 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.Pace != 0 {
		cfg.Play.Pace = c.Pace.String()
	}
}
