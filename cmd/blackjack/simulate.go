package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs the Monte Carlo harness. Flags left unset keep the values
// from the configuration file.
type SimulateCmd struct {
	Trials      int     `short:"n" env:"BLACKJACK_TRIALS" help:"Independent trials to run"`
	Hands       int     `env:"BLACKJACK_HANDS" help:"Hands played in each trial"`
	Decks       int     `env:"BLACKJACK_DECKS" help:"Decks in the shoe"`
	Strategy    string  `env:"BLACKJACK_STRATEGY" help:"Player strategy: basic or threshold"`
	Wagering    string  `env:"BLACKJACK_WAGERING" help:"Wager policy: flat or hilo"`
	BaseWager   float64 `help:"Betting unit"`
	MaxWager    float64 `help:"Largest Hi-Lo wager"`
	Seed        int64   `env:"BLACKJACK_SEED" help:"Base seed, each trial derives its own"`
	Workers     int     `short:"w" help:"Parallel workers (0 uses every CPU)"`
	Output      string  `short:"o" type:"path" help:"Write the balance series to this CSV file"`
	Percentiles bool    `help:"Report per hand median and percentiles (keeps every hand in memory)"`
	Checkpoints int     `default:"10" help:"Rows in the balance band table"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := g.newLogger(os.Stderr, "blackjack")
	if err != nil {
		return err
	}
	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	result, err := simulator.New(cfg.SimulatorConfig(logger)).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(renderReport(result, c.Checkpoints))

	if out := cfg.Simulation.Output; out != "" {
		if err := simulator.WriteCSV(out, result); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		logger.Info("Wrote balance series", "path", out, "trials", len(result.Trials))
	}
	return nil
}

// apply overrides file settings with flags that were given.
func (c *SimulateCmd) apply(cfg *config.Config) {
	if c.Trials != 0 {
		cfg.Simulation.Trials = c.Trials
	}
	if c.Hands != 0 {
		cfg.Simulation.Hands = c.Hands
	}
	if c.Decks != 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.Strategy != "" {
		cfg.Simulation.Strategy = c.Strategy
	}
	if c.Wagering != "" {
		cfg.Simulation.Wagering = c.Wagering
	}
	if c.BaseWager != 0 {
		cfg.Simulation.BaseWager = c.BaseWager
		cfg.Simulation.MaxWager = max(cfg.Simulation.MaxWager, c.BaseWager)
	}
	if c.MaxWager != 0 {
		cfg.Simulation.MaxWager = c.MaxWager
	}
	if c.Seed != 0 {
		cfg.Simulation.Seed = c.Seed
	}
	if c.Workers != 0 {
		cfg.Simulation.Workers = c.Workers
	}
	if c.Output != "" {
		cfg.Simulation.Output = c.Output
	}
	if c.Percentiles {
		cfg.Simulation.Percentiles = true
	}
}
