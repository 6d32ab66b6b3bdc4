// Package config loads the blackjack HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/simulator"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration file
type Config struct {
	Table      *TableSettings      `hcl:"table,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Play       *PlaySettings       `hcl:"play,block"`
}

// TableSettings describes the shoe and bankroll shared by both modes
type TableSettings struct {
	Decks           int     `hcl:"decks,optional"`
	CutJitter       *int    `hcl:"cut_jitter,optional"` // nil takes shoe.DefaultCutJitter, 0 is kept
	StartingBalance float64 `hcl:"starting_balance,optional"`
}

// Jitter returns the cut card jitter, the shoe default when unset. The shoe
// clamps the cut position, so any non-negative value works for any deck count.
func (t *TableSettings) Jitter() int {
	if t.CutJitter == nil {
		return shoe.DefaultCutJitter
	}
	return *t.CutJitter
}

func intPtr(v int) *int {
	return &v
}

// SimulationSettings configures the Monte Carlo harness
type SimulationSettings struct {
	Trials      int     `hcl:"trials,optional"`
	Hands       int     `hcl:"hands,optional"`
	Strategy    string  `hcl:"strategy,optional"`
	Wagering    string  `hcl:"wagering,optional"`
	BaseWager   float64 `hcl:"base_wager,optional"`
	MaxWager    float64 `hcl:"max_wager,optional"`
	Seed        int64   `hcl:"seed,optional"`
	Workers     int     `hcl:"workers,optional"`
	Output      string  `hcl:"output,optional"` // CSV path, empty skips the export
	Percentiles bool    `hcl:"percentiles,optional"`
}

// PlaySettings configures an interactive session
type PlaySettings struct {
	Name  string  `hcl:"name,optional"`
	Wager float64 `hcl:"wager,optional"` // initial wager offered at the prompt
	Pace  string  `hcl:"pace,optional"`  // delay between dealer cards, e.g. "600ms"
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Table:      defaultTable(),
		Simulation: defaultSimulation(),
		Play:       defaultPlay(),
	}
}

func defaultTable() *TableSettings {
	return &TableSettings{
		Decks:           8,
		CutJitter:       intPtr(shoe.DefaultCutJitter),
		StartingBalance: 0,
	}
}

func defaultSimulation() *SimulationSettings {
	sim := simulator.DefaultConfig()
	return &SimulationSettings{
		Trials:    sim.Trials,
		Hands:     sim.Hands,
		Strategy:  sim.Strategy,
		Wagering:  sim.Wagering,
		BaseWager: sim.BaseWager,
		MaxWager:  sim.MaxWager,
		Seed:      sim.Seed,
	}
}

func defaultPlay() *PlaySettings {
	return &PlaySettings{
		Name:  "Player",
		Wager: 10,
		Pace:  "600ms",
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults; attributes left out of a present file take their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.CutJitter == nil {
		c.Table.CutJitter = def.Table.CutJitter
	}

	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}
	sim := c.Simulation
	if sim.Trials == 0 {
		sim.Trials = def.Simulation.Trials
	}
	if sim.Hands == 0 {
		sim.Hands = def.Simulation.Hands
	}
	if sim.Strategy == "" {
		sim.Strategy = def.Simulation.Strategy
	}
	if sim.Wagering == "" {
		sim.Wagering = def.Simulation.Wagering
	}
	if sim.BaseWager == 0 {
		sim.BaseWager = def.Simulation.BaseWager
	}
	if sim.MaxWager == 0 {
		sim.MaxWager = max(def.Simulation.MaxWager, sim.BaseWager)
	}
	if sim.Seed == 0 {
		sim.Seed = def.Simulation.Seed
	}

	if c.Play == nil {
		c.Play = def.Play
	}
	if c.Play.Name == "" {
		c.Play.Name = def.Play.Name
	}
	if c.Play.Wager == 0 {
		c.Play.Wager = def.Play.Wager
	}
	if c.Play.Pace == "" {
		c.Play.Pace = def.Play.Pace
	}
}

var (
	validStrategies = []string{bot.StrategyBasic, bot.StrategyThreshold}
	validWagering   = []string{bot.WageringFlat, bot.WageringHiLo}
)

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.Table.Decks < 1 {
		errs = append(errs, fmt.Errorf("table: decks must be positive, got %d", c.Table.Decks))
	}
	if jitter := c.Table.Jitter(); jitter < 0 {
		errs = append(errs, fmt.Errorf("table: cut_jitter must not be negative, got %d", jitter))
	}

	sim := c.Simulation
	if sim.Trials < 1 {
		errs = append(errs, fmt.Errorf("simulation: trials must be positive, got %d", sim.Trials))
	}
	if sim.Hands < 1 {
		errs = append(errs, fmt.Errorf("simulation: hands must be positive, got %d", sim.Hands))
	}
	if !slices.Contains(validStrategies, strings.ToLower(sim.Strategy)) {
		errs = append(errs, fmt.Errorf("simulation: invalid strategy %s", sim.Strategy))
	}
	if !slices.Contains(validWagering, strings.ToLower(sim.Wagering)) {
		errs = append(errs, fmt.Errorf("simulation: invalid wagering %s", sim.Wagering))
	}
	if sim.BaseWager <= 0 {
		errs = append(errs, fmt.Errorf("simulation: base_wager must be positive"))
	}
	if sim.MaxWager < sim.BaseWager {
		errs = append(errs, fmt.Errorf("simulation: max_wager must be at least base_wager"))
	}
	if sim.Workers < 0 {
		errs = append(errs, fmt.Errorf("simulation: workers must not be negative"))
	}

	if c.Play.Wager <= 0 {
		errs = append(errs, fmt.Errorf("play: wager must be positive"))
	}
	if _, err := c.PlayPace(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PlayPace returns the parsed dealer pacing for interactive play.
func (c *Config) PlayPace() (time.Duration, error) {
	d, err := time.ParseDuration(c.Play.Pace)
	if err != nil {
		return 0, fmt.Errorf("play: invalid pace %q: %w", c.Play.Pace, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("play: pace must not be negative")
	}
	return d, nil
}

// SimulatorConfig builds the harness configuration from the file settings.
func (c *Config) SimulatorConfig(logger *log.Logger) simulator.Config {
	cfg := simulator.DefaultConfig()
	cfg.Trials = c.Simulation.Trials
	cfg.Hands = c.Simulation.Hands
	cfg.Decks = c.Table.Decks
	cfg.CutJitter = c.Table.Jitter()
	cfg.StartingBalance = c.Table.StartingBalance
	cfg.Strategy = strings.ToLower(c.Simulation.Strategy)
	cfg.Wagering = strings.ToLower(c.Simulation.Wagering)
	cfg.BaseWager = c.Simulation.BaseWager
	cfg.MaxWager = c.Simulation.MaxWager
	cfg.Seed = c.Simulation.Seed
	cfg.Workers = c.Simulation.Workers
	cfg.Percentiles = c.Simulation.Percentiles
	cfg.Logger = logger
	return cfg
}
