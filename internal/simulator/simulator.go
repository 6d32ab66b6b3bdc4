// Package simulator runs many independent blackjack trials in parallel and
// records the player's balance after every hand of each trial.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Trials          int
	Hands           int // hands per trial
	Decks           int
	Strategy        string // bot.StrategyBasic or bot.StrategyThreshold
	Wagering        string // bot.WageringFlat or bot.WageringHiLo
	BaseWager       float64
	MaxWager        float64
	StartingBalance float64
	Seed            int64
	Workers         int // 0 uses every CPU
	CutJitter       int

	// Percentiles keeps every hand's net so the merged statistics can report
	// Median and Percentile. Memory grows with Trials × Hands.
	Percentiles bool

	// ProgressInterval logs completed trials this often. Zero disables it.
	ProgressInterval time.Duration

	Logger *log.Logger
	Clock  quartz.Clock
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Trials:           8,
		Hands:            10000,
		Decks:            8,
		Strategy:         bot.StrategyBasic,
		Wagering:         bot.WageringFlat,
		BaseWager:        1,
		MaxWager:         bot.DefaultMaxWager,
		StartingBalance:  0,
		Seed:             1,
		CutJitter:        shoe.DefaultCutJitter,
		ProgressInterval: 5 * time.Second,
	}
}

// Validate checks the configuration before any trial starts.
func (c Config) Validate() error {
	var errs []error
	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be positive, got %d", c.Trials))
	}
	if c.Hands <= 0 {
		errs = append(errs, fmt.Errorf("hands must be positive, got %d", c.Hands))
	}
	if c.Decks <= 0 {
		errs = append(errs, fmt.Errorf("decks must be positive, got %d", c.Decks))
	}
	if !(c.BaseWager > 0) {
		errs = append(errs, fmt.Errorf("base wager must be positive, got %v", c.BaseWager))
	}
	if c.MaxWager < c.BaseWager {
		errs = append(errs, fmt.Errorf("max wager %v is below base wager %v", c.MaxWager, c.BaseWager))
	}
	if c.CutJitter < 0 {
		errs = append(errs, fmt.Errorf("cut jitter must not be negative, got %d", c.CutJitter))
	}
	quiet := log.NewWithOptions(io.Discard, log.Options{})
	if _, err := bot.NewPolicy(c.Strategy, quiet); err != nil {
		errs = append(errs, err)
	}
	if _, err := bot.NewWagerer(c.Wagering, c.BaseWager, c.MaxWager, quiet); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TrialResult is one trial's balance after each hand
type TrialResult struct {
	Trial    int
	Seed     int64
	Balances []float64 // Balances[j] is the balance after hand j
	Stats    *statistics.Statistics
}

// Result holds every trial in trial order
type Result struct {
	Config  Config
	Trials  []TrialResult
	Stats   *statistics.Statistics // all trials merged
	Elapsed time.Duration
}

// Series returns the balance series of every trial.
func (r *Result) Series() [][]float64 {
	series := make([][]float64, len(r.Trials))
	for i, t := range r.Trials {
		series[i] = t.Balances
	}
	return series
}

// Bands returns the mean balance and 95% band across trials after each hand.
func (r *Result) Bands() []statistics.Band {
	return statistics.Bands(r.Series())
}

// Simulator runs blackjack trials
type Simulator struct {
	config    Config
	newPolicy func(name string, logger *log.Logger) (game.Policy, error)
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &Simulator{config: config, newPolicy: bot.NewPolicy}
}

// Run executes every trial and returns the results. Trials share nothing and
// each draws from its own seed, so results do not depend on Workers. The
// first error cancels the remaining trials.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	logger := cfg.Logger.WithPrefix("simulator")
	start := cfg.Clock.Now()

	logger.Info("Starting simulation",
		"trials", cfg.Trials,
		"hands", cfg.Hands,
		"decks", cfg.Decks,
		"strategy", cfg.Strategy,
		"wagering", cfg.Wagering,
		"workers", cfg.Workers,
		"seed", cfg.Seed)

	trials := make([]TrialResult, cfg.Trials)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	if cfg.ProgressInterval > 0 {
		pctx, stop := context.WithCancel(gctx)
		defer stop()
		cfg.Clock.TickerFunc(pctx, cfg.ProgressInterval, func() error {
			logger.Info("Progress", "trials", done.Load(), "of", cfg.Trials)
			return nil
		}, "simulator", "progress")
	}

	for i := range cfg.Trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr, err := s.runTrial(gctx, i)
			if err != nil {
				return fmt.Errorf("trial %d (seed %d): %w", i, tr.Seed, err)
			}
			trials[i] = tr
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Simulation aborted", "error", err)
		return nil, err
	}

	stats := &statistics.Statistics{TrackValues: cfg.Percentiles}
	for _, tr := range trials {
		stats.Merge(tr.Stats)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	result := &Result{
		Config:  cfg,
		Trials:  trials,
		Stats:   stats,
		Elapsed: cfg.Clock.Since(start),
	}
	logger.Info("Simulation complete", "hands", stats.Hands, "mean", stats.Mean(), "elapsed", result.Elapsed)
	return result, nil
}

// runTrial plays one trial on its own shoe, dealer and player.
func (s *Simulator) runTrial(ctx context.Context, trial int) (TrialResult, error) {
	cfg := s.config
	seed := randutil.Derive(cfg.Seed, trial)
	tr := TrialResult{Trial: trial, Seed: seed}
	logger := cfg.Logger.With("trial", trial)

	policy, err := s.newPolicy(cfg.Strategy, logger)
	if err != nil {
		return tr, err
	}
	wagerer, err := bot.NewWagerer(cfg.Wagering, cfg.BaseWager, cfg.MaxWager, logger)
	if err != nil {
		return tr, err
	}

	sh := shoe.New(cfg.Decks, randutil.New(seed), shoe.WithCutJitter(cfg.CutJitter))
	player := game.NewActor("Player", cfg.StartingBalance, policy, wagerer)
	dealer := game.NewDealer(bot.NewDealer(logger))
	table := game.NewTable(sh, dealer, []*game.Actor{player}, logger)

	tr.Stats = &statistics.Statistics{TrackValues: cfg.Percentiles}
	tr.Balances = make([]float64, cfg.Hands)
	for j := range cfg.Hands {
		results, err := table.PlayRound(ctx)
		if err != nil {
			return tr, fmt.Errorf("hand %d: %w", j, err)
		}
		tr.Stats.AddAll(results)
		tr.Balances[j] = player.Balance
	}

	logger.Debug("Trial complete", "seed", seed, "balance", player.Balance, "reshuffles", sh.Reshuffles())
	return tr, nil
}
