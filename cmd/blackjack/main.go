package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"${config_file}" env:"BLACKJACK_CONFIG" type:"path" help:"HCL configuration file"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" env:"BLACKJACK_LOG_LEVEL" help:"Log level (${enum})"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colour output"`
}

type CLI struct {
	Globals

	Simulate SimulateCmd `cmd:"" help:"Run a Monte Carlo simulation of many trials"`
	Play     PlayCmd     `cmd:"" help:"Play interactively against the dealer"`
	Version  VersionCmd  `cmd:"" help:"Show version"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single table blackjack with basic strategy, Hi-Lo betting and a Monte Carlo harness"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the configuration file, falling back to defaults when it
// does not exist.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	return cfg, nil
}

func (g *Globals) newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
	}), nil
}

type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Fprintln(os.Stdout, "blackjack", version)
	return nil
}
