package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/game"
)

// ErrQuit is returned to the engine once the person has left the table.
var ErrQuit = errors.New("player quit")

// Messages delivered from the engine goroutine to the model
type (
	promptMsg struct{ text string }
	eventMsg  struct{ event game.GameEvent }
	doneMsg   struct{ err error }
)

// Bridge connects the engine goroutine to the Bubble Tea model. The engine
// side sees a bot.PromptFunc and a game.EventSubscriber; the model side reads
// messages and submits input lines.
type Bridge struct {
	msgs  chan tea.Msg
	input chan string
	quit  chan struct{}
	once  sync.Once

	clock  quartz.Clock
	pace   time.Duration
	logger *log.Logger
}

// NewBridge creates a bridge. pace delays each dealer card after the hole
// card is revealed so the draw is readable; zero disables pacing.
func NewBridge(clock quartz.Clock, pace time.Duration, logger *log.Logger) *Bridge {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Bridge{
		msgs:   make(chan tea.Msg, 16),
		input:  make(chan string, 1),
		quit:   make(chan struct{}),
		clock:  clock,
		pace:   pace,
		logger: logger.WithPrefix("bridge"),
	}
}

// Prompt shows msg and blocks until the person submits a line.
func (b *Bridge) Prompt(ctx context.Context, msg string) (string, error) {
	if err := b.send(ctx, promptMsg{text: msg}); err != nil {
		return "", err
	}
	select {
	case line := <-b.input:
		b.logger.Debug("Input received", "line", line)
		return line, nil
	case <-b.quit:
		return "", ErrQuit
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// OnEvent forwards a table event to the model, pausing before dealer play.
func (b *Bridge) OnEvent(event game.GameEvent) {
	if b.paced(event) {
		b.wait()
	}
	_ = b.send(context.Background(), eventMsg{event: event})
}

func (b *Bridge) paced(event game.GameEvent) bool {
	if b.pace <= 0 {
		return false
	}
	switch e := event.(type) {
	case game.DealerTurnEvent:
		return true
	case game.ActionEvent:
		return e.Actor == e.Snapshot.Dealer.Name && e.Action == game.Hit
	}
	return false
}

func (b *Bridge) wait() {
	t := b.clock.NewTimer(b.pace, "tui", "pace")
	defer t.Stop()
	select {
	case <-t.C:
	case <-b.quit:
	}
}

// Finish tells the model the engine has stopped.
func (b *Bridge) Finish(err error) {
	_ = b.send(context.Background(), doneMsg{err: err})
}

// Submit delivers a line typed by the person. It reports false when an
// earlier line has not been read yet.
func (b *Bridge) Submit(line string) bool {
	select {
	case b.input <- line:
		return true
	default:
		return false
	}
}

// Quit releases an engine blocked on a prompt or pacing.
func (b *Bridge) Quit() {
	b.once.Do(func() { close(b.quit) })
}

func (b *Bridge) send(ctx context.Context, msg tea.Msg) error {
	select {
	case b.msgs <- msg:
		return nil
	case <-b.quit:
		return ErrQuit
	case <-ctx.Done():
		return ctx.Err()
	}
}

// listen returns a command that waits for the next engine message.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.msgs:
			return msg
		case <-b.quit:
			return nil
		}
	}
}
