package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func typeLine(m *TUIModel, line string) {
	m.input.SetValue(line)
	m.Update(enter)
}

func logText(m *TUIModel) string {
	return strings.Join(m.Log(), "\n")
}

func TestTUIPlaysRound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := quietLogger()
	b := NewBridge(quartz.NewMock(t), 0, logger)
	m := NewTUIModel(b, "Player", logger)

	bus := game.NewEventBus()
	bus.Subscribe(b)
	player := game.NewActor("Player", 100,
		bot.NewHuman(b.Prompt, logger),
		bot.NewPromptWager(b.Prompt, 10, logger))
	table := game.NewTestTable(
		game.WithStackedCards("Tc 6d 2h 9s 5c 3d"),
		game.WithSeats(player),
		game.WithTableOptions(game.WithEventBus(bus)),
	)

	go func() {
		_, err := table.PlayRound(ctx)
		b.Finish(err)
	}()

	// blank wager keeps the default, bad command, hit to 17, stand
	answers := []string{"", "x", "h", "s"}
	var prompts []string
	for !m.quitting {
		msg := receive(t, b)
		m.Update(msg)
		if p, ok := msg.(promptMsg); ok {
			prompts = append(prompts, p.text)
			require.NotEmpty(t, answers, "unexpected prompt %q", p.text)
			typeLine(m, answers[0])
			answers = answers[1:]
		}
	}

	require.NoError(t, m.Err())
	assert.Empty(t, answers)
	require.Len(t, prompts, 4)
	assert.Contains(t, prompts[0], "Wager [10.00]")
	assert.Contains(t, prompts[2], "invalid command")
	assert.Contains(t, prompts[2], "(d)ouble", "two cards can still double")
	assert.NotContains(t, prompts[3], "(d)ouble")

	text := logText(m)
	assert.Contains(t, text, "Round 1")
	assert.Contains(t, text, "Player wagers $10")
	assert.Contains(t, text, "Dealer shows [6♦ ??]")
	assert.Contains(t, text, "Dealt to Player: [10♣ 2♥] 12")
	assert.Contains(t, text, "Player hits: [10♣ 2♥ 5♣] 17")
	assert.Contains(t, text, "Dealer reveals [6♦ 9♠] 15")
	assert.Contains(t, text, "Dealer hits: [6♦ 9♠ 3♦] 18")
	assert.Contains(t, text, "LOSE -$10")
	assert.Contains(t, text, "Balance $90")
	assert.Equal(t, 90.0, player.Balance)
}

func TestTUIQuitStopsEngine(t *testing.T) {
	logger := quietLogger()
	b := NewBridge(quartz.NewMock(t), 0, logger)
	m := NewTUIModel(b, "Player", logger)

	errs := make(chan error, 1)
	go func() {
		_, err := b.Prompt(context.Background(), "Wager:")
		errs <- err
	}()
	m.Update(receive(t, b))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, <-errs, ErrQuit)
	assert.Empty(t, m.View())
}

func TestTUIQuitCommand(t *testing.T) {
	b := NewBridge(quartz.NewMock(t), 0, quietLogger())
	m := NewTUIModel(b, "Player", quietLogger())

	m.input.SetValue("quit")
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	_, err := b.Prompt(context.Background(), "Wager:")
	assert.ErrorIs(t, err, ErrQuit)
}

func TestTUIIgnoresInputWithoutPrompt(t *testing.T) {
	b := NewBridge(quartz.NewMock(t), 0, quietLogger())
	m := NewTUIModel(b, "Player", quietLogger())

	typeLine(m, "h")
	assert.Empty(t, m.Log())
	assert.True(t, b.Submit("s"), "nothing was queued for the engine")
}

func TestTUIView(t *testing.T) {
	b := NewBridge(quartz.NewMock(t), 0, quietLogger())
	m := NewTUIModel(b, "Player", quietLogger())
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(eventMsg{event: game.DealEvent{Snapshot: game.Snapshot{
		Round:    2,
		HoleDown: true,
		Dealer:   game.ActorView{Name: "Dealer", Hand: deck.MustParseCards("Kd")},
		Players: []game.ActorView{{
			Name:       "Player",
			Hand:       deck.MustParseCards("8s 3c"),
			SplitHand:  deck.MustParseCards("8h Td"),
			Wager:      10,
			SplitWager: 10,
			Balance:    -20,
			Status:     game.StatusSplit2,
		}},
	}}})
	m.Update(promptMsg{text: "(h)it, (s)tand:"})

	view := m.View()
	assert.Contains(t, view, "Round 2")
	assert.Contains(t, view, "[K♦ ??]")
	assert.Contains(t, view, "[8♠ 3♣] 11")
	assert.Contains(t, view, "[8♥ 10♦] 18")
	assert.Contains(t, view, "SPLIT_2")
	assert.Contains(t, view, "$10 + $10")
	assert.Contains(t, view, "Balance -$20")
	assert.Contains(t, view, "(h)it, (s)tand:")
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		result game.HandResult
		want   string
	}{
		{game.HandResult{Hand: deck.MustParseCards("As Kd"), Outcome: game.Blackjack, Net: 15}, "[A♠ K♦] BLACKJACK +$15"},
		{game.HandResult{Hand: deck.MustParseCards("Ts 8d"), Outcome: game.Push}, "[10♠ 8♦] PUSH $0"},
		{game.HandResult{Hand: deck.MustParseCards("Ts 6d Kc"), Outcome: game.Lose, Net: -20}, "[10♠ 6♦ K♣] LOSE -$20"},
		{game.HandResult{Hand: deck.MustParseCards("9s 9d"), Outcome: game.Win, Net: 2.5}, "[9♠ 9♦] WIN +$2.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatResult(tt.result))
	}
}

func TestHandWithTotal(t *testing.T) {
	assert.Equal(t, "[]", handWithTotal(nil))
	assert.Equal(t, "[A♥ K♣] blackjack", handWithTotal(deck.MustParseCards("Ah Kc")))
	assert.Equal(t, "[K♥ Q♣ 5♦] bust", handWithTotal(deck.MustParseCards("Kh Qc 5d")))
	assert.Equal(t, "[A♥ A♣ 9♦] 21", handWithTotal(deck.MustParseCards("Ah Ac 9d")))
}
