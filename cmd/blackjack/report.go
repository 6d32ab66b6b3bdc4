package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/simulator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(18)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	if v < 0 {
		return negativeStyle.Render(s)
	}
	return positiveStyle.Render(s)
}

// renderReport summarises a finished run: per hand statistics, outcome mix
// and the balance band at evenly spaced hands.
func renderReport(r *simulator.Result, checkpoints int) string {
	var b strings.Builder
	cfg := r.Config
	stats := r.Stats

	b.WriteString(titleStyle.Render(" ♠ ♥ Blackjack simulation ♦ ♣ "))
	b.WriteString("\n\n")

	b.WriteString(row("Trials", fmt.Sprintf("%d × %d hands", cfg.Trials, cfg.Hands)))
	b.WriteString(row("Shoe", fmt.Sprintf("%d decks", cfg.Decks)))
	b.WriteString(row("Strategy", fmt.Sprintf("%s, %s wagering", cfg.Strategy, cfg.Wagering)))
	b.WriteString(row("Seed", fmt.Sprintf("%d", cfg.Seed)))
	b.WriteString(row("Elapsed", r.Elapsed.Round(time.Millisecond).String()))

	b.WriteString(sectionStyle.Render("Per hand"))
	b.WriteString("\n")
	low, high := stats.ConfidenceInterval95()
	b.WriteString(row("Hands settled", fmt.Sprintf("%d", stats.Hands)))
	b.WriteString(row("Mean net", signed(stats.Mean(), "%+.4f")))
	b.WriteString(row("95% CI", fmt.Sprintf("[%+.4f, %+.4f]", low, high)))
	b.WriteString(row("Std dev", fmt.Sprintf("%.4f", stats.StdDev())))
	b.WriteString(row("Return", signed(stats.Return()*100, "%+.3f%%")))
	b.WriteString(row("Largest wager", fmt.Sprintf("%g", stats.MaxWager)))
	if stats.TrackValues {
		b.WriteString(row("Median net", fmt.Sprintf("%+g", stats.Median())))
		b.WriteString(row("5th/95th pct", fmt.Sprintf("%+g / %+g", stats.Percentile(0.05), stats.Percentile(0.95))))
	}

	b.WriteString(sectionStyle.Render("Outcomes"))
	b.WriteString("\n")
	for _, o := range []game.Outcome{game.Blackjack, game.Win, game.Push, game.Lose} {
		n := stats.Count(o)
		b.WriteString(row(o.String(), fmt.Sprintf("%8d  %5.2f%%", n, percent(n, stats.Hands))))
	}
	b.WriteString(row("split hands", fmt.Sprintf("%8d  net %s", stats.Splits, signed(stats.SplitNet, "%+.1f"))))
	b.WriteString(row("doubles", fmt.Sprintf("%8d  net %s", stats.Doubles, signed(stats.DoubleNet, "%+.1f"))))

	bands := r.Bands()
	if len(bands) == 0 || checkpoints <= 0 {
		return b.String()
	}

	b.WriteString(sectionStyle.Render("Balance across trials"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("hand"))
	b.WriteString(fmt.Sprintf("%12s %12s %12s\n", "mean", "lower", "upper"))
	for _, j := range checkpointHands(len(bands), checkpoints) {
		band := bands[j]
		b.WriteString(labelStyle.Render(fmt.Sprintf("%d", j+1)))
		b.WriteString(fmt.Sprintf("%12.2f %12.2f %12.2f\n", band.Mean, band.Lower, band.Upper))
	}
	return b.String()
}

// checkpointHands picks up to n evenly spaced indexes ending at the last hand.
func checkpointHands(hands, n int) []int {
	n = min(n, hands)
	idx := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		idx = append(idx, hands*i/n-1)
	}
	return idx
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
