package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// OutcomeStats tracks the hands that settled one way
type OutcomeStats struct {
	Hands int
	Net   float64
}

// Statistics tracks per-hand blackjack results. Every settled hand counts
// once, so a split round adds two hands.
type Statistics struct {
	Hands   int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // every hand's net, only filled when TrackValues is set

	// TrackValues keeps each net in Values for Median and Percentile. Memory
	// grows with every hand, so large runs leave it off.
	TrackValues bool

	Wagered  float64 // Total staked, doubles included
	MaxWager float64

	// Outcome analytics, indexed by game.Outcome
	Outcomes [4]OutcomeStats
	AllNet   float64 // Total net for sanity check

	Splits    int // Hands played after a split
	SplitNet  float64
	Doubles   int
	DoubleNet float64
}

// Mean returns the arithmetic mean net result per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumNet / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Return is the net result per unit staked, the house edge when negative.
func (s *Statistics) Return() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / s.Wagered
}

// Count returns how many hands settled with outcome o.
func (s *Statistics) Count(o game.Outcome) int {
	if o < 0 || int(o) >= len(s.Outcomes) {
		return 0
	}
	return s.Outcomes[o].Hands
}

// Add incorporates a settled hand into the statistics
func (s *Statistics) Add(r game.HandResult) {
	net := r.Net
	s.Hands++
	s.SumNet += net
	s.SumNet2 += net * net
	if s.TrackValues {
		s.Values = append(s.Values, net)
	}
	s.AllNet += net

	s.Wagered += r.Wager
	s.MaxWager = max(s.MaxWager, r.Wager)

	if r.Outcome >= 0 && int(r.Outcome) < len(s.Outcomes) {
		s.Outcomes[r.Outcome].Hands++
		s.Outcomes[r.Outcome].Net += net
	}

	if r.Split {
		s.Splits++
		s.SplitNet += net
	}
	if r.Doubled {
		s.Doubles++
		s.DoubleNet += net
	}
}

// AddAll adds every result of a round.
func (s *Statistics) AddAll(results []game.HandResult) {
	for _, r := range results {
		s.Add(r)
	}
}

// Merge folds other into s. Merging trials in a fixed order gives identical
// totals however the trials were scheduled.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	s.Hands += other.Hands
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	if s.TrackValues {
		s.Values = append(s.Values, other.Values...)
	}
	s.Wagered += other.Wagered
	s.MaxWager = max(s.MaxWager, other.MaxWager)
	for i := range s.Outcomes {
		s.Outcomes[i].Hands += other.Outcomes[i].Hands
		s.Outcomes[i].Net += other.Outcomes[i].Net
	}
	s.AllNet += other.AllNet
	s.Splits += other.Splits
	s.SplitNet += other.SplitNet
	s.Doubles += other.Doubles
	s.DoubleNet += other.DoubleNet
}

// Median returns the median value of all results. It is zero unless
// TrackValues was set.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the outcome buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	sum := 0.0
	for _, o := range s.Outcomes {
		sum += o.Net
	}
	return math.Abs(s.AllNet-sum) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f does not match outcome totals", s.AllNet)
	}

	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}

	if s.TrackValues && len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}

	total := 0
	for _, o := range s.Outcomes {
		total += o.Hands
	}
	if total != s.Hands {
		return fmt.Errorf("outcome hands total (%d) does not match total hands (%d)", total, s.Hands)
	}

	if s.Splits > s.Hands || s.Doubles > s.Hands {
		return fmt.Errorf("splits (%d) or doubles (%d) exceed total hands (%d)", s.Splits, s.Doubles, s.Hands)
	}

	if s.Outcomes[game.Push].Net != 0 {
		return fmt.Errorf("pushes moved %.6f", s.Outcomes[game.Push].Net)
	}

	return nil
}
