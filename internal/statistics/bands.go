package statistics

import "math"

// Band summarises the balances of every trial after the same hand.
type Band struct {
	Mean   float64
	StdDev float64 // population standard deviation across trials
	Lower  float64 // Mean - 1.96 × StdDev
	Upper  float64 // Mean + 1.96 × StdDev
}

// Bands computes one Band per hand index across balance series. Series of
// different lengths are cut to the shortest.
func Bands(series [][]float64) []Band {
	if len(series) == 0 {
		return nil
	}
	n := len(series[0])
	for _, s := range series[1:] {
		n = min(n, len(s))
	}

	bands := make([]Band, n)
	trials := float64(len(series))
	for j := range n {
		var sum, sum2 float64
		for _, s := range series {
			sum += s[j]
			sum2 += s[j] * s[j]
		}
		mean := sum / trials
		std := math.Sqrt(max(0, sum2/trials-mean*mean))
		bands[j] = Band{
			Mean:   mean,
			StdDev: std,
			Lower:  mean - 1.96*std,
			Upper:  mean + 1.96*std,
		}
	}
	return bands
}
