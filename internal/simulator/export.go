package simulator

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/lox/blackjack/internal/fileutil"
)

// WriteCSV exports the balance series to path. Each row is one hand: the hand
// number, the mean and 95% band across trials, then every trial's balance.
func WriteCSV(path string, r *Result) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeCSV(w, r)
	})
}

// EncodeCSV writes the balance series as CSV.
func EncodeCSV(w io.Writer, r *Result) error {
	cw := csv.NewWriter(w)

	header := []string{"hand", "mean", "lower", "upper"}
	for _, t := range r.Trials {
		header = append(header, fmt.Sprintf("trial_%d", t.Trial))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for j, band := range r.Bands() {
		row[0] = strconv.Itoa(j + 1)
		row[1] = formatFloat(band.Mean)
		row[2] = formatFloat(band.Lower)
		row[3] = formatFloat(band.Upper)
		for i, t := range r.Trials {
			row[4+i] = formatFloat(t.Balances[j])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
