package knapsack

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses a two-column cost,weight table into a Problem with the
// given capacity. A non-numeric first record is treated as a header and
// skipped. This is a thin adapter for the demo harness; any tabular
// source supplying the same three values works equally well.
func ReadCSV(r io.Reader, capacity int) (Problem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	p := Problem{Capacity: capacity}
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Problem{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if len(rec) != 2 {
			return Problem{}, fmt.Errorf("%w: expected 2 columns, got %d", ErrInvalidInput, len(rec))
		}

		cost, costErr := strconv.ParseFloat(rec[0], 64)
		weight, weightErr := strconv.Atoi(rec[1])
		if costErr != nil || weightErr != nil {
			if first {
				// Header row.
				first = false
				continue
			}
			return Problem{}, fmt.Errorf("%w: non-numeric record %v", ErrInvalidInput, rec)
		}
		first = false
		p.Costs = append(p.Costs, cost)
		p.Weights = append(p.Weights, weight)
	}

	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

// LoadCSV reads a problem from a CSV file on disk.
func LoadCSV(path string, capacity int) (Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return Problem{}, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, capacity)
}
