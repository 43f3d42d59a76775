package domain

import (
	"math"

	m "mutest.dev/pkg/mutest/internal/model"
	pkg "mutest.dev/pkg/mutest/pkg"
)

// ScoreOptions tune the mutation score formula.
type ScoreOptions struct {
	// Precision is the number of decimal places kept; negative keeps all.
	Precision int
	// CountErrors adds Error results to the denominator.
	CountErrors bool
	// IncludeNotCovered adds NotCovered results to the denominator.
	IncludeNotCovered bool
}

// DefaultScoreOptions keeps four decimals and the plain Killed/(Killed+Escaped+Timeout) formula.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{Precision: 4}
}

// scoreCounter accumulates result counts.
type scoreCounter struct {
	score m.Score
}

func (c *scoreCounter) add(status m.Status) {
	c.score.Total++

	switch status {
	case m.Killed:
		c.score.Killed++
	case m.Escaped:
		c.score.Escaped++
	case m.Timeout:
		c.score.Timeout++
	case m.Error:
		c.score.Errors++
	case m.NotCovered:
		c.score.NotCovered++
	case m.Ignored, m.Pending, m.Running:
		// Never executed; excluded from every ratio.
		c.score.Ignored++
	}
}

func (c *scoreCounter) finish(opts ScoreOptions) m.Score {
	s := c.score

	denominator := s.Killed + s.Escaped + s.Timeout
	if opts.CountErrors {
		denominator += s.Errors
	}

	if opts.IncludeNotCovered {
		denominator += s.NotCovered
	}

	if denominator > 0 {
		s.Value = round(float64(s.Killed)/float64(denominator), opts.Precision)
		s.Defined = true
	}

	if considered := s.Total - s.Ignored; considered > 0 {
		s.CoveredRatio = round(float64(considered-s.NotCovered)/float64(considered), opts.Precision)
	}

	return s
}

// ComputeScore scores results. A zero denominator yields Score{Value: 0, Defined: false}.
func ComputeScore(results []m.Result, opts ScoreOptions) m.Score {
	var c scoreCounter
	for _, r := range results {
		c.add(r.Status)
	}

	return c.finish(opts)
}

// mutationScoreFromSpill scores results spilled to disk.
func mutationScoreFromSpill(results pkg.FileSpill[m.Result], opts ScoreOptions) (m.Score, error) {
	var c scoreCounter

	err := results.Range(func(_ uint64, result m.Result) error {
		c.add(result.Status)
		return nil
	})
	if err != nil {
		return m.Score{}, err
	}

	return c.finish(opts), nil
}

// MeetsMinimum reports whether score passes the min gate. An undefined score
// never fails the gate since nothing was executed.
func MeetsMinimum(score m.Score, minimum float64) bool {
	if minimum <= 0 || !score.Defined {
		return true
	}

	return score.Value >= minimum
}

func round(value float64, precision int) float64 {
	if precision < 0 {
		return value
	}

	factor := math.Pow(10, float64(precision))

	return math.Round(value*factor) / factor
}
