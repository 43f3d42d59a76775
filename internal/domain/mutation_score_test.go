package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutest.dev/pkg/mutest/internal/model"
	mutestpkg "mutest.dev/pkg/mutest/pkg"
)

type errSpill[T any] struct {
	err error
}

func (e errSpill[T]) Len() uint64                                    { return 0 }
func (e errSpill[T]) Path() string                                   { return "" }
func (e errSpill[T]) Append(_ T) error                               { return nil }
func (e errSpill[T]) AppendBatch(_ []T) error                        { return nil }
func (e errSpill[T]) Get(_ uint64) (T, error)                        { var zero T; return zero, errors.New("not implemented") }
func (e errSpill[T]) Range(_ func(index uint64, item T) error) error { return e.err }
func (e errSpill[T]) Close() error                                   { return nil }
func (e errSpill[T]) Remove() error                                  { return nil }

func results(statuses ...m.Status) []m.Result {
	out := make([]m.Result, 0, len(statuses))
	for i, status := range statuses {
		out = append(out, m.Result{SiteID: string(rune('a' + i)), Status: status})
	}

	return out
}

func TestComputeScore(t *testing.T) {
	all := results(m.Killed, m.Escaped, m.NotCovered, m.Error, m.Killed, m.Timeout, m.Ignored)

	score := ComputeScore(all, DefaultScoreOptions())
	assert.True(t, score.Defined)
	assert.Equal(t, 0.5, score.Value)
	assert.Equal(t, 2, score.Killed)
	assert.Equal(t, 1, score.Escaped)
	assert.Equal(t, 1, score.Timeout)
	assert.Equal(t, 1, score.Errors)
	assert.Equal(t, 1, score.NotCovered)
	assert.Equal(t, 1, score.Ignored)
	assert.Equal(t, 7, score.Total)
	assert.InDelta(t, 5.0/6.0, score.CoveredRatio, 1e-4)
}

func TestComputeScore_Options(t *testing.T) {
	all := results(m.Killed, m.Escaped, m.NotCovered, m.Error)

	withErrors := ComputeScore(all, ScoreOptions{Precision: 4, CountErrors: true})
	assert.InDelta(t, 0.3333, withErrors.Value, 1e-9)

	withNotCovered := ComputeScore(all, ScoreOptions{Precision: 2, CountErrors: true, IncludeNotCovered: true})
	assert.Equal(t, 0.25, withNotCovered.Value)

	raw := ComputeScore(results(m.Killed, m.Escaped, m.Escaped), ScoreOptions{Precision: -1})
	assert.Equal(t, 1.0/3.0, raw.Value)
}

func TestComputeScore_ZeroDenominator(t *testing.T) {
	for _, all := range [][]m.Result{nil, results(m.NotCovered, m.Error, m.Ignored)} {
		score := ComputeScore(all, DefaultScoreOptions())

		assert.False(t, score.Defined)
		assert.Zero(t, score.Value)
	}
}

func TestComputeScore_AlwaysWithinBounds(t *testing.T) {
	statuses := []m.Status{m.Killed, m.Escaped, m.Timeout, m.Error, m.NotCovered, m.Ignored}

	for killed := 0; killed < 4; killed++ {
		for escaped := 0; escaped < 4; escaped++ {
			for timeout := 0; timeout < 4; timeout++ {
				var all []m.Status
				for i := 0; i < killed; i++ {
					all = append(all, statuses[0])
				}

				for i := 0; i < escaped; i++ {
					all = append(all, statuses[1])
				}

				for i := 0; i < timeout; i++ {
					all = append(all, statuses[2])
				}

				score := ComputeScore(results(all...), ScoreOptions{Precision: -1})

				if killed+escaped+timeout == 0 {
					assert.False(t, score.Defined)
					continue
				}

				assert.Equal(t, float64(killed)/float64(killed+escaped+timeout), score.Value)
				assert.GreaterOrEqual(t, score.Value, 0.0)
				assert.LessOrEqual(t, score.Value, 1.0)
			}
		}
	}
}

func TestMutationScoreFromSpill(t *testing.T) {
	spill, err := mutestpkg.NewFileSpill[m.Result]("")
	require.NoError(t, err)
	defer spill.Close()

	require.NoError(t, spill.AppendBatch(results(m.Killed, m.Escaped, m.NotCovered, m.Error, m.Killed)))

	score, err := mutationScoreFromSpill(spill, DefaultScoreOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.6667, score.Value, 1e-9)
	assert.Equal(t, 5, score.Total)
}

func TestMutationScoreFromSpill_RangeError(t *testing.T) {
	_, err := mutationScoreFromSpill(errSpill[m.Result]{err: errors.New("boom")}, DefaultScoreOptions())
	require.EqualError(t, err, "boom")
}

func TestMeetsMinimum(t *testing.T) {
	assert.True(t, MeetsMinimum(m.Score{Value: 0.8, Defined: true}, 0.75))
	assert.False(t, MeetsMinimum(m.Score{Value: 0.7, Defined: true}, 0.75))
	assert.True(t, MeetsMinimum(m.Score{}, 0.75))
	assert.True(t, MeetsMinimum(m.Score{Value: 0.1, Defined: true}, 0))
}
