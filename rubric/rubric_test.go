package rubric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-zavuch/models"
	"smart-zavuch/rubric"
)

func entries(scores ...int) []models.ScoreEntry {
	out := make([]models.ScoreEntry, len(scores))
	for i, s := range scores {
		out[i].Score = s
	}
	return out
}

func TestCriteria_BothLanguages(t *testing.T) {
	ru, err := rubric.Criteria(models.LangRU)
	require.NoError(t, err)
	kz, err := rubric.Criteria(models.LangKZ)
	require.NoError(t, err)

	// Число критериев не зависит от языка, меняются только подписи.
	assert.Len(t, ru, rubric.CriterionCount())
	assert.Len(t, kz, rubric.CriterionCount())
	assert.Equal(t, 8, rubric.CriterionCount())

	for i, c := range ru {
		assert.Equal(t, i, c.Index)
		assert.NotEmpty(t, c.Label)
	}
}

func TestCriteria_UnsupportedLanguage(t *testing.T) {
	_, err := rubric.Criteria(models.Language("EN"))
	assert.ErrorIs(t, err, rubric.ErrUnsupportedLanguage)

	_, err = rubric.Labels(models.Language(""))
	assert.ErrorIs(t, err, rubric.ErrUnsupportedLanguage)
}

func TestComputeScore_AllZeros(t *testing.T) {
	percent, err := rubric.ComputeScore(entries(0, 0, 0, 0, 0, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, percent)
}

func TestComputeScore_AllMax(t *testing.T) {
	// Ровно 100.0, без дрейфа от плавающей точки.
	percent, err := rubric.ComputeScore(entries(2, 2, 2, 2, 2, 2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, 100.0, percent)
}

func TestComputeScore_Rounding(t *testing.T) {
	// сумма 11 из 16 → 68.75 → 68.8
	percent, err := rubric.ComputeScore(entries(2, 2, 1, 1, 2, 0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, 68.8, percent)
}

func TestComputeScore_Range(t *testing.T) {
	for _, scores := range [][]int{
		{1, 1, 1, 1, 1, 1, 1, 1},
		{2, 0, 2, 0, 2, 0, 2, 0},
		{0, 0, 0, 1, 0, 0, 0, 0},
	} {
		percent, err := rubric.ComputeScore(entries(scores...))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, percent, 0.0)
		assert.LessOrEqual(t, percent, 100.0)
	}
}

func TestComputeScore_CardinalityMismatch(t *testing.T) {
	_, err := rubric.ComputeScore(entries(2, 2, 2))
	assert.ErrorIs(t, err, rubric.ErrMalformedScoreSet)

	_, err = rubric.ComputeScore(nil)
	assert.ErrorIs(t, err, rubric.ErrMalformedScoreSet)
}

func TestComputeScore_ScoreOutOfDomain(t *testing.T) {
	_, err := rubric.ComputeScore(entries(2, 2, 3, 2, 2, 2, 2, 2))
	assert.ErrorIs(t, err, rubric.ErrMalformedScoreSet)

	_, err = rubric.ComputeScore(entries(2, 2, -1, 2, 2, 2, 2, 2))
	assert.ErrorIs(t, err, rubric.ErrMalformedScoreSet)
}
