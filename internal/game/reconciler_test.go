package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fallacyfinder/internal/models"
)

var (
	adHominem   = models.Fallacy{ID: 1, Name: "Ad Hominem", Key: "ad-hominem", Difficulty: models.Easy}
	strawman    = models.Fallacy{ID: 2, Name: "Strawman", Key: "strawman", Difficulty: models.Easy}
	falseDilema = models.Fallacy{ID: 3, Name: "False Dilemma", Key: "false-dilemma", Difficulty: models.Easy}
)

func reconcileCatalog() map[int64]models.Fallacy {
	return map[int64]models.Fallacy{
		adHominem.ID:   adHominem,
		strawman.ID:    strawman,
		falseDilema.ID: falseDilema,
	}
}

func TestReconcileScenario(t *testing.T) {
	text := "The councillor attacked his rival personally. Others then misrepresented the plan entirely."
	truth := []models.Fallacy{adHominem, strawman}

	results := Reconcile([]int64{adHominem.ID, falseDilema.ID}, truth, reconcileCatalog(), text)

	require.Len(t, results, 3)
	assert.Equal(t, adHominem.ID, results[0].FallacyID)
	assert.Equal(t, models.ResultCorrect, results[0].ResultType)
	assert.Equal(t, falseDilema.ID, results[1].FallacyID)
	assert.Equal(t, models.ResultWrong, results[1].ResultType)
	assert.Nil(t, results[1].TextReference)
	assert.Nil(t, results[1].Position)
	assert.Equal(t, strawman.ID, results[2].FallacyID)
	assert.Equal(t, models.ResultMissed, results[2].ResultType)

	stats := Stats(results, len(truth))
	assert.Equal(t, models.ScoreStats{
		CorrectCount:   1,
		WrongCount:     1,
		MissedCount:    1,
		TotalFallacies: 2,
		Accuracy:       0.5,
	}, stats)
}

func TestReconcileCardinality(t *testing.T) {
	truth := []models.Fallacy{adHominem, strawman}
	tests := []struct {
		name     string
		selected []int64
		correct  int
		wrong    int
		missed   int
	}{
		{"nothing selected", nil, 0, 0, 2},
		{"all correct", []int64{1, 2}, 2, 0, 0},
		{"all wrong", []int64{3}, 0, 1, 2},
		{"duplicates collapse", []int64{1, 1, 3, 3}, 1, 1, 1},
		{"unknown id dropped", []int64{1, 999}, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := Reconcile(tt.selected, truth, reconcileCatalog(), "")
			stats := Stats(results, len(truth))

			assert.Equal(t, tt.correct, stats.CorrectCount)
			assert.Equal(t, tt.wrong, stats.WrongCount)
			assert.Equal(t, tt.missed, stats.MissedCount)
			assert.Equal(t, len(truth), stats.CorrectCount+stats.MissedCount)
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	text := "A hominem style jab, then a strawman of the opposing view."
	truth := []models.Fallacy{adHominem, strawman}
	selected := []int64{3, 1}

	first := Reconcile(selected, truth, reconcileCatalog(), text)
	second := Reconcile(selected, truth, reconcileCatalog(), text)

	assert.Equal(t, first, second)
}

func TestReconcileOrdersWithinGroups(t *testing.T) {
	truth := []models.Fallacy{strawman, adHominem, falseDilema}
	results := Reconcile([]int64{3, 1}, truth, reconcileCatalog(), "")

	require.Len(t, results, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{results[0].FallacyID, results[1].FallacyID, results[2].FallacyID})
	assert.Equal(t, models.ResultMissed, results[2].ResultType)
}

func TestStatsWithoutGroundTruth(t *testing.T) {
	stats := Stats(nil, 0)
	assert.Zero(t, stats.Accuracy)
	assert.Zero(t, stats.TotalFallacies)
}

func TestFindNameReference(t *testing.T) {
	text := strings.Repeat("x", 80) + " a classic Strawman appears here " + strings.Repeat("y", 80)

	excerpt, pos, ok := FindNameReference(text, "Strawman")

	require.True(t, ok)
	assert.Equal(t, strings.Index(text, "Strawman"), pos)
	assert.True(t, strings.HasPrefix(excerpt, "..."))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Contains(t, excerpt, "Strawman")
	assert.Len(t, excerpt, 3+excerptRadius+len("Strawman")+excerptRadius+3)
}

func TestFindNameReferenceUsesFirstMatchingWord(t *testing.T) {
	text := "The dilemma was presented as false."

	_, pos, ok := FindNameReference(text, "False Dilemma")

	require.True(t, ok)
	assert.Equal(t, strings.Index(text, "false"), pos)
}

func TestFindNameReferenceClampsAtEdges(t *testing.T) {
	excerpt, pos, ok := FindNameReference("Ad hominem!", "Ad Hominem")

	require.True(t, ok)
	assert.Equal(t, 0, pos)
	assert.Equal(t, "...Ad hominem!...", excerpt)
}

func TestFindNameReferenceNotFound(t *testing.T) {
	_, _, ok := FindNameReference("Nothing to see here.", "Tu Quoque")
	assert.False(t, ok)

	_, _, ok = FindNameReference("Anything", "   ")
	assert.False(t, ok)
}

func TestFindNameReferenceKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("é", 40) + " strawman " + strings.Repeat("ü", 40)

	excerpt, _, ok := FindNameReference(text, "Strawman")

	require.True(t, ok)
	assert.True(t, strings.ToValidUTF8(excerpt, "?") == excerpt)
}
