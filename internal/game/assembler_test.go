package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fallacyfinder/internal/models"
)

func TestTargetFallacyCountRanges(t *testing.T) {
	tests := []struct {
		difficulty models.Difficulty
		allowed    []int
	}{
		{models.Easy, []int{3, 4}},
		{models.Medium, []int{5, 6}},
		{models.Hard, []int{7, 8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty.String(), func(t *testing.T) {
			rng := seededRand(7)
			seen := map[int]bool{}
			for i := 0; i < 500; i++ {
				n := TargetFallacyCount(tt.difficulty, rng)
				assert.Contains(t, tt.allowed, n)
				seen[n] = true
			}
			assert.Len(t, seen, len(tt.allowed), "every value of the range should be drawn")
		})
	}
}

func TestFilterFallaciesIsMonotonic(t *testing.T) {
	prev := 0
	for _, d := range models.AllDifficulties {
		got := FilterFallacies(testFallacies, d)
		assert.GreaterOrEqual(t, len(got), prev)
		for _, f := range got {
			assert.LessOrEqual(t, f.Difficulty, d)
		}
		prev = len(got)
	}
	assert.Len(t, FilterFallacies(testFallacies, models.Hard), len(testFallacies))
}

func TestAssembleOffsetsAreValid(t *testing.T) {
	pool := testPool()
	fragments := fragmentByID(pool)

	for seed := uint64(0); seed < 200; seed++ {
		for _, d := range models.AllDifficulties {
			passage, err := Assemble(d, pool, seededRand(seed))
			require.NoError(t, err)

			seen := map[int64]bool{}
			for _, o := range passage.FallacyOffsets {
				assert.False(t, seen[o.FallacyID], "duplicate fallacy %d", o.FallacyID)
				seen[o.FallacyID] = true

				require.True(t, o.StartIndex >= 0 && o.StartIndex < o.EndIndex && o.EndIndex <= len(passage.FullText),
					"offset %+v out of range", o)

				span := passage.FullText[o.StartIndex:o.EndIndex]
				matched := false
				for _, b := range fragments {
					if b.FallacyID == o.FallacyID && strings.EqualFold(span, b.Content) {
						matched = true
						break
					}
				}
				assert.True(t, matched, "span %q does not reproduce a fragment", span)

				f := findFallacy(o.FallacyID)
				assert.LessOrEqual(t, f.Difficulty, d, "fallacy above the game difficulty")
			}
		}
	}
}

func TestAssembleFallacyCountMatchesDifficulty(t *testing.T) {
	pool := testPool()
	for seed := uint64(0); seed < 50; seed++ {
		easy, err := Assemble(models.Easy, pool, seededRand(seed))
		require.NoError(t, err)
		// only four Easy fallacies exist
		assert.Contains(t, []int{3, 4}, len(easy.FallacyOffsets))

		hard, err := Assemble(models.Hard, pool, seededRand(seed))
		require.NoError(t, err)
		assert.Contains(t, []int{7, 8, 9}, len(hard.FallacyOffsets))
		assert.Equal(t, hard.TargetFallacyCount, len(hard.FallacyOffsets))
	}
}

func TestAssembleIsReproducibleWithSeed(t *testing.T) {
	pool := testPool()

	a, err := Assemble(models.Medium, pool, seededRand(42))
	require.NoError(t, err)
	b, err := Assemble(models.Medium, pool, seededRand(42))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestAssembleOrdersByPositionHint(t *testing.T) {
	pool := testPool()
	fragments := fragmentByID(pool)
	rank := map[models.PositionHint]int{
		models.PositionEarly:  0,
		models.PositionMiddle: 1,
		models.PositionAny:    2,
		models.PositionLate:   3,
	}

	for seed := uint64(0); seed < 100; seed++ {
		passage, err := Assemble(models.Hard, pool, seededRand(seed))
		require.NoError(t, err)

		last := -1
		for _, o := range passage.FallacyOffsets {
			span := passage.FullText[o.StartIndex:o.EndIndex]
			var hint models.PositionHint
			for _, b := range fragments {
				if b.Content == span {
					hint = b.PositionHint
				}
			}
			require.NotEmpty(t, hint)
			r := rank[hint]
			assert.GreaterOrEqual(t, r, last, "fragment %q out of position order", span)
			last = r
		}
	}
}

func TestAssembleUsesTopicPhrasesAndFallbacks(t *testing.T) {
	pool := testPool()
	for seed := uint64(0); seed < 50; seed++ {
		passage, err := Assemble(models.Medium, pool, seededRand(seed))
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(passage.FullText, "Everyone went home."))
		switch passage.TopicID {
		case 1:
			assert.True(t, strings.HasPrefix(passage.FullText, "At the school board meeting, "))
			assert.Contains(t, defaultTitles, passage.Title)
		case 2:
			assert.True(t, strings.HasPrefix(passage.FullText, "At the town hall, "))
			assert.Equal(t, "Council Session", passage.Title)
		default:
			t.Fatalf("unexpected topic %d", passage.TopicID)
		}
	}
}

func TestAssembleEasyOnlyUsesEasyTopics(t *testing.T) {
	pool := testPool()
	for seed := uint64(0); seed < 50; seed++ {
		passage, err := Assemble(models.Easy, pool, seededRand(seed))
		require.NoError(t, err)
		assert.Equal(t, int64(1), passage.TopicID)
	}
}

func TestAssembleBackfillsWhenFallaciesLackFragments(t *testing.T) {
	pool := testPool()
	// topic 1 only keeps fragments for fallacies 1 and 2
	var kept []models.TextBlock
	for _, b := range pool.Fragments {
		if b.TopicID == 1 && b.FallacyID > 2 {
			continue
		}
		kept = append(kept, b)
	}
	pool.Fragments = kept
	pool.Topics = pool.Topics[:1]

	for seed := uint64(0); seed < 50; seed++ {
		passage, err := Assemble(models.Easy, pool, seededRand(seed))
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{1, 2}, passage.FallacyIDs())
		assert.Equal(t, 2, passage.TargetFallacyCount)
	}
}

func TestAssembleDuplicateFallacyKeepsFirstOffset(t *testing.T) {
	blocks := []models.TextBlock{
		{ID: 1, FallacyID: 1, Content: "First claim."},
		{ID: 2, FallacyID: 1, Content: "Second claim."},
		{ID: 3, FallacyID: 2, Content: "Third claim."},
	}
	text := "Intro. First claim. Then, Second claim. Then, Third claim. End."

	offsets := locateOffsets(text, blocks)

	require.Len(t, offsets, 2)
	assert.Equal(t, models.FallacyOffset{FallacyID: 1, StartIndex: 7, EndIndex: 19}, offsets[0])
	assert.Equal(t, int64(2), offsets[1].FallacyID)
	assert.Contains(t, text, "Second claim.")
}

func TestLocateOffsetsSkipsMissingFragments(t *testing.T) {
	blocks := []models.TextBlock{
		{ID: 1, FallacyID: 1, Content: "not   in the text"},
		{ID: 2, FallacyID: 2, Content: "THE TEXT"},
	}
	offsets := locateOffsets("Some of the text here.", blocks)

	require.Len(t, offsets, 1)
	assert.Equal(t, models.FallacyOffset{FallacyID: 2, StartIndex: 8, EndIndex: 16}, offsets[0])
}

func TestAssembleFailsWithoutContent(t *testing.T) {
	tests := []struct {
		name string
		pool Pool
	}{
		{
			name: "no fallacies",
			pool: Pool{Topics: testPool().Topics},
		},
		{
			name: "no topics",
			pool: Pool{Fallacies: testFallacies},
		},
		{
			name: "only hard topics",
			pool: Pool{
				Fallacies: testFallacies,
				Topics:    []models.Topic{{ID: 1, Difficulty: models.Hard}},
			},
		},
		{
			name: "topic without fragments",
			pool: Pool{
				Fallacies: testFallacies,
				Topics:    []models.Topic{{ID: 1, Difficulty: models.Easy}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(models.Easy, tt.pool, seededRand(1))
			assert.ErrorIs(t, err, models.ErrNoContentAvailable)
		})
	}
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		s, sub string
		want   int
	}{
		{"Hello World", "world", 6},
		{"Hello World", "WORLD", 6},
		{"Hello World", "planet", -1},
		{"Grüße aus Köln", "KÖLN", 12},
		{"abc", "", 0},
		{"ab", "abc", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndexFold(tt.s, tt.sub), "IndexFold(%q, %q)", tt.s, tt.sub)
	}
}

func findFallacy(id int64) models.Fallacy {
	for _, f := range testFallacies {
		if f.ID == id {
			return f
		}
	}
	return models.Fallacy{}
}
