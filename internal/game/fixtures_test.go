package game

import (
	"fmt"
	"math/rand/v2"

	"fallacyfinder/internal/models"
)

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var testFallacies = []models.Fallacy{
	{ID: 1, Name: "Ad Hominem", Key: "ad-hominem", Difficulty: models.Easy},
	{ID: 2, Name: "Strawman", Key: "strawman", Difficulty: models.Easy},
	{ID: 3, Name: "False Dilemma", Key: "false-dilemma", Difficulty: models.Easy},
	{ID: 4, Name: "Slippery Slope", Key: "slippery-slope", Difficulty: models.Easy},
	{ID: 5, Name: "Bandwagon", Key: "bandwagon", Difficulty: models.Medium},
	{ID: 6, Name: "Appeal to Emotion", Key: "appeal-to-emotion", Difficulty: models.Medium},
	{ID: 7, Name: "Tu Quoque", Key: "tu-quoque", Difficulty: models.Medium},
	{ID: 8, Name: "Loaded Question", Key: "loaded-question", Difficulty: models.Hard},
	{ID: 9, Name: "Middle Ground", Key: "middle-ground", Difficulty: models.Hard},
	{ID: 10, Name: "Burden of Proof", Key: "burden-of-proof", Difficulty: models.Hard},
	{ID: 11, Name: "Personal Incredulity", Key: "personal-incredulity", Difficulty: models.Hard},
}

var hints = []models.PositionHint{models.PositionEarly, models.PositionMiddle, models.PositionLate, models.PositionAny}

// testPool builds two topics with two fragments for every fallacy
func testPool() Pool {
	pool := Pool{
		Fallacies: testFallacies,
		Topics: []models.Topic{
			{ID: 1, Name: "School Board", Difficulty: models.Easy},
			{ID: 2, Name: "City Council", Difficulty: models.Medium},
		},
		Phrases: []models.NarrativePhrase{
			{Kind: models.PhraseIntro, TopicID: 1, Text: "At the school board meeting,"},
			{Kind: models.PhraseIntro, Text: "At the town hall,"},
			{Kind: models.PhraseConnective, Text: "Moreover,"},
			{Kind: models.PhraseConnective, Text: "Then,"},
			{Kind: models.PhraseClosing, Text: "Everyone went home."},
			{Kind: models.PhraseTitle, TopicID: 2, Text: "Council Session"},
		},
	}
	var id int64
	for _, topic := range pool.Topics {
		for _, f := range testFallacies {
			for n := 0; n < 2; n++ {
				id++
				pool.Fragments = append(pool.Fragments, models.TextBlock{
					ID:           id,
					FallacyID:    f.ID,
					TopicID:      topic.ID,
					Content:      fmt.Sprintf("Fragment %d of %s at the %s.", n, f.Key, topic.Name),
					PositionHint: hints[int(id)%len(hints)],
				})
			}
		}
	}
	return pool
}

func fragmentByID(pool Pool) map[int64]models.TextBlock {
	m := make(map[int64]models.TextBlock, len(pool.Fragments))
	for _, b := range pool.Fragments {
		m[b.ID] = b
	}
	return m
}
