package game

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"fallacyfinder/internal/models"
)

// Pool is a read-only snapshot of the content bank used to build one passage
type Pool struct {
	Topics    []models.Topic
	Fallacies []models.Fallacy
	Fragments []models.TextBlock
	Phrases   []models.NarrativePhrase
}

// fallacyCountRange is the inclusive range of embedded fallacies per difficulty
var fallacyCountRange = map[models.Difficulty][2]int{
	models.Easy:   {3, 4},
	models.Medium: {5, 6},
	models.Hard:   {7, 9},
}

// Fallback phrases when the content bank has none of a kind
var (
	defaultIntros = []string{
		"At the community meeting,",
		"During the public forum,",
		"At the policy discussion,",
	}
	defaultConnectives = []string{
		"Additionally,",
		"Furthermore,",
		"The speaker continued,",
		"In response,",
		"Moreover,",
		"The argument proceeded with",
		"The discussion then turned to",
		"Following this point,",
	}
	defaultClosings = []string{
		"The meeting concluded with mixed reactions from the audience.",
		"The discussion ended without a clear consensus.",
		"The forum wrapped up with plans for further consideration.",
		"The session concluded with commitments to review the proposals.",
		"The debate ended with participants agreeing to disagree.",
	}
	defaultTitles = []string{
		"Community Discussion",
		"Policy Debate",
		"Public Forum",
	}
)

// TargetFallacyCount draws how many fallacies a passage of difficulty d should embed
func TargetFallacyCount(d models.Difficulty, rng *rand.Rand) int {
	r, ok := fallacyCountRange[d]
	if !ok {
		return fallacyCountRange[models.Easy][0]
	}
	return r[0] + rng.IntN(r[1]-r[0]+1)
}

// FilterFallacies returns the fallacies playable at difficulty d, keeping input order
func FilterFallacies(fallacies []models.Fallacy, d models.Difficulty) []models.Fallacy {
	out := make([]models.Fallacy, 0, len(fallacies))
	for _, f := range fallacies {
		if d.Includes(f.Difficulty) {
			out = append(out, f)
		}
	}
	return out
}

// Assemble builds a passage for difficulty d from the pool.
// Every random draw goes through rng so a seeded source reproduces the passage.
func Assemble(d models.Difficulty, pool Pool, rng *rand.Rand) (*models.GeneratedPassage, error) {
	if !d.Valid() {
		return nil, models.ValidationError{Field: "difficulty", Message: "unknown difficulty"}
	}

	fallacies := FilterFallacies(pool.Fallacies, d)
	if len(fallacies) == 0 {
		return nil, fmt.Errorf("no fallacies for %s: %w", d, models.ErrNoContentAvailable)
	}

	var topics []models.Topic
	for _, t := range pool.Topics {
		if d.Includes(t.Difficulty) {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no topics for %s: %w", d, models.ErrNoContentAvailable)
	}

	target := TargetFallacyCount(d, rng)
	topic := topics[rng.IntN(len(topics))]

	blocks := selectBlocks(topic.ID, fallacies, pool.Fragments, target, rng)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("topic %q has no fragments for %s: %w", topic.Name, d, models.ErrNoContentAvailable)
	}

	arranged := arrangeBlocks(blocks, rng)
	phrases := newPhraseBook(pool.Phrases, topic.ID)

	parts := make([]string, 0, len(arranged)*2+1)
	parts = append(parts, phrases.pick(models.PhraseIntro, rng))
	for i, b := range arranged {
		if i > 0 {
			parts = append(parts, phrases.pick(models.PhraseConnective, rng))
		}
		parts = append(parts, b.Content)
	}
	parts = append(parts, phrases.pick(models.PhraseClosing, rng))
	fullText := strings.Join(parts, " ")

	return &models.GeneratedPassage{
		TopicID:            topic.ID,
		Title:              phrases.pick(models.PhraseTitle, rng),
		FullText:           fullText,
		Difficulty:         d,
		TargetFallacyCount: len(blocks),
		FallacyOffsets:     locateOffsets(fullText, arranged),
	}, nil
}

// selectBlocks draws up to target fragments of the topic, one per fallacy, then backfills
// from fallacies of the pool that were not drawn while the target is not reached
func selectBlocks(topicID int64, fallacies []models.Fallacy, fragments []models.TextBlock, target int, rng *rand.Rand) []models.TextBlock {
	byFallacy := make(map[int64][]models.TextBlock)
	for _, b := range fragments {
		if b.TopicID == topicID {
			byFallacy[b.FallacyID] = append(byFallacy[b.FallacyID], b)
		}
	}

	// sample without replacement
	order := rng.Perm(len(fallacies))
	if target > len(order) {
		target = len(order)
	}

	selected := make([]models.TextBlock, 0, target)
	used := make(map[int64]bool)
	for _, idx := range order[:target] {
		f := fallacies[idx]
		candidates := byFallacy[f.ID]
		if len(candidates) == 0 {
			continue
		}
		selected = append(selected, candidates[rng.IntN(len(candidates))])
		used[f.ID] = true
	}

	inPool := make(map[int64]bool, len(fallacies))
	for _, f := range fallacies {
		inPool[f.ID] = true
	}

	for len(selected) < target {
		var remaining []models.TextBlock
		for _, b := range fragments {
			if b.TopicID == topicID && inPool[b.FallacyID] && !used[b.FallacyID] {
				remaining = append(remaining, b)
			}
		}
		if len(remaining) == 0 {
			break
		}
		b := remaining[rng.IntN(len(remaining))]
		selected = append(selected, b)
		used[b.FallacyID] = true
	}

	return selected
}

// arrangeBlocks orders fragments early, middle, any, late, shuffling within each group
func arrangeBlocks(blocks []models.TextBlock, rng *rand.Rand) []models.TextBlock {
	groups := map[models.PositionHint][]models.TextBlock{}
	for _, b := range blocks {
		h := models.NormalizePositionHint(string(b.PositionHint))
		groups[h] = append(groups[h], b)
	}

	arranged := make([]models.TextBlock, 0, len(blocks))
	for _, h := range []models.PositionHint{models.PositionEarly, models.PositionMiddle, models.PositionAny, models.PositionLate} {
		group := groups[h]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		arranged = append(arranged, group...)
	}
	return arranged
}

// locateOffsets finds each fragment in the assembled text. The first offset per fallacy wins;
// fragments that cannot be found verbatim are left out.
func locateOffsets(fullText string, blocks []models.TextBlock) []models.FallacyOffset {
	offsets := make([]models.FallacyOffset, 0, len(blocks))
	seen := make(map[int64]bool)
	for _, b := range blocks {
		if seen[b.FallacyID] || b.Content == "" {
			continue
		}
		start := IndexFold(fullText, b.Content)
		if start < 0 {
			continue
		}
		offsets = append(offsets, models.FallacyOffset{
			FallacyID:  b.FallacyID,
			StartIndex: start,
			EndIndex:   start + len(b.Content),
		})
		seen[b.FallacyID] = true
	}
	return offsets
}

// phraseBook resolves narrative phrases for one topic with generic fallbacks
type phraseBook struct {
	byKind map[models.PhraseKind][]string
}

func newPhraseBook(phrases []models.NarrativePhrase, topicID int64) *phraseBook {
	topical := map[models.PhraseKind][]string{}
	generic := map[models.PhraseKind][]string{}
	for _, p := range phrases {
		switch p.TopicID {
		case topicID:
			topical[p.Kind] = append(topical[p.Kind], p.Text)
		case 0:
			generic[p.Kind] = append(generic[p.Kind], p.Text)
		}
	}

	defaults := map[models.PhraseKind][]string{
		models.PhraseIntro:      defaultIntros,
		models.PhraseConnective: defaultConnectives,
		models.PhraseClosing:    defaultClosings,
		models.PhraseTitle:      defaultTitles,
	}

	book := &phraseBook{byKind: map[models.PhraseKind][]string{}}
	for kind, fallback := range defaults {
		switch {
		case len(topical[kind]) > 0:
			book.byKind[kind] = topical[kind]
		case len(generic[kind]) > 0:
			book.byKind[kind] = generic[kind]
		default:
			book.byKind[kind] = fallback
		}
	}
	return book
}

func (b *phraseBook) pick(kind models.PhraseKind, rng *rand.Rand) string {
	options := b.byKind[kind]
	return options[rng.IntN(len(options))]
}
