package game

import (
	"strings"

	"fallacyfinder/internal/models"
)

// excerptRadius is how many bytes of context surround a located fallacy name
const excerptRadius = 50

// Reconcile classifies the player's selections against the passage's ground truth.
//
// groundTruth lists the embedded fallacies in passage order. catalog resolves selections
// that are not part of the ground truth; ids it does not know are dropped. Results are
// ordered correct, wrong, missed.
func Reconcile(selected []int64, groundTruth []models.Fallacy, catalog map[int64]models.Fallacy, fullText string) []models.AnswerResult {
	selected = uniqueIDs(selected)

	truth := make(map[int64]models.Fallacy, len(groundTruth))
	for _, f := range groundTruth {
		truth[f.ID] = f
	}
	picked := make(map[int64]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}

	results := make([]models.AnswerResult, 0, len(groundTruth)+len(selected))

	for _, id := range selected {
		if f, ok := truth[id]; ok {
			results = append(results, locatedResult(f, models.ResultCorrect, fullText))
		}
	}

	for _, id := range selected {
		if _, ok := truth[id]; ok {
			continue
		}
		f, ok := catalog[id]
		if !ok {
			continue
		}
		results = append(results, models.AnswerResult{
			FallacyID:   f.ID,
			FallacyName: f.Name,
			FallacyKey:  f.Key,
			ResultType:  models.ResultWrong,
		})
	}

	seen := make(map[int64]bool, len(groundTruth))
	for _, f := range groundTruth {
		if picked[f.ID] || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		results = append(results, locatedResult(f, models.ResultMissed, fullText))
	}

	return results
}

// Stats counts results by type. accuracy is correct/total, or 0 without ground truth.
func Stats(results []models.AnswerResult, totalFallacies int) models.ScoreStats {
	stats := models.ScoreStats{TotalFallacies: totalFallacies}
	for _, r := range results {
		switch r.ResultType {
		case models.ResultCorrect:
			stats.CorrectCount++
		case models.ResultWrong:
			stats.WrongCount++
		case models.ResultMissed:
			stats.MissedCount++
		}
	}
	if totalFallacies > 0 {
		stats.Accuracy = float64(stats.CorrectCount) / float64(totalFallacies)
	}
	return stats
}

// FindNameReference looks for the first word of the fallacy's name that occurs in text.
// It returns the surrounding excerpt wrapped in ellipses and the byte position of the word.
// The name words are tried in order; the first word found anywhere wins.
func FindNameReference(text, name string) (excerpt string, position int, ok bool) {
	for _, word := range strings.Fields(strings.ToLower(name)) {
		i := IndexFold(text, word)
		if i < 0 {
			continue
		}
		start := snapBack(text, max(0, i-excerptRadius))
		end := snapForward(text, min(len(text), i+len(word)+excerptRadius))
		return "..." + text[start:end] + "...", i, true
	}
	return "", 0, false
}

func locatedResult(f models.Fallacy, kind models.ResultType, fullText string) models.AnswerResult {
	r := models.AnswerResult{
		FallacyID:   f.ID,
		FallacyName: f.Name,
		FallacyKey:  f.Key,
		ResultType:  kind,
	}
	if excerpt, pos, ok := FindNameReference(fullText, f.Name); ok {
		r.TextReference = &excerpt
		r.Position = &pos
	}
	return r
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
