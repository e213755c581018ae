package game

import (
	"math"

	"fallacyfinder/internal/models"
)

// Points per answer type
const (
	pointsCorrect = 100
	penaltyWrong  = 25
	penaltyMissed = 50

	maxFastBonus = 50
	maxSlowBonus = 25
)

// OptimalTime is the expected completion time in seconds per difficulty
var OptimalTime = map[models.Difficulty]int{
	models.Easy:   120,
	models.Medium: 300,
	models.Hard:   600,
}

// Multiplier scales the final score per difficulty
var Multiplier = map[models.Difficulty]float64{
	models.Easy:   1.0,
	models.Medium: 1.5,
	models.Hard:   2.0,
}

// Score computes the final score of a round. It is never negative.
//
//	base  = max(0, correct*100 - wrong*25 - missed*50)
//	bonus = up to 50 when finishing within the optimal time, then decaying from 25 toward 0
//	final = max(0, round((base + bonus) * multiplier))
func Score(correct, wrong, missed, timeTakenSeconds int, d models.Difficulty) int {
	base := max(0, correct*pointsCorrect-wrong*penaltyWrong-missed*penaltyMissed)

	multiplier, ok := Multiplier[d]
	if !ok {
		multiplier = 1.0
	}

	final := int(math.Round(float64(base+TimeBonus(timeTakenSeconds, d)) * multiplier))
	return max(0, final)
}

// TimeBonus rewards finishing faster than the optimal time for the difficulty
func TimeBonus(timeTakenSeconds int, d models.Difficulty) int {
	optimal, ok := OptimalTime[d]
	if !ok {
		optimal = OptimalTime[models.Medium]
	}
	t := max(0, timeTakenSeconds)

	if t <= optimal {
		ratio := float64(t) / float64(optimal)
		return int(math.Round(maxFastBonus * (1 - ratio)))
	}

	ratio := float64(optimal) / float64(t)
	return max(0, int(math.Round(maxSlowBonus*ratio)))
}
