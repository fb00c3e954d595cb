package interview

import (
	"math"

	"github.com/sithumSoft/MockMate/internal/models"
)

const (
	MinScore  = 1
	MaxScore  = 10
	MaxRounds = 10
)

// ClampScore rounds a raw evaluator score half-up and clamps it into [1, 10].
func ClampScore(raw float64) int {
	if math.IsNaN(raw) {
		return MinScore
	}
	rounded := math.Floor(raw + 0.5)
	if rounded < MinScore {
		return MinScore
	}
	if rounded > MaxScore {
		return MaxScore
	}
	return int(rounded)
}

// OverallScore averages answered scores over every round created, so skipped
// rounds count as zero. Result is rounded to one decimal; zero rounds give 0.
func OverallScore(questions []models.Question) float64 {
	if len(questions) == 0 {
		return 0
	}
	return Round1(float64(sumScores(questions)) / float64(len(questions)))
}

// AnsweredAverage averages over answered rounds only. It is a display stat and
// is never persisted as the interview score.
func AnsweredAverage(questions []models.Question) float64 {
	answered := 0
	for _, q := range questions {
		if q.Answered() && q.Score != nil {
			answered++
		}
	}
	if answered == 0 {
		return 0
	}
	return Round1(float64(sumScores(questions)) / float64(answered))
}

// UnansweredCount is the number of rounds skipped so far.
func UnansweredCount(questions []models.Question) int {
	n := 0
	for _, q := range questions {
		if !q.Answered() {
			n++
		}
	}
	return n
}

// DifficultyForRound is the progressive difficulty hint given to the generator.
func DifficultyForRound(round int) string {
	switch {
	case round <= 3:
		return "easy"
	case round <= 6:
		return "medium"
	default:
		return "hard"
	}
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func sumScores(questions []models.Question) int {
	sum := 0
	for _, q := range questions {
		if q.Answered() && q.Score != nil {
			sum += *q.Score
		}
	}
	return sum
}
