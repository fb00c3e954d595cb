package interview

import (
	"sort"
	"time"

	"github.com/sithumSoft/MockMate/internal/models"
)

const topListSize = 5

type Frequency struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type TimelinePoint struct {
	InterviewID string    `json:"interviewId"`
	JobTitle    string    `json:"jobTitle"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Analytics aggregates a user's completed interviews.
type Analytics struct {
	TotalInterviews    int                           `json:"totalInterviews"`
	TotalQuestions     int                           `json:"totalQuestions"`
	AnsweredQuestions  int                           `json:"answeredQuestions"`
	ResponseRate       int                           `json:"responseRate"`
	AverageScore       float64                       `json:"averageScore"`
	BestScore          float64                       `json:"bestScore"`
	CategoryAverages   map[models.Category]float64   `json:"categoryAverages"`
	DifficultyAverages map[models.Difficulty]float64 `json:"difficultyAverages"`
	ModeDistribution   map[models.Mode]int           `json:"modeDistribution"`
	TopStrengths       []Frequency                   `json:"topStrengths"`
	TopWeaknesses      []Frequency                   `json:"topWeaknesses"`
	Timeline           []TimelinePoint               `json:"timeline"`
	Trend              string                        `json:"trend,omitempty"` // "up" | "down"
}

// BuildAnalytics ignores interviews that are still ongoing.
func BuildAnalytics(interviews []models.Interview) *Analytics {
	out := &Analytics{
		CategoryAverages:   map[models.Category]float64{},
		DifficultyAverages: map[models.Difficulty]float64{},
		ModeDistribution:   map[models.Mode]int{},
		TopStrengths:       []Frequency{},
		TopWeaknesses:      []Frequency{},
		Timeline:           []TimelinePoint{},
	}

	completed := make([]models.Interview, 0, len(interviews))
	for _, iv := range interviews {
		if iv.Completed() {
			completed = append(completed, iv)
		}
	}
	if len(completed) == 0 {
		return out
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CreatedAt.Before(completed[j].CreatedAt)
	})

	type avg struct {
		sum   float64
		count int
	}
	categories := map[models.Category]*avg{}
	difficulties := map[models.Difficulty]*avg{}
	strengths := map[string]int{}
	weaknesses := map[string]int{}

	var scoreSum float64
	for _, iv := range completed {
		score := 0.0
		if iv.OverallScore != nil {
			score = *iv.OverallScore
		}
		scoreSum += score
		if score > out.BestScore {
			out.BestScore = score
		}

		out.TotalInterviews++
		out.TotalQuestions += len(iv.Questions)
		out.AnsweredQuestions += len(iv.Answered())
		out.ModeDistribution[iv.Mode]++

		d := difficulties[iv.Difficulty]
		if d == nil {
			d = &avg{}
			difficulties[iv.Difficulty] = d
		}
		d.sum += score
		d.count++

		for _, q := range iv.Questions {
			if !q.Answered() || q.Score == nil {
				continue
			}
			c := categories[q.Category]
			if c == nil {
				c = &avg{}
				categories[q.Category] = c
			}
			c.sum += float64(*q.Score)
			c.count++
		}

		for _, s := range iv.Strengths {
			strengths[s]++
		}
		for _, w := range iv.Weaknesses {
			weaknesses[w]++
		}

		out.Timeline = append(out.Timeline, TimelinePoint{
			InterviewID: iv.ID,
			JobTitle:    iv.JobTitle,
			Score:       score,
			CreatedAt:   iv.CreatedAt,
		})
	}

	mean := scoreSum / float64(out.TotalInterviews)
	out.AverageScore = Round1(mean)
	if out.TotalQuestions > 0 {
		out.ResponseRate = int(float64(out.AnsweredQuestions)/float64(out.TotalQuestions)*100 + 0.5)
	}
	for cat, a := range categories {
		out.CategoryAverages[cat] = Round1(a.sum / float64(a.count))
	}
	for diff, a := range difficulties {
		out.DifficultyAverages[diff] = Round1(a.sum / float64(a.count))
	}
	out.TopStrengths = topFrequencies(strengths)
	out.TopWeaknesses = topFrequencies(weaknesses)

	recent := out.Timeline
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	var recentSum float64
	for _, p := range recent {
		recentSum += p.Score
	}
	if recentSum/float64(len(recent)) >= mean {
		out.Trend = "up"
	} else {
		out.Trend = "down"
	}

	return out
}

// topFrequencies orders by count, then text, and keeps the first five.
func topFrequencies(counts map[string]int) []Frequency {
	out := make([]Frequency, 0, len(counts))
	for text, n := range counts {
		out = append(out, Frequency{Text: text, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > topListSize {
		out = out[:topListSize]
	}
	return out
}
