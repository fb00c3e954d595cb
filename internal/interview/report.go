package interview

import (
	"time"

	"github.com/sithumSoft/MockMate/internal/models"
)

type CategoryStat struct {
	Questions    int     `json:"questions"`
	Answered     int     `json:"answered"`
	AverageScore float64 `json:"averageScore"`
}

type Report struct {
	InterviewID       string                           `json:"interviewId"`
	JobTitle          string                           `json:"jobTitle"`
	Mode              models.Mode                      `json:"mode"`
	Difficulty        models.Difficulty                `json:"difficulty"`
	Status            models.Status                    `json:"status"`
	OverallScore      float64                          `json:"overallScore"`
	AnsweredAverage   float64                          `json:"answeredAverage"`
	PerformanceLevel  string                           `json:"performanceLevel"`
	TotalQuestions    int                              `json:"totalQuestions"`
	AnsweredQuestions int                              `json:"answeredQuestions"`
	SkippedQuestions  int                              `json:"skippedQuestions"`
	CategoryBreakdown map[models.Category]CategoryStat `json:"categoryBreakdown"`
	OverallFeedback   string                           `json:"overallFeedback,omitempty"`
	Strengths         []string                         `json:"strengths"`
	Weaknesses        []string                         `json:"weaknesses"`
	Questions         []models.Question                `json:"questions"`
	CreatedAt         time.Time                        `json:"createdAt"`
	CompletedAt       *time.Time                       `json:"completedAt,omitempty"`
}

// BuildReport summarizes one interview. A completed interview reports its
// stored score; an ongoing one reports the live aggregate.
func BuildReport(iv *models.Interview) *Report {
	score := OverallScore(iv.Questions)
	if iv.Completed() && iv.OverallScore != nil {
		score = *iv.OverallScore
	}

	answered := len(iv.Answered())
	report := &Report{
		InterviewID:       iv.ID,
		JobTitle:          iv.JobTitle,
		Mode:              iv.Mode,
		Difficulty:        iv.Difficulty,
		Status:            iv.Status,
		OverallScore:      score,
		AnsweredAverage:   AnsweredAverage(iv.Questions),
		PerformanceLevel:  PerformanceLevel(score),
		TotalQuestions:    len(iv.Questions),
		AnsweredQuestions: answered,
		SkippedQuestions:  len(iv.Questions) - answered,
		CategoryBreakdown: categoryBreakdown(iv.Questions),
		Strengths:         orEmpty(iv.Strengths),
		Weaknesses:        orEmpty(iv.Weaknesses),
		Questions:         iv.Questions,
		CreatedAt:         iv.CreatedAt,
		CompletedAt:       iv.CompletedAt,
	}
	if iv.OverallFeedback != nil {
		report.OverallFeedback = *iv.OverallFeedback
	}
	return report
}

func PerformanceLevel(score float64) string {
	switch {
	case score >= 9:
		return "Exceptional"
	case score >= 8:
		return "Excellent"
	case score >= 7:
		return "Good"
	case score >= 6:
		return "Satisfactory"
	case score >= 5:
		return "Needs Improvement"
	default:
		return "Keep Practicing"
	}
}

func categoryBreakdown(questions []models.Question) map[models.Category]CategoryStat {
	type acc struct {
		questions, answered, total int
	}
	sums := map[models.Category]*acc{}
	for _, q := range questions {
		a, ok := sums[q.Category]
		if !ok {
			a = &acc{}
			sums[q.Category] = a
		}
		a.questions++
		if q.Answered() && q.Score != nil {
			a.answered++
			a.total += *q.Score
		}
	}

	out := make(map[models.Category]CategoryStat, len(sums))
	for cat, a := range sums {
		stat := CategoryStat{Questions: a.questions, Answered: a.answered}
		if a.answered > 0 {
			stat.AverageScore = Round1(float64(a.total) / float64(a.answered))
		}
		out[cat] = stat
	}
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
