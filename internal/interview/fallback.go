package interview

import (
	"fmt"

	"github.com/sithumSoft/MockMate/internal/models"
)

var defaultTechStack = []string{"JavaScript", "Python"}

// FallbackJobProfile is used when the job description cannot be parsed.
func FallbackJobProfile() *models.JobProfile {
	return &models.JobProfile{
		JobTitle:   "Software Engineer",
		TechStack:  append([]string(nil), defaultTechStack...),
		Difficulty: models.DifficultyMid,
	}
}

// FallbackQuestion is deterministic in the first tech stack entry.
func FallbackQuestion(techStack []string) *models.GeneratedQuestion {
	topic := "software development"
	if len(techStack) > 0 && techStack[0] != "" {
		topic = techStack[0]
	}
	return &models.GeneratedQuestion{
		Question:         fmt.Sprintf("Tell me about your experience with %s and how you've used it in production.", topic),
		Category:         models.CategoryTechnical,
		ExpectedKeywords: []string{"experience", "production", "challenges", "solutions"},
		FollowUps:        []string{"Can you elaborate on that?", "What would you do differently?"},
	}
}

func FallbackEvaluation() *models.AnswerEvaluation {
	return &models.AnswerEvaluation{
		Score:           5,
		Feedback:        "Answer received. Unable to provide detailed evaluation at this time.",
		MissingConcepts: []string{},
		FollowUpNeeded:  false,
		Strengths:       []string{"Attempted the question"},
		IdealAnswer:     "",
	}
}

// FallbackSummary is the closing feedback when the summarizer is unavailable.
func FallbackSummary(answered, skipped int) *models.OverallFeedback {
	strengths := []string{}
	if answered > 0 {
		strengths = []string{"Completed some interview questions"}
	}
	weaknesses := []string{"Unable to provide detailed analysis"}
	if skipped > 0 {
		weaknesses = []string{skippedWeakness(skipped)}
	}
	return &models.OverallFeedback{
		OverallFeedback: "Interview completed. Thank you for your participation.",
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: []string{
			"Practice answering all interview questions",
			"Avoid skipping questions during interviews",
		},
	}
}

func skippedWeakness(skipped int) string {
	return fmt.Sprintf("Skipped %d question(s) without answering", skipped)
}

// techStackOrDefault substitutes the default stack for an empty one.
func techStackOrDefault(techStack []string) []string {
	if len(techStack) == 0 {
		return append([]string(nil), defaultTechStack...)
	}
	return techStack
}
