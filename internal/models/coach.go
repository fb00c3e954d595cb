package models

// job metadata inferred from a pasted description
type JobProfile struct {
	JobTitle   string     `json:"jobTitle"`
	TechStack  []string   `json:"techStack"`
	Difficulty Difficulty `json:"difficulty"`
}

// PriorRound is the context handed to the generator for an earlier round.
// UserAnswer is nil for skipped rounds.
type PriorRound struct {
	Question   string   `json:"question"`
	UserAnswer *string  `json:"userAnswer"`
	Category   Category `json:"category"`
}

type QuestionRequest struct {
	JobDescription string
	JobTitle       string
	TechStack      []string
	Difficulty     Difficulty
	Round          int
	PriorRounds    []PriorRound
	Mode           Mode
}

type GeneratedQuestion struct {
	Question         string   `json:"question"`
	Category         Category `json:"category"`
	ExpectedKeywords []string `json:"expectedKeywords"`
	FollowUps        []string `json:"followUps"`
}

type EvaluationRequest struct {
	Question         string
	Answer           string
	ExpectedKeywords []string
	Category         Category
}

// AnswerEvaluation is the evaluator output. Score is raw; the controller clamps it.
type AnswerEvaluation struct {
	Score           float64  `json:"score"`
	Feedback        string   `json:"feedback"`
	MissingConcepts []string `json:"missingConcepts"`
	FollowUpNeeded  bool     `json:"followUpNeeded"`
	Strengths       []string `json:"strengths"`
	IdealAnswer     string   `json:"idealAnswer,omitempty"`
}

// OverallFeedback is the summarizer output. OverallScore is advisory only.
type OverallFeedback struct {
	OverallScore    float64  `json:"overallScore"`
	OverallFeedback string   `json:"overallFeedback"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role" validate:"required,oneof=user assistant"`
	Content string   `json:"content" validate:"required"`
}
