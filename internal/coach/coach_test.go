package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider answers by matching a marker in the prompt.
type stubProvider struct {
	mu       sync.Mutex
	replies  map[string]string
	failures map[string]error
	requests []*models.GenerationRequest
}

func (s *stubProvider) GenerateContent(_ context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	for marker, err := range s.failures {
		if strings.Contains(req.Prompt, marker) {
			return nil, err
		}
	}
	for marker, reply := range s.replies {
		if strings.Contains(req.Prompt, marker) {
			return &models.GenerationResponse{Content: reply, RequestID: req.RequestID}, nil
		}
	}
	return nil, &llm.ProviderError{Provider: "stub", Code: llm.ErrCodeServiceDown, Message: "no reply configured"}
}

func (s *stubProvider) GetProviderName() string { return "stub" }

const (
	parseMarker   = "job description analyzer"
	questionMark  = "Generate ONE interview question"
	evalMarker    = "evaluating a candidate's response"
	idealMarker   = "providing a high-quality answer"
	summaryMarker = "senior hiring manager"
)

func newCoach(t *testing.T, provider *stubProvider) *Coach {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	return New(provider, pm, nil)
}

func TestParse(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{
		parseMarker: "Here is the result:\n```json\n{\"jobTitle\": \" Backend Engineer \", \"techStack\": [\"Go\", \"\", \"Kafka\"], \"difficulty\": \"Senior\"}\n```",
	}}
	c := newCoach(t, provider)

	profile, err := c.Parse(context.Background(), "We need a Go engineer with 5+ years")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", profile.JobTitle)
	assert.Equal(t, []string{"Go", "Kafka"}, profile.TechStack)
	assert.Equal(t, models.DifficultySenior, profile.Difficulty)

	require.Len(t, provider.requests, 1)
	assert.Contains(t, provider.requests[0].Prompt, `"""We need a Go engineer with 5+ years"""`)
	assert.Equal(t, 0.7, provider.requests[0].Temperature)
	assert.Equal(t, 2048, provider.requests[0].MaxTokens)
}

func TestParseRejectsNonJSON(t *testing.T) {
	c := newCoach(t, &stubProvider{replies: map[string]string{parseMarker: "I cannot help with that."}})

	_, err := c.Parse(context.Background(), "anything")
	var collab *models.CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, models.KindParse, collab.Kind)
}

func TestGenerate(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{
		questionMark: `{"question": "How does the Go scheduler work?", "category": "Technical", "expectedKeywords": ["GMP", "preemption"], "followUps": ["What about syscalls?"]}`,
	}}
	c := newCoach(t, provider)
	answer := "Goroutines are cheap"

	q, err := c.Generate(context.Background(), models.QuestionRequest{
		JobTitle:   "Backend Engineer",
		TechStack:  []string{"Go"},
		Difficulty: models.DifficultyMid,
		Round:      5,
		Mode:       models.ModeTechnical,
		PriorRounds: []models.PriorRound{
			{Question: "What is a goroutine?", UserAnswer: &answer, Category: models.CategoryTechnical},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "How does the Go scheduler work?", q.Question)
	assert.Equal(t, models.CategoryTechnical, q.Category)
	assert.Equal(t, []string{"GMP", "preemption"}, q.ExpectedKeywords)
	assert.Equal(t, []string{"What about syscalls?"}, q.FollowUps)

	prompt := provider.requests[0].Prompt
	assert.Contains(t, prompt, "Question Round: 5 of 10")
	assert.Contains(t, prompt, "Question Difficulty: medium")
	assert.Contains(t, prompt, "A: Goroutines are cheap")
}

func TestGenerateRequiresQuestion(t *testing.T) {
	c := newCoach(t, &stubProvider{replies: map[string]string{questionMark: `{"question": "", "category": "technical"}`}})

	_, err := c.Generate(context.Background(), models.QuestionRequest{TechStack: []string{"Go"}, Round: 1, Mode: models.ModeScreening})
	assert.True(t, models.IsCollaborator(err))
}

func TestGenerateUnknownModeFails(t *testing.T) {
	c := newCoach(t, &stubProvider{})

	_, err := c.Generate(context.Background(), models.QuestionRequest{Round: 1, Mode: "panel"})
	assert.True(t, models.IsCollaborator(err))
}

func TestEvaluate(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{
		evalMarker:  `{"score": 7.6, "feedback": "Solid", "missingConcepts": ["backpressure"], "followUpNeeded": true, "strengths": ["clear"]}`,
		idealMarker: "```\nA strong answer explains buffering.\n```",
	}}
	c := newCoach(t, provider)

	eval, err := c.Evaluate(context.Background(), models.EvaluationRequest{
		Question:         "Explain channels",
		Answer:           "They pass values",
		ExpectedKeywords: []string{"buffering"},
		Category:         models.CategoryTechnical,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.6, eval.Score, "raw score is passed through unclamped")
	assert.Equal(t, "Solid", eval.Feedback)
	assert.Equal(t, []string{"backpressure"}, eval.MissingConcepts)
	assert.True(t, eval.FollowUpNeeded)
	assert.Equal(t, "A strong answer explains buffering.", eval.IdealAnswer)
	assert.Len(t, provider.requests, 2)
}

func TestEvaluateBehavioralUsesSTAR(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{
		evalMarker:  `{"score": 6, "feedback": "ok"}`,
		idealMarker: "Situation...",
	}}
	c := newCoach(t, provider)

	_, err := c.Evaluate(context.Background(), models.EvaluationRequest{Question: "Conflict?", Answer: "I talked", Category: models.CategoryBehavioral})
	require.NoError(t, err)
	for _, req := range provider.requests {
		assert.Contains(t, req.Prompt, "STAR")
	}
}

func TestEvaluateToleratesIdealAnswerFailure(t *testing.T) {
	provider := &stubProvider{
		replies:  map[string]string{evalMarker: `{"score": 4, "feedback": "thin"}`},
		failures: map[string]error{idealMarker: errors.New("timeout")},
	}
	c := newCoach(t, provider)

	eval, err := c.Evaluate(context.Background(), models.EvaluationRequest{Question: "q", Answer: "a", Category: models.CategoryTechnical})
	require.NoError(t, err)
	assert.Equal(t, 4.0, eval.Score)
	assert.Empty(t, eval.IdealAnswer)
	assert.Equal(t, []string{}, eval.Strengths)
}

func TestEvaluateFailsWithoutScore(t *testing.T) {
	c := newCoach(t, &stubProvider{replies: map[string]string{
		evalMarker:  `{"feedback": "no score"}`,
		idealMarker: "ideal",
	}})

	_, err := c.Evaluate(context.Background(), models.EvaluationRequest{Question: "q", Answer: "a"})
	var collab *models.CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, models.KindEvaluation, collab.Kind)
}

func TestSummarize(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{
		summaryMarker: `{"overallScore": 9.5, "overallFeedback": "Promising", "strengths": ["Go"], "weaknesses": [], "recommendations": ["Practice system design"]}`,
	}}
	c := newCoach(t, provider)
	answer := "my answer"
	score := 8

	fb, err := c.Summarize(context.Background(), "Backend Engineer", []models.Question{
		{Text: "Explain interfaces", Category: models.CategoryTechnical, UserAnswer: &answer, Score: &score},
	})
	require.NoError(t, err)
	assert.Equal(t, 9.5, fb.OverallScore)
	assert.Equal(t, "Promising", fb.OverallFeedback)
	assert.Equal(t, []string{}, fb.Weaknesses)

	prompt := provider.requests[0].Prompt
	assert.Contains(t, prompt, "Position: Backend Engineer")
	assert.Contains(t, prompt, "Q1 (technical): Explain interfaces")
	assert.Contains(t, prompt, "Score: 8/10")
}

func TestSummarizeProviderError(t *testing.T) {
	c := newCoach(t, &stubProvider{})

	_, err := c.Summarize(context.Background(), "x", nil)
	var collab *models.CollaboratorError
	require.ErrorAs(t, err, &collab)
	assert.Equal(t, models.KindSummary, collab.Kind)
	assert.Equal(t, llm.ErrCodeServiceDown, llm.ErrorCode(err))
}

func TestChat(t *testing.T) {
	provider := &stubProvider{replies: map[string]string{"salary": "Research market rates first."}}
	c := newCoach(t, provider)

	resp, err := c.Chat(context.Background(), &models.ChatRequest{
		Message: "How do I negotiate salary?",
		History: []models.ChatMessage{{Role: models.ChatRoleUser, Content: "Hi"}, {Role: models.ChatRoleAssistant, Content: "Hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Research market rates first.", resp.Reply)
	assert.Equal(t, "stub", resp.Provider)
	assert.NotEmpty(t, resp.RequestID)

	req := provider.requests[0]
	assert.True(t, strings.HasPrefix(req.System, "You are an expert AI Career Advisor"))
	assert.Len(t, req.History, 2)
	assert.Equal(t, 1024, req.MaxTokens)
}

func TestChatEmptyReplyFallsBack(t *testing.T) {
	provider := &stubProvider{failures: map[string]error{
		"hello": &llm.ProviderError{Provider: "stub", Code: llm.ErrCodeInvalidResponse, Message: "Empty response generated"},
	}}
	c := newCoach(t, provider)

	resp, err := c.Chat(context.Background(), &models.ChatRequest{Message: "hello", RequestID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I could not generate a response.", resp.Reply)
	assert.Equal(t, "req-1", resp.RequestID)

	_, err = c.Chat(context.Background(), &models.ChatRequest{Message: "other"})
	assert.True(t, models.IsCollaborator(err))
}
