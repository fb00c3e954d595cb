// Package coach turns LLM replies into interview questions, evaluations,
// summaries and career-advice chat.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/prompts"
	"github.com/sithumSoft/MockMate/internal/utils"
)

const (
	temperature       = 0.7
	structuredTokens  = 2048
	freeTextTokens    = 1024
	noReplyFallback   = "Sorry, I could not generate a response."
	promptVariantBase = "default"
)

var errNoJSON = errors.New("reply did not contain a JSON object")

// Coach implements the question generator, answer evaluator and feedback
// summarizer on top of a single LLM provider.
type Coach struct {
	provider llm.Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func New(provider llm.Provider, pm prompts.PromptProvider, logger *zap.Logger) *Coach {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coach{provider: provider, prompts: pm, logger: logger}
}

func (c *Coach) ProviderName() string {
	return c.provider.GetProviderName()
}

type questionPrompt struct {
	JobTitle           string
	TechStack          []string
	Seniority          string
	Mode               string
	Round              int
	MaxRounds          int
	QuestionDifficulty string
	PriorRounds        []models.PriorRound
}

type answerPrompt struct {
	Question         string
	Answer           string
	ExpectedKeywords []string
	Category         string
}

type summaryPrompt struct {
	JobTitle string
	Answered []models.Question
}

// Parse extracts the job title, tech stack and seniority from a job description.
func (c *Coach) Parse(ctx context.Context, jobDescription string) (*models.JobProfile, error) {
	prompt, err := c.prompts.BuildPrompt("parse_job", promptVariantBase, map[string]string{
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindParse, Err: err}
	}

	reply, err := c.structured(ctx, prompt)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindParse, Err: err}
	}

	return &models.JobProfile{
		JobTitle:   strings.TrimSpace(reply.Get("jobTitle").String()),
		TechStack:  stringArray(reply.Get("techStack")),
		Difficulty: models.Difficulty(utils.NormalizeDifficulty(reply.Get("difficulty").String())),
	}, nil
}

// Generate asks for the question of req.Round given the earlier rounds.
func (c *Coach) Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, error) {
	prompt, err := c.prompts.BuildPrompt("question", string(req.Mode), questionPrompt{
		JobTitle:           req.JobTitle,
		TechStack:          req.TechStack,
		Seniority:          string(req.Difficulty),
		Mode:               string(req.Mode),
		Round:              req.Round,
		MaxRounds:          interview.MaxRounds,
		QuestionDifficulty: interview.DifficultyForRound(req.Round),
		PriorRounds:        req.PriorRounds,
	})
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindGeneration, Err: err}
	}

	reply, err := c.structured(ctx, prompt)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindGeneration, Err: err}
	}

	question := strings.TrimSpace(reply.Get("question").String())
	if question == "" {
		return nil, &models.CollaboratorError{Kind: models.KindGeneration, Err: errors.New("reply had no question")}
	}

	return &models.GeneratedQuestion{
		Question:         question,
		Category:         models.Category(strings.ToLower(strings.TrimSpace(reply.Get("category").String()))),
		ExpectedKeywords: stringArray(reply.Get("expectedKeywords")),
		FollowUps:        stringArray(reply.Get("followUps")),
	}, nil
}

// Evaluate scores an answer and drafts a model answer concurrently. A failed
// model answer is logged and left empty; a failed evaluation fails the call.
func (c *Coach) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.AnswerEvaluation, error) {
	variant := promptVariantBase
	if req.Category == models.CategoryBehavioral {
		variant = string(models.CategoryBehavioral)
	}
	data := answerPrompt{
		Question:         req.Question,
		Answer:           req.Answer,
		ExpectedKeywords: req.ExpectedKeywords,
		Category:         string(req.Category),
	}

	evalPrompt, err := c.prompts.BuildPrompt("evaluate", variant, data)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindEvaluation, Err: err}
	}
	idealPrompt, err := c.prompts.BuildPrompt("ideal_answer", variant, data)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindEvaluation, Err: err}
	}

	var (
		reply gjson.Result
		ideal string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reply, err = c.structured(gctx, evalPrompt)
		return err
	})
	g.Go(func() error {
		resp, err := c.generate(gctx, idealPrompt, freeTextTokens)
		if err != nil {
			c.logger.Warn("Ideal answer generation failed", zap.Error(err))
			return nil
		}
		ideal = utils.StripFences(resp.Content)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindEvaluation, Err: err}
	}

	score := reply.Get("score")
	if !score.Exists() {
		return nil, &models.CollaboratorError{Kind: models.KindEvaluation, Err: errors.New("reply had no score")}
	}

	return &models.AnswerEvaluation{
		Score:           score.Float(),
		Feedback:        strings.TrimSpace(reply.Get("feedback").String()),
		MissingConcepts: stringArray(reply.Get("missingConcepts")),
		FollowUpNeeded:  reply.Get("followUpNeeded").Bool(),
		Strengths:       stringArray(reply.Get("strengths")),
		IdealAnswer:     ideal,
	}, nil
}

// Summarize writes the closing feedback from the answered rounds.
func (c *Coach) Summarize(ctx context.Context, jobTitle string, answered []models.Question) (*models.OverallFeedback, error) {
	prompt, err := c.prompts.BuildPrompt("summary", promptVariantBase, summaryPrompt{
		JobTitle: jobTitle,
		Answered: answered,
	})
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindSummary, Err: err}
	}

	reply, err := c.structured(ctx, prompt)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindSummary, Err: err}
	}

	feedback := strings.TrimSpace(reply.Get("overallFeedback").String())
	if feedback == "" {
		return nil, &models.CollaboratorError{Kind: models.KindSummary, Err: errors.New("reply had no overall feedback")}
	}

	return &models.OverallFeedback{
		OverallScore:    reply.Get("overallScore").Float(),
		OverallFeedback: feedback,
		Strengths:       stringArray(reply.Get("strengths")),
		Weaknesses:      stringArray(reply.Get("weaknesses")),
		Recommendations: stringArray(reply.Get("recommendations")),
	}, nil
}

// Chat answers a career-advice message given the earlier conversation.
func (c *Coach) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	system, err := c.prompts.BuildPrompt("chat", "system", nil)
	if err != nil {
		return nil, &models.CollaboratorError{Kind: models.KindChat, Err: err}
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	resp, err := c.provider.GenerateContent(ctx, &models.GenerationRequest{
		RequestID:   requestID,
		System:      system,
		History:     req.History,
		Prompt:      req.Message,
		Temperature: temperature,
		MaxTokens:   freeTextTokens,
	})
	reply := noReplyFallback
	switch {
	case err == nil:
		if content := strings.TrimSpace(resp.Content); content != "" {
			reply = content
		}
	case llm.ErrorCode(err) == llm.ErrCodeInvalidResponse:
		c.logger.Warn("Chat provider returned no content", zap.String("request_id", requestID), zap.Error(err))
	default:
		return nil, &models.CollaboratorError{Kind: models.KindChat, Err: err}
	}
	return &models.ChatResponse{
		Reply:     reply,
		RequestID: requestID,
		Provider:  c.provider.GetProviderName(),
	}, nil
}

func (c *Coach) generate(ctx context.Context, prompt string, maxTokens int) (*models.GenerationResponse, error) {
	return c.provider.GenerateContent(ctx, &models.GenerationRequest{
		RequestID:   uuid.New().String(),
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}

// structured sends a prompt that expects a JSON object back and parses it.
func (c *Coach) structured(ctx context.Context, prompt string) (gjson.Result, error) {
	resp, err := c.generate(ctx, prompt, structuredTokens)
	if err != nil {
		return gjson.Result{}, err
	}

	raw, ok := utils.ExtractJSON(resp.Content)
	if !ok || !gjson.Valid(raw) {
		c.logger.Debug("Unparseable LLM reply", zap.String("request_id", resp.RequestID), zap.String("content", resp.Content))
		return gjson.Result{}, fmt.Errorf("%w (request %s)", errNoJSON, resp.RequestID)
	}
	return gjson.Parse(raw), nil
}

func stringArray(r gjson.Result) []string {
	out := []string{}
	for _, item := range r.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
