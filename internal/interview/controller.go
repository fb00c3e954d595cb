package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sithumSoft/MockMate/internal/models"

	"go.uber.org/zap"
)

// ErrInvalidInput marks caller mistakes such as a blank answer or unknown mode.
var ErrInvalidInput = errors.New("invalid input")

type QuestionGenerator interface {
	Parse(ctx context.Context, jobDescription string) (*models.JobProfile, error)
	Generate(ctx context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, error)
}

type AnswerEvaluator interface {
	Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.AnswerEvaluation, error)
}

// FeedbackSummarizer receives only the answered rounds.
type FeedbackSummarizer interface {
	Summarize(ctx context.Context, jobTitle string, answered []models.Question) (*models.OverallFeedback, error)
}

// SessionStore is the part of the store the controller writes through.
type SessionStore interface {
	Create(ctx context.Context, in models.NewInterview) (*models.Interview, error)
	Get(ctx context.Context, id string) (*models.Interview, error)
	AppendQuestion(ctx context.Context, id string, q models.Question) (*models.Interview, error)
	RecordAnswer(ctx context.Context, id, questionID, answer string, score int, feedback string) (*models.Interview, error)
	Complete(ctx context.Context, id string, summary models.Summary) (*models.Interview, error)
	Delete(ctx context.Context, id string) (bool, error)
	ClearCurrentSessionIDIf(ctx context.Context, userID, id string) error
}

// CompletionNotifier is told about finished interviews. Failures are logged only.
type CompletionNotifier interface {
	PublishInterviewCompleted(ctx context.Context, evt models.InterviewCompletedEvent) error
}

type Dependencies struct {
	Store      SessionStore
	Generator  QuestionGenerator
	Evaluator  AnswerEvaluator
	Summarizer FeedbackSummarizer
	Notifier   CompletionNotifier
	Logger     *zap.Logger

	// bounds every collaborator call; zero means 30s
	CallTimeout time.Duration
}

// Controller drives one interview through its rounds. At most one operation
// runs at a time; a concurrent call is rejected rather than queued.
type Controller struct {
	store       SessionStore
	generator   QuestionGenerator
	evaluator   AnswerEvaluator
	summarizer  FeedbackSummarizer
	notifier    CompletionNotifier
	logger      *zap.Logger
	callTimeout time.Duration

	mu        sync.Mutex
	state     State
	busy      bool
	epoch     uint64
	interview *models.Interview
	lastEval  *models.AnswerEvaluation
	warnings  []string
}

func NewController(deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.CallTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Controller{
		store:       deps.Store,
		generator:   deps.Generator,
		evaluator:   deps.Evaluator,
		summarizer:  deps.Summarizer,
		notifier:    deps.Notifier,
		logger:      logger,
		callTimeout: timeout,
		state:       StateUninitialized,
	}
}

// op is the bookkeeping for one in-flight operation.
type op struct {
	name     string
	epoch    uint64
	prev     State
	warnings []string
}

func (o *op) warn(msg string) {
	o.warnings = append(o.warnings, msg)
}

// begin claims the controller for one operation when the state allows it.
func (c *Controller) begin(name string, allowed ...State) (*op, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return nil, &models.InvalidStateError{Op: name, Reason: models.ErrBusy}
	}
	ok := false
	for _, s := range allowed {
		if c.state == s {
			ok = true
			break
		}
	}
	if !ok {
		return nil, &models.InvalidStateError{Op: name, Reason: "not allowed while " + c.state.String()}
	}

	c.busy = true
	return &op{name: name, epoch: c.epoch, prev: c.state}, nil
}

// abort releases the controller and restores the state seen by begin.
func (c *Controller) abort(o *op) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != o.epoch {
		return
	}
	c.busy = false
	c.state = o.prev
}

// commit applies the result of an operation unless a reset happened meanwhile.
func (c *Controller) commit(o *op, apply func()) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != o.epoch {
		return nil, &models.InvalidStateError{Op: o.name, Reason: "session was reset"}
	}
	apply()
	c.warnings = o.warnings
	c.busy = false
	return c.snapshotLocked(), nil
}

// Start parses the job description, creates the interview and asks round 1.
func (c *Controller) Start(ctx context.Context, userID, jobDescription string, mode models.Mode) (*Snapshot, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if !models.ValidMode(mode) {
		return nil, fmt.Errorf("%w: unknown interview mode %q", ErrInvalidInput, mode)
	}
	if userID == "" {
		userID = models.DefaultUserID
	}

	o, err := c.begin("start", StateUninitialized)
	if err != nil {
		return nil, err
	}

	profile := c.parse(ctx, o, jobDescription)
	generated := c.generate(ctx, o, "", models.QuestionRequest{
		JobDescription: jobDescription,
		JobTitle:       profile.JobTitle,
		TechStack:      profile.TechStack,
		Difficulty:     profile.Difficulty,
		Round:          1,
		PriorRounds:    []models.PriorRound{},
		Mode:           mode,
	})

	created, err := c.store.Create(ctx, models.NewInterview{
		UserID:         userID,
		JobDescription: jobDescription,
		JobTitle:       profile.JobTitle,
		TechStack:      profile.TechStack,
		Difficulty:     profile.Difficulty,
		Mode:           mode,
	})
	if err != nil {
		c.abort(o)
		return nil, err
	}

	iv, err := c.store.AppendQuestion(ctx, created.ID, toQuestion(generated))
	if err != nil {
		if _, delErr := c.store.Delete(ctx, created.ID); delErr != nil {
			c.logger.Error("Failed to remove interview after round 1 could not be stored",
				zap.String("interview_id", created.ID), zap.Error(delErr))
		}
		c.abort(o)
		return nil, err
	}

	snap, err := c.commit(o, func() {
		c.interview = iv
		c.lastEval = nil
		c.state = StateAwaitingAnswer
	})
	if err != nil {
		// reset while starting: the caller never learns the id, so the record goes too
		if _, delErr := c.store.Delete(ctx, iv.ID); delErr != nil {
			c.logger.Error("Failed to remove interview started before a reset",
				zap.String("interview_id", iv.ID), zap.Error(delErr))
		}
		return nil, err
	}

	c.logger.Info("Interview started",
		zap.String("interview_id", iv.ID),
		zap.String("user_id", userID),
		zap.String("job_title", iv.JobTitle),
		zap.String("mode", string(mode)))
	return snap, nil
}

// SubmitAnswer evaluates the answer to the current round and stores it.
// Answering the same round again overwrites the earlier answer.
func (c *Controller) SubmitAnswer(ctx context.Context, answer string) (*Snapshot, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer must not be empty", ErrInvalidInput)
	}

	o, err := c.begin("submitAnswer", StateAwaitingAnswer)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	iv := c.interview
	current := iv.CurrentQuestion()
	if current == nil {
		c.mu.Unlock()
		c.abort(o)
		return nil, &models.InvalidStateError{Op: "submitAnswer", Reason: "no current question"}
	}
	question := *current
	c.state = StateEvaluating
	c.mu.Unlock()

	eval := c.evaluate(ctx, o, iv.ID, models.EvaluationRequest{
		Question:         question.Text,
		Answer:           answer,
		ExpectedKeywords: question.ExpectedKeywords,
		Category:         question.Category,
	})
	score := ClampScore(eval.Score)

	updated, err := c.store.RecordAnswer(ctx, iv.ID, question.ID, answer, score, eval.Feedback)
	if err != nil {
		c.abort(o)
		return nil, err
	}

	stored := *eval
	stored.Score = float64(score)

	c.logger.Info("Answer evaluated",
		zap.String("interview_id", iv.ID),
		zap.Int("round", question.Round),
		zap.Int("score", score))

	return c.commit(o, func() {
		c.interview = updated
		c.lastEval = &stored
		c.state = StateAwaitingAnswer
	})
}

// NextQuestion appends the next round. The current round may be unanswered.
func (c *Controller) NextQuestion(ctx context.Context) (*Snapshot, error) {
	o, err := c.begin("nextQuestion", StateAwaitingAnswer)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	iv := c.interview
	c.mu.Unlock()

	round := len(iv.Questions)
	if round >= MaxRounds {
		c.abort(o)
		return nil, &models.InvalidStateError{
			Op:     "nextQuestion",
			Reason: fmt.Sprintf("maximum of %d rounds reached", MaxRounds),
		}
	}

	generated := c.generate(ctx, o, iv.ID, models.QuestionRequest{
		JobDescription: iv.JobDescription,
		JobTitle:       iv.JobTitle,
		TechStack:      iv.TechStack,
		Difficulty:     iv.Difficulty,
		Round:          round + 1,
		PriorRounds:    priorRounds(iv.Questions),
		Mode:           iv.Mode,
	})

	updated, err := c.store.AppendQuestion(ctx, iv.ID, toQuestion(generated))
	if err != nil {
		c.abort(o)
		return nil, err
	}

	return c.commit(o, func() {
		c.interview = updated
		c.lastEval = nil
		c.state = StateAwaitingAnswer
	})
}

// Finish summarizes the answered rounds and completes the interview. The
// overall score is always recomputed here; the summarizer's own score is ignored.
func (c *Controller) Finish(ctx context.Context) (*Snapshot, error) {
	o, err := c.begin("finish", StateAwaitingAnswer)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	iv := c.interview
	c.mu.Unlock()

	answered := iv.Answered()
	skipped := UnansweredCount(iv.Questions)
	feedback := c.summarize(ctx, o, iv, answered, skipped)

	weaknesses := feedback.Weaknesses
	if len(weaknesses) == 0 && skipped > 0 {
		weaknesses = []string{skippedWeakness(skipped)}
	}
	score := OverallScore(iv.Questions)

	completed, err := c.store.Complete(ctx, iv.ID, models.Summary{
		OverallScore:    score,
		OverallFeedback: feedback.OverallFeedback,
		Strengths:       feedback.Strengths,
		Weaknesses:      weaknesses,
	})
	if err != nil {
		c.abort(o)
		return nil, err
	}

	if err := c.store.ClearCurrentSessionIDIf(ctx, completed.UserID, completed.ID); err != nil {
		c.logger.Warn("Failed to clear current session pointer",
			zap.String("interview_id", completed.ID), zap.Error(err))
	}
	c.notifyCompleted(ctx, completed)

	c.logger.Info("Interview finished",
		zap.String("interview_id", completed.ID),
		zap.Float64("overall_score", score),
		zap.Int("rounds", len(completed.Questions)),
		zap.Int("skipped", skipped))

	return c.commit(o, func() {
		c.interview = completed
		c.state = StateFinished
	})
}

// Reset discards in-memory state from any state. Stored records are untouched
// and a call still in flight has its result dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.busy = false
	c.state = StateUninitialized
	c.interview = nil
	c.lastEval = nil
	c.warnings = nil
}

// Resume loads a stored interview into an uninitialized controller.
func (c *Controller) Resume(ctx context.Context, id string) (*Snapshot, error) {
	o, err := c.begin("resume", StateUninitialized)
	if err != nil {
		return nil, err
	}

	iv, err := c.store.Get(ctx, id)
	if err != nil {
		c.abort(o)
		return nil, err
	}

	next := StateAwaitingAnswer
	if iv.Completed() {
		next = StateFinished
	} else if len(iv.Questions) == 0 {
		c.abort(o)
		return nil, &models.InvalidStateError{Op: "resume", Reason: "interview has no rounds"}
	}

	return c.commit(o, func() {
		c.interview = iv
		c.lastEval = nil
		c.state = next
	})
}

func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// InterviewID returns the id of the loaded interview, or "" when uninitialized.
func (c *Controller) InterviewID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interview == nil {
		return ""
	}
	return c.interview.ID
}

func (c *Controller) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		State:     c.state,
		MaxRounds: MaxRounds,
		Warnings:  append([]string(nil), c.warnings...),
	}
	if c.interview == nil {
		return snap
	}

	iv := c.interview.Clone()
	snap.Interview = iv
	snap.Round = len(iv.Questions)
	snap.CurrentQuestion = iv.CurrentQuestion()
	snap.OverallScore = OverallScore(iv.Questions)
	snap.AnsweredAverage = AnsweredAverage(iv.Questions)
	snap.CanAdvance = c.state == StateAwaitingAnswer && snap.Round < MaxRounds
	if c.lastEval != nil {
		eval := *c.lastEval
		snap.LastEvaluation = &eval
	}
	return snap
}

func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

func (c *Controller) parse(ctx context.Context, o *op, jobDescription string) *models.JobProfile {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	profile, err := c.generator.Parse(callCtx, jobDescription)
	if err != nil || profile == nil {
		c.logger.Warn("Job description parsing failed, using default profile", zap.Error(err))
		o.warn("Job description could not be analyzed; using a default profile.")
		return FallbackJobProfile()
	}

	out := *profile
	if strings.TrimSpace(out.JobTitle) == "" {
		out.JobTitle = FallbackJobProfile().JobTitle
	}
	if !models.ValidDifficulty(out.Difficulty) {
		out.Difficulty = models.DifficultyMid
	}
	if out.TechStack == nil {
		out.TechStack = []string{}
	}
	return &out
}

func (c *Controller) generate(ctx context.Context, o *op, interviewID string, req models.QuestionRequest) *models.GeneratedQuestion {
	req.TechStack = techStackOrDefault(req.TechStack)

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	generated, err := c.generator.Generate(callCtx, req)
	if err == nil && (generated == nil || strings.TrimSpace(generated.Question) == "") {
		err = &models.CollaboratorError{Kind: models.KindGeneration, Err: errors.New("empty question")}
	}
	if err != nil {
		c.logger.Warn("Question generation failed, using fallback question",
			zap.String("interview_id", interviewID),
			zap.Int("round", req.Round),
			zap.Error(err))
		o.warn("Question generation was unavailable; a general question was used.")
		return FallbackQuestion(req.TechStack)
	}

	out := *generated
	if !models.ValidCategory(out.Category) {
		out.Category = models.CategoryTechnical
	}
	return &out
}

func (c *Controller) evaluate(ctx context.Context, o *op, interviewID string, req models.EvaluationRequest) *models.AnswerEvaluation {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	eval, err := c.evaluator.Evaluate(callCtx, req)
	if err != nil || eval == nil {
		c.logger.Warn("Answer evaluation failed, using fallback score",
			zap.String("interview_id", interviewID), zap.Error(err))
		o.warn("Answer evaluation was unavailable; a neutral score was recorded.")
		return FallbackEvaluation()
	}
	out := *eval
	return &out
}

func (c *Controller) summarize(ctx context.Context, o *op, iv *models.Interview, answered []models.Question, skipped int) *models.OverallFeedback {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	feedback, err := c.summarizer.Summarize(callCtx, iv.JobTitle, answered)
	if err != nil || feedback == nil {
		c.logger.Warn("Summary generation failed, using fallback feedback",
			zap.String("interview_id", iv.ID), zap.Error(err))
		o.warn("Final feedback was unavailable; a generic summary was recorded.")
		return FallbackSummary(len(answered), skipped)
	}
	out := *feedback
	return &out
}

func (c *Controller) notifyCompleted(ctx context.Context, iv *models.Interview) {
	if c.notifier == nil {
		return
	}
	evt := models.InterviewCompletedEvent{
		InterviewID:       iv.ID,
		UserID:            iv.UserID,
		JobTitle:          iv.JobTitle,
		Mode:              iv.Mode,
		TotalQuestions:    len(iv.Questions),
		AnsweredQuestions: len(iv.Answered()),
	}
	if iv.OverallScore != nil {
		evt.OverallScore = *iv.OverallScore
	}
	if iv.CompletedAt != nil {
		evt.CompletedAt = iv.CompletedAt.UTC().Format(time.RFC3339)
	}
	if err := c.notifier.PublishInterviewCompleted(ctx, evt); err != nil {
		c.logger.Warn("Failed to publish interview completed event",
			zap.String("interview_id", iv.ID), zap.Error(err))
	}
}

func priorRounds(questions []models.Question) []models.PriorRound {
	prior := make([]models.PriorRound, 0, len(questions))
	for _, q := range questions {
		prior = append(prior, models.PriorRound{
			Question:   q.Text,
			UserAnswer: q.UserAnswer,
			Category:   q.Category,
		})
	}
	return prior
}

func toQuestion(g *models.GeneratedQuestion) models.Question {
	return models.Question{
		Text:             g.Question,
		Category:         g.Category,
		ExpectedKeywords: g.ExpectedKeywords,
		FollowUps:        g.FollowUps,
	}
}
