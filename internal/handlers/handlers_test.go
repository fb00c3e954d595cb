package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/events"
	"github.com/sithumSoft/MockMate/internal/feedback"
	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/store"
	"github.com/sithumSoft/MockMate/internal/testhelpers"
)

const userHeader = "X-Test-User"

// stubCoach answers every collaborator call without an LLM.
type stubCoach struct {
	mu        sync.Mutex
	score     float64
	chatErr   error
	chatCalls []*models.ChatRequest
}

func (s *stubCoach) Parse(context.Context, string) (*models.JobProfile, error) {
	return &models.JobProfile{JobTitle: "Backend Engineer", TechStack: []string{"Go"}, Difficulty: models.DifficultyMid}, nil
}

func (s *stubCoach) Generate(_ context.Context, req models.QuestionRequest) (*models.GeneratedQuestion, error) {
	return &models.GeneratedQuestion{
		Question:         fmt.Sprintf("Question %d?", req.Round),
		Category:         models.CategoryTechnical,
		ExpectedKeywords: []string{"go"},
		FollowUps:        []string{},
	}, nil
}

func (s *stubCoach) Evaluate(context.Context, models.EvaluationRequest) (*models.AnswerEvaluation, error) {
	return &models.AnswerEvaluation{
		Score:           s.score,
		Feedback:        "Solid answer",
		MissingConcepts: []string{"channels"},
		Strengths:       []string{"clear"},
		IdealAnswer:     "An ideal answer",
	}, nil
}

func (s *stubCoach) Summarize(context.Context, string, []models.Question) (*models.OverallFeedback, error) {
	return &models.OverallFeedback{
		OverallScore:    9,
		OverallFeedback: "Good work",
		Strengths:       []string{"Go fundamentals"},
	}, nil
}

func (s *stubCoach) Chat(_ context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	s.mu.Lock()
	s.chatCalls = append(s.chatCalls, req)
	s.mu.Unlock()
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return &models.ChatResponse{Reply: "Keep practicing", RequestID: "req-1", Provider: "stub"}, nil
}

type testServer struct {
	router      *chi.Mux
	store       *store.Store
	sessions    *interview.Sessions
	evaluations *feedback.EvaluationCache
	coach       *stubCoach
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.New(testhelpers.SetupTestDB(t), nil)
	coach := &stubCoach{score: 8}
	logger := zap.NewNop()
	sessions := interview.NewSessions(func() *interview.Controller {
		return interview.NewController(interview.Dependencies{
			Store:       st,
			Generator:   coach,
			Evaluator:   coach,
			Summarizer:  coach,
			Notifier:    events.NopPublisher{},
			Logger:      logger,
			CallTimeout: time.Second,
		})
	})
	evaluations := feedback.NewEvaluationCache(time.Hour)
	t.Cleanup(evaluations.Stop)

	ih := NewInterviewHandler(sessions, st, evaluations, logger)
	ah := NewAnalyticsHandler(st, logger)
	ch := NewChatHandler(coach, logger)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := r.Header.Get(userHeader)
			if user == "" {
				user = models.DefaultUserID
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), user)))
		})
	})
	router.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/interviews", ih.StartHandler)
	router.Get("/interviews", ih.ListHandler)
	router.Get("/interviews/current", ih.CurrentHandler)
	router.Get("/interviews/{id}", ih.GetHandler)
	router.Delete("/interviews/{id}", ih.DeleteHandler)
	router.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/interviews/{id}/answers", ih.AnswerHandler)
	router.Post("/interviews/{id}/next", ih.NextHandler)
	router.Post("/interviews/{id}/finish", ih.FinishHandler)
	router.Post("/interviews/{id}/reset", ih.ResetHandler)
	router.Get("/interviews/{id}/report", ih.ReportHandler)
	router.Get("/interviews/{id}/questions/{questionID}/evaluation", ih.EvaluationHandler)
	router.Get("/analytics", ah.AnalyticsHandler)
	router.With(middleware.ValidateRequest[*models.ChatRequest]()).Post("/chat", ch.ChatHandler)

	return &testServer{router: router, store: st, sessions: sessions, evaluations: evaluations, coach: coach}
}

func (s *testServer) do(t *testing.T, method, path, body string, user ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if len(user) > 0 {
		req.Header.Set(userHeader, user[0])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

func (s *testServer) start(t *testing.T, user ...string) *interview.Snapshot {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/interviews", `{"jobDescription":"Senior Go engineer","mode":"technical"}`, user...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[*interview.Snapshot](t, rec)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[models.ErrorResponse](t, rec).Code
}

var errBoom = errors.New("boom")
