package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("test"))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	}

	got := testutil.ToFloat64(httpRequests.WithLabelValues("test", http.MethodGet, "/items/{id}", "418"))
	if got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	InterviewStarted(models.ModeBehavioral)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `mockmate_interviews_started_total{mode="behavioral"}`) {
		t.Fatalf("expected interview counter in output")
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(interviewsFinished.WithLabelValues("screening"))
	InterviewFinished(models.ModeScreening)
	if got := testutil.ToFloat64(interviewsFinished.WithLabelValues("screening")); got != before+1 {
		t.Fatalf("expected finished counter to increase, got %v", got)
	}

	fallbacks := testutil.ToFloat64(collaboratorFallbacks)
	FallbacksUsed(0)
	FallbacksUsed(2)
	if got := testutil.ToFloat64(collaboratorFallbacks); got != fallbacks+2 {
		t.Fatalf("expected fallbacks to increase by 2, got %v", got)
	}

	AnswerScored(7)
}

type fakeProvider struct{ err error }

func (f fakeProvider) GenerateContent(context.Context, *models.GenerationRequest) (*models.GenerationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.GenerationResponse{Content: "ok"}, nil
}

func (fakeProvider) GetProviderName() string { return "fake" }

func TestInstrumentedProvider(t *testing.T) {
	ok := Instrument(fakeProvider{})
	if _, err := ok.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.GetProviderName() != "fake" {
		t.Fatal("expected provider name to pass through")
	}

	failing := Instrument(fakeProvider{err: &llm.ProviderError{Provider: "fake", Code: llm.ErrCodeRateLimit}})
	if _, err := failing.GenerateContent(context.Background(), &models.GenerationRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error to pass through")
	}

	if got := testutil.ToFloat64(llmRequests.WithLabelValues("fake", "ok")); got != 1 {
		t.Fatalf("expected one ok call, got %v", got)
	}
	if got := testutil.ToFloat64(llmRequests.WithLabelValues("fake", llm.ErrCodeRateLimit)); got != 1 {
		t.Fatalf("expected one rate limited call, got %v", got)
	}
}
