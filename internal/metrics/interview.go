package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sithumSoft/MockMate/internal/llm"
	"github.com/sithumSoft/MockMate/internal/models"
)

var (
	interviewsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_started_total",
		Help:      "Interviews started, by mode",
	}, []string{"mode"})

	interviewsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interviews_finished_total",
		Help:      "Interviews finished, by mode",
	}, []string{"mode"})

	answerScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "answer_score",
		Help:      "Clamped scores of evaluated answers",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})

	collaboratorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collaborator_fallbacks_total",
		Help:      "Operations that completed with fallback content",
	})

	llmRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "LLM provider calls, by provider and outcome code",
	}, []string{"provider", "outcome"})

	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of LLM provider calls",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"provider"})
)

func InterviewStarted(mode models.Mode) {
	interviewsStarted.WithLabelValues(string(mode)).Inc()
}

func InterviewFinished(mode models.Mode) {
	interviewsFinished.WithLabelValues(string(mode)).Inc()
}

func AnswerScored(score int) {
	answerScores.Observe(float64(score))
}

func FallbacksUsed(n int) {
	if n > 0 {
		collaboratorFallbacks.Add(float64(n))
	}
}

// InstrumentedProvider records call counts and latency around another provider.
type InstrumentedProvider struct {
	llm.Provider
}

func Instrument(p llm.Provider) *InstrumentedProvider {
	return &InstrumentedProvider{Provider: p}
}

func (p *InstrumentedProvider) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	name := p.Provider.GetProviderName()
	start := time.Now()
	resp, err := p.Provider.GenerateContent(ctx, req)
	llmLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = llm.ErrorCode(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	llmRequests.WithLabelValues(name, outcome).Inc()
	return resp, err
}
