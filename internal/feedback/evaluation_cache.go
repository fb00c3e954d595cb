package feedback

import (
	"strings"
	"sync"
	"time"

	"github.com/sithumSoft/MockMate/internal/models"
)

// EvaluationCache keeps the full evaluation of recent answers, including the
// model answer that is not persisted with the round.
type EvaluationCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	evaluation *models.AnswerEvaluation
	expiresAt  time.Time
}

// NewEvaluationCache creates a cache with the given TTL and starts its cleanup loop.
func NewEvaluationCache(ttl time.Duration) *EvaluationCache {
	ec := &EvaluationCache{
		cache: make(map[string]*cacheEntry),
		ttl:   ttl,
		done:  make(chan struct{}),
	}

	go ec.cleanupLoop()

	return ec
}

func cacheKey(interviewID, questionID string) string {
	return interviewID + "/" + questionID
}

// Set stores a copy of the evaluation for one round, replacing any earlier one.
func (ec *EvaluationCache) Set(interviewID, questionID string, eval *models.AnswerEvaluation) {
	if eval == nil {
		return
	}
	stored := *eval

	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.cache[cacheKey(interviewID, questionID)] = &cacheEntry{
		evaluation: &stored,
		expiresAt:  time.Now().Add(ec.ttl),
	}
}

// Get retrieves an evaluation if it exists and hasn't expired
func (ec *EvaluationCache) Get(interviewID, questionID string) (*models.AnswerEvaluation, bool) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()

	entry, exists := ec.cache[cacheKey(interviewID, questionID)]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	out := *entry.evaluation
	return &out, true
}

// DeleteInterview drops every cached round of one interview.
func (ec *EvaluationCache) DeleteInterview(interviewID string) {
	prefix := interviewID + "/"

	ec.mu.Lock()
	defer ec.mu.Unlock()

	for key := range ec.cache {
		if strings.HasPrefix(key, prefix) {
			delete(ec.cache, key)
		}
	}
}

func (ec *EvaluationCache) Stop() {
	ec.once.Do(func() { close(ec.done) })
}

func (ec *EvaluationCache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ec.cleanup()
		case <-ec.done:
			return
		}
	}
}

func (ec *EvaluationCache) cleanup() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	now := time.Now()
	for key, entry := range ec.cache {
		if now.After(entry.expiresAt) {
			delete(ec.cache, key)
		}
	}
}

// Size returns the current number of cached evaluations
func (ec *EvaluationCache) Size() int {
	ec.mu.RLock()
	defer ec.mu.RUnlock()

	return len(ec.cache)
}
