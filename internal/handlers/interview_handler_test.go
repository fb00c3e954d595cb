package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/store"
)

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	started := s.start(t)
	id := started.Interview.ID
	assert.Equal(t, interview.StateAwaitingAnswer, started.State)
	assert.Equal(t, 1, started.Round)
	assert.Equal(t, "Question 1?", started.CurrentQuestion.Text)
	assert.Equal(t, "Backend Engineer", started.Interview.JobTitle)

	rec := s.do(t, http.MethodGet, "/interviews/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[*interview.Snapshot](t, rec).Interview.ID)

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/answers", `{"answer":"  goroutines and channels  "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answered := decode[*interview.Snapshot](t, rec)
	require.NotNil(t, answered.LastEvaluation)
	assert.Equal(t, 8.0, answered.LastEvaluation.Score)
	assert.Equal(t, "goroutines and channels", *answered.CurrentQuestion.UserAnswer)
	questionID := answered.CurrentQuestion.ID

	rec = s.do(t, http.MethodGet, "/interviews/"+id+"/questions/"+questionID+"/evaluation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	eval := decode[models.AnswerEvaluation](t, rec)
	assert.Equal(t, "An ideal answer", eval.IdealAnswer)
	assert.Equal(t, []string{"channels"}, eval.MissingConcepts)

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/next", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[*interview.Snapshot](t, rec).Round)

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/finish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	finished := decode[*interview.Snapshot](t, rec)
	assert.Equal(t, interview.StateFinished, finished.State)
	require.NotNil(t, finished.Interview.OverallScore)
	assert.Equal(t, 4.0, *finished.Interview.OverallScore)
	assert.Equal(t, []string{"Skipped 1 question(s) without answering"}, finished.Interview.Weaknesses)
	assert.Equal(t, 0, s.sessions.Len())

	rec = s.do(t, http.MethodGet, "/interviews/"+id+"/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[interview.Report](t, rec)
	assert.Equal(t, 4.0, report.OverallScore)
	assert.Equal(t, 8.0, report.AnsweredAverage)
	assert.Equal(t, 1, report.SkippedQuestions)
	assert.Equal(t, "Keep Practicing", report.PerformanceLevel)

	rec = s.do(t, http.MethodGet, "/interviews/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/interviews?status=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[interviewList](t, rec).Count)

	rec = s.do(t, http.MethodGet, "/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	analytics := decode[interview.Analytics](t, rec)
	assert.Equal(t, 1, analytics.TotalInterviews)
	assert.Equal(t, 50, analytics.ResponseRate)
}

func TestStartValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/interviews", `{"mode":"technical"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_jobdescription", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/interviews", `{"jobDescription":"Go","mode":"pairing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_mode", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/interviews", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", errorCode(t, rec))
}

func TestAnswerValidation(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t).Interview.ID

	rec := s.do(t, http.MethodPost, "/interviews/"+id+"/answers", `{"answer":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := s.store.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Nil(t, got.Questions[0].UserAnswer)
}

func TestUnknownInterview(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/interviews/missing", ""},
		{http.MethodDelete, "/interviews/missing", ""},
		{http.MethodPost, "/interviews/missing/answers", `{"answer":"x"}`},
		{http.MethodPost, "/interviews/missing/next", ""},
		{http.MethodPost, "/interviews/missing/finish", ""},
		{http.MethodPost, "/interviews/missing/reset", ""},
		{http.MethodGet, "/interviews/missing/report", ""},
		{http.MethodGet, "/interviews/missing/questions/q/evaluation", ""},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := s.do(t, http.MethodGet, "/interviews/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerToUnknownInterviewLeavesStoreUnchanged(t *testing.T) {
	s := newTestServer(t)
	s.start(t)

	before, err := s.store.ListAll(t.Context(), store.ListOptions{})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/interviews/does-not-exist/answers", `{"answer":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	after, err := s.store.ListAll(t.Context(), store.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFinishedInterviewsAreNotKeptLive(t *testing.T) {
	s := newTestServer(t)
	older := s.start(t).Interview.ID
	newer := s.start(t).Interview.ID
	require.Equal(t, 2, s.sessions.Len())

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/interviews/"+older+"/finish", "").Code)
	assert.Equal(t, 1, s.sessions.Len())

	rec := s.do(t, http.MethodGet, "/interviews/"+older, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, interview.StateFinished, decode[*interview.Snapshot](t, rec).State)
	assert.Equal(t, 1, s.sessions.Len())

	rec = s.do(t, http.MethodGet, "/interviews/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, newer, decode[*interview.Snapshot](t, rec).Interview.ID)
}

func TestInvalidTransitionsConflict(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t).Interview.ID

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/interviews/"+id+"/finish", "").Code)

	rec := s.do(t, http.MethodPost, "/interviews/"+id+"/finish", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/answers", `{"answer":"late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMaxRoundsConflict(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t).Interview.ID

	for round := 2; round <= interview.MaxRounds; round++ {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/interviews/"+id+"/next", "").Code)
	}
	rec := s.do(t, http.MethodPost, "/interviews/"+id+"/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOtherUsersInterviewsAreHidden(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t, "alice").Interview.ID

	for _, path := range []string{"/interviews/" + id, "/interviews/" + id + "/report"} {
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, "", "bob").Code, path)
	}
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/interviews/"+id, "", "bob").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/interviews/current", "", "bob").Code)

	rec := s.do(t, http.MethodGet, "/interviews", "", "bob")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[interviewList](t, rec).Count)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/interviews/"+id, "", "alice").Code)
}

func TestDeleteInterview(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t).Interview.ID

	rec := s.do(t, http.MethodPost, "/interviews/"+id+"/answers", `{"answer":"an answer"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	questionID := decode[*interview.Snapshot](t, rec).CurrentQuestion.ID

	rec = s.do(t, http.MethodDelete, "/interviews/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Resp](t, rec).OK)

	assert.Equal(t, 0, s.sessions.Len())
	_, ok := s.evaluations.Get(id, questionID)
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/interviews/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/interviews/current", "").Code)
}

func TestResetReleasesController(t *testing.T) {
	s := newTestServer(t)
	id := s.start(t).Interview.ID
	require.Equal(t, 1, s.sessions.Len())

	rec := s.do(t, http.MethodPost, "/interviews/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session reset", decode[models.Resp](t, rec).Info)
	assert.Equal(t, 0, s.sessions.Len())

	rec = s.do(t, http.MethodPost, "/interviews/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no live session", decode[models.Resp](t, rec).Info)

	// the stored interview is resumed on the next request
	rec = s.do(t, http.MethodGet, "/interviews/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, interview.StateAwaitingAnswer, decode[*interview.Snapshot](t, rec).State)
}

func TestListQueryValidation(t *testing.T) {
	s := newTestServer(t)
	s.start(t)
	s.start(t)

	rec := s.do(t, http.MethodGet, "/interviews?status=paused", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/interviews?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/interviews?limit=1&status=ongoing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[interviewList](t, rec).Count)

	rec = s.do(t, http.MethodGet, "/interviews", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[interviewList](t, rec).Count)
}

func TestEvaluationNotCached(t *testing.T) {
	s := newTestServer(t)
	snap := s.start(t)

	rec := s.do(t, http.MethodGet, "/interviews/"+snap.Interview.ID+"/questions/"+snap.CurrentQuestion.ID+"/evaluation", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
