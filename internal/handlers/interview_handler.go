package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sithumSoft/MockMate/internal/feedback"
	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/metrics"
	"github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/models"
	"github.com/sithumSoft/MockMate/internal/store"
	"github.com/sithumSoft/MockMate/internal/utils"
)

// InterviewStore is the read side of the store used directly by handlers.
type InterviewStore interface {
	Get(ctx context.Context, id string) (*models.Interview, error)
	ListAll(ctx context.Context, opts store.ListOptions) ([]models.Interview, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetCurrentSessionID(ctx context.Context, userID string) (string, bool, error)
}

type InterviewHandler struct {
	sessions    *interview.Sessions
	store       InterviewStore
	evaluations *feedback.EvaluationCache
	logger      *zap.Logger
}

func NewInterviewHandler(sessions *interview.Sessions, st InterviewStore, evaluations *feedback.EvaluationCache, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		sessions:    sessions,
		store:       st,
		evaluations: evaluations,
		logger:      logger,
	}
}

type interviewList struct {
	Interviews []models.Interview `json:"interviews"`
	Count      int                `json:"count"`
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)
	userID := middleware.UserIDFromContext(r.Context())

	_, snap, err := h.sessions.Start(r.Context(), userID, req.JobDescription, req.Mode)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	metrics.InterviewStarted(req.Mode)
	metrics.FallbacksUsed(len(snap.Warnings))
	utils.JSON(w, http.StatusCreated, snap)
}

func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{UserID: middleware.UserIDFromContext(r.Context())}

	if status := r.URL.Query().Get("status"); status != "" {
		switch models.Status(status) {
		case models.StatusOngoing, models.StatusCompleted:
			opts.Status = models.Status(status)
		default:
			utils.WriteError(w, http.StatusBadRequest, "invalid_status", "status must be one of: ongoing, completed")
			return
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			utils.WriteError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}

	interviews, err := h.store.ListAll(r.Context(), opts)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if interviews == nil {
		interviews = []models.Interview{}
	}
	utils.JSON(w, http.StatusOK, interviewList{Interviews: interviews, Count: len(interviews)})
}

func (h *InterviewHandler) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	id, ok, err := h.store.GetCurrentSessionID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if !ok {
		writeDomainError(w, h.logger, &models.NotFoundError{Resource: models.ResourceSession})
		return
	}

	ctrl, err := h.controller(r, id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, ctrl.Snapshot())
}

func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.owned(r, id); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if !deleted {
		writeDomainError(w, h.logger, &models.NotFoundError{Resource: models.ResourceInterview, ID: id})
		return
	}

	h.sessions.Release(id)
	h.evaluations.DeleteInterview(id)
	h.logger.Info("Interview deleted", zap.String("interview_id", id))
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: "interview deleted"})
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	ctrl, err := h.controller(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	snap, err := ctrl.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	if snap.LastEvaluation != nil && snap.CurrentQuestion != nil {
		h.evaluations.Set(snap.Interview.ID, snap.CurrentQuestion.ID, snap.LastEvaluation)
		metrics.AnswerScored(int(snap.LastEvaluation.Score))
	}
	metrics.FallbacksUsed(len(snap.Warnings))
	utils.JSON(w, http.StatusOK, snap)
}

func (h *InterviewHandler) NextHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	snap, err := ctrl.NextQuestion(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	metrics.FallbacksUsed(len(snap.Warnings))
	utils.JSON(w, http.StatusOK, snap)
}

func (h *InterviewHandler) FinishHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.controller(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	snap, err := h.sessions.Finish(r.Context(), ctrl)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	metrics.InterviewFinished(snap.Interview.Mode)
	metrics.FallbacksUsed(len(snap.Warnings))
	utils.JSON(w, http.StatusOK, snap)
}

// ResetHandler drops the live controller. The stored interview is kept and
// the next request for it resumes from storage.
func (h *InterviewHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.owned(r, id); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	info := "no live session"
	if h.sessions.Release(id) {
		info = "session reset"
	}
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: info})
}

func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	iv, err := h.owned(r, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, interview.BuildReport(iv))
}

// EvaluationHandler returns the full evaluation of a recently answered
// round, including the model answer that is not stored with the round.
func (h *InterviewHandler) EvaluationHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	questionID := chi.URLParam(r, "questionID")
	if _, err := h.owned(r, id); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	eval, ok := h.evaluations.Get(id, questionID)
	if !ok {
		writeDomainError(w, h.logger, &models.NotFoundError{Resource: models.ResourceQuestion, ID: questionID})
		return
	}
	utils.JSON(w, http.StatusOK, eval)
}

// controller returns the live controller for id if the caller owns the interview.
func (h *InterviewHandler) controller(r *http.Request, id string) (*interview.Controller, error) {
	ctrl, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	snap := ctrl.Snapshot()
	if snap.Interview == nil || snap.Interview.UserID != middleware.UserIDFromContext(r.Context()) {
		return nil, &models.NotFoundError{Resource: models.ResourceInterview, ID: id}
	}
	return ctrl, nil
}

// owned loads the stored interview, hiding other users' interviews as not found.
func (h *InterviewHandler) owned(r *http.Request, id string) (*models.Interview, error) {
	iv, err := h.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if iv.UserID != middleware.UserIDFromContext(r.Context()) {
		return nil, &models.NotFoundError{Resource: models.ResourceInterview, ID: id}
	}
	return iv, nil
}
