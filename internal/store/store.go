package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sithumSoft/MockMate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists interviews and their rounds. Every mutation runs in a single
// transaction so readers never observe a partially written record.
type Store struct {
	db      *gorm.DB
	pointer PointerStore
	now     func() time.Time
}

// New creates a store; a nil pointer backend keeps the current-session pointer in the database.
func New(db *gorm.DB, pointer PointerStore) *Store {
	if pointer == nil {
		pointer = NewDBPointer(db)
	}
	return &Store{
		db:      db,
		pointer: pointer,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type ListOptions struct {
	UserID string
	Status models.Status
	Limit  int
}

// Create persists a new ongoing interview with no rounds and points the
// owner's current session at it.
func (s *Store) Create(ctx context.Context, in models.NewInterview) (*models.Interview, error) {
	userID := in.UserID
	if userID == "" {
		userID = models.DefaultUserID
	}
	techStack := in.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	now := s.now()
	iv := &models.Interview{
		ID:             uuid.New().String(),
		UserID:         userID,
		JobDescription: in.JobDescription,
		JobTitle:       in.JobTitle,
		TechStack:      techStack,
		Difficulty:     in.Difficulty,
		Mode:           in.Mode,
		Status:         models.StatusOngoing,
		Questions:      []models.Question{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(iv).Error; err != nil {
		return nil, &models.StorageError{Op: "create", Err: err}
	}

	if err := s.pointer.Set(ctx, userID, iv.ID); err != nil {
		// do not leave an orphaned record behind when the pointer write fails
		if delErr := s.db.WithContext(ctx).Delete(&models.Interview{}, "id = ?", iv.ID).Error; delErr != nil {
			err = errors.Join(err, fmt.Errorf("remove interview %s: %w", iv.ID, delErr))
		}
		return nil, &models.StorageError{Op: "set current session", Err: err}
	}

	return iv, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Interview, error) {
	iv, err := s.load(s.db.WithContext(ctx), id, true)
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// Update shallow-merges the non-nil fields of patch into the interview.
func (s *Store) Update(ctx context.Context, id string, patch models.InterviewPatch) (*models.Interview, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := s.load(tx, id, false)
		if err != nil {
			return err
		}

		if patch.JobTitle != nil {
			iv.JobTitle = *patch.JobTitle
		}
		if patch.TechStack != nil {
			iv.TechStack = patch.TechStack
		}
		if patch.Difficulty != nil {
			iv.Difficulty = *patch.Difficulty
		}
		if patch.OverallFeedback != nil {
			iv.OverallFeedback = patch.OverallFeedback
		}
		if patch.Strengths != nil {
			iv.Strengths = patch.Strengths
		}
		if patch.Weaknesses != nil {
			iv.Weaknesses = patch.Weaknesses
		}
		iv.UpdatedAt = s.now()

		return tx.Omit(clause.Associations).Save(iv).Error
	})
	if err != nil {
		return nil, wrapStorage("update", err)
	}
	return s.Get(ctx, id)
}

// AppendQuestion adds the next round. The round number is derived from the
// number of existing rounds inside the transaction.
func (s *Store) AppendQuestion(ctx context.Context, id string, q models.Question) (*models.Interview, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := s.load(tx, id, false)
		if err != nil {
			return err
		}
		if iv.Completed() {
			return &models.InvalidStateError{Op: "appendQuestion", Reason: "interview is completed"}
		}

		var count int64
		if err := tx.Model(&models.Question{}).Where("interview_id = ?", id).Count(&count).Error; err != nil {
			return err
		}

		now := s.now()
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		q.InterviewID = id
		q.Round = int(count) + 1
		q.UserAnswer, q.Score, q.Feedback = nil, nil, nil
		if q.ExpectedKeywords == nil {
			q.ExpectedKeywords = []string{}
		}
		if q.FollowUps == nil {
			q.FollowUps = []string{}
		}

		if err := tx.Create(&q).Error; err != nil {
			return err
		}
		return tx.Model(&models.Interview{}).Where("id = ?", id).Update("updated_at", now).Error
	})
	if err != nil {
		return nil, wrapStorage("append question", err)
	}
	return s.Get(ctx, id)
}

// RecordAnswer writes the answer, score and feedback onto one round. A second
// call for the same round overwrites the first.
func (s *Store) RecordAnswer(ctx context.Context, id, questionID, answer string, score int, feedback string) (*models.Interview, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := s.load(tx, id, false)
		if err != nil {
			return err
		}
		if iv.Completed() {
			return &models.InvalidStateError{Op: "recordAnswer", Reason: "interview is completed"}
		}

		res := tx.Model(&models.Question{}).
			Where("id = ? AND interview_id = ?", questionID, id).
			Updates(map[string]any{
				"user_answer": answer,
				"score":       score,
				"feedback":    feedback,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Resource: models.ResourceQuestion, ID: questionID}
		}
		return tx.Model(&models.Interview{}).Where("id = ?", id).Update("updated_at", s.now()).Error
	})
	if err != nil {
		return nil, wrapStorage("record answer", err)
	}
	return s.Get(ctx, id)
}

// Complete marks the interview completed and stores its summary.
func (s *Store) Complete(ctx context.Context, id string, summary models.Summary) (*models.Interview, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := s.load(tx, id, false)
		if err != nil {
			return err
		}

		now := s.now()
		score := summary.OverallScore
		feedback := summary.OverallFeedback
		iv.Status = models.StatusCompleted
		iv.OverallScore = &score
		iv.OverallFeedback = &feedback
		iv.Strengths = nonNil(summary.Strengths)
		iv.Weaknesses = nonNil(summary.Weaknesses)
		iv.CompletedAt = &now
		iv.UpdatedAt = now

		return tx.Omit(clause.Associations).Save(iv).Error
	})
	if err != nil {
		return nil, wrapStorage("complete", err)
	}
	return s.Get(ctx, id)
}

// ListAll returns interviews newest first.
func (s *Store) ListAll(ctx context.Context, opts ListOptions) ([]models.Interview, error) {
	query := s.db.WithContext(ctx).Preload("Questions", orderByRound).Order("created_at DESC")
	if opts.UserID != "" {
		query = query.Where("user_id = ?", opts.UserID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var interviews []models.Interview
	if err := query.Find(&interviews).Error; err != nil {
		return nil, &models.StorageError{Op: "list", Err: err}
	}
	return interviews, nil
}

// Delete removes the interview and its rounds. It reports whether anything was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	var owner string
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var iv models.Interview
		err := tx.Select("id", "user_id").First(&iv, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		owner = iv.UserID

		if err := tx.Where("interview_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Interview{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, &models.StorageError{Op: "delete", Err: err}
	}

	if deleted {
		if err := s.ClearCurrentSessionIDIf(ctx, owner, id); err != nil {
			return true, err
		}
	}
	return deleted, nil
}

func (s *Store) SetCurrentSessionID(ctx context.Context, userID, id string) error {
	if err := s.pointer.Set(ctx, ownerOrDefault(userID), id); err != nil {
		return &models.StorageError{Op: "set current session", Err: err}
	}
	return nil
}

// GetCurrentSessionID returns the user's in-progress interview id, if any.
func (s *Store) GetCurrentSessionID(ctx context.Context, userID string) (string, bool, error) {
	id, ok, err := s.pointer.Get(ctx, ownerOrDefault(userID))
	if err != nil {
		return "", false, &models.StorageError{Op: "get current session", Err: err}
	}
	return id, ok, nil
}

func (s *Store) ClearCurrentSessionID(ctx context.Context, userID string) error {
	if err := s.pointer.Clear(ctx, ownerOrDefault(userID)); err != nil {
		return &models.StorageError{Op: "clear current session", Err: err}
	}
	return nil
}

// ClearCurrentSessionIDIf clears the user's pointer only while it still names id,
// so finishing an older interview keeps a newer one current.
func (s *Store) ClearCurrentSessionIDIf(ctx context.Context, userID, id string) error {
	if err := s.pointer.ClearIf(ctx, ownerOrDefault(userID), id); err != nil {
		return &models.StorageError{Op: "clear current session", Err: err}
	}
	return nil
}

// ListUnexported returns completed interviews the exporter has not written yet, oldest first.
func (s *Store) ListUnexported(ctx context.Context, limit int) ([]models.Interview, error) {
	query := s.db.WithContext(ctx).
		Preload("Questions", orderByRound).
		Where("status = ? AND exported = ?", models.StatusCompleted, false).
		Order("completed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var interviews []models.Interview
	if err := query.Find(&interviews).Error; err != nil {
		return nil, &models.StorageError{Op: "list unexported", Err: err}
	}
	return interviews, nil
}

func (s *Store) MarkExported(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := s.now()
	err := s.db.WithContext(ctx).Model(&models.Interview{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"exported": true, "exported_at": now}).Error
	if err != nil {
		return &models.StorageError{Op: "mark exported", Err: err}
	}
	return nil
}

// Ping checks that the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) load(db *gorm.DB, id string, withQuestions bool) (*models.Interview, error) {
	query := db
	if withQuestions {
		query = query.Preload("Questions", orderByRound)
	}

	var iv models.Interview
	err := query.First(&iv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: models.ResourceInterview, ID: id}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get", Err: err}
	}
	if iv.Questions == nil {
		iv.Questions = []models.Question{}
	}
	return &iv, nil
}

func orderByRound(db *gorm.DB) *gorm.DB {
	return db.Order("round ASC")
}

// wrapStorage leaves domain errors untouched and wraps everything else.
func wrapStorage(op string, err error) error {
	if models.IsNotFound(err) || models.IsInvalidState(err) || models.IsStorage(err) {
		return err
	}
	return &models.StorageError{Op: op, Err: err}
}

func ownerOrDefault(userID string) string {
	if userID == "" {
		return models.DefaultUserID
	}
	return userID
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
