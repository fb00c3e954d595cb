package models

import (
	"time"
)

// seniority inferred from the job description
type Difficulty string

const (
	DifficultyJunior Difficulty = "junior"
	DifficultyMid    Difficulty = "mid"
	DifficultySenior Difficulty = "senior"
)

type Mode string

const (
	ModeScreening  Mode = "screening"
	ModeTechnical  Mode = "technical"
	ModeBehavioral Mode = "behavioral"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

type Category string

const (
	CategoryTechnical    Category = "technical"
	CategoryBehavioral   Category = "behavioral"
	CategorySystemDesign Category = "system-design"
)

// DefaultUserID owns interviews started without an authenticated caller.
const DefaultUserID = "anonymous"

// Interview is one interview attempt and owns its rounds.
type Interview struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string     `gorm:"index;not null;default:'anonymous'" json:"userId"`
	JobDescription string     `gorm:"type:text;not null" json:"jobDescription"`
	JobTitle       string     `gorm:"not null" json:"jobTitle"`
	TechStack      []string   `gorm:"serializer:json" json:"techStack"`
	Difficulty     Difficulty `gorm:"type:varchar(16);not null" json:"difficulty"`
	Mode           Mode       `gorm:"type:varchar(16);not null" json:"mode"`
	Status         Status     `gorm:"type:varchar(16);not null;index" json:"status"`
	Questions      []Question `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE" json:"questions"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// set by completion
	OverallScore    *float64   `json:"overallScore,omitempty"`
	OverallFeedback *string    `gorm:"type:text" json:"overallFeedback,omitempty"`
	Strengths       []string   `gorm:"serializer:json" json:"strengths,omitempty"`
	Weaknesses      []string   `gorm:"serializer:json" json:"weaknesses,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`

	Exported   bool       `gorm:"not null;default:false;index" json:"-"`
	ExportedAt *time.Time `json:"-"`
}

// Question is a single round. Answer fields stay nil until answered.
type Question struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	InterviewID      string    `gorm:"uniqueIndex:idx_question_round;not null;type:varchar(36)" json:"-"`
	Round            int       `gorm:"uniqueIndex:idx_question_round;not null" json:"round"`
	Text             string    `gorm:"type:text;not null" json:"question"`
	Category         Category  `gorm:"type:varchar(16);not null" json:"category"`
	ExpectedKeywords []string  `gorm:"serializer:json" json:"expectedKeywords"`
	FollowUps        []string  `gorm:"serializer:json" json:"followUps"`
	UserAnswer       *string   `gorm:"type:text" json:"userAnswer,omitempty"`
	Score            *int      `json:"score,omitempty"`
	Feedback         *string   `gorm:"type:text" json:"feedback,omitempty"`
	CreatedAt        time.Time `json:"timestamp"`
}

func (Question) TableName() string {
	return "interview_questions"
}

func (q *Question) Answered() bool {
	return q.UserAnswer != nil
}

// CurrentQuestion returns the latest round, or nil before round 1 exists.
func (i *Interview) CurrentQuestion() *Question {
	if len(i.Questions) == 0 {
		return nil
	}
	return &i.Questions[len(i.Questions)-1]
}

// Answered returns the answered rounds in round order.
func (i *Interview) Answered() []Question {
	answered := make([]Question, 0, len(i.Questions))
	for _, q := range i.Questions {
		if q.Answered() {
			answered = append(answered, q)
		}
	}
	return answered
}

func (i *Interview) Completed() bool {
	return i.Status == StatusCompleted
}

// Clone returns a deep copy so callers can hand out snapshots.
func (i *Interview) Clone() *Interview {
	if i == nil {
		return nil
	}
	out := *i
	out.TechStack = cloneStrings(i.TechStack)
	out.Strengths = cloneStrings(i.Strengths)
	out.Weaknesses = cloneStrings(i.Weaknesses)
	out.OverallScore = clonePtr(i.OverallScore)
	out.OverallFeedback = clonePtr(i.OverallFeedback)
	out.CompletedAt = clonePtr(i.CompletedAt)
	out.ExportedAt = clonePtr(i.ExportedAt)
	if i.Questions != nil {
		out.Questions = make([]Question, len(i.Questions))
		for idx, q := range i.Questions {
			q.ExpectedKeywords = cloneStrings(q.ExpectedKeywords)
			q.FollowUps = cloneStrings(q.FollowUps)
			q.UserAnswer = clonePtr(q.UserAnswer)
			q.Score = clonePtr(q.Score)
			q.Feedback = clonePtr(q.Feedback)
			out.Questions[idx] = q
		}
	}
	return &out
}

// SessionPointer remembers the in-progress interview of a user.
type SessionPointer struct {
	UserID      string    `gorm:"primaryKey;type:varchar(128)"`
	InterviewID string    `gorm:"not null;type:varchar(36)"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// NewInterview carries the fields fixed at creation.
type NewInterview struct {
	UserID         string
	JobDescription string
	JobTitle       string
	TechStack      []string
	Difficulty     Difficulty
	Mode           Mode
}

// InterviewPatch is a shallow merge; nil fields are left untouched.
type InterviewPatch struct {
	JobTitle        *string
	TechStack       []string
	Difficulty      *Difficulty
	OverallFeedback *string
	Strengths       []string
	Weaknesses      []string
}

// Summary holds the fields written by completion.
type Summary struct {
	OverallScore    float64
	OverallFeedback string
	Strengths       []string
	Weaknesses      []string
}

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyJunior, DifficultyMid, DifficultySenior:
		return true
	}
	return false
}

func ValidMode(m Mode) bool {
	switch m {
	case ModeScreening, ModeTechnical, ModeBehavioral:
		return true
	}
	return false
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategorySystemDesign:
		return true
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
