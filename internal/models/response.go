package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Resp struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"request_id"`
	Provider  string `json:"provider"`
}

// InterviewCompletedEvent is published once an interview is finished.
type InterviewCompletedEvent struct {
	InterviewID       string  `json:"interviewId"`
	UserID            string  `json:"userId"`
	JobTitle          string  `json:"jobTitle"`
	Mode              Mode    `json:"mode"`
	OverallScore      float64 `json:"overallScore"`
	TotalQuestions    int     `json:"totalQuestions"`
	AnsweredQuestions int     `json:"answeredQuestions"`
	CompletedAt       string  `json:"completedAt"`
}
