package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type StartInterviewRequest struct {
	JobDescription string `json:"jobDescription" validate:"required,max=20000"`
	Mode           Mode   `json:"mode" validate:"required,oneof=screening technical behavioral"`
}

func (r *StartInterviewRequest) Validate() error {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.Mode = Mode(strings.ToLower(strings.TrimSpace(string(r.Mode))))
	if r.Mode == "" {
		r.Mode = ModeTechnical
	}
	return structError(validate.Struct(r))
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=10000"`
}

func (r *SubmitAnswerRequest) Validate() error {
	r.Answer = strings.TrimSpace(r.Answer)
	return structError(validate.Struct(r))
}

type ChatRequest struct {
	Message   string        `json:"message" validate:"required,max=4000"`
	History   []ChatMessage `json:"history" validate:"max=50,dive"`
	RequestID string        `json:"request_id"`
}

func (r *ChatRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	return structError(validate.Struct(r))
}

// structError converts validator output into the uniform error body.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ErrorResponse{Code: "validation_error", Message: err.Error()}
	}
	resp := &ErrorResponse{
		Code:    "validation_error",
		Message: "Request validation failed",
	}
	for _, fe := range fieldErrs {
		resp.Details = append(resp.Details, ValidationErrorDetail{
			Field:  fe.Namespace(),
			Reason: fe.Tag(),
		})
	}
	if len(fieldErrs) == 1 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			resp.Code = "missing_" + strings.ToLower(fe.Field())
			resp.Message = fe.Field() + " is required"
		case "oneof":
			resp.Code = "invalid_" + strings.ToLower(fe.Field())
			resp.Message = fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
		}
	}
	return resp
}
