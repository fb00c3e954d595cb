package models

import (
	"errors"
	"fmt"
)

const (
	ResourceInterview = "interview"
	ResourceQuestion  = "question"
	ResourceSession   = "current session"
)

// NotFoundError reports an unknown interview or question id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// InvalidStateError reports an operation attempted in the wrong lifecycle state.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Op + ": " + e.Reason
}

// ErrBusy is the reason used when a collaborator call is already in flight.
const ErrBusy = "another operation is in progress"

type CollaboratorKind string

const (
	KindParse      CollaboratorKind = "parse"
	KindGeneration CollaboratorKind = "generation"
	KindEvaluation CollaboratorKind = "evaluation"
	KindSummary    CollaboratorKind = "summary"
	KindChat       CollaboratorKind = "chat"
)

// CollaboratorError wraps a failure from the question generator, evaluator,
// summarizer or chat backend.
type CollaboratorError struct {
	Kind CollaboratorKind
	Err  error
}

func (e *CollaboratorError) Error() string {
	if e.Err == nil {
		return string(e.Kind) + " failed"
	}
	return string(e.Kind) + " failed: " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure of the session store backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsCollaborator(err error) bool {
	var target *CollaboratorError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}
