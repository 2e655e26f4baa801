package app

import (
	"errors"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/practicum"
)

// Stage names the pipeline step an iteration failed in.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageValidate Stage = "validate"
	StageParse    Stage = "parse"
	StagePoll     Stage = "poll"
)

// ErrorKind is the category of an iteration failure.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindValidation ErrorKind = "validation"
	KindDomain     ErrorKind = "domain"
	KindUnknown    ErrorKind = "unknown"
)

// IterationError is the single classified error an iteration produces.
// Its message is the underlying error's message, which is what ends up in the chat.
type IterationError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *IterationError) Error() string {
	return e.Err.Error()
}

func (e *IterationError) Unwrap() error {
	return e.Err
}

func classify(stage Stage, err error) *IterationError {
	var (
		statusErr  *practicum.StatusCodeError
		requestErr *practicum.RequestError
	)

	kind := KindUnknown
	switch {
	case errors.As(err, &statusErr), errors.As(err, &requestErr):
		kind = KindTransport
	case errors.Is(err, practicum.ErrInvalidJSON), errors.Is(err, homework.ErrResponseType):
		kind = KindValidation
	case errors.Is(err, homework.ErrMissingHomeworkName), errors.Is(err, homework.ErrUnknownStatus):
		kind = KindDomain
	}
	return &IterationError{Stage: stage, Kind: kind, Err: err}
}
