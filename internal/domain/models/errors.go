package models

import "fmt"

// ErrorKind classifies terminal prediction failures. Every failure of a
// prediction request carries exactly one kind; the serving layer maps kinds
// to HTTP statuses and decides about retries.
type ErrorKind string

const (
	KindInsufficientHistory ErrorKind = "insufficient_history"
	KindModelNotFound       ErrorKind = "model_not_found"
	KindCorruptArtifact     ErrorKind = "corrupt_artifact"
	KindFeatureMismatch     ErrorKind = "feature_mismatch"
	KindDataUnavailable     ErrorKind = "data_unavailable"
)

// Stage names the pipeline step a failure occurred in.
type Stage string

const (
	StageFetching  Stage = "fetching"
	StageFeatures  Stage = "feature_computing"
	StageResolving Stage = "model_resolving"
	StageInferring Stage = "inferring"
)

// PredictError is a structured, terminal prediction failure.
type PredictError struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Err     error
}

func (e *PredictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PredictError) Unwrap() error { return e.Err }

// Is matches by kind so callers can test errors.Is(err, &PredictError{Kind: ...}).
func (e *PredictError) Is(target error) bool {
	t, ok := target.(*PredictError)
	return ok && t.Kind == e.Kind
}

// NewPredictError builds a typed failure for the given stage.
func NewPredictError(kind ErrorKind, stage Stage, format string, a ...interface{}) *PredictError {
	return &PredictError{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, a...)}
}

// WrapPredictError attaches an underlying cause.
func WrapPredictError(kind ErrorKind, stage Stage, err error, format string, a ...interface{}) *PredictError {
	return &PredictError{Kind: kind, Stage: stage, Message: fmt.Sprintf(format, a...), Err: err}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInsufficientHistory = &PredictError{Kind: KindInsufficientHistory}
	ErrModelNotFound       = &PredictError{Kind: KindModelNotFound}
	ErrCorruptArtifact     = &PredictError{Kind: KindCorruptArtifact}
	ErrFeatureMismatch     = &PredictError{Kind: KindFeatureMismatch}
	ErrDataUnavailable     = &PredictError{Kind: KindDataUnavailable}
)
