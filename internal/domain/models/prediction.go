package models

import "time"

// Direction is the predicted next-session movement.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// PredictionResult is the outcome of one prediction request.
// Confidence and the probability map are expressed on a 0-100 scale;
// for a binary classifier Confidence is always within [50, 100].
type PredictionResult struct {
	Symbol       string
	Prediction   Direction
	Confidence   float64
	CurrentPrice float64
	ProbUp       float64
	ProbDown     float64
	Model        string // candidate name the artifact resolved from
	Timestamp    time.Time
}

// ModelInfo describes a resolved artifact for diagnostics.
type ModelInfo struct {
	Symbol     string
	Candidate  string
	Generation string
	NumInputs  int
	Labels     []string
	NumTrees   int
}
