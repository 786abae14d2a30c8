package models

import "time"

// FeatureRow is a fully-defined, ordered feature vector selected for
// inference. Names and Values are index-aligned; the order is a binding
// contract with the trained artifact and must never be re-sorted.
type FeatureRow struct {
	Symbol    string
	Timestamp time.Time
	Names     []string
	Values    []float64
}

// Len returns the vector width.
func (r FeatureRow) Len() int { return len(r.Values) }
