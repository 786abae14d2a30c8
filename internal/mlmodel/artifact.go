package mlmodel

import (
	"encoding/gob"
	"fmt"
	"io"

	randomforest "github.com/malaschitz/randomForest"
)

// FormatVersion is bumped whenever the on-disk envelope changes shape.
const FormatVersion = 1

// Artifact is a trained ensemble classifier plus the metadata needed to use
// it safely: the exact feature names (and order) it was fit against and the
// class labels its vote indices map to. Immutable once decoded; safe to
// share between goroutines.
type Artifact struct {
	featureNames []string
	labels       []string
	forest       *randomforest.Forest
}

// envelope is the gob wire form of an artifact.
type envelope struct {
	Version      int
	FeatureNames []string
	Labels       []string
	Forest       *randomforest.Forest
}

// New builds an artifact from a trained forest. Used by the offline trainer
// and by tests; the serving path only ever decodes.
func New(featureNames, labels []string, forest *randomforest.Forest) *Artifact {
	return &Artifact{featureNames: featureNames, labels: labels, forest: forest}
}

// Train fits a random forest on the given samples and wraps it as an
// artifact. y values index into labels.
func Train(featureNames, labels []string, x [][]float64, y []int, trees int) *Artifact {
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: y}
	forest.Train(trees)
	return New(featureNames, labels, forest)
}

// Decode reads a gob-encoded artifact and validates its internal
// consistency. Any mismatch between the declared feature names and the
// forest's input width fails closed.
func Decode(r io.Reader) (*Artifact, error) {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if env.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", env.Version)
	}
	if len(env.FeatureNames) == 0 {
		return nil, fmt.Errorf("artifact missing feature names")
	}
	if len(env.Labels) < 2 {
		return nil, fmt.Errorf("artifact declares %d class labels, need at least 2", len(env.Labels))
	}
	if env.Forest == nil {
		return nil, fmt.Errorf("artifact missing forest")
	}
	if env.Forest.Features != 0 && env.Forest.Features != len(env.FeatureNames) {
		return nil, fmt.Errorf("artifact forest expects %d inputs but declares %d feature names",
			env.Forest.Features, len(env.FeatureNames))
	}
	return New(env.FeatureNames, env.Labels, env.Forest), nil
}

// Encode writes the artifact in its gob wire form.
func (a *Artifact) Encode(w io.Writer) error {
	env := envelope{
		Version:      FormatVersion,
		FeatureNames: a.featureNames,
		Labels:       a.labels,
		Forest:       a.forest,
	}
	if err := gob.NewEncoder(w).Encode(&env); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// NumFeatures returns the input vector width the classifier expects.
func (a *Artifact) NumFeatures() int { return len(a.featureNames) }

// FeatureNames returns a copy of the training-time feature order.
func (a *Artifact) FeatureNames() []string {
	out := make([]string, len(a.featureNames))
	copy(out, a.featureNames)
	return out
}

// Labels returns a copy of the class labels, index-aligned with the
// probability vector.
func (a *Artifact) Labels() []string {
	out := make([]string, len(a.labels))
	copy(out, a.labels)
	return out
}

// NumTrees reports the ensemble size.
func (a *Artifact) NumTrees() int { return a.forest.NTrees }

// Probabilities runs class-probability inference over a feature vector.
// The returned slice is index-aligned with Labels and sums to 1.
func (a *Artifact) Probabilities(x []float64) ([]float64, error) {
	if len(x) != len(a.featureNames) {
		return nil, fmt.Errorf("vector has %d values, model expects %d", len(x), len(a.featureNames))
	}
	votes := a.forest.Vote(x)
	if len(votes) < len(a.labels) {
		return nil, fmt.Errorf("forest voted over %d classes, artifact declares %d labels", len(votes), len(a.labels))
	}
	probs := make([]float64, len(a.labels))
	var total float64
	for i := range probs {
		probs[i] = votes[i]
		total += votes[i]
	}
	if total <= 0 {
		return nil, fmt.Errorf("forest produced no votes")
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, nil
}
