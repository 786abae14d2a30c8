package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/mlmodel"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// Registry resolves usable model artifacts for symbols. Resolved artifacts
// are cached process-wide keyed by their storage location; the cache is only
// ever appended to and entries live until shutdown. First-access races are
// serialized with a per-location lock so each artifact is loaded exactly
// once (check-then-set under the lock), and the artifacts themselves are
// read-only after construction, so cached values are shared freely across
// request goroutines.
type Registry struct {
	catalog    *Catalog
	remoteBase string
	client     *xhttp.Client
	l          *applogger.Logger

	mu    sync.Mutex
	cache map[string]*mlmodel.Artifact
	locks map[string]*sync.Mutex
}

// New creates a registry over the given catalog. remoteBase may be empty,
// in which case placeholder artifacts cannot be resolved and fall through
// to the next candidate.
func New(catalog *Catalog, remoteBase string, client *xhttp.Client) *Registry {
	return &Registry{
		catalog:    catalog,
		remoteBase: remoteBase,
		client:     client,
		cache:      make(map[string]*mlmodel.Artifact),
		locks:      make(map[string]*sync.Mutex),
	}
}

// SetLogger injects a structured logger.
func (r *Registry) SetLogger(l *applogger.Logger) { r.l = l }

// CandidatesFor exposes the catalog's ordered candidate list for a symbol.
func (r *Registry) CandidatesFor(symbol string) []Candidate {
	return r.catalog.CandidatesFor(symbol)
}

// Resolve walks the candidate list in order and returns the first artifact
// that loads and matches its candidate's declared generation width. Identical
// inputs always resolve to the same candidate. Fails with a model-not-found
// error when no candidate is usable.
func (r *Registry) Resolve(ctx context.Context, candidates []Candidate) (*mlmodel.Artifact, Candidate, error) {
	var lastErr error
	for _, cand := range candidates {
		art, err := r.load(ctx, cand)
		if err != nil {
			if r.l != nil {
				r.l.Warn("registry candidate skipped",
					applogger.String("candidate", cand.Name), applogger.Error(err))
			}
			lastErr = err
			continue
		}
		// A generation label that contradicts the artifact's actual input
		// width means the metadata cannot be trusted: fail closed and move on.
		if art.NumFeatures() != cand.Generation.Dim() {
			lastErr = fmt.Errorf("candidate %s: artifact expects %d inputs, generation %q requires %d",
				cand.Name, art.NumFeatures(), cand.Generation, cand.Generation.Dim())
			if r.l != nil {
				r.l.Warn("registry candidate generation mismatch",
					applogger.String("candidate", cand.Name), applogger.Error(lastErr))
			}
			continue
		}
		return art, cand, nil
	}
	err := models.WrapPredictError(models.KindModelNotFound, models.StageResolving, lastErr,
		"no usable artifact among %d candidates", len(candidates))
	return nil, Candidate{}, err
}

// load returns the cached artifact for the candidate's location, reading
// and decoding it on first access.
func (r *Registry) load(ctx context.Context, cand Candidate) (*mlmodel.Artifact, error) {
	path := r.catalog.Path(cand.File)

	lock := r.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	art, ok := r.cache[path]
	r.mu.Unlock()
	if ok {
		return art, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	if isPlaceholder(data) {
		fetched, ferr := r.fetchRemote(ctx, cand.File)
		if ferr != nil {
			return nil, models.WrapPredictError(models.KindCorruptArtifact, models.StageResolving, ferr,
				"artifact %s is a storage placeholder and remote resolution failed", cand.File)
		}
		// Replace the pointer so later processes read the real bytes.
		// Best-effort: a read-only models dir only costs a re-download.
		if werr := os.WriteFile(path, fetched, 0o644); werr != nil && r.l != nil {
			r.l.Warn("registry could not persist fetched artifact",
				applogger.String("path", path), applogger.Error(werr))
		}
		data = fetched
	}

	art, err = mlmodel.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.WrapPredictError(models.KindCorruptArtifact, models.StageResolving, err,
			"artifact %s did not deserialize", cand.File)
	}

	r.mu.Lock()
	r.cache[path] = art
	r.mu.Unlock()
	if r.l != nil {
		r.l.Info("registry artifact loaded",
			applogger.String("candidate", cand.Name),
			applogger.Int("inputs", art.NumFeatures()),
			applogger.Int("trees", art.NumTrees()))
	}
	return art, nil
}

// fetchRemote downloads the genuine artifact bytes for a placeholder.
func (r *Registry) fetchRemote(ctx context.Context, file string) ([]byte, error) {
	if r.remoteBase == "" || r.client == nil {
		return nil, fmt.Errorf("no remote artifact source configured")
	}
	var body []byte
	err := r.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    r.remoteBase + "/" + file,
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", file, err)
	}
	if isPlaceholder(body) {
		return nil, fmt.Errorf("remote copy of %s is itself a placeholder", file)
	}
	return body, nil
}

// CachedLocations reports how many artifacts are resident; used by metrics
// and diagnostics.
func (r *Registry) CachedLocations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Registry) lockFor(path string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[path]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.locks[path] = l
	return l
}
