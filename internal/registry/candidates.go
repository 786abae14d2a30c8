package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"StockPulse/internal/features"
)

// Candidate is one asset-class-scoped artifact location, annotated with the
// feature-set generation it was trained against. Fallback order is data:
// candidates are tried strictly in slice order.
type Candidate struct {
	Name       string
	File       string
	Generation features.Generation
}

// Catalog maps symbols to their ordered candidate lists and resolves
// candidate files against the artifact directory.
type Catalog struct {
	dir          string
	extendedFile string
	originalFile string
}

// NewCatalog validates the artifact naming configuration up front so that a
// misconfigured registry fails at startup, not on the first request.
func NewCatalog(dir, extendedFile, originalFile string) (*Catalog, error) {
	if dir == "" {
		return nil, fmt.Errorf("models dir is required")
	}
	if extendedFile == "" || originalFile == "" {
		return nil, fmt.Errorf("extended and original artifact names are required")
	}
	if extendedFile == originalFile {
		return nil, fmt.Errorf("extended and original artifacts cannot share the file %q", extendedFile)
	}
	return &Catalog{dir: dir, extendedFile: extendedFile, originalFile: originalFile}, nil
}

// CandidatesFor builds the ordered candidate list for a symbol.
// Crypto pairs try a symbol-specific artifact first and fall back to the
// generic equity artifact; equities try the extended feature-set artifact
// first and fall back to the original one.
func (c *Catalog) CandidatesFor(symbol string) []Candidate {
	original := Candidate{
		Name:       strings.TrimSuffix(c.originalFile, filepath.Ext(c.originalFile)),
		File:       c.originalFile,
		Generation: features.GenerationOriginal,
	}
	switch ClassifySymbol(symbol) {
	case Crypto:
		name := symbolArtifactName(symbol)
		return []Candidate{
			{Name: name, File: name + ".gob", Generation: features.GenerationOriginal},
			original,
		}
	default:
		extended := Candidate{
			Name:       strings.TrimSuffix(c.extendedFile, filepath.Ext(c.extendedFile)),
			File:       c.extendedFile,
			Generation: features.GenerationExtended,
		}
		return []Candidate{extended, original}
	}
}

// Path resolves a candidate file inside the artifact directory.
func (c *Catalog) Path(file string) string {
	return filepath.Join(c.dir, file)
}

func symbolArtifactName(symbol string) string {
	return strings.ReplaceAll(strings.ToLower(symbol), "-", "_") + "_model"
}
