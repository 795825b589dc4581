// Package match pairs decoded blobs with evidence candidates by size.
package match

import (
	"math"

	"reclaim/internal/evidence"
)

// Suggestion is the best candidate found for a blob.
type Suggestion struct {
	Candidate evidence.Candidate
	// RelError is |blobSize - candidateSize| / candidateSize.
	RelError float64
}

// Matcher scores evidence candidates against blob sizes.
type Matcher struct {
	tolerance    float64
	minBlobBytes int64
}

// New builds a matcher. tolerance is the maximum relative size error accepted,
// inclusive. Blobs smaller than minBlobBytes never receive a suggestion.
func New(tolerance float64, minBlobBytes int64) *Matcher {
	return &Matcher{tolerance: tolerance, minBlobBytes: minBlobBytes}
}

// Suggest returns the candidate whose claimed size is nearest the blob's
// actual size, provided the relative error is within tolerance. Candidates
// without a positive size are skipped. Ties keep the earliest candidate in
// evidence order, so runs over the same evidence are stable. The boolean is
// false when no candidate qualifies.
func (m *Matcher) Suggest(blobSize int64, candidates []evidence.Candidate) (Suggestion, bool) {
	if blobSize <= 0 || blobSize < m.minBlobBytes {
		return Suggestion{}, false
	}

	best := Suggestion{RelError: math.Inf(1)}
	found := false
	for _, candidate := range candidates {
		if candidate.Size <= 0 {
			continue
		}
		relErr := math.Abs(float64(blobSize-candidate.Size)) / float64(candidate.Size)
		if relErr < best.RelError {
			best = Suggestion{Candidate: candidate, RelError: relErr}
			found = true
		}
	}
	if !found || best.RelError > m.tolerance {
		return Suggestion{}, false
	}
	return best, true
}

// DuplicateNames returns the set of names suggested for more than one blob.
// The caller surfaces these during review; the matcher never resolves them.
func DuplicateNames(suggestions map[string]Suggestion) map[string]bool {
	counts := make(map[string]int)
	for _, suggestion := range suggestions {
		counts[suggestion.Candidate.Name]++
	}
	duplicates := make(map[string]bool)
	for name, count := range counts {
		if count > 1 {
			duplicates[name] = true
		}
	}
	return duplicates
}
