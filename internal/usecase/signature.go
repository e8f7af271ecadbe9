package usecase

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"financeguard/internal/domain"
)

// matchThreshold is the minimum similarity for a pattern match to be kept.
const matchThreshold = 0.7

// SimilarityFunc scores how alike a query pattern and a stored signature
// are, in [0, 1].
type SimilarityFunc func(pattern domain.Pattern, signature domain.Signature) float64

// SignatureBuilder derives one behavioral fingerprint per branch and matches
// query patterns against them. Signatures are built once at construction and
// never updated incrementally.
type SignatureBuilder struct {
	signatures map[string]domain.Signature
	similarity SimilarityFunc
}

// SignatureOption configures a SignatureBuilder.
type SignatureOption func(*SignatureBuilder)

// WithSimilarity replaces the similarity function used by Match.
func WithSimilarity(fn SimilarityFunc) SignatureOption {
	return func(b *SignatureBuilder) { b.similarity = fn }
}

// NewSignatureBuilder builds signatures for every branch in the table.
//
// The default similarity function is a placeholder that draws from a fixed
// random range, so match ordering carries no meaning yet. Callers that need
// repeatable matching inject their own function with WithSimilarity.
// TODO: replace the placeholder with cosine distance over the concatenated
// pattern vectors once the pattern schema is frozen.
func NewSignatureBuilder(table []domain.Transaction, opts ...SignatureOption) *SignatureBuilder {
	b := &SignatureBuilder{
		signatures: make(map[string]domain.Signature),
		similarity: placeholderSimilarity(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.build(table)
	return b
}

// placeholderSimilarity ignores its inputs and draws from [0.5, 0.9), the
// range the match threshold was tuned against.
func placeholderSimilarity(seed int64) SimilarityFunc {
	rng := rand.New(rand.NewSource(seed))
	var mu sync.Mutex
	return func(domain.Pattern, domain.Signature) float64 {
		mu.Lock()
		defer mu.Unlock()
		return 0.5 + rng.Float64()*0.4
	}
}

func (b *SignatureBuilder) build(table []domain.Transaction) {
	byBranch := make(map[string][]domain.Transaction)
	for _, tx := range table {
		byBranch[tx.Branch] = append(byBranch[tx.Branch], tx)
	}

	for branch, rows := range byBranch {
		sig := domain.Signature{
			ID:     uuid.NewString(),
			Branch: branch,
		}

		var hourCounts, hourFailed [24]int
		var dayCounts, dayFailed [7]int
		amounts := make([]float64, 0, len(rows))
		failures := make([]time.Time, 0)
		for _, tx := range rows {
			hourCounts[tx.Hour]++
			dayCounts[tx.Weekday]++
			if tx.Failed {
				hourFailed[tx.Hour]++
				dayFailed[tx.Weekday]++
				failures = append(failures, tx.Timestamp)
			}
			amounts = append(amounts, tx.Amount.InexactFloat64())
		}

		for h := 0; h < 24; h++ {
			sig.Hourly[h] = ratio(hourFailed[h], hourCounts[h])
		}
		for d := 0; d < 7; d++ {
			sig.Daily[d] = ratio(dayFailed[d], dayCounts[d])
		}
		copy(sig.AmountHist[:], histogram(amounts, 10))
		sig.Velocity = failureVelocity(failures)

		b.signatures[branch] = sig
	}
}

// failureVelocity is the inverse of the mean gap in hours between
// consecutive failures, taken in chronological order. Fewer than two
// failures, or a non-positive mean gap, yield 0.
func failureVelocity(failures []time.Time) float64 {
	if len(failures) < 2 {
		return 0
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Before(failures[j]) })

	var totalHours float64
	for i := 1; i < len(failures); i++ {
		totalHours += failures[i].Sub(failures[i-1]).Hours()
	}
	meanGap := totalHours / float64(len(failures)-1)
	if meanGap <= 0 {
		return 0
	}
	return 1 / meanGap
}

// Match compares a query pattern against every stored signature and returns
// matches above the similarity threshold, best first. Equal similarities
// order by branch name.
func (b *SignatureBuilder) Match(pattern domain.Pattern) []domain.PatternMatch {
	branches := make([]string, 0, len(b.signatures))
	for branch := range b.signatures {
		branches = append(branches, branch)
	}
	sort.Strings(branches)

	matches := make([]domain.PatternMatch, 0)
	for _, branch := range branches {
		sig := b.signatures[branch]
		similarity := b.similarity(pattern, sig)
		if similarity > matchThreshold {
			matches = append(matches, domain.PatternMatch{
				Branch:      branch,
				Similarity:  similarity,
				SignatureID: sig.ID,
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	return matches
}

// Signatures returns every branch signature, sorted by branch name.
func (b *SignatureBuilder) Signatures() []domain.Signature {
	out := make([]domain.Signature, 0, len(b.signatures))
	for _, sig := range b.signatures {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}
