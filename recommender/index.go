package recommender

import (
	"math"
	"strings"
)

// Resolution is the outcome of matching a query against candidate labels.
type Resolution struct {
	Label string
	Score float64
	// Scores holds the similarity of every candidate, in candidate order.
	Scores []float64
}

// ResolveLabel returns the candidate most similar to query.
//
// The TF-IDF vocabulary is fitted on the query plus the candidates only, so the
// result depends on which candidates are present. Ties go to the earliest
// candidate, and a label is returned even when every similarity is zero.
func ResolveLabel(query string, candidates []string) (string, error) {
	res, err := ResolveLabelScored(query, candidates)
	if err != nil {
		return "", err
	}
	return res.Label, nil
}

// ResolveLabelScored is ResolveLabel with the similarity scores attached.
func ResolveLabelScored(query string, candidates []string) (Resolution, error) {
	if len(candidates) == 0 {
		return Resolution{}, ErrNoCandidates
	}
	if strings.TrimSpace(query) == "" {
		return Resolution{}, ErrEmptyQuery
	}
	corpus := make([]string, 0, len(candidates)+1)
	corpus = append(corpus, query)
	corpus = append(corpus, candidates...)
	_, vecs := FitTransform(corpus)

	scores := make([]float64, len(candidates))
	best := 0
	for i := range candidates {
		scores[i] = cosineSimilarity(vecs[0], vecs[i+1])
		if scores[i] > scores[best] {
			best = i
		}
	}
	return Resolution{Label: candidates[best], Score: scores[best], Scores: scores}, nil
}

func cosineSimilarity(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
