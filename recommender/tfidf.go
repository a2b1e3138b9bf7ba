package recommender

import (
	"math"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
)

// tokenPattern keeps runs of two or more word characters. Combining marks are
// word characters so Devanagari and Telugu words stay whole.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Tokenize case-folds text and splits it into terms.
func Tokenize(text string) []string {
	folded := cases.Fold().String(NormalizeText(text))
	return tokenPattern.FindAllString(folded, -1)
}

// Vector is a dense TF-IDF vector over a Vectorizer's vocabulary.
type Vector []float64

// Vectorizer holds the vocabulary and inverse document frequencies learned
// from one closed corpus. It is built per request and never reused across corpora.
type Vectorizer struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// FitTransform learns the vocabulary of docs and returns the vectorizer with
// one L2-normalized TF-IDF vector per document.
func FitTransform(docs []string) (*Vectorizer, []Vector) {
	tokens := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokens[i] = Tokenize(doc)
		seen := make(map[string]struct{}, len(tokens[i]))
		for _, tok := range tokens[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vecs := make([]Vector, len(docs))
	for i := range docs {
		vecs[i] = v.vectorize(tokens[i])
	}
	return v, vecs
}

// Transform vectorizes text against the fitted vocabulary. Unknown terms are ignored.
func (v *Vectorizer) Transform(text string) Vector {
	return v.vectorize(Tokenize(text))
}

// Terms returns the vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

func (v *Vectorizer) vectorize(tokens []string) Vector {
	vec := make(Vector, len(v.terms))
	for _, tok := range tokens {
		if idx, ok := v.vocab[tok]; ok {
			vec[idx]++
		}
	}
	var sum float64
	for i := range vec {
		vec[i] *= v.idf[i]
		sum += vec[i] * vec[i]
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
