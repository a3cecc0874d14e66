package intent

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const minTokenLength = 2

// vector is a sparse L2-normalised term weight vector keyed by vocabulary index.
type vector map[int]float64

func (v vector) dot(other vector) float64 {
	if len(other) < len(v) {
		v, other = other, v
	}

	var sum float64
	for term, weight := range v {
		sum += weight * other[term]
	}
	return sum
}

func (v vector) norm2() float64 {
	return v.dot(v)
}

func (v vector) normalize() vector {
	n := math.Sqrt(v.norm2())
	if n == 0 {
		return v
	}

	for term := range v {
		v[term] /= n
	}
	return v
}

// tfidf mirrors the common TF-IDF defaults: raw term counts, smoothed idf
// ln((1+n)/(1+df))+1 and L2 normalisation.
type tfidf struct {
	vocabulary map[string]int
	idf        []float64
	stopWords  map[string]bool
}

func fitTFIDF(documents []string, stopWords map[string]bool) *tfidf {
	t := &tfidf{
		vocabulary: make(map[string]int),
		stopWords:  stopWords,
	}

	var df []int
	for _, doc := range documents {
		seen := make(map[int]bool)
		for _, token := range t.tokenize(doc) {
			idx, ok := t.vocabulary[token]
			if !ok {
				idx = len(t.vocabulary)
				t.vocabulary[token] = idx
				df = append(df, 0)
			}
			if !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(documents))
	t.idf = make([]float64, len(df))
	for i, count := range df {
		t.idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}

	return t
}

func (t *tfidf) transform(text string) vector {
	v := make(vector)
	for _, token := range t.tokenize(text) {
		if idx, ok := t.vocabulary[token]; ok {
			v[idx]++
		}
	}

	for idx := range v {
		v[idx] *= t.idf[idx]
	}

	return v.normalize()
}

func (t *tfidf) tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenLength || t.stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
