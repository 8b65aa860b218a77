package vectorize

import (
	"math"
	"sort"
	"strings"
)

// fitTFIDF builds the vocabulary from the corpus, computes smoothed IDF
// weights, and produces one L2-normalized sparse vector per document.
//
// Vocabulary terms exclude stop words. When the vocabulary would exceed
// maxFeatures, the terms with the highest total frequency across the corpus
// are kept, ties broken alphabetically. IDF uses the smoothed log scale
// idf(t) = ln((1+N)/(1+df(t))) + 1.
func fitTFIDF(soups []string, maxFeatures int) (*VectorSet, error) {
	df := make(map[string]int)
	cf := make(map[string]int)
	docs := make([][]string, len(soups))
	for i, soup := range soups {
		tokens := tokenize(soup)
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			cf[tok]++
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
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if cf[terms[i]] != cf[terms[j]] {
				return cf[terms[i]] > cf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(soups))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([]SparseVector, len(docs))
	for i, tokens := range docs {
		rows[i] = weighDocument(tokens, vocab, idf)
	}

	return &VectorSet{
		Kind:   KindSparse,
		Dim:    len(terms),
		Vocab:  terms,
		Sparse: rows,
	}, nil
}

// weighDocument computes the L2-normalized tf-idf weights of one document
// over the fitted vocabulary.
func weighDocument(tokens []string, vocab map[string]int, idf []float64) SparseVector {
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := vocab[tok]; ok {
			tf[idx]++
			total++
		}
	}
	vec := make(SparseVector, len(tf))
	if total == 0 {
		return vec
	}
	norm := 0.0
	for idx, count := range tf {
		w := float64(count) / float64(total) * idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// tokenize splits a soup into terms. Soups are already lower-cased and
// restricted to [a-z0-9 |]; the pipe acts as a separator here.
func tokenize(soup string) []string {
	fields := strings.FieldsFunc(soup, func(r rune) bool {
		return r == ' ' || r == '|'
	})
	out := fields[:0]
	for _, tok := range fields {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// stopWords is the fixed English stop-word list excluded from the
// vocabulary.
var stopWords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "being", "it", "its", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further",
		"than", "so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "not", "no", "nor", "only",
		"he", "she", "they", "them", "his", "her", "their", "we", "you",
		"i", "me", "my", "our", "us", "what", "which", "who", "whom", "when",
		"where", "why", "how", "all", "any", "both", "each", "few", "more",
		"most", "other", "some", "do", "does", "did", "doing", "has", "have",
		"had", "having", "there", "here", "while", "because", "until", "against",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
