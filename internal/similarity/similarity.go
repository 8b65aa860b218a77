// Package similarity computes pairwise cosine similarity over a vector set
// and caches the resulting matrix as an advisory artifact.
package similarity

import (
	"math"

	"github.com/hana/reelmind/internal/vectorize"
)

// Matrix is a square cosine-similarity matrix. Row and column i refer to the
// same entity as row i of the vector set it was computed from. Entries lie in
// [-1, 1]; the diagonal is exactly 1.0 by convention.
type Matrix struct {
	Strategy vectorize.Strategy `json:"strategy"`
	Size     int                `json:"size"`
	Rows     [][]float64        `json:"rows"`
}

// Row returns row i of the matrix.
func (m *Matrix) Row(i int) []float64 {
	return m.Rows[i]
}

// Compute builds the full pairwise cosine-similarity matrix for vs. Sparse
// vectors are multiplied directly; no dense conversion is needed for the
// pairwise form. Zero-vector rows yield 0.0 against everything, never NaN,
// while the diagonal stays 1.0.
func Compute(vs *vectorize.VectorSet) *Matrix {
	n := vs.Len()
	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = rowNorm(vs, i)
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sim float64
			if norms[i] > 0 && norms[j] > 0 {
				sim = rowDot(vs, i, j) / (norms[i] * norms[j])
			}
			rows[i][j] = sim
			rows[j][i] = sim
		}
	}

	return &Matrix{Strategy: vs.Strategy, Size: n, Rows: rows}
}

// AgainstAll computes the cosine similarity of a dense query vector against
// every row of vs, in row order.
func AgainstAll(vs *vectorize.VectorSet, query []float64) []float64 {
	qNorm := 0.0
	for _, v := range query {
		qNorm += v * v
	}
	qNorm = math.Sqrt(qNorm)

	sims := make([]float64, vs.Len())
	if qNorm == 0 {
		return sims
	}
	for i := range sims {
		norm := rowNorm(vs, i)
		if norm == 0 {
			continue
		}
		sims[i] = denseDotRow(vs, i, query) / (norm * qNorm)
	}
	return sims
}

func rowNorm(vs *vectorize.VectorSet, i int) float64 {
	sum := 0.0
	switch vs.Kind {
	case vectorize.KindDense:
		for _, v := range vs.Dense[i] {
			sum += v * v
		}
	case vectorize.KindSparse:
		for _, v := range vs.Sparse[i] {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

func rowDot(vs *vectorize.VectorSet, i, j int) float64 {
	sum := 0.0
	switch vs.Kind {
	case vectorize.KindDense:
		a, b := vs.Dense[i], vs.Dense[j]
		for k := range a {
			sum += a[k] * b[k]
		}
	case vectorize.KindSparse:
		a, b := vs.Sparse[i], vs.Sparse[j]
		if len(b) < len(a) {
			a, b = b, a
		}
		for idx, v := range a {
			if w, ok := b[idx]; ok {
				sum += v * w
			}
		}
	}
	return sum
}

func denseDotRow(vs *vectorize.VectorSet, i int, query []float64) float64 {
	sum := 0.0
	switch vs.Kind {
	case vectorize.KindDense:
		row := vs.Dense[i]
		for k := range row {
			sum += row[k] * query[k]
		}
	case vectorize.KindSparse:
		for idx, v := range vs.Sparse[i] {
			sum += v * query[idx]
		}
	}
	return sum
}
