// Package vector holds the similarity math and the text encoding used for
// stored embeddings.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrNotFinite = errors.New("vector component is not finite")

// Cosine returns the cosine similarity of a and b. Vectors of different length
// are compared over their common prefix. Empty or zero-magnitude input yields 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SameShape reports whether two vectors have the same dimension.
func SameShape(a, b []float32) bool {
	return len(a) == len(b)
}

// Parse decodes a comma-delimited decimal vector. Blank input is an absent
// vector, not an error.
func Parse(raw string) ([]float32, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]float32, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %d: %w", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("parse vector component %d: %w", i, ErrNotFinite)
		}
		out = append(out, float32(v))
	}
	return out, nil
}

// FromFloat64 narrows provider payloads that decode as float64.
func FromFloat64(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, x := range in {
		out[i] = float32(x)
	}
	return out
}
