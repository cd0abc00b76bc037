package cluster

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// TFIDF clusters articles in-process with tf-idf vectors and spherical
// k-means, k = min(K, number of articles). Everything is deterministic:
// centroids seed from the input order via farthest-point selection, so the
// same article list always yields the same partition.
type TFIDF struct {
	// K caps the cluster count. Zero means the default of 3.
	K int
	// MaxIterations bounds the k-means loop. Zero means 20.
	MaxIterations int
}

func (t *TFIDF) Cluster(_ context.Context, articles []string) (Partition, error) {
	if len(articles) == 0 {
		return nil, ErrEmptyInput
	}
	k := t.K
	if k <= 0 {
		k = 3
	}
	if k > len(articles) {
		k = len(articles)
	}
	if k == 1 {
		return Partition{"perspective_1": append([]string(nil), articles...)}, nil
	}

	vectors := vectorize(articles)
	labels := kmeans(vectors, k, t.maxIterations())

	groups := make([][]string, k)
	for i, label := range labels {
		groups[label] = append(groups[label], articles[i])
	}
	partition := make(Partition, k)
	n := 0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		n++
		partition[fmt.Sprintf("perspective_%d", n)] = g
	}
	return partition, nil
}

func (t *TFIDF) maxIterations() int {
	if t.MaxIterations > 0 {
		return t.MaxIterations
	}
	return 20
}

type vector map[int]float64

func vectorize(articles []string) []vector {
	vocab := map[string]int{}
	docTokens := make([]map[string]int, len(articles))
	df := map[string]int{}
	for i, text := range articles {
		counts := map[string]int{}
		for _, tok := range tokenize(text) {
			counts[tok]++
		}
		docTokens[i] = counts
		for tok := range counts {
			df[tok]++
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}

	n := float64(len(articles))
	out := make([]vector, len(articles))
	for i, counts := range docTokens {
		v := make(vector, len(counts))
		total := 0
		for _, c := range counts {
			total += c
		}
		for tok, c := range counts {
			tf := float64(c) / float64(max(total, 1))
			idf := math.Log((n+1)/(float64(df[tok])+1)) + 1
			v[vocab[tok]] = tf * idf
		}
		normalizeVec(v)
		out[i] = v
	}
	return out
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}

func normalizeVec(v vector) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		v[i] = x / norm
	}
}

func dot(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, x := range a {
		sum += x * b[i]
	}
	return sum
}

// kmeans assigns each vector to one of k centroids using cosine similarity.
// Centroids are seeded by farthest-point selection starting at index 0.
func kmeans(vectors []vector, k, maxIter int) []int {
	centroids := seedCentroids(vectors, k)
	labels := make([]int, len(vectors))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, v := range vectors {
			best, bestSim := labels[i], -1.0
			for c, centroid := range centroids {
				if sim := dot(v, centroid); sim > bestSim {
					best, bestSim = c, sim
				}
			}
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		centroids = recomputeCentroids(vectors, labels, k, centroids)
	}
	return labels
}

func seedCentroids(vectors []vector, k int) []vector {
	chosen := []int{0}
	for len(chosen) < k {
		bestIdx, bestScore := -1, math.Inf(1)
		for i, v := range vectors {
			if containsInt(chosen, i) {
				continue
			}
			// Similarity to the nearest chosen seed; pick the least similar.
			nearest := -1.0
			for _, c := range chosen {
				if sim := dot(v, vectors[c]); sim > nearest {
					nearest = sim
				}
			}
			if nearest < bestScore {
				bestIdx, bestScore = i, nearest
			}
		}
		if bestIdx < 0 {
			break
		}
		chosen = append(chosen, bestIdx)
	}
	sort.Ints(chosen)
	out := make([]vector, 0, len(chosen))
	for _, i := range chosen {
		out = append(out, cloneVec(vectors[i]))
	}
	return out
}

func recomputeCentroids(vectors []vector, labels []int, k int, prev []vector) []vector {
	sums := make([]vector, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = vector{}
	}
	for i, v := range vectors {
		label := labels[i]
		counts[label]++
		for dim, x := range v {
			sums[label][dim] += x
		}
	}
	for i := range sums {
		if counts[i] == 0 {
			// Keep the previous centroid for an emptied cluster.
			sums[i] = prev[i]
			continue
		}
		normalizeVec(sums[i])
	}
	return sums
}

func cloneVec(v vector) vector {
	out := make(vector, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
