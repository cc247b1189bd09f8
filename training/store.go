package training

import (
	"math"

	"github.com/bytearena/whiskers/common/utils/number"
)

const (
	DefaultEpsilon = 10e-4

	// sums closer than 1/hashScale share a bucket
	hashScale = 10e8
)

// Store accumulates (feature vector, action label) samples, rejecting vectors
// that are within epsilon (component-wise) of a stored vector sharing the same
// bucket. The bucket key is the rounded sum of the components, so two close
// vectors whose sums round differently are both kept.
//
// A Store is not safe for concurrent use.
type Store struct {
	epsilon   float64
	dimension int

	data    [][]float64
	labels  []int
	buckets map[int64][][]float64
}

// NewStore returns an empty store; epsilon 0 gives exact deduplication.
func NewStore(epsilon float64) *Store {
	return &Store{
		epsilon: math.Abs(epsilon),
		data:    make([][]float64, 0),
		labels:  make([]int, 0),
		buckets: make(map[int64][][]float64),
	}
}

func hashFeatures(features []float64) int64 {
	sum := 0.0
	for _, f := range features {
		sum += f
	}

	return int64(math.Round(sum * hashScale))
}

func (store *Store) isDuplicate(bucket [][]float64, features []float64) bool {
	for _, item := range bucket {
		found := true
		for j, f := range features {
			if math.Abs(f-item[j]) > store.epsilon {
				found = false
				break
			}
		}

		if found {
			return true
		}
	}

	return false
}

// Add copies features into the store unless a near duplicate is already
// there. Vectors of another dimension than the first stored one, and vectors
// holding NaN or Inf, are rejected.
func (store *Store) Add(features []float64, label int) bool {
	if len(store.data) > 0 && len(features) != store.dimension {
		return false
	}

	for _, f := range features {
		if !number.IsFinite(f) {
			return false
		}
	}

	hash := hashFeatures(features)
	bucket, hasBucket := store.buckets[hash]
	if hasBucket && store.isDuplicate(bucket, features) {
		return false
	}

	item := make([]float64, len(features))
	copy(item, features)

	store.buckets[hash] = append(bucket, item)
	store.data = append(store.data, item)
	store.labels = append(store.labels, label)
	store.dimension = len(item)

	return true
}

func (store *Store) Clear() {
	store.data = store.data[:0]
	store.labels = store.labels[:0]
	store.buckets = make(map[int64][][]float64)
	store.dimension = 0
}

func (store *Store) Len() int {
	return len(store.data)
}

func (store *Store) GetEpsilon() float64 {
	return store.epsilon
}

// Dimension is the length of the stored feature vectors, 0 when empty
func (store *Store) Dimension() int {
	return store.dimension
}

// Data returns the stored vectors; callers must not modify them
func (store *Store) Data() [][]float64 {
	return store.data
}

func (store *Store) Labels() []int {
	return store.labels
}

// CountByLabel returns the number of samples per label
func (store *Store) CountByLabel() map[int]int {
	counts := make(map[int]int)
	for _, label := range store.labels {
		counts[label]++
	}

	return counts
}
