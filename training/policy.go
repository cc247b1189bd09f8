package training

import (
	"math"

	"github.com/bytearena/whiskers/car"
)

// Policy decides an action from a feature vector. ok is false when the policy
// has no opinion.
type Policy interface {
	Predict(features []float64) (action car.Action, ok bool)
}

// NearestNeighbourPolicy answers with the label of the closest recorded sample
type NearestNeighbourPolicy struct {
	data   [][]float64
	labels []int
}

// NewNearestNeighbourPolicy snapshots the samples of the store
func NewNearestNeighbourPolicy(store *Store) *NearestNeighbourPolicy {
	payload := store.ToSerializable()

	return &NearestNeighbourPolicy{
		data:   payload.Data,
		labels: payload.Labels,
	}
}

func (policy *NearestNeighbourPolicy) Len() int {
	return len(policy.data)
}

func (policy *NearestNeighbourPolicy) Predict(features []float64) (car.Action, bool) {
	best := -1
	bestDistSq := math.Inf(1)

	for i, item := range policy.data {
		if len(item) != len(features) {
			continue
		}

		distSq := 0.0
		for j, f := range features {
			d := f - item[j]
			distSq += d * d
		}

		if distSq < bestDistSq {
			bestDistSq = distSq
			best = i
		}
	}

	if best < 0 {
		return car.Action{}, false
	}

	action, err := car.DecodeLabel(policy.labels[best])
	if err != nil {
		return car.Action{}, false
	}

	return action, true
}
