package sensor

import "github.com/bytearena/whiskers/common/utils/vector"

type Reading struct {
	Point       vector.Vector2 `json:"point"`
	Collides    bool           `json:"collides"`
	Distance    float64        `json:"distance"`
	DistanceRel float64        `json:"distanceRel"`
}

type Readings []Reading

// Features projects DistanceRel in slot order. dst is reused when large enough.
func (readings Readings) Features(dst []float64) []float64 {
	if cap(dst) < len(readings) {
		dst = make([]float64, len(readings))
	}

	dst = dst[:len(readings)]
	for i, reading := range readings {
		dst[i] = reading.DistanceRel
	}

	return dst
}

// Closest returns the index of the colliding reading with the smallest
// distance, or -1 when nothing is in range.
func (readings Readings) Closest() int {
	closest := -1
	for i, reading := range readings {
		if !reading.Collides {
			continue
		}

		if closest < 0 || reading.Distance < readings[closest].Distance {
			closest = i
		}
	}

	return closest
}
