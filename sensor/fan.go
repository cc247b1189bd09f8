package sensor

import "math"

// Slot is one whisker of a sensor fan. Angle is relative to the forward axis
// of the body, in radians.
type Slot struct {
	Index int
	Angle float64
	Rear  bool
}

// MakeFan spreads count slots over arc, centered on the forward axis. Each slot
// sits in the middle of its arc/count sector, so the fan is symmetric and a
// single slot looks straight ahead. Index 0 has the most negative angle.
func MakeFan(count int, arc float64) []Slot {
	if count <= 0 {
		return make([]Slot, 0)
	}

	halfAngle := arc / 2
	deltaAngle := arc / float64(count)

	slots := make([]Slot, count)
	for i := 0; i < count; i++ {
		slots[i] = Slot{
			Index: i,
			Angle: -halfAngle + (float64(i)+0.5)*deltaAngle,
		}
	}

	return slots
}

// MakeFrontRearFan builds the front fan followed by the rear fan, the latter
// mirrored to the back of the body.
func MakeFrontRearFan(frontCount int, frontArc float64, rearCount int, rearArc float64) []Slot {
	front := MakeFan(frontCount, frontArc)
	rear := MakeFan(rearCount, rearArc)

	slots := make([]Slot, 0, len(front)+len(rear))
	slots = append(slots, front...)

	for _, slot := range rear {
		slots = append(slots, Slot{
			Index: len(slots),
			Angle: slot.Angle + math.Pi,
			Rear:  true,
		})
	}

	return slots
}
