package vector

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotate(t *testing.T) {
	examples := []struct {
		Name     string
		Vector   Vector2
		Angle    float64
		Expected Vector2
	}{
		{Name: "quarter turn", Vector: MakeVector2(1, 0), Angle: math.Pi / 2, Expected: MakeVector2(0, 1)},
		{Name: "half turn", Vector: MakeVector2(150, 0), Angle: math.Pi, Expected: MakeVector2(-150, 0)},
		{Name: "negative turn", Vector: MakeVector2(0, 2), Angle: -math.Pi / 2, Expected: MakeVector2(2, 0)},
		{Name: "no turn", Vector: MakeVector2(3, 4), Angle: 0, Expected: MakeVector2(3, 4)},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			res := example.Vector.Rotate(example.Angle)
			assert.True(t, res.Equals(example.Expected), "got %s, expected %s", res, example.Expected)
			assert.InDelta(t, example.Vector.Mag(), res.Mag(), 1e-9)
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := MakeVector2(3, 4)
	b := MakeVector2(1, -2)

	assert.Equal(t, MakeVector2(4, 2), a.Add(b))
	assert.Equal(t, MakeVector2(2, 6), a.Sub(b))
	assert.Equal(t, 5.0, a.Mag())
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, -10.0, a.Cross(b))
	assert.InDelta(t, 1.0, a.Normalize().Mag(), 1e-12)
	assert.Equal(t, MakeNullVector2(), MakeNullVector2().Normalize())
	assert.Equal(t, MakeVector2(2, 1), a.Lerp(b, 0.5))
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(MakeVector2(1.5, -2))
	assert.Nil(t, err)
	assert.Equal(t, "[1.5000,-2.0000]", string(data))

	var v Vector2
	assert.Nil(t, json.Unmarshal(data, &v))
	assert.Equal(t, MakeVector2(1.5, -2), v)
}
