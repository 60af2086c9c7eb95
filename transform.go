package lattice

import "math"

// Mat4 is a row-major 4x4 matrix with translation in the last column.
//
//	| m0  m1  m2  m3  |
//	| m4  m5  m6  m7  |
//	| m8  m9  m10 m11 |
//	| m12 m13 m14 m15 |
type Mat4 [16]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * n (apply n first, then m).
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r*4]*n[c] + m[r*4+1]*n[4+c] + m[r*4+2]*n[8+c] + m[r*4+3]*n[12+c]
		}
	}
	return out
}

// Apply transforms a point (w = 1).
func (m Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

func mat4Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

func mat4Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

func mat4RotateX(rad float64) Mat4 {
	sin, cos := math.Sincos(rad)
	return Mat4{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
		0, 0, 0, 1,
	}
}

func mat4RotateY(rad float64) Mat4 {
	sin, cos := math.Sincos(rad)
	return Mat4{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
}

func mat4RotateZ(rad float64) Mat4 {
	sin, cos := math.Sincos(rad)
	return Mat4{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// composeMatrix builds a layer's local matrix from its resolved transform.
// Scale is authored in percent, rotations in degrees.
//
// Composition order:
//
//	Translate(-Origin) -> Scale -> RotateX -> RotateY -> RotateZ -> Translate(Position)
func composeMatrix(t EvaluatedTransform) Mat4 {
	m := mat4Translate(t.Position)
	m = m.Mul(mat4RotateZ(radians(t.Rotation)))
	if t.RotationY != 0 {
		m = m.Mul(mat4RotateY(radians(t.RotationY)))
	}
	if t.RotationX != 0 {
		m = m.Mul(mat4RotateX(radians(t.RotationX)))
	}
	m = m.Mul(mat4Scale(t.Scale.Scale(1.0 / 100.0)))
	return m.Mul(mat4Translate(t.Origin.Scale(-1)))
}

// resolveWorldMatrices fills each layer's World matrix, following parent
// chains by layer ID. A broken or cyclic chain stops where the damage is:
// the layer keeps its local matrix as world.
func resolveWorldMatrices(layers []EvaluatedLayer) {
	index := make(map[string]int, len(layers))
	for i := range layers {
		index[layers[i].ID] = i
	}

	local := make([]Mat4, len(layers))
	for i := range layers {
		local[i] = composeMatrix(layers[i].Transform)
	}

	// 0 unresolved, 1 in progress, 2 done.
	state := make([]uint8, len(layers))
	var resolve func(i int) Mat4
	resolve = func(i int) Mat4 {
		if state[i] == 2 {
			return layers[i].World
		}
		if state[i] == 1 {
			// Cycle: treat the re-entered ancestor as a root.
			return local[i]
		}
		state[i] = 1
		world := local[i]
		if pid := layers[i].ParentID; pid != "" {
			if pi, ok := index[pid]; ok && pi != i {
				world = resolve(pi).Mul(local[i])
			}
		}
		layers[i].World = world
		state[i] = 2
		return world
	}
	for i := range layers {
		resolve(i)
	}
}
