package lattice

import (
	"math"
	"testing"
)

func TestShakeDisabledIsZero(t *testing.T) {
	if off := evaluateShake(nil, 10, 16, 0); off != (ShakeOffset{}) {
		t.Errorf("nil config produced %+v", off)
	}
	cfg := &ShakeConfig{Enabled: false, Intensity: 10, Seed: 1}
	if off := evaluateShake(cfg, 10, 16, 0); off != (ShakeOffset{}) {
		t.Errorf("disabled config produced %+v", off)
	}
}

func TestShakeZeroAmplitudeIsZero(t *testing.T) {
	cfg := &ShakeConfig{Enabled: true, Intensity: 0, Seed: 1}
	if off := evaluateShake(cfg, 10, 16, 0); off != (ShakeOffset{}) {
		t.Errorf("zero intensity produced %+v", off)
	}
}

func TestShakeWindowBounds(t *testing.T) {
	cfg := &ShakeConfig{Enabled: true, Intensity: 5, Seed: 7, StartFrame: 10, Duration: 20}
	if off := evaluateShake(cfg, 9, 16, 0); off != (ShakeOffset{}) {
		t.Errorf("before window produced %+v", off)
	}
	if off := evaluateShake(cfg, 31, 16, 0); off != (ShakeOffset{}) {
		t.Errorf("after window produced %+v", off)
	}
	// Inside the window the offset moves. A seeded sample landing on exactly
	// zero every frame would take a conspiring seed.
	var total float64
	for f := 10; f <= 30; f++ {
		total += evaluateShake(cfg, f, 16, 0).Position.Length()
	}
	if total == 0 {
		t.Error("shake produced no displacement inside its window")
	}
}

func TestShakeDeterministic(t *testing.T) {
	cfg := &ShakeConfig{Enabled: true, Type: ShakeHandheld, Intensity: 3, Seed: 42, Rotation: true}
	for f := 0; f < 20; f++ {
		a := evaluateShake(cfg, f, 16, 0)
		b := evaluateShake(cfg, f, 16, 0)
		if a != b {
			t.Fatalf("frame %d: %+v != %+v", f, a, b)
		}
	}
}

func TestShakeIntensityScalesLinearly(t *testing.T) {
	one := &ShakeConfig{Enabled: true, Type: ShakeHandheld, Intensity: 1, Seed: 9, Rotation: true}
	two := &ShakeConfig{Enabled: true, Type: ShakeHandheld, Intensity: 2, Seed: 9, Rotation: true}
	for f := 0; f < 10; f++ {
		a := evaluateShake(one, f, 16, 0)
		b := evaluateShake(two, f, 16, 0)
		assertVec3(t, "doubled position", b.Position, a.Position.Scale(2))
		assertNear(t, "doubled rotation", b.Rotation, a.Rotation*2)
	}
}

func TestShakeAudioBoostWidensIntensity(t *testing.T) {
	// Intensity 2 with no boost matches intensity 0 with boost 2.
	base := &ShakeConfig{Enabled: true, Type: ShakeEarthquake, Intensity: 2, Seed: 5}
	boosted := &ShakeConfig{Enabled: true, Type: ShakeEarthquake, Intensity: 0, Seed: 5}
	for f := 0; f < 10; f++ {
		a := evaluateShake(base, f, 16, 0)
		b := evaluateShake(boosted, f, 16, 2)
		if a != b {
			t.Fatalf("frame %d: %+v != %+v", f, a, b)
		}
	}
}

func TestShakeDecayReducesAmplitude(t *testing.T) {
	cfg := &ShakeConfig{Enabled: true, Type: ShakeHandheld, Intensity: 4, Seed: 3, Decay: 2}
	flat := &ShakeConfig{Enabled: true, Type: ShakeHandheld, Intensity: 4, Seed: 3}
	// After two seconds the decayed envelope is exp(-4) of the flat one.
	f := 32
	a := evaluateShake(cfg, f, 16, 0)
	b := evaluateShake(flat, f, 16, 0)
	want := b.Position.Scale(math.Exp(-4))
	assertVec3(t, "decayed", a.Position, want)
}

func TestShakeRotationFlag(t *testing.T) {
	cfg := &ShakeConfig{Enabled: true, Intensity: 5, Seed: 11}
	for f := 0; f < 10; f++ {
		if off := evaluateShake(cfg, f, 16, 0); off.Rotation != 0 {
			t.Fatalf("rotation emitted without flag at frame %d: %v", f, off.Rotation)
		}
	}
}

func TestShakeAllTypesFinite(t *testing.T) {
	for _, kind := range []ShakeType{ShakeHandheld, ShakeDrift, ShakeBump, ShakeEarthquake} {
		cfg := &ShakeConfig{Enabled: true, Type: kind, Intensity: 10, Seed: 13, Rotation: true}
		for f := 0; f < 64; f++ {
			off := evaluateShake(cfg, f, 16, 0)
			for _, v := range []float64{off.Position.X, off.Position.Y, off.Position.Z, off.Rotation} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%s frame %d: non-finite component %v", kind, f, v)
				}
			}
		}
	}
}

func TestValueNoiseRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := valueNoise(99, 1, float64(i)*0.137)
		if v < -1 || v > 1 {
			t.Fatalf("noise out of range at step %d: %v", i, v)
		}
	}
}

func TestValueNoiseContinuous(t *testing.T) {
	// Adjacent samples a millistep apart stay close; the curve has no jumps.
	const dt = 0.001
	prev := valueNoise(7, 2, 0)
	for s := dt; s < 4; s += dt {
		v := valueNoise(7, 2, s)
		if math.Abs(v-prev) > 0.05 {
			t.Fatalf("noise jumped %v between %v and %v", math.Abs(v-prev), s-dt, s)
		}
		prev = v
	}
}

func TestHash01Deterministic(t *testing.T) {
	if hash01(1, 2, 3) != hash01(1, 2, 3) {
		t.Error("hash01 not deterministic")
	}
	if v := hash01(1, 2, 3); v < 0 || v >= 1 {
		t.Errorf("hash01 out of range: %v", v)
	}
	if hash01(1, 2, 3) == hash01(1, 2, 4) {
		t.Error("hash01 collision across adjacent keys")
	}
}
