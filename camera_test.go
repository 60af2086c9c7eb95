package lattice

import (
	"math"
	"testing"
)

func vec3Key(frame float64, v Vec3) Vec3Keyframe {
	return Vec3Keyframe{Keyframe: Keyframe{Frame: frame}, Value: v}
}

func cameraTestComp() *Composition {
	return &Composition{ID: "comp", Width: 1920, Height: 1080, FrameRate: 16, FrameCount: 81}
}

func cameraTestLayer() *Layer {
	return &Layer{
		ID:   "cam",
		Type: LayerCamera,
		Transform: LayerTransform{
			Position: Vec3Property{Value: Vec3{960, 540, -1200}},
			Scale:    Vec3Property{Value: Vec3{100, 100, 100}},
		},
	}
}

// --- Trajectory sampling ---

func TestSampleTrajectoryLerpsBetweenSamples(t *testing.T) {
	keys := []TrajectoryKeyframe{
		{Frame: 0, Value: Vec3{0, 0, 0}},
		{Frame: 10, Value: Vec3{100, 0, 0}},
	}
	assertVec3(t, "midpoint", sampleTrajectory(keys, 5), Vec3{50, 0, 0})
	assertVec3(t, "quarter", sampleTrajectory(keys, 2.5), Vec3{25, 0, 0})
	assertVec3(t, "exact first", sampleTrajectory(keys, 0), Vec3{0, 0, 0})
	assertVec3(t, "exact last", sampleTrajectory(keys, 10), Vec3{100, 0, 0})
}

func TestSampleTrajectoryClampsOutsideRange(t *testing.T) {
	keys := []TrajectoryKeyframe{
		{Frame: 5, Value: Vec3{1, 2, 3}},
		{Frame: 15, Value: Vec3{4, 5, 6}},
	}
	assertVec3(t, "before", sampleTrajectory(keys, -10), Vec3{1, 2, 3})
	assertVec3(t, "after", sampleTrajectory(keys, 50), Vec3{4, 5, 6})
}

func TestSampleTrajectoryMultiSegment(t *testing.T) {
	keys := []TrajectoryKeyframe{
		{Frame: 0, Value: Vec3{0, 0, 0}},
		{Frame: 10, Value: Vec3{100, 0, 0}},
		{Frame: 20, Value: Vec3{100, 50, 0}},
	}
	assertVec3(t, "second segment", sampleTrajectory(keys, 15), Vec3{100, 25, 0})
}

func TestSampleTrajectorySingleAndDuplicate(t *testing.T) {
	single := []TrajectoryKeyframe{{Frame: 10, Value: Vec3{7, 8, 9}}}
	assertVec3(t, "single any frame", sampleTrajectory(single, 3), Vec3{7, 8, 9})
	assertVec3(t, "single later", sampleTrajectory(single, 30), Vec3{7, 8, 9})

	dup := []TrajectoryKeyframe{
		{Frame: 0, Value: Vec3{0, 0, 0}},
		{Frame: 10, Value: Vec3{1, 0, 0}},
		{Frame: 10, Value: Vec3{2, 0, 0}},
		{Frame: 20, Value: Vec3{3, 0, 0}},
	}
	got := sampleTrajectory(dup, 10)
	if math.IsNaN(got.X) {
		t.Fatal("duplicate sample frames produced NaN")
	}
	assertVec3(t, "duplicate frame", got, Vec3{1, 0, 0})
}

// --- Rack focus ---

func TestRackFocusLinearTravel(t *testing.T) {
	rf := &RackFocusConfig{Enabled: true, From: 500, To: 2000, StartFrame: 0, Duration: 30}

	d, active := rackFocusDistance(rf, 15)
	if !active {
		t.Fatal("frame 15 should be inside the window")
	}
	assertNear(t, "halfway", d, 1250)

	d, _ = rackFocusDistance(rf, 0)
	assertNear(t, "start", d, 500)
	d, _ = rackFocusDistance(rf, 30)
	assertNear(t, "end", d, 2000)

	if _, active := rackFocusDistance(rf, 31); active {
		t.Error("frame 31 should be past the window")
	}
	if _, active := rackFocusDistance(rf, -1); active {
		t.Error("negative local frame should be inactive")
	}
}

func TestRackFocusHolds(t *testing.T) {
	rf := &RackFocusConfig{
		Enabled: true, From: 100, To: 200,
		StartFrame: 10, Duration: 10, HoldIn: 5, HoldOut: 5,
	}
	for f := 10; f <= 15; f++ {
		d, active := rackFocusDistance(rf, f)
		if !active || d != 100 {
			t.Fatalf("frame %d: (%v, %v), want holding From", f, d, active)
		}
	}
	d, _ := rackFocusDistance(rf, 20)
	assertNear(t, "mid travel", d, 150)
	for f := 25; f <= 30; f++ {
		d, active := rackFocusDistance(rf, f)
		if !active || d != 200 {
			t.Fatalf("frame %d: (%v, %v), want holding To", f, d, active)
		}
	}
	if _, active := rackFocusDistance(rf, 31); active {
		t.Error("frame 31 should be past the hold-out")
	}
}

func TestRackFocusDefaultsAndDisabled(t *testing.T) {
	if _, active := rackFocusDistance(nil, 10); active {
		t.Error("nil config active")
	}
	if _, active := rackFocusDistance(&RackFocusConfig{From: 1, To: 2}, 10); active {
		t.Error("disabled config active")
	}

	// Zero duration snaps over a single frame.
	rf := &RackFocusConfig{Enabled: true, From: 0, To: 100, StartFrame: 5}
	d, active := rackFocusDistance(rf, 5)
	if !active || d != 0 {
		t.Errorf("frame 5: (%v, %v)", d, active)
	}
	d, active = rackFocusDistance(rf, 6)
	if !active || d != 100 {
		t.Errorf("frame 6: (%v, %v)", d, active)
	}
	if _, active := rackFocusDistance(rf, 7); active {
		t.Error("frame 7 should be inactive")
	}
}

func TestRackFocusEasedTravel(t *testing.T) {
	rf := &RackFocusConfig{
		Enabled: true, From: 500, To: 2000,
		StartFrame: 0, Duration: 30, Easing: EaseIn,
	}
	// Cubic ease-in reaches an eighth of the travel at the halfway frame.
	d, _ := rackFocusDistance(rf, 15)
	assertNear(t, "eased halfway", d, 687.5)
}

// --- Full camera evaluation ---

func TestEvaluateCameraBase(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()

	cam := evaluateCamera(layer, comp, 0, AudioModifiers{})
	if cam.LayerID != "cam" {
		t.Errorf("layer id %q", cam.LayerID)
	}
	assertVec3(t, "position", cam.Position, Vec3{960, 540, -1200})
	assertVec3(t, "target", cam.Target, Vec3{960, 540, 0})
	assertNear(t, "default fov", cam.FOV, 50)
	assertNear(t, "roll", cam.Roll, 0)
}

func TestEvaluateCameraSettings(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	layer.Camera = &CameraSettings{
		FOV:         ScalarProperty{Value: 35},
		FocalLength: ScalarProperty{Value: 85},
		Target:      &Vec3Property{Value: Vec3{100, 200, 0}},
	}

	cam := evaluateCamera(layer, comp, 0, AudioModifiers{})
	assertNear(t, "fov", cam.FOV, 35)
	assertNear(t, "focal length", cam.FocalLength, 85)
	assertVec3(t, "target", cam.Target, Vec3{100, 200, 0})

	// Zero FOV settings fall back to the default.
	layer.Camera = &CameraSettings{}
	cam = evaluateCamera(layer, comp, 0, AudioModifiers{})
	assertNear(t, "fallback fov", cam.FOV, 50)
}

func TestEvaluateCameraTrajectoryReplacesBase(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	layer.Transform.Position = Vec3Property{Value: Vec3{999, 999, 999}}
	layer.Camera = &CameraSettings{
		Trajectory: &Trajectory{
			Position: []TrajectoryKeyframe{
				{Frame: 0, Value: Vec3{0, 0, 0}},
				{Frame: 10, Value: Vec3{100, 0, 0}},
			},
			Target: []TrajectoryKeyframe{
				{Frame: 0, Value: Vec3{0, 0, 500}},
			},
		},
	}

	cam := evaluateCamera(layer, comp, 5, AudioModifiers{})
	assertVec3(t, "trajectory position", cam.Position, Vec3{50, 0, 0})
	assertVec3(t, "trajectory target", cam.Target, Vec3{0, 0, 500})
}

func TestEvaluateCameraShake(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	shake := &ShakeConfig{Enabled: true, Intensity: 5, Seed: 3, Rotation: true}
	layer.Camera = &CameraSettings{Shake: shake}

	base := layer.Transform.Position.Value
	for f := 0; f < 8; f++ {
		off := evaluateShake(shake, f, comp.FrameRate, 0)
		cam := evaluateCamera(layer, comp, f, AudioModifiers{})
		assertVec3(t, "shaken position", cam.Position, base.Add(off.Position))
		assertNear(t, "roll", cam.Roll, off.Rotation)
	}
}

func TestEvaluateCameraAudioMods(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	layer.Transform.Position = Vec3Property{Value: Vec3{}}
	layer.Camera = &CameraSettings{Target: &Vec3Property{Value: Vec3{100, 0, 0}}}

	mods := AudioModifiers{CameraFOV: 10, CameraDolly: 10}
	cam := evaluateCamera(layer, comp, 0, mods)
	assertNear(t, "widened fov", cam.FOV, 60)
	assertVec3(t, "dollied position", cam.Position, Vec3{10, 0, 0})
}

func TestEvaluateCameraAudioShakeBoost(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	shake := &ShakeConfig{Enabled: true, Intensity: 0, Seed: 5}
	layer.Camera = &CameraSettings{Shake: shake}

	base := layer.Transform.Position.Value
	want := evaluateShake(shake, 4, comp.FrameRate, 2).Position
	cam := evaluateCamera(layer, comp, 4, AudioModifiers{CameraShake: 2})
	assertVec3(t, "boosted shake", cam.Position, base.Add(want))
}

func TestEvaluateCameraRackFocusOverridesOnlyFocus(t *testing.T) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	layer.Camera = &CameraSettings{
		DepthOfField: DepthOfFieldSettings{
			Enabled:       true,
			FocusDistance: ScalarProperty{Value: 800},
			Aperture:      ScalarProperty{Value: 5.6},
			BlurLevel:     ScalarProperty{Value: 100},
		},
		RackFocus: &RackFocusConfig{Enabled: true, From: 500, To: 2000, StartFrame: 0, Duration: 30},
	}

	cam := evaluateCamera(layer, comp, 15, AudioModifiers{})
	if !cam.DepthOfField.Enabled {
		t.Fatal("depth of field lost")
	}
	assertNear(t, "racked focus", cam.DepthOfField.FocusDistance, 1250)
	assertNear(t, "aperture", cam.DepthOfField.Aperture, 5.6)
	assertNear(t, "blur level", cam.DepthOfField.BlurLevel, 100)

	// Past the window the animated focus distance returns.
	cam = evaluateCamera(layer, comp, 40, AudioModifiers{})
	assertNear(t, "released focus", cam.DepthOfField.FocusDistance, 800)
}

func TestCameraKeyframeTotal(t *testing.T) {
	cs := &CameraSettings{
		FOV:         ScalarProperty{Keys: []ScalarKeyframe{scalarKey(0, 50), scalarKey(10, 35)}},
		FocalLength: ScalarProperty{Keys: []ScalarKeyframe{scalarKey(0, 85)}},
		Target:      &Vec3Property{Keys: []Vec3Keyframe{vec3Key(0, Vec3{}), vec3Key(5, Vec3{1, 0, 0})}},
		DepthOfField: DepthOfFieldSettings{
			FocusDistance: ScalarProperty{Keys: []ScalarKeyframe{scalarKey(0, 500)}},
			BlurLevel:     ScalarProperty{Keys: []ScalarKeyframe{scalarKey(0, 50)}},
		},
		Trajectory: &Trajectory{
			Position: []TrajectoryKeyframe{{Frame: 0}, {Frame: 10}, {Frame: 20}},
			Target:   []TrajectoryKeyframe{{Frame: 0}, {Frame: 20}},
		},
	}
	if got := cs.keyframeTotal(); got != 12 {
		t.Errorf("keyframeTotal = %d, want 12", got)
	}
}

func BenchmarkEvaluateCamera(b *testing.B) {
	comp := cameraTestComp()
	layer := cameraTestLayer()
	layer.Camera = &CameraSettings{
		Trajectory: &Trajectory{Position: []TrajectoryKeyframe{
			{Frame: 0, Value: Vec3{0, 0, 0}},
			{Frame: 80, Value: Vec3{400, 0, 0}},
		}},
		Shake:     &ShakeConfig{Enabled: true, Intensity: 3, Seed: 1},
		RackFocus: &RackFocusConfig{Enabled: true, From: 500, To: 2000, Duration: 40},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		evaluateCamera(layer, comp, 25, AudioModifiers{})
	}
}
