package terrain

import "testing"

func TestSourceDeterministic(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)

	for i := 0; i < 50; i++ {
		x, y := float64(i)*0.13, float64(i)*0.071
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatalf("same-seed sources diverged at i=%d", i)
		}
	}
}

func TestSourceDifferentSeedsDiffer(t *testing.T) {
	a := NewSource(1)
	b := NewSource(2)

	differed := false
	for i := 0; i < 20; i++ {
		x, y := float64(i)*0.37, float64(i)*0.19
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			differed = true
			break
		}
	}
	if !differed {
		t.Fatal("expected different seeds to produce different noise somewhere in the sample")
	}
}

func TestOctave2DStaysRoughlyInRange(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 200; i++ {
		v := s.Octave2D(float64(i)*0.05, float64(i)*0.03, 4, 0.5)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("octave value %f far outside expected [-1,1] band at i=%d", v, i)
		}
	}
}

func TestRidged3DInUnitRange(t *testing.T) {
	s := NewSource(99)
	for i := 0; i < 200; i++ {
		v := s.Ridged3D(float64(i)*0.02, float64(i)*0.03, float64(i)*0.01)
		if v < -1 || v > 1 {
			t.Fatalf("ridged value %f outside [-1,1] at i=%d", v, i)
		}
	}
}

func TestSplineEvaluateClampsToEndpoints(t *testing.T) {
	sp := NewSpline(
		Knot{In: -1, Out: 0},
		Knot{In: 0, Out: 10},
		Knot{In: 1, Out: 20},
	)

	if got := sp.Evaluate(-5); got != 0 {
		t.Errorf("below-domain clamp = %v, want 0", got)
	}
	if got := sp.Evaluate(5); got != 20 {
		t.Errorf("above-domain clamp = %v, want 20", got)
	}
}

func TestSplineEvaluateMonotoneBetweenKnots(t *testing.T) {
	sp := NewSpline(
		Knot{In: 0, Out: 0},
		Knot{In: 1, Out: 100},
	)

	prev := -1.0
	for i := 0; i <= 10; i++ {
		v := sp.Evaluate(float64(i) / 10)
		if v < prev {
			t.Fatalf("spline not monotone: at step %d got %f after %f", i, v, prev)
		}
		prev = v
	}
}
