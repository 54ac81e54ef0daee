package rating

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClamp_Bounds(t *testing.T) {
	if got := Clamp(-5); got != MinScore {
		t.Fatalf("expected %v got %v", MinScore, got)
	}
	if got := Clamp(140); got != MaxScore {
		t.Fatalf("expected %v got %v", MaxScore, got)
	}
	if got := Clamp(72.5); got != 72.5 {
		t.Fatalf("expected 72.5 got %v", got)
	}
}

func TestClamp_NaNCollapsesToBaseline(t *testing.T) {
	if got := Clamp(math.NaN()); got != Baseline {
		t.Fatalf("expected baseline %v got %v", Baseline, got)
	}
}

func TestDrift_MovesTowardBaseline(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -30)

	high := Drift(90, last, now)
	if high >= 90 || high <= Baseline {
		t.Fatalf("high score should decay toward baseline, got %v", high)
	}

	low := Drift(30, last, now)
	if low <= 30 || low >= Baseline {
		t.Fatalf("low score should rise toward baseline, got %v", low)
	}
}

func TestDrift_ExactFormula(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -10)
	want := Baseline + (90-Baseline)*math.Exp(-Lambda*10)
	if got := Drift(90, last, now); !almostEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestDrift_ZeroLastUpdatedMeansNoDecay(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := Drift(90, time.Time{}, now); got != 90 {
		t.Fatalf("expected 90 got %v", got)
	}
}

func TestDrift_FutureLastUpdatedDoesNotInflate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.Add(48 * time.Hour)
	if got := Drift(90, last, now); got != 90 {
		t.Fatalf("clock skew must not change the score, got %v", got)
	}
}

func TestDrift_BaselineIsFixedPoint(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(-1, 0, 0)
	if got := Drift(Baseline, last, now); !almostEqual(got, Baseline) {
		t.Fatalf("baseline should not move, got %v", got)
	}
}

func TestUpdate_BlendsDriftedAndObserved(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -7)

	drifted := Drift(80, last, now)
	want := (1-Alpha)*drifted + Alpha*95
	if got := Update(80, last, 95, now); !almostEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
}

func TestUpdate_SingleObservationCannotOverwhelm(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)

	got := Update(80, last, 0, now)
	if got < 50 {
		t.Fatalf("one bad exercise moved the rating too far: %v", got)
	}
	if got >= 80 {
		t.Fatalf("a bad exercise should still lower the rating, got %v", got)
	}
}

func TestUpdate_ClampsObservation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)

	inBounds := Update(80, last, 100, now)
	outOfBounds := Update(80, last, 500, now)
	if !almostEqual(inBounds, outOfBounds) {
		t.Fatalf("out-of-range observation must clamp: %v vs %v", inBounds, outOfBounds)
	}
}

func TestUpdate_ResultStaysInRange(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, old := range []float64{0, 30, 60, 90, 100} {
		for _, obs := range []float64{-50, 0, 60, 100, 400} {
			got := Update(old, now.Add(-time.Hour), obs, now)
			if got < MinScore || got > MaxScore {
				t.Fatalf("Update(%v, obs=%v) out of range: %v", old, obs, got)
			}
		}
	}
}

func TestCalibrate_SetsDirectly(t *testing.T) {
	if got := Calibrate(85); got != 85 {
		t.Fatalf("expected 85 got %v", got)
	}
	if got := Calibrate(-10); got != MinScore {
		t.Fatalf("expected clamp to %v got %v", MinScore, got)
	}
	if got := Calibrate(math.NaN()); got != Baseline {
		t.Fatalf("expected baseline got %v", got)
	}
}
