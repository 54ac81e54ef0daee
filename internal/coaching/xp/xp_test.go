package xp

import (
	"math"
	"testing"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

func TestSanitize_NormalClampsToAwardRange(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{raw: 50, want: 50},
		{raw: 150, want: MaxAward},
		{raw: -30, want: 0},
		{raw: 0, want: 0},
		{raw: 49.6, want: 50},
		{raw: 49.4, want: 49},
	}
	for _, c := range cases {
		if got := Sanitize(c.raw, coaching.SeverityNormal); got != c.want {
			t.Fatalf("Sanitize(%v, normal) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestSanitize_ViolationNeverAwards(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{raw: 50, want: 0},
		{raw: 0.6, want: 0},
		{raw: -40, want: -40},
		{raw: -500, want: MaxPenalty},
		{raw: 0, want: 0},
	}
	for _, c := range cases {
		if got := Sanitize(c.raw, coaching.SeverityBehaviorViolation); got != c.want {
			t.Fatalf("Sanitize(%v, violation) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestSanitize_NonFiniteCollapsesToZero(t *testing.T) {
	for _, raw := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := Sanitize(raw, coaching.SeverityNormal); got != 0 {
			t.Fatalf("Sanitize(%v, normal) = %d, want 0", raw, got)
		}
		if got := Sanitize(raw, coaching.SeverityBehaviorViolation); got != 0 {
			t.Fatalf("Sanitize(%v, violation) = %d, want 0", raw, got)
		}
	}
}

func TestApply_NormalFloorsAtZero(t *testing.T) {
	if got := Apply(10, -30, coaching.SeverityNormal); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
	if got := Apply(10, 25, coaching.SeverityNormal); got != 35 {
		t.Fatalf("expected 35, got %d", got)
	}
}

func TestApply_ViolationCanGoNegative(t *testing.T) {
	if got := Apply(10, -30, coaching.SeverityBehaviorViolation); got != -20 {
		t.Fatalf("expected -20, got %d", got)
	}
	if got := Apply(-20, -100, coaching.SeverityBehaviorViolation); got != -120 {
		t.Fatalf("expected -120, got %d", got)
	}
}
