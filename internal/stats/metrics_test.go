package stats

import (
	"math"
	"testing"
)

func TestAccuracyRange(t *testing.T) {
	for total := 0; total <= 30; total++ {
		for mistakes := 0; mistakes <= total; mistakes++ {
			acc := Accuracy(mistakes, total)
			if acc < 0 || acc > 100 {
				t.Fatalf("Accuracy(%d, %d) = %f out of range", mistakes, total, acc)
			}
		}
		if total > 0 && Accuracy(0, total) != 100 {
			t.Fatalf("expected 100%% with no mistakes for %d words", total)
		}
	}
}

func TestAccuracyZeroWords(t *testing.T) {
	for _, mistakes := range []int{0, 1, 7} {
		if got := Accuracy(mistakes, 0); got != 0 {
			t.Fatalf("Accuracy(%d, 0) = %f, want 0", mistakes, got)
		}
	}
}

func TestAccuracyNotClamped(t *testing.T) {
	if got := Accuracy(4, 2); got != -100 {
		t.Fatalf("expected -100, got %f", got)
	}
}

func TestAccuracyOneMistakeInThree(t *testing.T) {
	got := Accuracy(1, 3)
	if math.Abs(got-66.6666) > 0.01 {
		t.Fatalf("expected ~66.67, got %f", got)
	}
}

func TestSpeedLinearInWords(t *testing.T) {
	for _, minutes := range []float64{0.25, 0.5, 1, 3.7} {
		for _, words := range []int{0, 1, 9, 40} {
			if Speed(2*words, minutes) != 2*Speed(words, minutes) {
				t.Fatalf("speed not linear for %d words over %f minutes", words, minutes)
			}
		}
	}
}

func TestSpeedTenWordsHalfMinute(t *testing.T) {
	if got := Speed(10, 0.5); got != 20.0 {
		t.Fatalf("expected 20 WPM, got %f", got)
	}
}

func TestSpeedZeroDurationIsUnguarded(t *testing.T) {
	if !math.IsInf(Speed(3, 0), 1) {
		t.Fatalf("expected +Inf for zero duration")
	}
	if !math.IsNaN(Speed(0, 0)) {
		t.Fatalf("expected NaN for zero words over zero duration")
	}
}
