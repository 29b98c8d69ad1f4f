// Package stats contains statistics calculations and reporting.
package stats

// Speed returns words per minute. elapsedMinutes must be positive; zero
// yields +Inf (or NaN with zero words) and callers guard against it.
func Speed(wordsCompleted int, elapsedMinutes float64) float64 {
	return float64(wordsCompleted) / elapsedMinutes
}

// Accuracy returns the share of correct words as a percentage. It is not
// clamped, so more mistakes than words gives a negative value.
func Accuracy(mistakes, totalWords int) float64 {
	if totalWords == 0 {
		return 0
	}
	return float64(totalWords-mistakes) / float64(totalWords) * 100
}
