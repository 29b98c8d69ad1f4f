// Package model defines shared data structures.
package model

import "time"

// HistoryKey is the sync store key holding the result log.
const HistoryKey = "typingHistory"

// HistoryLimit bounds the number of results kept in the log.
const HistoryLimit = 20

// Config defines practice settings.
type Config struct {
	SampleInterval time.Duration
	Backend        string
	RemoteURL      string
	DBPath         string
}

// TestResult captures a completed typing test.
type TestResult struct {
	Speed      float64   `json:"speed" yaml:"speed"`
	Mistakes   int       `json:"mistakes" yaml:"mistakes"`
	Accuracy   float64   `json:"accuracy" yaml:"accuracy"`
	Keystrokes int       `json:"keystrokes" yaml:"keystrokes"`
	Date       time.Time `json:"date" yaml:"date"`
}

// SyncStatus reports the state of the last history write.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncSyncing
	SyncSuccess
	SyncError
)

func (s SyncStatus) String() string {
	switch s {
	case SyncSyncing:
		return "syncing"
	case SyncSuccess:
		return "synced"
	case SyncError:
		return "sync error"
	default:
		return "idle"
	}
}
