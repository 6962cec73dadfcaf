package domain

import "time"

// PracticeConfig holds practice-session parameters (pure domain type).
type PracticeConfig struct {
	DefaultCount int
	MaxCount     int
	Timezone     *time.Location
	SessionTTL   time.Duration
}

// Progress is a read-only projection of a practice session's counters.
type Progress struct {
	TotalViewed int
	TotalCards  int
	Remaining   int
	Correct     int
	Repeat      int
	Hard        int
	Complete    bool
}
