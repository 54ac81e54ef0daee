// Package ladder is the generic gated-ladder decision core shared by the
// sales and BDC progression state machines. It validates a pass attempt
// against the current level's lesson set and reports idempotence, progress and
// completion. All functions are pure; both ladders supply their own catalogs
// and the transactional layer supplies current state.
package ladder

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWrongLevel rejects passes against a level other than the learner's
	// current one. No skipping, no retroactive credit.
	ErrWrongLevel = errors.New("lesson level does not match current level")
	// ErrUnknownLesson rejects lesson ids outside the level's lesson set.
	ErrUnknownLesson = errors.New("lesson is not part of this level")
	// ErrDailyCapReached rejects passes beyond the per-UTC-day cap.
	ErrDailyCapReached = errors.New("daily lesson pass cap reached")
)

// Decision is the outcome of evaluating one pass attempt. AlreadyPassed means
// the caller should return a zero-XP no-op; Completed means every lesson in
// the set is now passed.
type Decision struct {
	AlreadyPassed bool
	Completed     bool
	PassedCount   int
	TotalCount    int
	Progress      float64
}

// EvaluatePass validates a pass attempt and computes the resulting progress.
// level is the level the caller claims; currentLevel is the learner's stored
// position; lessonSet is the full ordered lesson-id set for that level (and
// phase, for branched levels); passed is what the learner has already passed
// in that same bucket.
func EvaluatePass(level, currentLevel int, lessonID string, lessonSet, passed []string) (Decision, error) {
	var d Decision
	if level != currentLevel {
		return d, ErrWrongLevel
	}
	if len(lessonSet) == 0 {
		return d, ErrUnknownLesson
	}
	member := false
	for _, id := range lessonSet {
		if id == lessonID {
			member = true
			break
		}
	}
	if !member {
		return d, ErrUnknownLesson
	}

	seen := make(map[string]bool, len(passed))
	for _, id := range passed {
		seen[id] = true
	}
	d.TotalCount = len(lessonSet)

	if seen[lessonID] {
		d.AlreadyPassed = true
		d.PassedCount = countPassed(lessonSet, seen)
		d.Progress = percent(d.PassedCount, d.TotalCount)
		d.Completed = d.PassedCount == d.TotalCount
		return d, nil
	}

	seen[lessonID] = true
	d.PassedCount = countPassed(lessonSet, seen)
	d.Progress = percent(d.PassedCount, d.TotalCount)
	d.Completed = d.PassedCount == d.TotalCount
	return d, nil
}

func countPassed(lessonSet []string, seen map[string]bool) int {
	n := 0
	for _, id := range lessonSet {
		if seen[id] {
			n++
		}
	}
	return n
}

func percent(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}

// DateKey is the UTC calendar-day key used for the daily pass counter.
// Comparison is by key, not elapsed hours, so the counter resets at UTC
// midnight regardless of when the previous passes happened.
func DateKey(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// DailyCounter is the stored daily pass state for one learner.
type DailyCounter struct {
	Date  string
	Count int
}

// Rolled returns the counter as of now, zeroing the count when the UTC date
// key has moved on.
func (c DailyCounter) Rolled(now time.Time) DailyCounter {
	key := DateKey(now)
	if c.Date != key {
		return DailyCounter{Date: key, Count: 0}
	}
	return c
}

// CheckCap enforces the per-day pass cap against the rolled counter.
func (c DailyCounter) CheckCap(cap int) error {
	if cap > 0 && c.Count >= cap {
		return ErrDailyCapReached
	}
	return nil
}

// NextReset is when the current UTC day's cap lifts, reported to rate-limited
// callers.
func NextReset(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// LevelKey buckets passed lessons per sales-ladder level.
func LevelKey(level int) string {
	return fmt.Sprintf("level_%d", level)
}

// PhaseKey buckets passed lessons per BDC (level, phase) pair.
func PhaseKey(level int, phase string) string {
	return fmt.Sprintf("%d:%s", level, phase)
}
