package events

import "strings"

// Status is the outcome of a test step, ordered from least to most severe
type Status string

const (
	StatusUnknown   Status = "UNKNOWN"
	StatusPassed    Status = "PASSED"
	StatusSkipped   Status = "SKIPPED"
	StatusPending   Status = "PENDING"
	StatusUndefined Status = "UNDEFINED"
	StatusAmbiguous Status = "AMBIGUOUS"
	StatusFailed    Status = "FAILED"
)

// Statuses lists every status in severity order
var Statuses = []Status{
	StatusUnknown,
	StatusPassed,
	StatusSkipped,
	StatusPending,
	StatusUndefined,
	StatusAmbiguous,
	StatusFailed,
}

// Severity returns the rank of s; unrecognized statuses rank as unknown
func (s Status) Severity() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return 0
}

// Lower returns the lowercase name used in human-readable output
func (s Status) Lower() string {
	return strings.ToLower(string(s))
}

// IsIssue reports whether a scenario with this status needs attention
func (s Status) IsIssue() bool {
	switch s {
	case StatusPending, StatusUndefined, StatusAmbiguous, StatusFailed:
		return true
	}
	return false
}

// WorstStatus returns the most severe of the given statuses
func WorstStatus(statuses ...Status) Status {
	worst := StatusUnknown
	for _, s := range statuses {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}
