package tracker

import (
	"errors"
	"sort"

	"pomify/internal/models"
)

// SortOrder selects how the activity feed is ordered.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortMostCycles SortOrder = "most_cycles"
	SortMostTime   SortOrder = "most_time"
)

// ErrInvalidSortOrder is returned for an unknown sort order.
var ErrInvalidSortOrder = errors.New("invalid sort order")

// SortOrders lists the accepted orders, default first.
var SortOrders = []SortOrder{SortNewest, SortOldest, SortMostCycles, SortMostTime}

func (o SortOrder) IsValid() bool {
	for _, known := range SortOrders {
		if o == known {
			return true
		}
	}
	return false
}

// SortSessions orders sessions in place. Ties keep their existing order.
func SortSessions(sessions []models.PomodoroSession, order SortOrder) {
	var less func(a, b models.PomodoroSession) bool
	switch order {
	case SortOldest:
		less = func(a, b models.PomodoroSession) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortMostCycles:
		less = func(a, b models.PomodoroSession) bool { return a.CyclesCompleted > b.CyclesCompleted }
	case SortMostTime:
		less = func(a, b models.PomodoroSession) bool { return a.TotalFocusTime > b.TotalFocusTime }
	case SortNewest:
		less = func(a, b models.PomodoroSession) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(sessions, func(i, j int) bool { return less(sessions[i], sessions[j]) })
}
