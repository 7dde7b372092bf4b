package results

import (
	"sort"
	"time"
)

// UnitState is the state of a single constituency within a run
type UnitState int8

const (
	// UnitPending has not been looked at yet
	UnitPending UnitState = iota + 1
	// UnitSkipped was already present in the output store
	UnitSkipped
	// UnitFetching is being fetched
	UnitFetching
	// UnitPersisted rows were appended to the output store
	UnitPersisted
	// UnitEmpty fetched fine but had no rows, nothing was written
	UnitEmpty
	// UnitFailed fetch failed, will be tried again on the next run
	UnitFailed
)

// UnitStateMap for log output
var UnitStateMap = map[UnitState]string{
	UnitPending:   "pending",
	UnitSkipped:   "skipped",
	UnitFetching:  "fetching",
	UnitPersisted: "persisted",
	UnitEmpty:     "empty",
	UnitFailed:    "failed",
}

func (s UnitState) String() string {
	if v, ok := UnitStateMap[s]; ok {
		return v
	}
	return "unknown"
}

// RunState holds the constituencies that were already completed when the run
// started. It is derived from the output store once and never updated.
type RunState struct {
	done map[int]struct{}
}

// NewRunState from the set of constituency numbers found in the store
func NewRunState(done map[int]struct{}) *RunState {
	if done == nil {
		done = make(map[int]struct{})
	}
	return &RunState{done: done}
}

// Done returns true if id had at least one row in the store at start
func (s *RunState) Done(id int) bool {
	_, ok := s.done[id]
	return ok
}

// Len of completed constituencies
func (s *RunState) Len() int {
	return len(s.done)
}

// IDs sorted ascending
func (s *RunState) IDs() []int {
	ids := make([]int, 0, len(s.done))
	for id := range s.done {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Outcome of processing one constituency
type Outcome struct {
	ID    int
	State UnitState
	Rows  int
	Err   error
}

// Summary of a run
type Summary struct {
	RunID       string
	Started     time.Time
	Finished    time.Time
	Persisted   int
	Empty       int
	Skipped     int
	Failed      int
	Rows        int
	FailedIDs   []int
	Interrupted bool
}

// Add an outcome to the summary counts
func (s *Summary) Add(o Outcome) {
	switch o.State {
	case UnitPersisted:
		s.Persisted++
		s.Rows += o.Rows
	case UnitEmpty:
		s.Empty++
	case UnitSkipped:
		s.Skipped++
	case UnitFailed:
		s.Failed++
		s.FailedIDs = append(s.FailedIDs, o.ID)
	}
}

// Processed returns how many constituencies were looked at
func (s *Summary) Processed() int {
	return s.Persisted + s.Empty + s.Skipped + s.Failed
}
