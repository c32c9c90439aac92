package model

import (
	"sync"
	"time"
)

// StaffingRequest is the single open recruitment: a date, how many workers
// are needed and who signed up so far. All access goes through its methods.
type StaffingRequest struct {
	mu sync.Mutex

	stagedDate time.Time
	date       time.Time
	required   int
	attending  []Worker
	cycle      int
}

// Snapshot is a copy of the request taken under the lock.
type Snapshot struct {
	Date          time.Time
	RequiredCount int
	Attending     []Worker
	Cycle         int
}

func (s Snapshot) HasDate() bool { return !s.Date.IsZero() }

// DateString formats the date the way the admin typed it.
func (s Snapshot) DateString() string {
	if !s.HasDate() {
		return ""
	}
	return s.Date.Format(DateLayout)
}

// Open reports whether a request with free or filled slots exists.
func (s Snapshot) Open() bool { return s.RequiredCount > 0 }

// AdmitResult describes a successful admission. Filled is set only on the
// admission that takes the roster to exactly the required count; Roster is
// populated in that case only.
type AdmitResult struct {
	Position int
	Required int
	Filled   bool
	Roster   []Worker
	Date     time.Time
	Cycle    int
}

func NewStaffingRequest() *StaffingRequest {
	return &StaffingRequest{}
}

// StageDate records the date for the request the admin is composing. It
// becomes the request date when Open commits the worker count.
func (r *StaffingRequest) StageDate(d time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stagedDate = d
}

// Open commits the staged date with the required count and empties the
// attending list, starting a new cycle.
func (r *StaffingRequest) Open(required int) (Snapshot, error) {
	if required < 0 {
		return Snapshot{}, ErrInvalidCount
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stagedDate.IsZero() {
		return Snapshot{}, ErrDateNotStaged
	}
	r.date = r.stagedDate
	r.stagedDate = time.Time{}
	r.required = required
	r.attending = nil
	r.cycle++
	return r.snapshotLocked(), nil
}

// Clear drops the date, the count and every attendee.
func (r *StaffingRequest) Clear() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stagedDate = time.Time{}
	r.date = time.Time{}
	r.required = 0
	r.attending = nil
	r.cycle++
	return r.snapshotLocked()
}

// Admit claims one slot for w. The duplicate check, the capacity check and
// the append happen under one lock acquisition.
func (r *StaffingRequest) Admit(w Worker) (AdmitResult, error) {
	if !w.Complete() {
		return AdmitResult{}, ErrNotRegistered
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.attending {
		if a.UserID == w.UserID {
			return AdmitResult{}, ErrAlreadyAttending
		}
	}
	if len(r.attending) >= r.required {
		return AdmitResult{}, ErrCapacityReached
	}

	r.attending = append(r.attending, w)
	res := AdmitResult{
		Position: len(r.attending),
		Required: r.required,
		Date:     r.date,
		Cycle:    r.cycle,
	}
	if len(r.attending) == r.required {
		res.Filled = true
		res.Roster = append([]Worker(nil), r.attending...)
	}
	return res, nil
}

func (r *StaffingRequest) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *StaffingRequest) snapshotLocked() Snapshot {
	return Snapshot{
		Date:          r.date,
		RequiredCount: r.required,
		Attending:     append([]Worker(nil), r.attending...),
		Cycle:         r.cycle,
	}
}
