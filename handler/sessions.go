package handler

import (
	"sync"

	"StaffBot/model"
)

// sessions maps user ids to their conversation. Each slot has its own lock,
// held while one event from that user is handled, so a user's messages are
// processed one at a time while different users proceed in parallel.
type sessions struct {
	mu     sync.Mutex
	byUser map[int64]*sessionSlot
}

type sessionSlot struct {
	mu      sync.Mutex
	session *model.Session
}

func newSessions() *sessions {
	return &sessions{byUser: make(map[int64]*sessionSlot)}
}

func (s *sessions) slot(userID int64) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.byUser[userID]
	if !ok {
		slot = &sessionSlot{session: model.NewSession(userID)}
		s.byUser[userID] = slot
	}
	return slot
}

// with runs fn with exclusive access to the user's session.
func (s *sessions) with(userID int64, fn func(*model.Session)) {
	slot := s.slot(userID)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	fn(slot.session)
}

func (s *sessions) state(userID int64) model.State {
	var st model.State
	s.with(userID, func(sess *model.Session) { st = sess.State() })
	return st
}
