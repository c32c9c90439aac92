package model

import "fmt"

// State is the position of one user in the conversation.
type State int

const (
	// Registration states
	StateIdle State = iota
	StateAwaitingFullName
	StateAwaitingPhone

	// Admin states
	StateAwaitingDate
	StateAwaitingWorkerCount
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingFullName:
		return "awaiting_full_name"
	case StateAwaitingPhone:
		return "awaiting_phone"
	case StateAwaitingDate:
		return "awaiting_date"
	case StateAwaitingWorkerCount:
		return "awaiting_worker_count"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AdminOnly reports whether only the admin can be in this state.
func (s State) AdminOnly() bool {
	return s == StateAwaitingDate || s == StateAwaitingWorkerCount
}

// Draft holds the name collected before the phone number arrives.
type Draft struct {
	FirstName string
	LastName  string
}

func (d Draft) empty() bool {
	return d.FirstName == "" || d.LastName == ""
}

// Session is the conversation state of a single user. It is never persisted.
// The draft is only meaningful in StateAwaitingPhone.
type Session struct {
	UserID int64
	state  State
	draft  Draft
}

func NewSession(userID int64) *Session {
	return &Session{UserID: userID, state: StateIdle}
}

func (s *Session) State() State { return s.state }

func (s *Session) Draft() Draft { return s.draft }

// Reset returns the session to Idle and drops any draft.
func (s *Session) Reset() {
	s.state = StateIdle
	s.draft = Draft{}
}

func (s *Session) AwaitFullName() {
	s.state = StateAwaitingFullName
	s.draft = Draft{}
}

// AwaitPhone moves to StateAwaitingPhone carrying the collected name.
func (s *Session) AwaitPhone(d Draft) error {
	if d.empty() {
		return fmt.Errorf("await phone for user %d: first and last name required", s.UserID)
	}
	s.state = StateAwaitingPhone
	s.draft = d
	return nil
}

func (s *Session) AwaitDate() {
	s.state = StateAwaitingDate
	s.draft = Draft{}
}

func (s *Session) AwaitWorkerCount() {
	s.state = StateAwaitingWorkerCount
	s.draft = Draft{}
}
