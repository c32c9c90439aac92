package model

import "strings"

// Worker is a registered participant of the roster.
type Worker struct {
	UserID      int64  `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// FullName returns first and last name separated by a space.
func (w Worker) FullName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// Complete reports whether every profile field is filled in.
func (w Worker) Complete() bool {
	return w.UserID != 0 &&
		strings.TrimSpace(w.FirstName) != "" &&
		strings.TrimSpace(w.LastName) != "" &&
		strings.TrimSpace(w.PhoneNumber) != ""
}
