package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only date format the admin may type.
const DateLayout = "2006-01-02"

var (
	phonePattern  = regexp.MustCompile(`^\+[0-9]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ParseFullName splits "First Last [More]" into a draft. The surname keeps
// every token after the first, joined by single spaces.
func ParseFullName(text string) (Draft, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return Draft{}, false
	}
	return Draft{
		FirstName: parts[0],
		LastName:  strings.Join(parts[1:], " "),
	}, true
}

// ParsePhone accepts "+" followed by digits only.
func ParsePhone(text string) (string, bool) {
	phone := strings.TrimSpace(text)
	if !phonePattern.MatchString(phone) {
		return "", false
	}
	return phone, true
}

func ParseDate(text string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return d, nil
}

// ParseCount accepts ASCII digits only, so signs and spaces inside the
// number are rejected.
func ParseCount(text string) (int, error) {
	s := strings.TrimSpace(text)
	if !digitsPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, text)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCount, err)
	}
	return n, nil
}
