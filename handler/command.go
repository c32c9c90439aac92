package handler

import (
	"strings"
	"unicode"
)

// parseCommand splits "/start@StaffBot ref42" into "/start" and "ref42".
// Text that does not start with "/" has no command.
func parseCommand(text string) (name, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	name = text
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, args = text[:i], strings.TrimSpace(text[i:])
	}
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return name, args
}
