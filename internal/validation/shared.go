package validation

import (
	"strings"
	"unicode/utf8"
)

// Violation names a field and the rule it broke.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Join renders violations as "field: message; field: message".
func Join(violations []Violation) string {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, v.String())
	}
	return strings.Join(msgs, "; ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
