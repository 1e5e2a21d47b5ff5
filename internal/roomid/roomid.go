package roomid

import (
	"fmt"
	"unicode/utf8"
)

const (
	MinLength = 6
	MaxLength = 128
)

// InvalidError reports why a room identifier was rejected. Exactly one of
// Length or Char describes the violation, depending on which rule failed.
type InvalidError struct {
	Length int
	Char   rune
	// TooShort and TooLong are set for length violations
	TooShort bool
	TooLong  bool
}

func (e *InvalidError) Error() string {
	switch {
	case e.TooShort:
		return fmt.Sprintf("room id too short: %d characters, need at least %d", e.Length, MinLength)
	case e.TooLong:
		return fmt.Sprintf("room id too long: %d characters, at most %d allowed", e.Length, MaxLength)
	default:
		return fmt.Sprintf("character %q is not allowed in room id", e.Char)
	}
}

// Validate checks that candidate is 6 to 128 ASCII letters or digits.
// Length is counted in Unicode code points, so any non-ASCII character
// counts once. The check is case-sensitive and does not trim.
func Validate(candidate string) error {
	n := utf8.RuneCountInString(candidate)
	if n < MinLength {
		return &InvalidError{Length: n, TooShort: true}
	}
	if n > MaxLength {
		return &InvalidError{Length: n, TooLong: true}
	}
	for _, r := range candidate {
		if !isAlnum(r) {
			return &InvalidError{Char: r}
		}
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
