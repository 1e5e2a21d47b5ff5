package roomid

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "min length", in: "ABC123"},
		{name: "max length", in: strings.Repeat("a", MaxLength)},
		{name: "mixed case", in: "aBcDeF0987"},
		{name: "empty", in: "", wantErr: true},
		{name: "too short", in: "abc12", wantErr: true},
		{name: "too long", in: strings.Repeat("Z", MaxLength+1), wantErr: true},
		{name: "space", in: "abc 123", wantErr: true},
		{name: "leading space not trimmed", in: " abc123", wantErr: true},
		{name: "dash", in: "abc-123", wantErr: true},
		{name: "underscore", in: "abc_123", wantErr: true},
		{name: "non ascii letter", in: "abcdéf", wantErr: true},
		{name: "fullwidth digit", in: "abcde１", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr {
				var invalid *InvalidError
				if !errors.As(err, &invalid) {
					t.Fatalf("Validate(%q) err=%v, want *InvalidError", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) err=%v, want nil", tt.in, err)
			}
		})
	}
}

func TestValidate_ReportsLength(t *testing.T) {
	var invalid *InvalidError

	if !errors.As(Validate("abc"), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if !invalid.TooShort || invalid.Length != 3 {
		t.Fatalf("got %+v, want TooShort with Length=3", invalid)
	}

	if !errors.As(Validate(strings.Repeat("x", 200)), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if !invalid.TooLong || invalid.Length != 200 {
		t.Fatalf("got %+v, want TooLong with Length=200", invalid)
	}
}

func TestValidate_ReportsFirstDisallowedChar(t *testing.T) {
	var invalid *InvalidError
	if !errors.As(Validate("abc!def?"), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if invalid.Char != '!' {
		t.Fatalf("Char=%q, want '!'", invalid.Char)
	}
	if invalid.TooShort || invalid.TooLong {
		t.Fatalf("unexpected length flags: %+v", invalid)
	}
}

func TestValidate_LengthCheckedBeforeCharacters(t *testing.T) {
	var invalid *InvalidError
	if !errors.As(Validate("a-b"), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if !invalid.TooShort {
		t.Fatalf("got %+v, want length violation first", invalid)
	}
}

func TestValidate_AllAllowedCharacters(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	if err := Validate(alphabet); err != nil {
		t.Fatalf("Validate(alphabet) err=%v", err)
	}
	for c := 0; c < 128; c++ {
		if strings.ContainsRune(alphabet, rune(c)) {
			continue
		}
		candidate := "abcdef" + string(rune(c))
		if err := Validate(candidate); err == nil {
			t.Fatalf("Validate accepted disallowed byte %#x", c)
		}
	}
}

func TestValidate_AstralCharacterCountsOnce(t *testing.T) {
	var invalid *InvalidError

	// Five characters, even though the emoji is two UTF-16 units.
	if !errors.As(Validate("abcd😀"), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if !invalid.TooShort || invalid.Length != 5 {
		t.Fatalf("got %+v, want TooShort with Length=5", invalid)
	}

	if !errors.As(Validate("abcde😀"), &invalid) {
		t.Fatalf("expected InvalidError")
	}
	if invalid.TooShort || invalid.Char != '😀' {
		t.Fatalf("got %+v, want disallowed char", invalid)
	}
}
