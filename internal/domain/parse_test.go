package domain

import (
	"errors"
	"testing"
)

func TestParseHHMM_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"08:00", 8 * 60},
		{"8:00", 8 * 60},
		{"00:00", 0},
		{"23:59", 23*60 + 59},
		{" 12:30 ", 12*60 + 30},
	}
	for _, c := range cases {
		got, err := ParseHHMM(c.in)
		if err != nil {
			t.Fatalf("ParseHHMM(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseHHMM(%q): want %d, got %d", c.in, c.want, got)
		}
	}
}

func TestParseHHMM_Invalid(t *testing.T) {
	for _, in := range []string{"", "25:99", "24:00", "12:60", "12:5", "1230", "ab:cd", "12:30:00"} {
		if _, err := ParseHHMM(in); err == nil {
			t.Fatalf("ParseHHMM(%q): expected error, got none", in)
		}
	}
	if _, err := ParseHHMM("25:99"); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("ParseHHMM(25:99): want ErrInvalidTime, got %v", err)
	}
}

func TestFormatMinutesRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "23:59"} {
		mins, err := ParseHHMM(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := FormatMinutes(mins); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}

func TestValidateTZ(t *testing.T) {
	if _, err := ValidateTZ("Europe/Kyiv"); err != nil {
		t.Fatalf("Europe/Kyiv should be valid: %v", err)
	}
	if _, err := ValidateTZ("Mars/Olympus"); err == nil {
		t.Fatal("Mars/Olympus should be invalid")
	}
}
