package testutil

import "testing"

func TestScreen_PlainText(t *testing.T) {
	s := NewScreen()
	s.Feed("hello")

	if got := s.Line(0); got != "hello" {
		t.Errorf("Line(0) = %q, want %q", got, "hello")
	}
	if got := s.Row(); got != 0 {
		t.Errorf("Row() = %d, want 0", got)
	}
}

func TestScreen_NewlineAndCarriageReturn(t *testing.T) {
	s := NewScreen()
	s.Feed("one\ntwo\rTWO")

	if got := s.Line(0); got != "one" {
		t.Errorf("Line(0) = %q, want %q", got, "one")
	}
	if got := s.Line(1); got != "TWO" {
		t.Errorf("Line(1) = %q, want %q", got, "TWO")
	}
	if got := s.Row(); got != 1 {
		t.Errorf("Row() = %d, want 1", got)
	}
}

func TestScreen_CursorMovement(t *testing.T) {
	tests := []struct {
		name string
		feed string
		want int
	}{
		{"down", "\033[3B", 3},
		{"down and up", "\033[3B\033[3A", 0},
		{"zero parameter moves one", "\033[0B", 1},
		{"missing parameter moves one", "\033[B", 1},
		{"newlines then up", "\n\n\n\033[3A", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen()
			s.Feed(tt.feed)
			if got := s.Row(); got != tt.want {
				t.Errorf("Row() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScreen_ClearToEOL(t *testing.T) {
	s := NewScreen()
	s.Feed("a long line\rshort\033[K")

	if got := s.Line(0); got != "short" {
		t.Errorf("Line(0) = %q, want %q", got, "short")
	}
}

func TestScreen_OverwriteKeepsTail(t *testing.T) {
	// Without clear-to-EOL the tail of the longer old value survives.
	s := NewScreen()
	s.Feed("12345678\rabc")

	if got := s.Line(0); got != "abc45678" {
		t.Errorf("Line(0) = %q, want %q", got, "abc45678")
	}
}

func TestScreen_IgnoresSGR(t *testing.T) {
	s := NewScreen()
	s.Feed("\033[32;1mok\033[0m done")

	if got := s.Line(0); got != "ok done" {
		t.Errorf("Line(0) = %q, want %q", got, "ok done")
	}
}

func TestScreen_Lines(t *testing.T) {
	s := NewScreen()
	s.Feed("\n\n\033[2A")
	s.Feed("first\033[K\r")
	s.Feed("\033[1Bsecond\033[K\r\033[1A")

	lines := s.Lines()
	if len(lines) != 3 {
		t.Fatalf("len(Lines()) = %d, want 3", len(lines))
	}
	if lines[0] != "first" || lines[1] != "second" {
		t.Errorf("Lines() = %q, want [first second ...]", lines)
	}
}
