package testutil

import "strings"

// Screen is a minimal terminal emulator covering exactly the control
// vocabulary the renderer emits: newline, carriage return, relative cursor
// movement (CSI n A / CSI n B) and clear-to-end-of-line (CSI K). Other CSI
// sequences, such as SGR color codes, are consumed and ignored. There is no
// scrolling: row 0 is wherever the cursor was when the Screen was created,
// and rows grow downward without bound.
type Screen struct {
	rows map[int][]rune
	row  int
	col  int
	max  int
}

// NewScreen returns an empty screen with the cursor at row 0, column 0.
func NewScreen() *Screen {
	return &Screen{rows: make(map[int][]rune)}
}

// Feed consumes raw terminal output, updating rows and cursor position.
func (s *Screen) Feed(text string) {
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\n':
			s.row++
			s.col = 0
			s.track()
		case r == '\r':
			s.col = 0
		case r == 0x1b && i+1 < len(runes) && runes[i+1] == '[':
			i = s.feedCSI(runes, i+2)
		default:
			s.put(r)
		}
	}
}

// feedCSI interprets one CSI sequence whose parameters start at runes[start].
// It returns the index of the sequence's final byte. A parameter of zero is
// treated as one for cursor movement, which is what terminals do.
func (s *Screen) feedCSI(runes []rune, start int) int {
	j := start
	n := 0
	for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
		n = n*10 + int(runes[j]-'0')
		j++
	}
	// Skip any further parameters; only the first matters for movement and
	// sequences with multiple parameters (SGR) are ignored entirely.
	for j < len(runes) && (runes[j] == ';' || (runes[j] >= '0' && runes[j] <= '9')) {
		j++
	}
	if j >= len(runes) {
		return len(runes)
	}

	switch runes[j] {
	case 'A':
		if n == 0 {
			n = 1
		}
		s.row -= n
	case 'B':
		if n == 0 {
			n = 1
		}
		s.row += n
		s.track()
	case 'K':
		if line, ok := s.rows[s.row]; ok && s.col < len(line) {
			s.rows[s.row] = line[:s.col]
		}
	}
	return j
}

// put writes one printable rune at the cursor and advances it.
func (s *Screen) put(r rune) {
	line := s.rows[s.row]
	for len(line) < s.col {
		line = append(line, ' ')
	}
	if s.col < len(line) {
		line[s.col] = r
	} else {
		line = append(line, r)
	}
	s.rows[s.row] = line
	s.col++
}

func (s *Screen) track() {
	if s.row > s.max {
		s.max = s.row
	}
}

// Row returns the cursor row relative to where the screen started.
func (s *Screen) Row() int {
	return s.row
}

// Line returns the content of the given row, without trailing state.
func (s *Screen) Line(row int) string {
	return string(s.rows[row])
}

// Lines returns all rows from 0 through the lowest row the cursor reached.
func (s *Screen) Lines() []string {
	lines := make([]string, s.max+1)
	for i := range lines {
		lines[i] = string(s.rows[i])
	}
	return lines
}

// Dump renders the screen for test failure messages.
func (s *Screen) Dump() string {
	return strings.Join(s.Lines(), "\n")
}
