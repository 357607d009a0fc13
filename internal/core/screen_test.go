package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.SetColored(0, 100, 'A', ColorRed)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenColors(t *testing.T) {
	s := NewScreen(10, 3)

	s.SetColored(2, 1, '#', ColorGreen)
	cell := s.GetCell(2, 1)
	if cell.Rune != '#' || cell.Color != ColorGreen {
		t.Errorf("GetCell(2, 1) = %+v, expected {# green}", cell)
	}

	// Set keeps the existing color
	s.Set(2, 1, '*')
	if cell := s.GetCell(2, 1); cell.Color != ColorGreen {
		t.Errorf("Set() changed color to %v", cell.Color)
	}

	s.Clear()
	if cell := s.GetCell(2, 1); cell.Rune != ' ' || cell.Color != ColorDefault {
		t.Errorf("Clear() left %+v", cell)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	for i, ch := range "Hello" {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawText(0, 0, "♥x")

	if s.Get(1, 0) != 'x' {
		t.Errorf("DrawText should advance one cell per rune, got %q at 1", s.Get(1, 0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorDefault)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("DrawBox edges missing")
	}
}

func TestScreenResizeKeepsContent(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(1, 1, 'Q', ColorCyan)

	s.Resize(8, 3)
	if s.Width() != 8 || s.Height() != 3 {
		t.Fatalf("Resize() dims = %dx%d, expected 8x3", s.Width(), s.Height())
	}
	if cell := s.GetCell(1, 1); cell.Rune != 'Q' || cell.Color != ColorCyan {
		t.Errorf("Resize() lost content, got %+v", cell)
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawHLine(0, 1, 3, '=', ColorGray)

	lines := strings.Split(s.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("String() produced %d lines, expected 2", len(lines))
	}
	if lines[1] != "===" {
		t.Errorf("line 1 = %q, expected ===", lines[1])
	}
	if s.Row(1) != "===" {
		t.Errorf("Row(1) = %q, expected ===", s.Row(1))
	}
}
