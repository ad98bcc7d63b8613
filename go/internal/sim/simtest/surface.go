package simtest

import "strings"

// TextSurface is a text-cell render target for the demo simulation.
type TextSurface struct {
	w, h  int
	cells [][]rune
}

// NewTextSurface allocates a cleared surface of the given size.
func NewTextSurface(w, h int) *TextSurface {
	s := &TextSurface{w: w, h: h}
	s.Clear()
	return s
}

func (s *TextSurface) Size() (w, h int) { return s.w, s.h }

func (s *TextSurface) Clear() {
	s.cells = make([][]rune, s.h)
	for y := range s.cells {
		row := make([]rune, s.w)
		for x := range row {
			row[x] = ' '
		}
		s.cells[y] = row
	}
}

func (s *TextSurface) Set(x, y int, c rune) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.cells[y][x] = c
}

// Render returns the surface contents as newline-joined rows.
func (s *TextSurface) Render() string {
	rows := make([]string, s.h)
	for y, row := range s.cells {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}
