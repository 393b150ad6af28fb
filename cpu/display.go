package cpu

import (
	"strings"
)

const (
	SCREEN_WIDTH  = 64
	SCREEN_HEIGHT = 32
)

// Display is the monochrome framebuffer.
type Display struct {
	pixel  [SCREEN_HEIGHT][SCREEN_WIDTH]bool
	redraw bool
}

// Clear unsets every pixel.
func (d *Display) Clear() {
	clear(d.pixel[:])
	d.redraw = true
}

// Draw XORs the rows of an 8 pixel wide sprite onto the display at (x, y),
// most significant bit leftmost. Coordinates wrap at the screen edges.
// Returns true if any set pixel was unset.
func (d *Display) Draw(x, y int, rows []byte) (collision bool) {
	for r, row := range rows {
		py := (y + r) % SCREEN_HEIGHT
		for c := range 8 {
			if row&(0x80>>c) == 0 {
				continue
			}
			px := (x + c) % SCREEN_WIDTH
			if d.pixel[py][px] {
				collision = true
			}
			d.pixel[py][px] = !d.pixel[py][px]
		}
	}

	d.redraw = true

	return
}

// Pixel returns the state of the pixel at (x, y), wrapped to the screen.
func (d *Display) Pixel(x, y int) bool {
	return d.pixel[y%SCREEN_HEIGHT][x%SCREEN_WIDTH]
}

// Pixels returns a snapshot of the display, indexed [y][x].
func (d *Display) Pixels() (pixels [SCREEN_HEIGHT][SCREEN_WIDTH]bool) {
	pixels = d.pixel
	return
}

// Redraw returns true if the display changed since the last call, and
// clears the flag.
func (d *Display) Redraw() (redraw bool) {
	redraw = d.redraw
	d.redraw = false
	return
}

// String renders the display, one line per row, '#' for set pixels.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((SCREEN_WIDTH + 1) * SCREEN_HEIGHT)
	for _, row := range d.pixel {
		for _, set := range row {
			if set {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
