// Package core holds the screen buffer, input and runtime types shared by the
// game packages and the platform layer. It does not import Bubble Tea.
package core

// Rect is a box on the screen grid. X and Y are the top-left cell.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect returns the w x h box whose top-left cell is (x, y).
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right is the first column past the box.
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the box.
func (r Rect) Bottom() int { return r.Y + r.H }

// CenteredRect returns a w x h box centered in an outerW x outerH area.
func CenteredRect(outerW, outerH, w, h int) Rect {
	return Rect{X: (outerW - w) / 2, Y: (outerH - h) / 2, W: w, H: h}
}

// Clamp limits val to [lo, hi].
func Clamp(val, lo, hi int) int {
	switch {
	case val < lo:
		return lo
	case val > hi:
		return hi
	}
	return val
}
