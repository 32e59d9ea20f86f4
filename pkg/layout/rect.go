package layout

import (
	"image"
	"math"
)

// Rect is a pane placement in canvas pixel space.
// X and Y locate the top-left corner; the origin is the canvas top-left.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o share a region of positive area.
// Rectangles that merely touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Within reports whether r lies inside a width x height canvas, allowing
// eps of floating point slack on the far edges.
func (r Rect) Within(width, height, eps float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.Width >= 0 && r.Height >= 0 &&
		r.Right() <= width+eps && r.Bottom() <= height+eps
}

// Pixels converts r to an integer pixel rectangle. Edges are rounded
// independently so neighbouring panes share a boundary without gaps.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}

// clip confines r to the canvas. The origin is clamped into the canvas and
// the size truncated at its far edges, never going negative.
func clip(r Rect, width, height float64) Rect {
	x := clamp(r.X, 0, width)
	y := clamp(r.Y, 0, height)
	right := clamp(r.Right(), x, width)
	bottom := clamp(r.Bottom(), y, height)
	return Rect{X: x, Y: y, Width: extent(x, right), Height: extent(y, bottom)}
}

// extent returns end-start, shrunk by the rounding ulp if needed so that
// start+extent never exceeds end.
func extent(start, end float64) float64 {
	size := end - start
	for size > 0 && start+size > end {
		size = math.Nextafter(size, 0)
	}
	return size
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
