package layout

import (
	"fmt"
	"math"
)

// Policy computes the placement of count panes on a width x height canvas.
// Implementations must be pure: identical arguments yield identical output.
type Policy interface {
	Positions(count int, width, height float64) []Rect
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(count int, width, height float64) []Rect

// Positions calls f.
func (f PolicyFunc) Positions(count int, width, height float64) []Rect {
	return f(count, width, height)
}

var policies = map[Kind]Policy{
	Grid:             PolicyFunc(gridPositions),
	PictureInPicture: PolicyFunc(pipPositions),
	SideBySide:       PolicyFunc(sideBySidePositions),
	StackedRows:      PolicyFunc(stackedRowsPositions),
	Featured:         PolicyFunc(featuredPositions),
}

// For returns the policy for k. Unknown kinds fall back to Grid.
func For(k Kind) Policy {
	if p, ok := policies[k]; ok {
		return p
	}
	return policies[Grid]
}

// Compute returns the rectangles for count panes under the policy selected
// by kind. The result always has exactly count entries and is freshly
// allocated, so callers may keep or modify it freely.
func Compute(kind Kind, count int, width, height float64) []Rect {
	if debugChecks {
		if err := Validate(count, width, height); err != nil {
			panic("layout: " + err.Error())
		}
	}
	if count <= 0 {
		return []Rect{}
	}
	return For(kind).Positions(count, width, height)
}

// Validate checks the input contract of Compute.
func Validate(count int, width, height float64) error {
	if count < 0 {
		return fmt.Errorf("negative pane count %d", count)
	}
	if !positiveFinite(width) || !positiveFinite(height) {
		return fmt.Errorf("canvas size %vx%v must be finite and positive", width, height)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func full(width, height float64) Rect {
	return Rect{X: 0, Y: 0, Width: width, Height: height}
}
