// Package layout computes pane placement for collage views.
//
// # Overview
//
// Given a number of media sources and a canvas size, a layout policy returns
// one [Rect] per source in canvas pixel space. The i-th rectangle belongs to
// the i-th source in insertion order, so the order of the returned slice is
// part of the contract: it decides which visual slot each source lands in.
//
// Five policies are available, selected by [Kind]:
//
//   - [Grid]: uniform row-major cells, column/row count chosen from fixed thresholds
//   - [PictureInPicture]: first source fills the canvas, the next three are quarter
//     size insets in the corners, the rest tile a two-column strip top-left
//   - [SideBySide]: equal-width full-height strips, left to right
//   - [StackedRows]: equal-height full-width strips, top to bottom
//   - [Featured]: first source takes the left two thirds, the rest stack on the right
//
// # Computing Positions
//
//	rects := layout.Compute(layout.Grid, 4, 1280, 720)
//	// rects[0] = {X:0 Y:0 Width:640 Height:360}, rects[1] = {X:640 ...}, ...
//
// Every policy is a pure function: the same arguments always produce
// bit-identical rectangles, and a count of zero produces an empty slice.
//
// # Input Contract
//
// Count must be non-negative and both dimensions finite and positive. Inputs
// outside that domain are a programming error rather than a runtime
// condition; callers that take dimensions from the outside world should run
// [Validate] first. Builds with the collage_debug tag panic on violations.
//
// # Density
//
// Sources beyond the fourth in [PictureInPicture] are placed on a fixed
// two-column sub-grid anchored top-left. With many sources these tiles run
// past the bottom of the canvas and are clipped to it, and they may sit on
// top of the corner insets. That is a known density limitation of the policy,
// not a defect: no other policy produces overlapping rectangles.
package layout
