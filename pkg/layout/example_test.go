package layout_test

import (
	"fmt"

	"github.com/matzehuels/collage/pkg/layout"
)

func ExampleCompute() {
	for i, r := range layout.Compute(layout.Featured, 3, 900, 300) {
		fmt.Printf("%d: x=%v y=%v %vx%v\n", i, r.X, r.Y, r.Width, r.Height)
	}
	// Output:
	// 0: x=0 y=0 600x300
	// 1: x=600 y=0 300x150
	// 2: x=600 y=150 300x150
}

func ExampleParseKind() {
	k, _ := layout.ParseKind("sideBySide")
	fmt.Println(k, "/", k.Title())
	// Output:
	// side-by-side / Side by Side
}

func ExampleGridDimensions() {
	cols, rows := layout.GridDimensions(5)
	fmt.Println(cols, "x", rows)
	// Output:
	// 3 x 2
}
