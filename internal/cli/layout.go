package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
)

// layoutResult is the JSON form of the layout command output.
type layoutResult struct {
	Kind   layout.Kind   `json:"kind"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Rects  []layout.Rect `json:"rects"`
}

// layoutCommand creates the layout command for inspecting pane geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		kindName string
		count    int
		width    float64
		height   float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the pane rectangles of a layout",
		Long: `Print the pane rectangles a layout assigns to a number of sources.

Rectangles are listed in slot order: the first added source is drawn into
rectangle 1. When --height is omitted the canvas is 16:9 of --width.`,
		Example: `  collage layout --kind pip --count 5
  collage layout -k featured -n 4 --width 1920 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = float64(c.Config.Canvas.Width)
			}
			if !cmd.Flags().Changed("height") {
				_, h := composite.FitSize(int(width))
				height = float64(h)
			}
			return c.runLayout(kindName, count, width, height, asJSON)
		},
	}

	registerKindFlag(cmd, &kindName, "layout kind: grid, pip, side-by-side, stacked-rows, featured (default from config)")
	cmd.Flags().IntVarP(&count, "count", "n", 4, "number of sources")
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height (default: width * 9/16)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runLayout(kindName string, count int, width, height float64, asJSON bool) error {
	kind, err := c.resolveKind(kindName)
	if err != nil {
		return err
	}
	if err := errors.ValidateSourceCount(count); err != nil {
		return err
	}
	if err := errors.ValidateCanvas(width, height); err != nil {
		return err
	}

	rects := layout.Compute(kind, count, width, height)
	c.Logger.Debug("computed layout", "kind", kind, "count", count, "width", width, "height", height)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layoutResult{Kind: kind, Width: width, Height: height, Rects: rects})
	}

	fmt.Println(StyleTitle.Render(kind.Title()) + " " + StyleDim.Render(fmt.Sprintf("%g×%g", width, height)))
	if len(rects) == 0 {
		printInfo("no sources, nothing to place")
		return nil
	}
	fmt.Println(rectTable(rects))
	fmt.Println(layoutMap(rects, width, height, mapColumns))
	return nil
}

// resolveKind parses a --kind value, falling back to the configured default.
func (c *CLI) resolveKind(name string) (layout.Kind, error) {
	if name == "" {
		return c.Config.LayoutKind(), nil
	}
	k, err := layout.ParseKind(name)
	if err != nil {
		return layout.Grid, errors.Wrap(errors.ErrCodeInvalidLayout, err, "--kind")
	}
	return k, nil
}
