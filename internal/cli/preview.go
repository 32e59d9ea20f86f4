package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/session"
)

type previewOptions struct {
	kind        string
	width       int
	ticks       int
	out         string
	sessionFile string
}

// previewCommand creates the preview command, which writes one composited
// frame to a PNG file.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview [file...]",
		Short: "Composite media files and save one frame as PNG",
		Long: `Composite media files into a collage and save one frame as PNG.

The sources run through the same compositing loop as 'play' for --ticks
frames, so animated sources advance and slow decoders get time to buffer.
Sources that are still not ready when the frame is taken stay blank.

With --session, sources and layout are restored from a snapshot saved by
'play'. Files given as arguments are added after them.`,
		Example: `  collage preview a.gif b.png c.webp --kind featured
  collage preview --session collage-snapshot.json --out restored.png`,
		ValidArgsFunction: completeMedia,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				opts.width = c.Config.Canvas.Width
			}
			if !cmd.Flags().Changed("ticks") {
				opts.ticks = c.Config.Preview.Ticks
			}
			if len(args) == 0 && opts.sessionFile == "" {
				return errors.New(errors.ErrCodeInvalidInput, "give at least one media file or --session")
			}
			return c.runPreview(cmd.Context(), args, opts)
		},
	}

	registerKindFlag(cmd, &opts.kind, "layout kind (default from config or session)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "canvas width; height is 16:9 (default from config)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "frames to composite before saving (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", defaultPreviewOut, "output PNG file")
	cmd.Flags().StringVar(&opts.sessionFile, "session", "", "restore sources and layout from a saved snapshot")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, paths []string, opts previewOptions) error {
	if opts.ticks < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--ticks must be at least 1, got %d", opts.ticks)
	}
	width, height := composite.FitSize(opts.width)
	if err := errors.ValidateCanvas(float64(width), float64(height)); err != nil {
		return err
	}

	var (
		ds       []media.Descriptor
		restored *session.Snapshot
	)
	if opts.sessionFile != "" {
		snap, err := session.LoadSnapshot(opts.sessionFile)
		if err != nil {
			return err
		}
		restored = &snap
		for _, ref := range snap.Sources {
			ds = append(ds, ref.Descriptor())
		}
	}
	more, err := describeAll(paths)
	if err != nil {
		return err
	}
	ds = append(ds, more...)

	ctrl := c.newSession()
	defer ctrl.Close()
	if restored != nil {
		ctrl.SetLayout(restored.Layout)
	}
	if opts.kind != "" {
		kind, err := c.resolveKind(opts.kind)
		if err != nil {
			return err
		}
		ctrl.SetLayout(kind)
	}

	added, err := ctrl.AddSources(ctx, ds...)
	if err != nil {
		printWarning("%s", errors.UserMessage(err))
	}
	if len(added) == 0 {
		return errors.New(errors.ErrCodeSourceUnreadable, "none of the sources could be opened")
	}

	surface := composite.NewImageSurface(width, height)
	stats, err := c.compositeFrames(ctx, ctrl, surface, opts.ticks)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	if err := surface.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	var total int64
	for _, src := range added {
		total += src.ByteSize
	}
	printSuccess("Saved %s collage of %d sources", ctrl.Layout().Title(), len(added))
	printFile(opts.out)
	printStats(
		fmt.Sprintf("%d×%d", width, height),
		fmt.Sprintf("%d/%d panes drawn", stats.Drawn, stats.Layers),
		humanize.Bytes(uint64(total))+" of media",
	)
	return nil
}

// compositeFrames drives a renderer over src for ticks frames, spaced at the
// configured frame rate, and returns the stats of the last frame.
func (c *CLI) compositeFrames(ctx context.Context, src composite.SceneSource, surface composite.Surface, ticks int) (composite.Stats, error) {
	ticker := composite.NewManualTicker()
	frames := make(chan composite.Stats, 1)
	r := composite.NewRenderer(
		composite.WithLogger(c.Logger),
		composite.WithTicker(func() composite.Ticker { return ticker }),
		composite.WithOnFrame(func(s composite.Stats) { frames <- s }),
	)
	if err := r.Start(src, surface); err != nil {
		return composite.Stats{}, err
	}
	defer r.Stop()

	spinner := newSpinnerWithContext(ctx, "Compositing")
	spinner.Start()
	defer spinner.Stop()

	prog := newProgress(c.Logger)
	interval := time.Second / time.Duration(max(c.Config.Canvas.FPS, 1))
	var last composite.Stats
	for i := 1; i <= ticks; i++ {
		spinner.SetMessage(fmt.Sprintf("Compositing frame %d/%d", i, ticks))
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
		ticker.Tick()
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case last = <-frames:
		}
	}
	prog.done(fmt.Sprintf("Composited %d frames", ticks))
	return last, nil
}
