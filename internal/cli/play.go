package cli

import (
	"bytes"
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/mirror"
	"github.com/matzehuels/collage/pkg/session"
)

type playOptions struct {
	kind        string
	width       int
	mirrorWidth int
	snapshotDir string
	paused      bool
}

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play file...",
		Short: "Run an interactive collage session",
		Long: `Run an interactive collage session in the terminal.

The collage is composited continuously while the terminal shows the
sources, their audio state and a map of the current layout. Video sources
need a build with the ffmpeg tag; their audio follows the routing keys.

Keys:
  l        cycle layout
  m        toggle global mute
  1-9      toggle audio of source N
  space    play / pause
  ↑/↓      select a source
  x        remove the selected source
  s        save PNG and session snapshot
  q        quit

With --mirror-width a second view is composited from the session's
snapshots, the way a pop-out window would follow the main one; 's' saves
it too.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeMedia,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				opts.width = c.Config.Canvas.Width
			}
			return c.runPlay(cmd.Context(), args, opts)
		},
	}

	registerKindFlag(cmd, &opts.kind, "initial layout kind (default from config)")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "canvas width; height is 16:9 (default from config)")
	cmd.Flags().IntVar(&opts.mirrorWidth, "mirror-width", 0, "also composite a mirrored view of this width")
	cmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", ".", "directory for snapshots saved with 's'")
	cmd.Flags().BoolVar(&opts.paused, "paused", false, "start paused")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, paths []string, opts playOptions) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New(errors.ErrCodeInvalidInput, "play needs an interactive terminal; use 'collage preview' instead")
	}
	width, height := composite.FitSize(opts.width)
	if err := errors.ValidateCanvas(float64(width), float64(height)); err != nil {
		return err
	}
	ds, err := describeAll(paths)
	if err != nil {
		return err
	}

	var sopts []session.Option
	if opts.kind != "" {
		kind, err := c.resolveKind(opts.kind)
		if err != nil {
			return err
		}
		sopts = append(sopts, session.WithLayout(kind))
	}
	if opts.paused {
		sopts = append(sopts, session.WithPaused())
	}
	ctrl := c.newSession(sopts...)
	defer ctrl.Close()

	spinner := newSpinnerWithContext(ctx, "Opening sources")
	spinner.Start()
	added, err := ctrl.AddSources(ctx, ds...)
	spinner.Stop()
	if err != nil {
		printWarning("%s", errors.UserMessage(err))
	}
	if len(added) == 0 {
		return errors.New(errors.ErrCodeSourceUnreadable, "none of the sources could be opened")
	}

	// The TUI owns the terminal; hold log output until it exits.
	var logs bytes.Buffer
	c.Logger.SetOutput(&logs)
	defer func() {
		c.Logger.SetOutput(os.Stderr)
		os.Stderr.Write(logs.Bytes())
	}()

	frames := &frameStats{}
	surface := composite.NewImageSurface(width, height)
	renderer := composite.NewRenderer(
		composite.WithLogger(c.Logger),
		composite.WithFPS(c.Config.Canvas.FPS),
		composite.WithOnFrame(frames.set),
	)
	if err := renderer.Start(ctrl, surface); err != nil {
		return err
	}
	defer renderer.Stop()

	model := NewPlayModel(ctrl, surface, frames, opts.snapshotDir)

	if opts.mirrorWidth > 0 {
		mw, mh := composite.FitSize(opts.mirrorWidth)
		if err := errors.ValidateCanvas(float64(mw), float64(mh)); err != nil {
			return err
		}
		m := mirror.New(media.NewFileOpener(c.Logger), mirror.WithLogger(c.Logger))
		defer m.Close()
		snaps, cancel := ctrl.Subscribe()
		defer cancel()

		mirrorCtx, stopMirror := context.WithCancel(ctx)
		defer stopMirror()
		go func() {
			if err := m.Run(mirrorCtx, snaps); err != nil && !errors.Is(err, errors.ErrCodeClosed) && mirrorCtx.Err() == nil {
				c.Logger.Warn("mirror stopped", "err", err)
			}
		}()

		mirrorSurface := composite.NewImageSurface(mw, mh)
		mirrorRenderer := composite.NewRenderer(
			composite.WithLogger(c.Logger),
			composite.WithFPS(c.Config.Canvas.FPS),
		)
		if err := mirrorRenderer.Start(m, mirrorSurface); err != nil {
			return err
		}
		defer mirrorRenderer.Stop()
		model = model.withMirror(mirrorSurface)
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
