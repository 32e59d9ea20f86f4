// Package cli implements the collage command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/collage/internal/config"
	"github.com/matzehuels/collage/pkg/buildinfo"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "collage"

	// defaultPreviewOut is where preview writes when --out is not given.
	defaultPreviewOut = "collage.png"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config     *config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	def := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &def,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Collage arranges media files into a live multi-pane view",
		Long:         `Collage composites several local videos, GIFs or images into one canvas under a choice of layouts, with per-pane audio routing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/collage/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Session Factory
// =============================================================================

// newSession creates a controller configured from the loaded config.
func (c *CLI) newSession(opts ...session.Option) *session.Controller {
	base := []session.Option{
		session.WithLogger(c.Logger),
		session.WithLayout(c.Config.LayoutKind()),
		session.WithGlobalMute(c.Config.Audio.StartMuted),
	}
	return session.New(media.NewFileOpener(c.Logger), append(base, opts...)...)
}

// describeAll builds descriptors for the given paths, stopping at the first
// unreadable one.
func describeAll(paths []string) ([]media.Descriptor, error) {
	ds := make([]media.Descriptor, 0, len(paths))
	for _, p := range paths {
		d, err := media.Describe(p)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}
	return ds, nil
}
