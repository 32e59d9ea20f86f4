package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/session"
)

// refreshInterval is how often the play view redraws to show decoder and
// frame progress.
const refreshInterval = 250 * time.Millisecond

var (
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	statusStyle = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	badgeOn     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgeOff    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// frameStats keeps the latest stats reported by a renderer.
type frameStats struct {
	mu    sync.Mutex
	stats composite.Stats
	count int
}

func (f *frameStats) set(s composite.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = s
	f.count++
}

func (f *frameStats) get() (composite.Stats, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.count
}

// surfaceSnapshot is one surface saveable with the snapshot key.
type surfaceSnapshot struct {
	suffix  string
	surface *composite.ImageSurface
}

// =============================================================================
// PlayModel - Interactive collage session
// =============================================================================

// PlayModel is the bubbletea model for an interactive collage session.
type PlayModel struct {
	Ctrl *session.Controller

	surfaces    []surfaceSnapshot
	frames      *frameStats
	snapshotDir string
	now         func() time.Time

	Cursor    int
	Status    string
	StatusErr bool
	lastCount int
	fps       int
}

// NewPlayModel creates a model driving ctrl. Snapshots are written to dir.
func NewPlayModel(ctrl *session.Controller, surface *composite.ImageSurface, frames *frameStats, dir string) PlayModel {
	return PlayModel{
		Ctrl:        ctrl,
		surfaces:    []surfaceSnapshot{{suffix: "", surface: surface}},
		frames:      frames,
		snapshotDir: dir,
		now:         time.Now,
	}
}

// withMirror adds a mirrored surface to the snapshot key.
func (m PlayModel) withMirror(surface *composite.ImageSurface) PlayModel {
	m.surfaces = append(m.surfaces, surfaceSnapshot{suffix: "-mirror", surface: surface})
	return m
}

type refreshMsg time.Time

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m PlayModel) Init() tea.Cmd {
	return refresh()
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if m.frames != nil {
			_, count := m.frames.get()
			m.fps = int(float64(count-m.lastCount) / refreshInterval.Seconds())
			m.lastCount = count
		}
		return m, refresh()
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m PlayModel) handleKey(key string) (tea.Model, tea.Cmd) {
	sources := m.Ctrl.Sources()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "l":
		k := m.Ctrl.CycleLayout()
		m.setStatus("Layout: " + k.Title())
	case "m":
		if m.Ctrl.ToggleGlobalMute() {
			m.setStatus("Muted")
		} else {
			m.setStatus("Unmuted")
		}
	case " ", "space":
		if m.Ctrl.TogglePlaying() {
			m.setStatus("Playing")
		} else {
			m.setStatus("Paused")
		}
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(sources)-1 {
			m.Cursor++
		}
	case "x":
		if len(sources) == 0 {
			return m, nil
		}
		src := sources[min(m.Cursor, len(sources)-1)]
		if err := m.Ctrl.RemoveSource(src.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Removed " + src.DisplayName)
		if m.Cursor >= len(sources)-1 && m.Cursor > 0 {
			m.Cursor--
		}
	case "s":
		paths, err := m.saveSnapshot()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Saved " + strings.Join(paths, ", "))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i >= len(sources) {
			return m, nil
		}
		selected, err := m.Ctrl.ToggleSourceAudible(sources[i].ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		verb := "Silenced "
		if selected {
			verb = "Listening to "
		}
		m.setStatus(verb + sources[i].DisplayName)
	}
	return m, nil
}

func (m *PlayModel) setStatus(s string) {
	m.Status, m.StatusErr = s, false
}

func (m *PlayModel) setError(err error) {
	m.Status, m.StatusErr = errors.UserMessage(err), true
}

// saveSnapshot writes each surface as PNG plus the session snapshot as
// JSON, all sharing one timestamped base name.
func (m PlayModel) saveSnapshot() ([]string, error) {
	base := filepath.Join(m.snapshotDir, "collage-"+m.now().Format("20060102-150405"))
	var paths []string
	for _, s := range m.surfaces {
		path := base + s.suffix + ".png"
		if err := writePNGFile(path, s.surface); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	path := base + ".json"
	if err := session.SaveSnapshot(path, m.Ctrl.Snapshot()); err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

func writePNGFile(path string, surface *composite.ImageSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := surface.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (m PlayModel) View() string {
	var b strings.Builder

	kind := m.Ctrl.Layout()
	cfg := m.Ctrl.AudioConfig()
	sources := m.Ctrl.Sources()

	b.WriteString(StyleTitle.Render("Collage"))
	b.WriteString("  ")
	b.WriteString(StyleHighlight.Render(kind.Title()))
	b.WriteString("  ")
	if m.Ctrl.Playing() {
		b.WriteString(badgeOn.Render("▶ playing"))
	} else {
		b.WriteString(badgeOff.Render("❚❚ paused"))
	}
	b.WriteString("  ")
	if cfg.GloballyMuted {
		b.WriteString(badgeOff.Render("muted"))
	} else {
		b.WriteString(badgeOn.Render("sound on"))
	}
	b.WriteString("\n\n")

	if len(sources) == 0 {
		b.WriteString(StyleDim.Render("  no sources left"))
		b.WriteString("\n")
	} else {
		b.WriteString(sourceTable(sources, cfg, m.Cursor))
		b.WriteString("\n")
	}

	if len(m.surfaces) > 0 {
		w, h := m.surfaces[0].surface.Size()
		rects := layout.Compute(kind, len(sources), float64(w), float64(h))
		b.WriteString(layoutMap(rects, float64(w), float64(h), mapColumns))
		b.WriteString("\n")
	}

	if m.frames != nil {
		stats, count := m.frames.get()
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d fps · frame %d · %d/%d drawn", m.fps, count, stats.Drawn, stats.Layers)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("l layout  m mute  1-9 audio  space play/pause  ↑/↓ select  x remove  s snapshot  q quit"))
	if m.Status != "" {
		b.WriteString("\n")
		if m.StatusErr {
			b.WriteString(errorStyle.Render(iconError + " " + m.Status))
		} else {
			b.WriteString(statusStyle.Render(iconInfo + " " + m.Status))
		}
	}
	return b.String()
}
