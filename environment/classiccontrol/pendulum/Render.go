package pendulum

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goppo/timestep"
)

// Frame is a snapshot of the pendulum to be drawn by a Renderer. Angle
// is normalized to [-π, π), with 0 pointing straight up.
type Frame struct {
	Angle    float64
	Speed    float64
	Torque   float64
	Step     int
	StepType timestep.StepType
}

// Renderer draws frames of the pendulum
type Renderer interface {
	Render(Frame) error
}

// NopRenderer does not draw anything
type NopRenderer struct{}

// Render implements the Renderer interface
func (NopRenderer) Render(Frame) error { return nil }

// TerminalRenderer draws the pendulum as ASCII art on a terminal. The
// pendulum is coloured green when within π/8 of upright and red
// otherwise.
type TerminalRenderer struct {
	out   io.Writer
	au    aurora.Aurora
	clear bool
}

// NewTerminalRenderer returns a new TerminalRenderer writing to out.
// If clear is true, the terminal is cleared before each frame.
func NewTerminalRenderer(out io.Writer, colours, clear bool) *TerminalRenderer {
	return &TerminalRenderer{out, aurora.NewAurora(colours), clear}
}

// Render implements the Renderer interface
func (t *TerminalRenderer) Render(f Frame) error {
	if t.clear {
		if _, err := io.WriteString(t.out, "\x1b[3;J\x1b[H\x1b[2J"); err != nil {
			return err
		}
	}

	var drawing aurora.Value
	if math.Abs(f.Angle) < math.Pi/8 {
		drawing = t.au.Green(ascii(f.Angle))
	} else {
		drawing = t.au.Red(ascii(f.Angle))
	}

	_, err := fmt.Fprintf(t.out, "\n\n%s\n\n%s  |  theta: %.3f  |  "+
		"theta dot: %.3f  |  torque: %.3f\n", drawing,
		t.au.Bold(fmt.Sprintf("step %d", f.Step)), f.Angle, f.Speed,
		f.Torque)
	return err
}

// ascii returns an ASCII drawing of the pendulum at angle
func ascii(angle float64) string {
	switch {
	case angle > -math.Pi/8 && angle < math.Pi/8:
		return "  | \n  ."
	case angle >= math.Pi/8 && angle < (3*math.Pi/8):
		return "   / \n  ."
	case angle >= (3*math.Pi/8) && angle < (5*math.Pi/8):
		return "  .--\n"
	case angle >= (5*math.Pi/8) && angle < (7*math.Pi/8):
		return "  . \n   \\"
	case angle > (-7*math.Pi/8) && angle <= (-5*math.Pi/8):
		return "  . \n/"
	case angle > (-5*math.Pi/8) && angle <= (-3*math.Pi/8):
		return "--.\n"
	case angle > (-3*math.Pi/8) && angle <= (-math.Pi/8):
		return "\\ \n  ."
	default:
		return "  . \n  |"
	}
}

// FrameRenderer draws the pendulum to PNG images, one per call to
// Render. Frames of episode e at step s are saved to
// dir/episode_<e>_step_<s>.png. A new episode begins at each frame with
// a First StepType.
type FrameRenderer struct {
	dir     string
	size    int
	episode int
	logger  zerolog.Logger
}

// NewFrameRenderer returns a new FrameRenderer saving square images of
// side size pixels to dir, which is created if it does not exist
func NewFrameRenderer(dir string, size int,
	logger zerolog.Logger) (*FrameRenderer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("newFrameRenderer: size must be positive "+
			"but got %v", size)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newFrameRenderer: %w", err)
	}

	logger = logger.With().Str("component", "renderer").Logger()
	return &FrameRenderer{dir: dir, size: size, episode: -1, logger: logger}, nil
}

// Render implements the Renderer interface
func (r *FrameRenderer) Render(f Frame) error {
	if f.StepType == timestep.First || r.episode < 0 {
		r.episode++
	}

	s := float64(r.size)
	centre := s / 2
	rodLength := 0.4 * s

	dc := gg.NewContext(r.size, r.size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Angle 0 points up and angles increase counter clockwise
	x := centre - rodLength*math.Sin(f.Angle)
	y := centre - rodLength*math.Cos(f.Angle)

	dc.SetRGB(0.8, 0.3, 0.3)
	dc.SetLineWidth(0.04 * s)
	dc.DrawLine(centre, centre, x, y)
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(centre, centre, 0.02*s)
	dc.Fill()

	// Torque indicator arc, proportional to the applied torque
	if f.Torque != 0 {
		sweep := math.Pi / 2 * f.Torque / TorqueBound
		dc.SetRGB(0.2, 0.2, 0.8)
		dc.SetLineWidth(0.01 * s)
		dc.DrawArc(centre, centre, 0.1*s, -math.Pi/2, -math.Pi/2-sweep)
		dc.Stroke()
	}

	name := fmt.Sprintf("episode_%04d_step_%04d.png", r.episode, f.Step)
	path := filepath.Join(r.dir, name)
	if err := dc.SavePNG(path); err != nil {
		return err
	}

	r.logger.Debug().Str("file", path).Int("step", f.Step).Msg("saved frame")
	return nil
}
