// Package chart renders mismatch profiles as line plots.
package chart

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/scttfrdmn/bwamismatch-go/pkg/mismatch"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default image size
const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// Series is the mismatch fraction of one lane, indexed by cycle
type Series struct {
	Name      string
	Fractions []float64
}

// FromSession returns one series per reported lane of s
func FromSession(s *mismatch.Session) []Series {
	var out []Series
	for _, lane := range s.Lanes() {
		name := "read"
		if s.Mode() == mismatch.ModePaired {
			name = fmt.Sprintf("read %d", lane.ID)
		}
		out = append(out, Series{Name: name, Fractions: s.Fractions(lane)})
	}
	return out
}

// Profile plots each series against 1-based cycle number
func Profile(title string, series []Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Cycle"
	p.Y.Label.Text = "Mismatch fraction"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Fractions) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Fractions))
		for j, f := range s.Fractions {
			pts[j].X = float64(j + 1)
			pts[j].Y = f
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Y.Min = 0
	return p, nil
}

// FormatFor returns the image format implied by path's extension
func FormatFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf":
		return ext, nil
	}
	return "", fmt.Errorf("unsupported plot format %q (use .png, .svg or .pdf)", filepath.Ext(path))
}

// Write renders p to w in format
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
