package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"communestats/internal/models"
	"communestats/internal/population"

	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrEmptyIndex = errors.New("no department to chart")

// TopDepartments returns up to n department codes ordered by decreasing
// population, code ascending on ties. n <= 0 returns all of them.
func TopDepartments(index models.DepartmentIndex, n int) []string {
	codes := population.SortedCodes(index)
	slices.SortStableFunc(codes, func(a, b string) int {
		pa, pb := index[a].TotalPopulation, index[b].TotalPopulation
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		}
		return 0
	})
	if n > 0 && n < len(codes) {
		codes = codes[:n]
	}
	return codes
}

// WriteChart renders the top departments by population as a PNG bar chart.
func WriteChart(path string, index models.DepartmentIndex, top int) error {
	codes := TopDepartments(index, top)
	if len(codes) == 0 {
		return ErrEmptyIndex
	}

	p := plot.New()
	p.Title.Text = "Population totale par département"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Département"
	p.Y.Label.Text = "Habitants"

	values := make(plotter.Values, len(codes))
	maxPop := 0.0
	for i, code := range codes {
		values[i] = index[code].TotalPopulation
		maxPop = math.Max(maxPop, values[i])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 0, G: 85, B: 119, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())

	p.NominalX(codes...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Y.Min = 0
	p.Y.Max = maxPop * 1.1

	width := vg.Length(len(codes))*0.35*vg.Inch + 3*vg.Inch
	if err := p.Save(width, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}
