/*
 * rmsd.go, part of chemio.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemplot draws plots of trajectory data with gonum/plot.
package chemplot

import (
	"fmt"

	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is a named set of values, one per frame.
type Series struct {
	Name   string
	Values []float64
}

// RMSDSeries reads every remaining frame of traj and returns the RMSD
// of each one against ref, which must have traj.Len() atoms. No
// superposition is done.
func RMSDSeries(ref *v3.Matrix, traj chem.Traj) ([]float64, error) {
	if ref.NVecs() != traj.Len() {
		return nil, chem.NewError(chem.AtomCountMismatch, "", fmt.Sprintf("reference has %d atoms, trajectory %d", ref.NVecs(), traj.Len()), "chemplot.RMSDSeries")
	}
	var ret []float64
	frame := v3.Zeros(traj.Len())
	for traj.Readable() {
		err := traj.Next(frame)
		if chem.IsLastFrame(err) {
			break
		}
		if err != nil {
			return ret, chem.ErrDecorate(err, "chemplot.RMSDSeries")
		}
		rmsd, err := v3.RMSD(ref, frame)
		if err != nil {
			return ret, err
		}
		ret = append(ret, rmsd)
	}
	return ret, nil
}

// RMSDPlot draws each series as a line against the frame number and saves
// the plot in filename. The image format is taken from the extension
// (png, svg, pdf...).
func RMSDPlot(series []Series, title, filename string) error {
	if len(series) == 0 {
		return fmt.Errorf("chemplot.RMSDPlot: no data to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "RMSD (A)"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	top := 0.0
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("chemplot.RMSDPlot: series %s: %w", s.Name, err)
		}
		l.Color = seriesColor(i, len(series))
		l.Width = vg.Points(1)
		p.Add(l)
		if s.Name != "" {
			p.Legend.Add(s.Name, l)
		}
		top = floats.Max([]float64{top, floats.Max(s.Values)})
	}
	p.Y.Max = 1.1 * top
	if top == 0 {
		p.Y.Max = 1
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
