/*
 * rmsdplot.go, part of chemio.
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

package main

import (
	"fmt"
	"path/filepath"

	"github.com/rmera/chemio/chemplot"
	"github.com/rmera/chemio/traj/dcd"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newRMSDPlotCmd() *cobra.Command {
	var o dcd.Options
	cmd := &cobra.Command{
		Use:   "rmsdplot TOPOLOGY TRAJECTORY OUT",
		Short: "Plot the RMSD of each frame of a DCD trajectory against the first one",
		Long: `Plot the RMSD of each frame of a DCD trajectory against the first one.
The topology (PDB, PQR or CRD) must have the same number of atoms as the
trajectory. The image format is taken from the extension of OUT.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mol, err := readStructure(cmd, args[0])
			if err != nil {
				return err
			}
			src, err := dcd.Open(args[1], mol.Len(), o)
			if err != nil {
				return err
			}
			defer src.Close()
			first, err := src.Frame(0)
			if err != nil {
				return err
			}
			ref := first.Coords.Clone()
			rmsd, err := chemplot.RMSDSeries(ref, src)
			if err != nil {
				return err
			}
			if len(rmsd) == 0 {
				return fmt.Errorf("no frames read from %s", args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "frames: %d max RMSD: %.3f\n", len(rmsd), floats.Max(rmsd))
			name := filepath.Base(args[1])
			return chemplot.RMSDPlot([]chemplot.Series{{Name: name, Values: rmsd}}, "RMSD vs. first frame", args[2])
		},
	}
	addSourceFlags(cmd, &o)
	return cmd
}
