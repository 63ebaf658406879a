/*
 * dcd.go, part of chemio.
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
	"errors"
	"fmt"

	chem "github.com/rmera/chemio"
	"github.com/rmera/chemio/traj/dcd"
	"github.com/spf13/cobra"
)

func newDCDInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dcdinfo FILE",
		Short: "Print the header of a DCD trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := dcd.Open(args[0], 0, dcd.Options{Lazy: true})
			if err != nil {
				return err
			}
			defer src.Close()
			h := src.Header()
			n, err := src.NFrames()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "title:      %s\n", h.Title)
			fmt.Fprintf(out, "byte order: %v (swapped: %t)\n", h.Order, h.Swap)
			fmt.Fprintf(out, "atoms:      %d\n", h.Natoms)
			fmt.Fprintf(out, "declared:   %d\n", h.NSet())
			fmt.Fprintf(out, "frames:     %d\n", n)
			fmt.Fprintf(out, "unit cell:  %t\n", h.Ucell)
			fmt.Fprintf(out, "charmm:     %t\n", h.Charmm)
			return nil
		},
	}
}

func newDCDSliceCmd() *cobra.Command {
	var o dcd.Options
	var stepsize int
	cmd := &cobra.Command{
		Use:   "dcdslice IN OUT",
		Short: "Copy a DCD trajectory keeping one of each stride frames",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := dcd.Open(args[0], 0, o)
			if err != nil {
				return err
			}
			defer src.Close()
			h := src.Header()
			W, err := dcd.Create(args[1], h.Natoms, dcd.WriterOptions{Stepsize: stepsize, Order: h.Order, Title: h.Title})
			if err != nil {
				return err
			}
			n, err := src.NFrames()
			if err != nil {
				W.Close()
				return err
			}
			for i := 0; i < n; i++ {
				fr, err := src.Frame(i)
				if errors.Is(err, chem.PrematureEnd) {
					logger(cmd).Printf("%s ends after %d of %d frames", args[0], i, n)
					break
				}
				if err != nil {
					W.Close()
					return err
				}
				if err := W.WNext(fr.Coords, fr.Cell); err != nil {
					W.Close()
					return err
				}
			}
			if err := W.Close(); err != nil {
				return err
			}
			logger(cmd).Printf("%d frames written to %s", W.Frames(), args[1])
			return nil
		},
	}
	addSourceFlags(cmd, &o)
	cmd.Flags().IntVar(&stepsize, "stepsize", 1, "write one of each stepsize frames read")
	return cmd
}

func addSourceFlags(cmd *cobra.Command, o *dcd.Options) {
	cmd.Flags().IntVar(&o.Stride, "stride", 1, "read one of each stride frames")
	cmd.Flags().BoolVar(&o.Lazy, "lazy", false, "read the frames from the file on demand")
	cmd.Flags().BoolVar(&o.Mmap, "mmap", false, "with --lazy, read through a memory map")
}
