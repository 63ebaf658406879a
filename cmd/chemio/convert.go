/*
 * convert.go, part of chemio.
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
	"github.com/rmera/chemio/crd"
	"github.com/rmera/chemio/pdb"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var multi, expanded bool
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between PDB, PQR and CRD files",
		Long: `Convert between PDB, PQR and CRD files. The formats are taken from the
extensions. Gzipped inputs are decompressed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mol, err := readStructure(cmd, args[0])
			if err != nil {
				return err
			}
			if isCRD(args[1]) {
				return crd.WriteFile(args[1], mol, crd.Options{Expanded: expanded})
			}
			p, err := profile(cmd)
			if err != nil {
				return err
			}
			return pdb.WriteFile(args[1], mol, pdb.WriteOptions{MultiModel: multi, Dialect: p.Dialect})
		},
	}
	cmd.Flags().BoolVar(&multi, "multimodel", false, "write every model of the input")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "use the expanded CRD layout")
	return cmd
}
