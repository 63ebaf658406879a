/*
 * root.go, part of chemio.
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
	"log"

	chem "github.com/rmera/chemio"
	"github.com/rmera/chemio/config"
	"github.com/rmera/chemio/crd"
	"github.com/rmera/chemio/pdb"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call gives a fresh tree, with
// its own flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chemio",
		Short:         "Read, write and inspect PDB, PQR, CRD and DCD files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       "0.1.0",
	}
	root.PersistentFlags().String("config", "", "settings file (yaml, toml or json) with the reading profile")
	config.AddFlags(root.PersistentFlags())
	root.AddCommand(newConvertCmd(), newDCDInfoCmd(), newDCDSliceCmd(), newRMSDPlotCmd())
	return root
}

// profile builds the reading profile from the settings file, the
// environment and the flags of cmd.
func profile(cmd *cobra.Command) (chem.Profile, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return chem.Profile{}, err
	}
	return config.Load(path, cmd.Flags())
}

func logger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "chemio: ", 0)
}

// readStructure reads a PDB, PQR or CRD file, chosen by extension.
func readStructure(cmd *cobra.Command, name string) (*chem.Molecule, error) {
	p, err := profile(cmd)
	if err != nil {
		return nil, err
	}
	var mol *chem.Molecule
	var warnings []error
	switch {
	case isCRD(name):
		R := crd.NewReader(p)
		R.Log = logger(cmd)
		mol, err = R.ReadFile(name)
		warnings = R.Warnings()
	case isPDB(name):
		R := pdb.NewReader(p)
		R.Log = logger(cmd)
		mol, err = R.ReadFile(name)
		warnings = R.Warnings()
	default:
		return nil, fmt.Errorf("can't tell the format of %s", name)
	}
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		logger(cmd).Printf("%s: %d problems ignored", name, len(warnings))
	}
	return mol, nil
}

func isCRD(name string) bool {
	ext := chem.Extension(name)
	return ext == "crd" || ext == "cor"
}

func isPDB(name string) bool {
	ext := chem.Extension(name)
	return ext == "pdb" || ext == "ent" || ext == "pqr"
}
