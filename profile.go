/*
 * profile.go, part of chemio.
 *
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
 *
 */

package chem

import (
	"fmt"
	"strings"
)

// Dialect selects the column layout of the PDB reader and writer.
type Dialect int

const (
	DefaultDialect Dialect = iota
	//CHARMM reads the chain name from the segment id (columns 72-76)
	//and uses 4 columns for the residue name.
	CHARMM
)

func (d Dialect) String() string {
	if d == CHARMM {
		return "charmm"
	}
	return "default"
}

// ParseDialect converts "default" (or "") and "charmm" into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "pdb":
		return DefaultDialect, nil
	case "charmm":
		return CHARMM, nil
	}
	return DefaultDialect, fmt.Errorf("unknown dialect %q", s)
}

// Profile holds the options that change how text structure files are read.
// A Profile is copied into each reader, so changing it after the reader
// is created has no effect.
type Profile struct {
	//Downgrade recoverable errors to a warning plus skipping the offending unit.
	FaultTolerant bool
	//Drop every atom not named CA.
	CAlphaOnly bool
	//Drop HETATM and ANISOU records.
	NoHetatms bool
	//Allow the atoms of a residue to be spread (non contiguous) in the file.
	JoinSpreadAtomRecords bool
	//Tolerate duplicate atom names (the later one overwrites the earlier) and
	//residue name mismatches, regardless of alternate locations.
	QuackMode bool
	Dialect   Dialect
}

// DefaultProfile is the strict profile with the default dialect.
func DefaultProfile() Profile {
	return Profile{}
}
