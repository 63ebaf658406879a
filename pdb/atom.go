/*
 * atom.go, part of chemio.
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

package pdb

import (
	"fmt"
	"strings"

	chem "github.com/rmera/chemio"
)

const (
	minAtomWidth  = 54 //up to the end of the z coordinate
	minAnisoWidth = 70
)

// Record is the content of one ATOM or HETATM line.
type Record struct {
	Het       bool
	Serial    int //0 if the field was blank or not a number.
	Name      string
	AltLoc    byte //0 if blank
	ResName   string
	Chain     string
	ResID     chem.ResNum
	Pos       [3]float64
	Occupancy float64
	Bfactor   float64
	Charge    float64 //PQR only
	Radius    float64 //PQR only
	Element   string  //empty if not given in the line
}

// Aniso is the content of an ANISOU line.
type Aniso struct {
	Serial int
	Name   string
	AltLoc byte
	U      [6]float64 //U11 U22 U33 U12 U13 U23, in Å²
}

func malformed(caller, format string, a ...interface{}) *chem.CError {
	return chem.NewError(chem.MalformedRecord, "PDB", fmt.Sprintf(format, a...), caller)
}

func badNumber(caller, format string, a ...interface{}) *chem.CError {
	return chem.NewError(chem.InvalidNumericField, "PDB", fmt.Sprintf(format, a...), caller)
}

// parseAtom decodes an ATOM or HETATM line. In the PQR dialect, the
// occupancy and b-factor slots hold the charge and radius instead.
// parseAtom has no side effects. The returned errors are of the
// MalformedRecord or InvalidNumericField kinds.
func parseAtom(line string, p chem.Profile, pqr bool) (*Record, error) {
	if len(line) < minAtomWidth {
		return nil, malformed("parseAtom", "ATOM/HETATM line has %d columns, at least %d needed", len(line), minAtomWidth)
	}
	var err error
	r := new(Record)
	r.Het = strings.HasPrefix(line, "HETATM")
	r.Serial, err = atoi(line, 6, 11)
	if err != nil {
		r.Serial = 0 //the caller will assign one
	}
	r.Name = field(line, 12, 16)
	if r.Name == "" {
		return nil, malformed("parseAtom", "blank atom name")
	}
	r.AltLoc = optChar(line, 16)
	if p.Dialect == chem.CHARMM {
		r.ResName = field(line, 17, 21)
		r.Chain = field(line, 72, 76)
	} else {
		r.ResName = field(line, 17, 20)
		r.Chain = field(line, 21, 22)
	}
	r.ResID.Num, err = atoi(line, 22, 26)
	if err != nil {
		return nil, badNumber("parseAtom", "residue number %q", cols(line, 22, 26))
	}
	r.ResID.ICode = optChar(line, 26)
	for i := 0; i < 3; i++ {
		start := 30 + 8*i
		r.Pos[i], err = atof(line, start, start+8)
		if err != nil {
			return nil, badNumber("parseAtom", "coordinate %q", cols(line, start, start+8))
		}
	}
	if pqr {
		r.Occupancy, r.Bfactor = 1.0, 0.0
		if r.Charge, err = optFloat(line, 55, 62, 0); err != nil {
			return nil, badNumber("parseAtom", "charge %q", cols(line, 55, 62))
		}
		if r.Radius, err = optFloat(line, 63, 69, 0); err != nil {
			return nil, badNumber("parseAtom", "radius %q", cols(line, 63, 69))
		}
	} else {
		//Many programs write junk or nothing in these columns, so they are
		//not worth an error.
		r.Occupancy, _ = optFloat(line, 54, 60, 1.0)
		r.Bfactor, _ = optFloat(line, 60, 66, 0.0)
	}
	r.Element = elementField(line)
	return r, nil
}

// optFloat returns def for a blank field, and def plus the error for a
// non-numeric one.
func optFloat(line string, start, end int, def float64) (float64, error) {
	if field(line, start, end) == "" {
		return def, nil
	}
	f, err := atof(line, start, end)
	if err != nil {
		return def, err
	}
	return f, nil
}

// elementField applies the justification rule to columns [76,78).
// It returns an empty string if the element is not given or is not made
// of letters.
func elementField(line string) string {
	if len(line) <= 76 {
		return ""
	}
	l, r := charAt(line, 76), charAt(line, 77)
	var sym string
	switch {
	case l == ' ' && r == ' ':
		return ""
	case l == ' ':
		sym = string(r)
	case r == ' ':
		sym = string(l)
	default:
		sym = string([]byte{l, r})
	}
	for _, c := range sym {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return ""
		}
	}
	return chem.NormalizeSymbol(sym)
}

// parseAniso decodes an ANISOU line. The six tensor components are stored
// in the file as integers scaled by 10^4.
func parseAniso(line string) (*Aniso, error) {
	if len(line) < minAnisoWidth {
		return nil, malformed("parseAniso", "ANISOU line has %d columns, at least %d needed", len(line), minAnisoWidth)
	}
	var err error
	a := new(Aniso)
	if a.Serial, err = atoi(line, 6, 11); err != nil {
		return nil, badNumber("parseAniso", "serial %q", cols(line, 6, 11))
	}
	a.Name = field(line, 12, 16)
	a.AltLoc = optChar(line, 16)
	for i := range a.U {
		start := 28 + 7*i
		u, err := atoi(line, start, start+7)
		if err != nil {
			return nil, badNumber("parseAniso", "tensor component %q", cols(line, start, start+7))
		}
		a.U[i] = float64(u) / 1e4
	}
	return a, nil
}
