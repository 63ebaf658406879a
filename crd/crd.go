/*
 * crd.go, part of chemio.
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

// Package crd reads and writes CHARMM coordinate (CRD) files, in the
// standard and the expanded (EXT) layouts.
package crd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
)

// MaxStandard is the largest number of atoms that fits the standard layout.
const MaxStandard = 99999

// layout gives the half-open column ranges of the fields of an atom line.
type layout struct {
	atomno, resno, resname, name [2]int
	x, y, z                      [2]int
	segid, resid, weight         [2]int
	prec                         int //decimals of the real fields
}

var standard = layout{
	atomno: [2]int{0, 5}, resno: [2]int{5, 10}, resname: [2]int{11, 15}, name: [2]int{16, 20},
	x: [2]int{20, 30}, y: [2]int{30, 40}, z: [2]int{40, 50},
	segid: [2]int{51, 55}, resid: [2]int{56, 60}, weight: [2]int{60, 70},
	prec: 5,
}

var expanded = layout{
	atomno: [2]int{0, 10}, resno: [2]int{10, 20}, resname: [2]int{22, 30}, name: [2]int{32, 40},
	x: [2]int{40, 60}, y: [2]int{60, 80}, z: [2]int{80, 100},
	segid: [2]int{102, 110}, resid: [2]int{112, 120}, weight: [2]int{120, 140},
	prec: 10,
}

func (l layout) width(r [2]int) int { return r[1] - r[0] }

func field(line string, r [2]int) string {
	start, end := r[0], r[1]
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

func crdError(kind chem.Kind, caller, format string, a ...interface{}) *chem.CError {
	return chem.NewError(kind, "CRD", fmt.Sprintf(format, a...), caller)
}

// Reader builds Molecules from CRD files.
type Reader struct {
	profile chem.Profile
	//Log receives one line per warning. It discards everything by default.
	Log *log.Logger
	//Name is used only in the error messages.
	Name     string
	warnings []error
}

// NewReader returns a reader that will use a copy of p. Only the
// FaultTolerant and CAlphaOnly options apply to CRD files.
func NewReader(p chem.Profile) *Reader {
	return &Reader{profile: p, Log: chem.DiscardLogger()}
}

// Warnings returns the problems downgraded to warnings in the last import.
func (R *Reader) Warnings() []error {
	return R.warnings
}

// ReadFile reads the CRD file name, decompressing it if needed.
func ReadFile(name string, p chem.Profile) (*chem.Molecule, error) {
	return NewReader(p).ReadFile(name)
}

func (R *Reader) ReadFile(name string) (*chem.Molecule, error) {
	fin, _, err := chem.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	oldname := R.Name
	defer func() { R.Name = oldname }()
	R.Name = name
	mol, err := R.Import(fin)
	return mol, chem.ErrDecorate(err, "crd.ReadFile")
}

// tolerate returns err if it has to stop the import, or records it as a
// warning and returns nil.
func (R *Reader) tolerate(err *chem.CError, lineno int) error {
	err.At(R.Name, lineno)
	if !R.profile.FaultTolerant || err.Kind().AlwaysFatal() {
		return err
	}
	R.warnings = append(R.warnings, err)
	R.Log.Println("Warning:", err)
	return nil
}

// Import reads a CRD structure from in. The title lines (starting with *)
// are skipped. The layout is taken from the atom count line: the expanded
// one if the line contains EXT or the count is larger than MaxStandard.
func (R *Reader) Import(in io.Reader) (*chem.Molecule, error) {
	R.warnings = nil
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	natoms := -1
	var lay layout
	for natoms < 0 && scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		f := strings.Fields(line)
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 0 {
			return nil, crdError(chem.FormatIdentificationFailure, "Import", "bad atom count line %q", line).At(R.Name, lineno)
		}
		natoms = n
		lay = standard
		if n > MaxStandard || (len(f) > 1 && strings.EqualFold(f[1], "EXT")) {
			lay = expanded
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	mol := chem.NewMolecule()
	if natoms < 0 {
		return mol, nil
	}
	a := &assembler{mol: mol, profile: R.profile}
	read := 0
	for read < natoms && scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		read++
		if err := a.atomLine(line, lay); err != nil {
			if err := R.tolerate(err, lineno); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if read < natoms {
		err := crdError(chem.PrematureEnd, "Import", "%d atoms declared, %d found", natoms, read)
		if err := R.tolerate(err, lineno); err != nil {
			return nil, err
		}
	}
	if len(mol.Atoms) == 0 {
		return mol, nil
	}
	coords, err := v3.NewMatrix(a.coords)
	if err != nil {
		return nil, chem.ErrDecorate(err, "crd.Import")
	}
	mol.Coords = []*v3.Matrix{coords}
	mol.Bfactors = [][]float64{a.weights}
	return mol, nil
}

// assembler adds atoms to a molecule, opening a new residue when the
// segment id or the residue id changes.
type assembler struct {
	mol     *chem.Molecule
	profile chem.Profile
	chain   *chem.Chain
	res     *chem.Residue
	resid   string
	coords  []float64
	weights []float64
}

func (A *assembler) atomLine(line string, lay layout) *chem.CError {
	if len(line) < lay.z[1] {
		return crdError(chem.MalformedRecord, "atomLine", "line has %d columns, at least %d needed", len(line), lay.z[1])
	}
	name := field(line, lay.name)
	if name == "" {
		return crdError(chem.MalformedRecord, "atomLine", "atom without name")
	}
	serial, err := strconv.Atoi(field(line, lay.atomno))
	if err != nil {
		return crdError(chem.InvalidNumericField, "atomLine", "bad atom number %q", field(line, lay.atomno))
	}
	var pos [3]float64
	for i, r := range [][2]int{lay.x, lay.y, lay.z} {
		if pos[i], err = strconv.ParseFloat(field(line, r), 64); err != nil {
			return crdError(chem.InvalidNumericField, "atomLine", "bad coordinate %q", field(line, r))
		}
	}
	weight := 0.0
	if w := field(line, lay.weight); w != "" {
		if weight, err = strconv.ParseFloat(w, 64); err != nil {
			return crdError(chem.InvalidNumericField, "atomLine", "bad weight %q", w)
		}
	}
	segid := field(line, lay.segid)
	resid := field(line, lay.resid)
	if resid == "" {
		resid = field(line, lay.resno)
	}
	id, err := chem.ParseResNum(resid)
	if err != nil {
		return crdError(chem.InvalidNumericField, "atomLine", "%s", err.Error())
	}
	if A.profile.CAlphaOnly && name != "CA" {
		return nil
	}
	resname := field(line, lay.resname)
	if A.chain == nil || A.chain.Name != segid {
		A.chain = A.mol.ChainOrNew(segid)
		A.res = nil
	}
	if A.res == nil || A.resid != resid {
		A.res = A.chain.AddResidue(resname, id)
		A.resid = resid
	} else if A.res.Name != resname {
		return crdError(chem.ResidueIdentityConflict, "atomLine", "residue %s %s is also called %s", segid, resid, resname)
	}
	at := &chem.Atom{Name: name, ID: serial, Occupancy: 1, Bfactor: weight}
	at.Symbol = chem.SymbolFromName(name)
	at.Mass, _ = chem.SymbolMass(at.Symbol)
	A.mol.AppendAtom(A.res, at)
	A.coords = append(A.coords, pos[:]...)
	A.weights = append(A.weights, weight)
	return nil
}

// Options control the output of Write.
type Options struct {
	//Use the expanded layout even for small systems.
	Expanded bool
	//Title for the comment header. A default one is used if empty.
	Title string
	//Frame of the molecule to write.
	Frame int
}

// WriteFile writes mol to the file name.
func WriteFile(name string, mol *chem.Molecule, o Options) error {
	fout, err := os.Create(name)
	if err != nil {
		return err
	}
	err = Write(fout, mol, o)
	return errors.Join(chem.ErrDecorate(err, "crd.WriteFile"), fout.Close())
}

// Write writes the given frame of mol to out. The expanded layout is used
// if o.Expanded is set, or if mol has more than MaxStandard atoms. The
// atom weight column is taken from the b-factors of the frame, if
// present, or from the atoms.
func Write(out io.Writer, mol *chem.Molecule, o Options) error {
	if err := mol.Corrupted(); err != nil {
		return err
	}
	if o.Frame < 0 || o.Frame >= mol.LenFrames() {
		return fmt.Errorf("crd.Write: frame %d requested from a molecule with %d frames", o.Frame, mol.LenFrames())
	}
	n := mol.Len()
	lay := standard
	countline := fmt.Sprintf("%5d", n)
	if o.Expanded || n > MaxStandard {
		lay = expanded
		countline = fmt.Sprintf("%10d  EXT", n)
	}
	title := o.Title
	if title == "" {
		title = "WRITTEN BY CHEMIO"
	}
	w := bufio.NewWriter(out)
	for _, l := range strings.Split(title, "\n") {
		fmt.Fprintf(w, "* %s\n", l)
	}
	fmt.Fprintln(w, "*")
	fmt.Fprintln(w, countline)
	var bfacs []float64
	if o.Frame < len(mol.Bfactors) {
		bfacs = mol.Bfactors[o.Frame]
	}
	resno := 0
	var prev *chem.Residue
	for i, at := range mol.Atoms {
		if at.Residue != prev {
			resno++
			prev = at.Residue
		}
		weight := at.Bfactor
		if bfacs != nil {
			weight = bfacs[i]
		}
		fmt.Fprintln(w, atomLine(lay, i+1, resno, at, mol.Position(i, o.Frame), weight))
	}
	return w.Flush()
}

func atomLine(lay layout, serial, resno int, at *chem.Atom, pos [3]float64, weight float64) string {
	var resname, segid, resid string
	if r := at.Residue; r != nil {
		resname, resid = r.Name, r.ID.String()
		if r.Chain != nil {
			segid = r.Chain.Name
		}
	}
	wn := lay.width(lay.atomno)
	ws := lay.width(lay.segid) //names, segid and resid have the same width
	wf := lay.width(lay.x)
	gap := strings.Repeat(" ", lay.name[0]-lay.resname[1])
	var b strings.Builder
	fmt.Fprintf(&b, "%*d%*d%s%-*s%s%-*s", wn, serial, wn, resno, gap, ws, resname, gap, ws, at.Name)
	for _, v := range pos {
		fmt.Fprintf(&b, "%*.*f", wf, lay.prec, v)
	}
	fmt.Fprintf(&b, "%s%-*s%s%-*s%*.*f", gap, ws, segid, gap, ws, resid, wf, lay.prec, weight)
	return b.String()
}
