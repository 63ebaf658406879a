/*
 * write.go, part of chemio.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	chem "github.com/rmera/chemio"
)

// WriteOptions control the output of Write.
type WriteOptions struct {
	//Write every frame of the molecule, each in a MODEL/ENDMDL block.
	MultiModel bool
	//Put charges and radii in the occupancy and b-factor slots.
	//Atoms with a zero radius get the van der Waals radius of their element.
	PQR     bool
	Dialect chem.Dialect
	//Tells which residues are part of a polymer, for the TER records.
	//chem.DefaultDictionary is used if nil.
	Dict chem.CompoundDictionary
	//If not empty, written in a REMARK 1 record before the coordinates.
	Remark string
}

const lineWidth = 80

// WriteFile writes mol to the file name. If the name has the .pqr extension
// the PQR dialect is used.
func WriteFile(name string, mol *chem.Molecule, o WriteOptions) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if chem.Extension(name) == "pqr" {
		o.PQR = true
	}
	err = Write(out, mol, o)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return chem.ErrDecorate(err, "pdb.WriteFile")
}

// writer keeps the serial counter across the whole file.
type writer struct {
	o       WriteOptions
	w       *bufio.Writer
	serial  int
	serials map[*chem.Atom]int //serials of the first model, for CONECT
	err     error
}

func (W *writer) println(s string) {
	if W.err != nil {
		return
	}
	_, W.err = W.w.WriteString(s + "\n")
}

// Write writes mol to out in PDB format. Only the first frame of the molecule is written,
// unless o.MultiModel is set. It is an error to write a molecule with more
// than one frame without o.MultiModel. Alternate locations only have a
// position for the first frame, so they are only written in the first model.
func Write(out io.Writer, mol *chem.Molecule, o WriteOptions) error {
	if err := mol.Corrupted(); err != nil {
		return err
	}
	nframes := mol.LenFrames()
	if nframes == 0 {
		return chem.NewError(chem.NoKind, "PDB", "molecule has no coordinates", "pdb.Write")
	}
	if nframes > 1 && !o.MultiModel {
		return chem.NewError(chem.NoKind, "PDB", fmt.Sprintf("molecule has %d models, but multi-model output was not requested", nframes), "pdb.Write")
	}
	if o.Dict == nil {
		o.Dict = chem.DefaultDictionary
	}
	W := &writer{o: o, w: bufio.NewWriter(out), serials: make(map[*chem.Atom]int, mol.Len())}
	if o.Remark != "" {
		W.println("REMARK   1 " + o.Remark)
	}
	for f := 0; f < nframes; f++ {
		if o.MultiModel {
			W.println(fmt.Sprintf("MODEL     %4d", f+1))
			W.serial = 0
		}
		W.model(mol, f)
		if o.MultiModel {
			W.println("ENDMDL")
		}
	}
	W.conect(mol)
	W.println("END")
	if W.err != nil {
		return W.err
	}
	return W.w.Flush()
}

// model writes all the atoms of frame f, chain by chain.
func (W *writer) model(mol *chem.Molecule, f int) {
	for _, c := range mol.Chains {
		var lastPeptide *chem.Residue
		for _, r := range c.Residues {
			peptide := W.o.Dict.PeptideLinking(r.Name)
			if !peptide && lastPeptide != nil {
				W.ter(lastPeptide)
				lastPeptide = nil
			}
			for _, at := range r.Atoms {
				W.atom(mol, at, f)
			}
			if peptide {
				lastPeptide = r
			}
		}
		if lastPeptide != nil {
			W.ter(lastPeptide)
		}
	}
}

func (W *writer) atom(mol *chem.Molecule, at *chem.Atom, f int) {
	W.serial++
	if f == 0 {
		W.serials[at] = W.serial
	}
	bfac := at.Bfactor
	if f < len(mol.Bfactors) {
		bfac = mol.Bfactors[f][at.Index()]
	}
	line := W.atomLine(at, chem.AltPos{
		Loc:       at.AltLoc,
		Pos:       mol.Position(at.Index(), f),
		Occupancy: at.Occupancy,
		Bfactor:   bfac,
		Charge:    at.Charge,
		Radius:    at.Radius,
	})
	W.println(line)
	if at.Aniso != nil {
		W.println(anisoLine(at, line))
	}
	if f > 0 {
		return
	}
	for _, alt := range at.Alternates {
		W.serial++
		W.println(W.atomLine(at, alt))
	}
}

// atomLine renders one ATOM/HETATM line for at, with the position and
// per-conformation data in p.
func (W *writer) atomLine(at *chem.Atom, p chem.AltPos) string {
	l := newLine(lineWidth)
	if at.Het {
		l.put(0, "HETATM")
	} else {
		l.put(0, "ATOM  ")
	}
	l.put(6, serialField(W.serial))
	l.put(12, nameField(at))
	l.putByte(16, p.Loc)
	W.residueFields(l, at.Residue)
	for i, v := range p.Pos {
		l.put(30+8*i, fit(strconv.FormatFloat(v, 'f', 3, 64), 8))
	}
	if W.o.PQR {
		l.put(55, fit(strconv.FormatFloat(p.Charge, 'f', 4, 64), 7))
		r := p.Radius
		if r == 0 {
			r = chem.VdwRadius(chem.NormalizeSymbol(at.Symbol))
		}
		l.put(63, fit(strconv.FormatFloat(r, 'f', 4, 64), 6))
	} else {
		l.put(54, fit(strconv.FormatFloat(p.Occupancy, 'f', 2, 64), 6))
		l.put(60, fit(strconv.FormatFloat(p.Bfactor, 'f', 2, 64), 6))
	}
	if W.o.Dialect == chem.CHARMM && at.Residue != nil && at.Residue.Chain != nil {
		l.put(72, padRight(at.Residue.Chain.Name, 4))
	}
	l.put(76, padLeft(strings.ToUpper(at.Symbol), 2))
	return l.String()
}

// anisoLine returns the ANISOU line for at, taking the identity
// columns from its ATOM/HETATM line.
func anisoLine(at *chem.Atom, atomline string) string {
	l := newLine(lineWidth)
	l.put(0, "ANISOU")
	l.put(6, cols(atomline, 6, 27))
	for i, u := range at.Aniso {
		l.put(28+7*i, fit(strconv.Itoa(int(math.Round(u*1e4))), 7))
	}
	l.put(76, cols(atomline, 76, 78))
	return l.String()
}

// residueFields fills the residue name, chain and residue number of l.
func (W *writer) residueFields(l lineBuf, r *chem.Residue) {
	if r == nil {
		return
	}
	if W.o.Dialect == chem.CHARMM {
		l.put(17, padRight(r.Name, 4))
	} else {
		l.put(17, padLeft(r.Name, 3))
		if r.Chain != nil && r.Chain.Name != "" {
			l.put(21, r.Chain.Name[:1])
		}
	}
	l.put(22, fit(strconv.Itoa(r.ID.Num), 4))
	l.putByte(26, r.ID.ICode)
}

// ter closes a run of polymer residues. It takes a serial number.
func (W *writer) ter(r *chem.Residue) {
	W.serial++
	l := newLine(lineWidth)
	l.put(0, "TER   ")
	l.put(6, serialField(W.serial))
	W.residueFields(l, r)
	W.println(l.String())
}

// nameField returns the 4 columns of the atom name. Names are written
// from column 13 (so the element is in columns 13-14) except for 4-letter
// names, names starting with a digit, and hetero atoms of heavy elements,
// which start at column 12.
func nameField(at *chem.Atom) string {
	name := at.Name
	if len(name) >= 4 {
		return name[:4]
	}
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return padRight(name, 4)
	}
	if at.Het && heavyElement(at) {
		return padRight(name, 4)
	}
	return " " + padRight(name, 3)
}

func heavyElement(at *chem.Atom) bool {
	sym := chem.NormalizeSymbol(at.Symbol)
	if chem.IsAlkaliMetal(sym) {
		return true
	}
	mass := at.Mass
	if mass == 0 {
		mass, _ = chem.SymbolMass(sym)
	}
	return mass > 34 && sym != "W" && sym != "V"
}

// conect writes the bonds of the hetero atoms, sorted by the serial of
// the partner, at most 4 partners per line.
func (W *writer) conect(mol *chem.Molecule) {
	for _, at := range mol.Atoms {
		if !at.Het || len(at.Bonds) == 0 {
			continue
		}
		partners := make([]int, 0, len(at.Bonds))
		for _, b := range at.Bonds {
			if s, ok := W.serials[b]; ok {
				partners = append(partners, s)
			}
		}
		sort.Ints(partners)
		for len(partners) > 0 {
			n := 4
			if len(partners) < n {
				n = len(partners)
			}
			var b strings.Builder
			b.WriteString("CONECT")
			b.WriteString(serialField(W.serials[at]))
			for _, p := range partners[:n] {
				b.WriteString(serialField(p))
			}
			W.println(b.String())
			partners = partners[n:]
		}
	}
}
