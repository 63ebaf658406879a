/*
 * chem.go, part of chemio.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package chem

import (
	"fmt"
	"strconv"

	v3 "github.com/rmera/chemio/v3"
)

/**Note: Many funcitons here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to using the funciton on a nil object or trying to access out-of bounds
 * fields**/

// ResNum identifies a residue within a chain: the sequence number plus
// the insertion code (0 if none).
type ResNum struct {
	Num   int
	ICode byte
}

// Less orders residue numbers numerically, then by insertion code.
func (R ResNum) Less(o ResNum) bool {
	if R.Num != o.Num {
		return R.Num < o.Num
	}
	return R.ICode < o.ICode
}

func (R ResNum) String() string {
	if R.ICode == 0 || R.ICode == ' ' {
		return fmt.Sprintf("%d", R.Num)
	}
	return fmt.Sprintf("%d%c", R.Num, R.ICode)
}

// ParseResNum reads a residue number like "12" or "12A", the format
// produced by ResNum.String.
func ParseResNum(s string) (ResNum, error) {
	var R ResNum
	if s == "" {
		return R, fmt.Errorf("empty residue number")
	}
	last := s[len(s)-1]
	if (last < '0' || last > '9') && len(s) > 1 {
		R.ICode = last
		s = s[:len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ResNum{}, fmt.Errorf("bad residue number %q", s)
	}
	R.Num = n
	return R, nil
}

// SecondaryStructure of a residue, as declared in HELIX/SHEET records.
type SecondaryStructure int

const (
	NoSS SecondaryStructure = iota
	Helix
	Sheet
)

// AltPos is an alternate position of an atom, with its own location tag,
// occupancy and b-factor (or charge and radius, for PQR files).
type AltPos struct {
	Loc       byte
	Pos       [3]float64
	Occupancy float64
	Bfactor   float64
	Charge    float64
	Radius    float64
}

//Atom contains the atoms read except for the coordinates, which will be in a matrix
//in the Molecule.
type Atom struct {
	Name       string
	ID         int //serial number in the file
	AltLoc     byte
	Symbol     string
	Mass       float64
	Het        bool // is hetatm in the pdb file?
	Occupancy  float64
	Bfactor    float64
	Charge     float64
	Radius     float64
	Aniso      *[6]float64 //U11 U22 U33 U12 U13 U23
	Alternates []AltPos
	Bonds      []*Atom
	Residue    *Residue
	index      int
}

// Index returns the row of the atom in the coordinate matrices of its Molecule.
func (A *Atom) Index() int {
	return A.index
}

// Bond adds a bond between A and B, in both atoms.
func (A *Atom) Bond(B *Atom) {
	A.Bonds = append(A.Bonds, B)
	B.Bonds = append(B.Bonds, A)
}

// Residue is a set of atoms with a common name and residue number.
type Residue struct {
	Name   string
	ID     ResNum
	Chain  *Chain
	Atoms  []*Atom
	SS     SecondaryStructure
	Ligand bool
}

// Atom returns the atom with the given name in the residue, or nil.
func (R *Residue) Atom(name string) *Atom {
	for _, a := range R.Atoms {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Chain is an ordered set of residues.
type Chain struct {
	Name     string
	MolID    int    //from the COMPND record, 0 if not given
	Sequence string //one-letter sequence from SEQRES, if given
	Residues []*Residue
}

// Residue returns the first residue in the chain with the given id, or nil.
func (C *Chain) Residue(id ResNum) *Residue {
	for _, r := range C.Residues {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ResidueIndex returns the position of the first residue with the given id, or -1.
func (C *Chain) ResidueIndex(id ResNum) int {
	for i, r := range C.Residues {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// AddResidue appends a new, empty, residue to the chain and returns it.
func (C *Chain) AddResidue(name string, id ResNum) *Residue {
	r := &Residue{Name: name, ID: id, Chain: C}
	C.Residues = append(C.Residues, r)
	return r
}

/**Type Molecule**/

//Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
//Coordinates and b-factors are stored separately from other atomic info.
type Molecule struct {
	Chains   []*Chain
	Atoms    []*Atom
	Coords   []*v3.Matrix
	Bfactors [][]float64
	current  int
}

// NewMolecule returns an empty molecule.
func NewMolecule() *Molecule {
	return new(Molecule)
}

// Chain returns the chain with the given name, or nil.
func (M *Molecule) Chain(name string) *Chain {
	for _, c := range M.Chains {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// AddChain appends a new chain, without checking for duplicated names.
func (M *Molecule) AddChain(name string) *Chain {
	c := &Chain{Name: name}
	M.Chains = append(M.Chains, c)
	return c
}

// ChainOrNew returns the chain with the given name, creating it if needed.
func (M *Molecule) ChainOrNew(name string) *Chain {
	if c := M.Chain(name); c != nil {
		return c
	}
	return M.AddChain(name)
}

// AppendAtom adds at to the residue R and at the end of the atom list of M.
// It returns the index of the new atom. Coordinates are not touched.
func (M *Molecule) AppendAtom(R *Residue, at *Atom) int {
	at.Residue = R
	at.index = len(M.Atoms)
	R.Atoms = append(R.Atoms, at)
	M.Atoms = append(M.Atoms, at)
	return at.index
}

// Residues returns all the residues of the molecule, chain by chain.
func (M *Molecule) Residues() []*Residue {
	ret := make([]*Residue, 0, len(M.Atoms)/4)
	for _, c := range M.Chains {
		ret = append(ret, c.Residues...)
	}
	return ret
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Molecule. Panics if
//out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i >= M.Len() {
		panic("Molecule: Requested Atom out of bounds")
	}
	return M.Atoms[i]
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//LenFrames returns the number of frames (models) in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

// Position returns the coordinates of atom i in the given frame.
func (M *Molecule) Position(i, frame int) [3]float64 {
	if frame >= len(M.Coords) {
		panic(fmt.Sprintf("Frame requested (%d) out of range", frame))
	}
	c := M.Coords[frame]
	return [3]float64{c.At(i, 0), c.At(i, 1), c.At(i, 2)}
}

//Corrupted checks whether the molecule is corrupted, i.e. the
//coordinates don't match the number of atoms.
func (M *Molecule) Corrupted() error {
	for i, c := range M.Coords {
		if c == nil || c.NVecs() != M.Len() {
			return fmt.Errorf("Inconsistent coordinates/atoms in frame %d: Atoms %d", i, M.Len())
		}
	}
	for i := range M.Bfactors {
		if len(M.Bfactors[i]) != M.Len() {
			return fmt.Errorf("Inconsistent bfactors/atoms in frame %d: Atoms %d, bfactors %d", i, M.Len(), len(M.Bfactors[i]))
		}
	}
	return nil
}

/******************************************
//The following implement the Traj interface
**********************************************/

//Readable returns true if there are frames left to be read.
func (M *Molecule) Readable() bool {
	return M != nil && M.current < len(M.Coords)
}

//Next puts the next frame into V and returns an error or nil
//The box argument is never used.
func (M *Molecule) Next(V *v3.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		return NewLastFrameError("", "molecule", "Next")
	}
	M.current++
	if V == nil {
		return nil
	}
	V.Copy(M.Coords[M.current-1])
	return nil
}

//InitRead initializes molecule to be read as a traj
func (M *Molecule) InitRead() error {
	if M == nil || len(M.Coords) == 0 {
		return fmt.Errorf("Bad molecule")
	}
	M.current = 0
	return nil
}
