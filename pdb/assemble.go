/*
 * assemble.go, part of chemio.
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
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
)

// Reader builds Molecules from PDB (or PQR) files.
// A Reader can be used for several files, one after the other, but not
// concurrently.
type Reader struct {
	profile chem.Profile
	//Dict translates SEQRES residue names and tells peptide residues apart.
	Dict chem.CompoundDictionary
	//Log receives one line per warning. It discards everything by default.
	Log *log.Logger
	//PQR makes the reader take charge and radius from the occupancy and b-factor slots.
	PQR bool
	//Name is used only in the error messages.
	Name     string
	warnings []error
}

// NewReader returns a reader that will use a copy of p.
func NewReader(p chem.Profile) *Reader {
	return &Reader{profile: p, Dict: chem.DefaultDictionary, Log: chem.DiscardLogger()}
}

// Profile returns the profile used by the reader.
func (R *Reader) Profile() chem.Profile {
	return R.profile
}

// Warnings returns the problems that were downgraded to warnings
// during the last import. It is only non-empty for fault-tolerant profiles
// and for the conditions that are always tolerated.
func (R *Reader) Warnings() []error {
	return R.warnings
}

type atomKey struct {
	chain string
	res   chem.ResNum
	name  string
}

// state is everything the reader needs to remember between lines. It is
// created for each Import and discarded at the end.
type state struct {
	profile chem.Profile
	mol     *chem.Molecule
	chain   *chem.Chain
	res     *chem.Residue
	lineno  int
	serial  int //the last serial number read

	nchains, nresidues, natoms int

	model    int //index of the frame being filled
	frames   [][]float64
	bfacs    [][]float64
	keys     map[atomKey]*chem.Atom //only built if there is more than one model
	bySerial map[int]*chem.Atom

	compnd     compndState
	seqres     map[string][]byte
	seqorder   []string
	ss         []ssRange
	hets       []hetSite
	conflicted map[*chem.Residue]bool //residues for which a name mismatch was already reported
	done       bool
}

func newState(p chem.Profile) *state {
	return &state{
		profile:    p,
		mol:        chem.NewMolecule(),
		frames:     make([][]float64, 1),
		bfacs:      make([][]float64, 1),
		bySerial:   make(map[int]*chem.Atom),
		seqres:     make(map[string][]byte),
		conflicted: make(map[*chem.Residue]bool),
	}
}

// ReadFile reads the PDB file name with the profile p. Files with the .pqr
// extension are read as PQR. Gzipped files are decompressed transparently.
func ReadFile(name string, p chem.Profile) (*chem.Molecule, error) {
	R := NewReader(p)
	return R.ReadFile(name)
}

// ReadFile reads the file name. The PQR dialect is used if R.PQR is set or
// if the file has the .pqr extension.
func (R *Reader) ReadFile(name string) (*chem.Molecule, error) {
	fin, _, err := chem.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	oldname, oldpqr := R.Name, R.PQR
	defer func() { R.Name, R.PQR = oldname, oldpqr }()
	R.Name = name
	R.PQR = R.PQR || chem.Extension(name) == "pqr"
	mol, err := R.Import(fin)
	return mol, chem.ErrDecorate(err, "pdb.ReadFile")
}

// Import reads a PDB structure from in. With a strict profile, the first
// problem found aborts the import. With a fault-tolerant one, problems are
// logged and the offending line is skipped. Input that is not PDB at all
// is always an error.
func (R *Reader) Import(in io.Reader) (*chem.Molecule, error) {
	R.warnings = nil
	if R.Dict == nil {
		R.Dict = chem.DefaultDictionary
	}
	if R.Log == nil {
		R.Log = chem.DiscardLogger()
	}
	s := newState(R.profile)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		s.lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		err := R.dispatch(s, line)
		if err != nil {
			if err = R.tolerate(s, err); err != nil {
				return nil, err
			}
		}
		if s.done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, chem.ErrDecorate(err, "pdb.Import")
	}
	if err := R.finish(s); err != nil {
		return nil, err
	}
	return s.mol, nil
}

// tolerate returns nil if err can be downgraded to a warning, which is
// then recorded. Otherwise it returns err, with the file and line set.
func (R *Reader) tolerate(s *state, err error) error {
	var e *chem.CError
	if !errors.As(err, &e) {
		return err
	}
	e.At(R.Name, s.lineno)
	if !R.profile.FaultTolerant || e.Kind().AlwaysFatal() {
		return e
	}
	R.warn(e)
	return nil
}

func (R *Reader) warn(err error) {
	R.Log.Printf("warning: %v", err)
	R.warnings = append(R.warnings, err)
}

func (R *Reader) dispatch(s *state, line string) error {
	switch strings.TrimSpace(cols(line, 0, 6)) {
	case "ATOM", "HETATM":
		return R.atomRecord(s, line)
	case "ANISOU":
		if R.profile.NoHetatms || s.model > 0 {
			return nil
		}
		a, err := parseAniso(line)
		if err != nil {
			return err
		}
		at := s.bySerial[a.Serial]
		if at != nil && at.Name == a.Name {
			u := a.U
			at.Aniso = &u
		}
	case "COMPND":
		return s.compnd.parse(line)
	case "SEQRES":
		chain, seq, err := parseSeqres(line, R.Dict)
		if err != nil {
			return err
		}
		if _, ok := s.seqres[chain]; !ok {
			s.seqorder = append(s.seqorder, chain)
		}
		s.seqres[chain] = append(s.seqres[chain], seq...)
	case "HELIX":
		h, err := parseHelix(line)
		if err != nil {
			return err
		}
		h.line = s.lineno
		s.ss = append(s.ss, h)
	case "SHEET":
		h, err := parseSheet(line)
		if err != nil {
			return err
		}
		h.line = s.lineno
		s.ss = append(s.ss, h)
	case "HET":
		h, err := parseHet(line)
		if err != nil {
			return err
		}
		h.line = s.lineno
		s.hets = append(s.hets, h)
	case "MODEL":
		s.startModel()
	case "END":
		s.done = true
	}
	//ENDMDL, TER, CONECT and everything else are ignored.
	return nil
}

// startModel prepares a new coordinate frame. The first MODEL record
// of a file doesn't need one.
func (s *state) startModel() {
	if len(s.mol.Atoms) == 0 {
		return
	}
	s.frames = append(s.frames, append([]float64(nil), s.frames[0]...))
	s.bfacs = append(s.bfacs, append([]float64(nil), s.bfacs[0]...))
	s.model = len(s.frames) - 1
	if s.keys != nil {
		return
	}
	s.keys = make(map[atomKey]*chem.Atom, len(s.mol.Atoms))
	for _, a := range s.mol.Atoms {
		k := atomKey{chain: a.Residue.Chain.Name, res: a.Residue.ID, name: a.Name}
		if _, ok := s.keys[k]; !ok {
			s.keys[k] = a
		}
	}
}

func (R *Reader) atomRecord(s *state, line string) error {
	p := R.profile
	if p.NoHetatms && strings.HasPrefix(line, "HETATM") {
		return nil
	}
	rec, err := parseAtom(line, p, R.PQR)
	if err != nil {
		return err
	}
	if rec.Serial == 0 {
		rec.Serial = s.serial + 1
	}
	s.serial = rec.Serial
	if p.CAlphaOnly && rec.Name != "CA" {
		return nil
	}
	if s.model > 0 {
		s.setModelCoords(rec)
		return nil
	}
	return R.insert(s, rec)
}

// setModelCoords puts the position of an atom of a model other than the first
// in the current frame. Atoms not present in the first model are ignored.
func (s *state) setModelCoords(rec *Record) {
	at, ok := s.keys[atomKey{chain: rec.Chain, res: rec.ResID, name: rec.Name}]
	if !ok {
		return
	}
	if rec.AltLoc != 0 && at.AltLoc != 0 && rec.AltLoc != at.AltLoc {
		return
	}
	i := at.Index()
	copy(s.frames[s.model][3*i:3*i+3], rec.Pos[:])
	s.bfacs[s.model][i] = rec.Bfactor
}

// insert adds the atom in rec to the molecule, creating a new chain and/or
// residue if needed.
func (R *Reader) insert(s *state, rec *Record) error {
	p := R.profile
	chainChanged := s.chain == nil || s.chain.Name != rec.Chain
	if chainChanged {
		s.chain = s.mol.Chain(rec.Chain)
		if s.chain == nil {
			s.chain = s.mol.AddChain(rec.Chain)
			s.nchains++
		}
	}
	if chainChanged || s.res == nil || s.res.ID != rec.ResID {
		var r *chem.Residue
		if p.JoinSpreadAtomRecords {
			r = s.chain.Residue(rec.ResID)
		}
		if r == nil {
			r = s.chain.AddResidue(rec.ResName, rec.ResID)
			s.nresidues++
		}
		s.res = r
	}
	if s.res.Name != rec.ResName {
		conflict := chem.NewError(chem.ResidueIdentityConflict, "PDB",
			fmt.Sprintf("residue %s %s in chain %q is also called %s", s.res.Name, s.res.ID, rec.Chain, rec.ResName), "pdb.insert").At(R.Name, s.lineno)
		switch {
		case p.QuackMode || rec.AltLoc != 0:
			if !s.conflicted[s.res] {
				s.conflicted[s.res] = true
				R.warn(conflict)
			}
		case !p.FaultTolerant:
			return conflict
		default:
			if !s.conflicted[s.res] {
				s.conflicted[s.res] = true
				R.warn(conflict)
			}
			return nil
		}
	}
	existing := s.res.Atom(rec.Name)
	if existing == nil {
		s.newAtom(rec)
		return nil
	}
	if rec.AltLoc == 0 || existing.AltLoc == rec.AltLoc || hasAlternate(existing, rec.AltLoc) {
		if p.QuackMode {
			s.overwrite(existing, rec)
			return nil
		}
		return chem.NewError(chem.DuplicateAtom, "PDB",
			fmt.Sprintf("atom %s appears twice in residue %s %s", rec.Name, s.res.Name, s.res.ID), "pdb.insert")
	}
	existing.Alternates = append(existing.Alternates, chem.AltPos{
		Loc:       rec.AltLoc,
		Pos:       rec.Pos,
		Occupancy: rec.Occupancy,
		Bfactor:   rec.Bfactor,
		Charge:    rec.Charge,
		Radius:    rec.Radius,
	})
	return nil
}

func hasAlternate(at *chem.Atom, loc byte) bool {
	for _, a := range at.Alternates {
		if a.Loc == loc {
			return true
		}
	}
	return false
}

func (s *state) newAtom(rec *Record) {
	at := &chem.Atom{
		Name:      rec.Name,
		ID:        rec.Serial,
		AltLoc:    rec.AltLoc,
		Symbol:    rec.Element,
		Het:       rec.Het,
		Occupancy: rec.Occupancy,
		Bfactor:   rec.Bfactor,
		Charge:    rec.Charge,
		Radius:    rec.Radius,
	}
	if at.Symbol == "" {
		at.Symbol = chem.SymbolFromName(at.Name)
	}
	at.Mass, _ = chem.SymbolMass(at.Symbol)
	s.mol.AppendAtom(s.res, at)
	s.frames[0] = append(s.frames[0], rec.Pos[:]...)
	s.bfacs[0] = append(s.bfacs[0], rec.Bfactor)
	s.bySerial[at.ID] = at
	s.natoms++
}

// overwrite replaces the data of at with that of rec. Only used in quack mode.
func (s *state) overwrite(at *chem.Atom, rec *Record) {
	if s.bySerial[at.ID] == at {
		delete(s.bySerial, at.ID)
	}
	at.ID = rec.Serial
	at.AltLoc = rec.AltLoc
	at.Het = rec.Het
	at.Occupancy = rec.Occupancy
	at.Bfactor = rec.Bfactor
	at.Charge = rec.Charge
	at.Radius = rec.Radius
	if rec.Element != "" {
		at.Symbol = rec.Element
		at.Mass, _ = chem.SymbolMass(at.Symbol)
	}
	i := at.Index()
	copy(s.frames[0][3*i:3*i+3], rec.Pos[:])
	s.bfacs[0][i] = rec.Bfactor
	s.bySerial[at.ID] = at
}

// finish sets the coordinates and applies the annotations that were
// deferred until every atom was read. Annotations that refer to chains or
// residues that don't exist give warnings.
func (R *Reader) finish(s *state) error {
	mol := s.mol
	if len(mol.Atoms) > 0 {
		for i, f := range s.frames {
			c, err := v3.NewMatrix(f)
			if err != nil {
				return chem.ErrDecorate(err, "pdb.finish")
			}
			mol.Coords = append(mol.Coords, c)
			mol.Bfactors = append(mol.Bfactors, s.bfacs[i])
		}
	}
	missing := func(what string, line int) {
		R.warn(chem.NewError(chem.MalformedRecord, "PDB", what, "pdb.finish").At(R.Name, line))
	}
	for _, name := range s.compnd.order {
		c := mol.Chain(name)
		if c == nil {
			missing(fmt.Sprintf("COMPND refers to missing chain %q", name), 0)
			continue
		}
		c.MolID = s.compnd.chainMol[name]
	}
	for _, name := range s.seqorder {
		c := mol.Chain(name)
		if c == nil {
			missing(fmt.Sprintf("SEQRES refers to missing chain %q", name), 0)
			continue
		}
		c.Sequence = string(s.seqres[name])
	}
	for _, ss := range s.ss {
		c := mol.Chain(ss.chain)
		if c == nil {
			missing(fmt.Sprintf("secondary structure for missing chain %q", ss.chain), ss.line)
			continue
		}
		first, last := c.ResidueIndex(ss.start), c.ResidueIndex(ss.end)
		if first < 0 || last < 0 || last < first {
			missing(fmt.Sprintf("secondary structure range %s-%s not in chain %q", ss.start, ss.end, ss.chain), ss.line)
			continue
		}
		for _, r := range c.Residues[first : last+1] {
			r.SS = ss.kind
		}
	}
	for _, h := range s.hets {
		c := mol.Chain(h.chain)
		if c == nil {
			missing(fmt.Sprintf("HET for missing chain %q", h.chain), h.line)
			continue
		}
		r := c.Residue(h.id)
		if r == nil {
			missing(fmt.Sprintf("HET for missing residue %s in chain %q", h.id, h.chain), h.line)
			continue
		}
		r.Ligand = true
	}
	return nil
}
