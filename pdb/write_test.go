/*
 * write_test.go, part of chemio.
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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coordLines returns the lines of text that describe atoms.
func coordLines(text string) []string {
	var ret []string
	for _, l := range strings.Split(text, "\n") {
		switch strings.TrimSpace(cols(l, 0, 6)) {
		case "ATOM", "HETATM", "ANISOU", "TER":
			ret = append(ret, strings.TrimRight(l, " "))
		}
	}
	return ret
}

func writeString(Te *testing.T, mol *chem.Molecule, o WriteOptions) string {
	Te.Helper()
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, mol, o))
	return buf.String()
}

func TestRoundTrip(Te *testing.T) {
	text := pdbText(small...)
	mol, _, err := importString(Te, chem.DefaultProfile(), text)
	require.NoError(Te, err)
	out := writeString(Te, mol, WriteOptions{})
	if diff := cmp.Diff(coordLines(text), coordLines(out)); diff != "" {
		Te.Errorf("round trip mismatch (-read +written):\n%s", diff)
	}
	assert.True(Te, strings.HasSuffix(out, "END\n"))

	again, _, err := importString(Te, chem.DefaultProfile(), out)
	require.NoError(Te, err)
	assert.Equal(Te, mol.Len(), again.Len())
	assert.Equal(Te, writeString(Te, mol, WriteOptions{}), writeString(Te, again, WriteOptions{}))
}

func TestWholeFileRoundTrip(Te *testing.T) {
	mol, _, err := importString(Te, chem.DefaultProfile(), pdbText(small...))
	require.NoError(Te, err)
	text := writeString(Te, mol, WriteOptions{})
	assert.True(Te, strings.HasPrefix(text, "ATOM "), "nothing is written before the coordinates by default")

	again, _, err := importString(Te, chem.DefaultProfile(), text)
	require.NoError(Te, err)
	if diff := cmp.Diff(text, writeString(Te, again, WriteOptions{})); diff != "" {
		Te.Errorf("whole file round trip mismatch (-read +written):\n%s", diff)
	}

	withRemark := writeString(Te, mol, WriteOptions{Remark: "WRITTEN BY CHEMIO"})
	assert.Equal(Te, "REMARK   1 WRITTEN BY CHEMIO\n"+text, withRemark)
}

func TestAltLocRoundTrip(Te *testing.T) {
	lines := []string{
		atomLine("ATOM", 1, " CA ", ' ', "SER", "A", 5, [3]float64{0, 0, 0}, 1, 8, "C"),
		atomLine("ATOM", 2, " OG ", 'A', "SER", "A", 5, [3]float64{1, 2, 3}, 0.6, 10, "O"),
		atomLine("ATOM", 3, " OG ", 'B', "SER", "A", 5, [3]float64{4, 5, 6}, 0.4, 12, "O"),
		"TER       4      SER A   5",
	}
	mol, _, err := importString(Te, chem.DefaultProfile(), pdbText(lines...))
	require.NoError(Te, err)
	out := writeString(Te, mol, WriteOptions{})
	assert.Equal(Te, lines, coordLines(out))

	again, _, err := importString(Te, chem.DefaultProfile(), out)
	require.NoError(Te, err)
	og := again.Chains[0].Residues[0].Atom("OG")
	require.NotNil(Te, og)
	positions := []chem.AltPos{{Loc: og.AltLoc, Occupancy: og.Occupancy, Bfactor: again.Bfactors[0][og.Index()]}}
	for _, a := range og.Alternates {
		positions = append(positions, chem.AltPos{Loc: a.Loc, Occupancy: a.Occupancy, Bfactor: a.Bfactor})
	}
	assert.Equal(Te, []chem.AltPos{{Loc: 'A', Occupancy: 0.6, Bfactor: 10}, {Loc: 'B', Occupancy: 0.4, Bfactor: 12}}, positions)
}

// buildMolecule returns a one-chain molecule with a residue for each name,
// each with a single atom called CA (or, for non-peptides, after the residue).
func buildMolecule(names ...string) *chem.Molecule {
	mol := chem.NewMolecule()
	c := mol.AddChain("A")
	for i, n := range names {
		r := c.AddResidue(n, chem.ResNum{Num: i + 1})
		at := &chem.Atom{Name: "CA", Symbol: "C", Occupancy: 1}
		if !chem.DefaultDictionary.PeptideLinking(n) {
			at.Name, at.Het = "C1", true
		}
		mol.AppendAtom(r, at)
	}
	mol.Coords = []*v3.Matrix{v3.Zeros(len(names))}
	return mol
}

func TestTERPlacement(Te *testing.T) {
	mol := buildMolecule("ALA", "GLY", "HOH", "ALA")
	var records []string
	for _, l := range coordLines(writeString(Te, mol, WriteOptions{})) {
		records = append(records, strings.TrimSpace(l[:6])+" "+strings.TrimSpace(cols(l, 6, 11)))
	}
	assert.Equal(Te, []string{"ATOM 1", "ATOM 2", "TER 3", "HETATM 4", "ATOM 5", "TER 6"}, records)
}

func TestSerialOverflow(Te *testing.T) {
	mol := buildMolecule("ALA")
	W := &writer{o: WriteOptions{Dict: chem.DefaultDictionary}, serial: 100000}
	l := W.atomLine(mol.Atom(0), chem.AltPos{})
	assert.Equal(Te, "ATOM  ***** ", l[:12])
	_, err := parseAtom(l, chem.DefaultProfile(), false)
	assert.NoError(Te, err, "asterisks in the serial field are not an error")
}

func TestNameJustification(Te *testing.T) {
	for _, c := range []struct {
		at   chem.Atom
		want string
	}{
		{chem.Atom{Name: "CA", Symbol: "C"}, " CA "},
		{chem.Atom{Name: "HD21", Symbol: "H"}, "HD21"},
		{chem.Atom{Name: "1HB", Symbol: "H"}, "1HB "},
		{chem.Atom{Name: "FE", Symbol: "Fe", Het: true}, "FE  "},
		{chem.Atom{Name: "MG", Symbol: "Mg", Het: true}, "MG  "},
		{chem.Atom{Name: "NA", Symbol: "Na", Het: true}, "NA  "},
		{chem.Atom{Name: "W", Symbol: "W", Het: true}, " W  "},
		{chem.Atom{Name: "O", Symbol: "O", Het: true}, " O  "},
		{chem.Atom{Name: "SE", Symbol: "Se"}, " SE "},
	} {
		assert.Equal(Te, c.want, nameField(&c.at), c.at.Name)
	}
}

func TestConect(Te *testing.T) {
	mol := chem.NewMolecule()
	r := mol.AddChain("A").AddResidue("LIG", chem.ResNum{Num: 1})
	for _, n := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
		mol.AppendAtom(r, &chem.Atom{Name: n, Symbol: "C", Het: true})
	}
	mol.Coords = []*v3.Matrix{v3.Zeros(6)}
	for i := 5; i > 0; i-- {
		mol.Atom(0).Bond(mol.Atom(i))
	}
	var conect []string
	for _, l := range strings.Split(writeString(Te, mol, WriteOptions{}), "\n") {
		if strings.HasPrefix(l, "CONECT") {
			conect = append(conect, l)
		}
	}
	require.Len(Te, conect, 7)
	assert.Equal(Te, "CONECT    1    2    3    4    5", conect[0])
	assert.Equal(Te, "CONECT    1    6", conect[1])
	assert.Equal(Te, "CONECT    2    1", conect[2])
}

func TestMultiModelWrite(Te *testing.T) {
	mol := buildMolecule("ALA", "GLY")
	second := v3.Zeros(2)
	second.SetVec(1, [3]float64{1, 2, 3})
	mol.Coords = append(mol.Coords, second)

	var buf bytes.Buffer
	assert.Error(Te, Write(&buf, mol, WriteOptions{}), "more than one model needs MultiModel")

	out := writeString(Te, mol, WriteOptions{MultiModel: true})
	assert.Equal(Te, 2, strings.Count(out, "ENDMDL"))
	again, _, err := importString(Te, chem.DefaultProfile(), out)
	require.NoError(Te, err)
	require.Equal(Te, 2, again.LenFrames())
	assert.Equal(Te, [3]float64{1, 2, 3}, again.Position(1, 1))

	//alternate locations only go in the first model
	mol.Atom(1).AltLoc = 'A'
	mol.Atom(1).Alternates = []chem.AltPos{{Loc: 'B', Pos: [3]float64{7, 8, 9}, Occupancy: 0.5}}
	out = writeString(Te, mol, WriteOptions{MultiModel: true})
	models := strings.Split(out, "ENDMDL")
	require.Len(Te, models, 3)
	assert.Len(Te, coordLines(models[0]), 4)
	assert.Len(Te, coordLines(models[1]), 3)
	assert.NotContains(Te, models[1], "   7.000   8.000   9.000")
	again, _, err = importString(Te, chem.DefaultProfile(), out)
	require.NoError(Te, err)
	require.Equal(Te, 2, again.LenFrames())
	assert.Equal(Te, [3]float64{1, 2, 3}, again.Position(1, 1))
	require.Len(Te, again.Atom(1).Alternates, 1)
	assert.Equal(Te, [3]float64{7, 8, 9}, again.Atom(1).Alternates[0].Pos)
}

func TestWriteFilePQR(Te *testing.T) {
	mol := buildMolecule("ALA")
	mol.Atom(0).Charge = -0.25
	mol.Atom(0).Radius = 1.9
	name := filepath.Join(Te.TempDir(), "out.pqr")
	require.NoError(Te, WriteFile(name, mol, WriteOptions{}))
	again, err := ReadFile(name, chem.DefaultProfile())
	require.NoError(Te, err)
	assert.InDelta(Te, -0.25, again.Atom(0).Charge, 1e-9)
	assert.InDelta(Te, 1.9, again.Atom(0).Radius, 1e-9)

	mol.Atom(0).Radius = 0
	require.NoError(Te, WriteFile(name, mol, WriteOptions{}))
	again, err = ReadFile(name, chem.DefaultProfile())
	require.NoError(Te, err)
	assert.InDelta(Te, 1.7, again.Atom(0).Radius, 1e-9, "missing radii are taken from the element")
}

func TestCHARMMRoundTrip(Te *testing.T) {
	mol := chem.NewMolecule()
	r := mol.AddChain("PROA").AddResidue("HSD", chem.ResNum{Num: 12})
	mol.AppendAtom(r, &chem.Atom{Name: "HE2", Symbol: "H", Occupancy: 1})
	mol.Coords = []*v3.Matrix{v3.Zeros(1)}
	out := writeString(Te, mol, WriteOptions{Dialect: chem.CHARMM})

	p := chem.DefaultProfile()
	p.Dialect = chem.CHARMM
	again, _, err := importString(Te, p, out)
	require.NoError(Te, err)
	require.NotNil(Te, again.Chain("PROA"))
	assert.Equal(Te, "HSD", again.Chains[0].Residues[0].Name)
}
