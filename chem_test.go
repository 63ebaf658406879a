/*
 * chem_test.go, part of chemio.
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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	v3 "github.com/rmera/chemio/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResNum(Te *testing.T) {
	for _, s := range []string{"12", "12A", "-3", "1000B"} {
		r, err := ParseResNum(s)
		require.NoError(Te, err, s)
		assert.Equal(Te, s, r.String())
	}
	r, _ := ParseResNum("12A")
	assert.Equal(Te, ResNum{Num: 12, ICode: 'A'}, r)
	for _, s := range []string{"", "A", "1.5", "1AB"} {
		_, err := ParseResNum(s)
		assert.Error(Te, err, s)
	}
	assert.True(Te, ResNum{Num: 3}.Less(ResNum{Num: 3, ICode: 'A'}))
	assert.True(Te, ResNum{Num: 3, ICode: 'B'}.Less(ResNum{Num: 4}))
	assert.False(Te, ResNum{Num: 4}.Less(ResNum{Num: 4}))
}

func TestMolecule(Te *testing.T) {
	mol := NewMolecule()
	a := mol.ChainOrNew("A")
	assert.Same(Te, a, mol.ChainOrNew("A"))
	r1 := a.AddResidue("ALA", ResNum{Num: 1})
	r2 := a.AddResidue("GLY", ResNum{Num: 1, ICode: 'A'})
	n := &Atom{Name: "N"}
	ca := &Atom{Name: "CA"}
	assert.Equal(Te, 0, mol.AppendAtom(r1, n))
	assert.Equal(Te, 1, mol.AppendAtom(r2, ca))
	n.Bond(ca)
	assert.Equal(Te, []*Atom{ca}, n.Bonds)
	assert.Same(Te, r2, ca.Residue)
	assert.Same(Te, ca, r2.Atom("CA"))
	assert.Nil(Te, r2.Atom("N"))
	assert.Same(Te, r2, a.Residue(ResNum{Num: 1, ICode: 'A'}))
	assert.Equal(Te, 1, a.ResidueIndex(ResNum{Num: 1, ICode: 'A'}))
	assert.Equal(Te, -1, a.ResidueIndex(ResNum{Num: 2}))
	assert.Len(Te, mol.Residues(), 2)

	assert.Error(Te, mol.InitRead(), "no frames yet")
	mol.Coords = []*v3.Matrix{v3.Zeros(2)}
	assert.NoError(Te, mol.Corrupted())
	mol.Bfactors = [][]float64{{0}}
	assert.Error(Te, mol.Corrupted())
	mol.Bfactors = nil
	second := v3.Zeros(2)
	second.SetVec(1, [3]float64{1, 2, 3})
	mol.Coords = append(mol.Coords, second)
	assert.Equal(Te, [3]float64{1, 2, 3}, mol.Position(1, 1))

	require.NoError(Te, mol.InitRead())
	out := v3.Zeros(2)
	frames := 0
	for mol.Readable() {
		require.NoError(Te, mol.Next(out))
		frames++
	}
	assert.Equal(Te, 2, frames)
	assert.Equal(Te, [3]float64{1, 2, 3}, out.Vec(1))
	assert.True(Te, IsLastFrame(mol.Next(out)))
}

func TestSymbols(Te *testing.T) {
	assert.Equal(Te, "Fe", NormalizeSymbol(" FE"))
	assert.Equal(Te, "C", SymbolFromName("CA"))
	assert.Equal(Te, "H", SymbolFromName("1HB2"))
	assert.Equal(Te, "Na", SymbolFromName("NA"))
	assert.Equal(Te, "", SymbolFromName("XX"))
	m, ok := SymbolMass("Fe")
	assert.True(Te, ok)
	assert.InDelta(Te, 55.84, m, 1e-9)
	assert.True(Te, IsAlkaliMetal("Mg"))
	assert.False(Te, IsAlkaliMetal("Fe"))
	assert.InDelta(Te, 1.7, VdwRadius("C"), 1e-9)

	code, ok := DefaultDictionary.OneLetter("hsd")
	assert.True(Te, ok)
	assert.Equal(Te, byte('H'), code)
	assert.True(Te, DefaultDictionary.PeptideLinking("ALA"))
	assert.False(Te, DefaultDictionary.PeptideLinking("DA"))
	assert.False(Te, DefaultDictionary.PeptideLinking("HOH"))
}

func TestProfile(Te *testing.T) {
	for s, want := range map[string]Dialect{"": DefaultDialect, "PDB": DefaultDialect, " charmm": CHARMM} {
		d, err := ParseDialect(s)
		require.NoError(Te, err)
		assert.Equal(Te, want, d)
	}
	_, err := ParseDialect("amber")
	assert.Error(Te, err)
	assert.Equal(Te, "charmm", CHARMM.String())
	assert.False(Te, DefaultProfile().FaultTolerant)
}

func TestFiles(Te *testing.T) {
	const text = "ATOM      1  N\n"
	var buf bytes.Buffer
	z := gzip.NewWriter(&buf)
	_, err := z.Write([]byte(text))
	require.NoError(Te, err)
	require.NoError(Te, z.Close())

	r, compressed, err := MaybeGzip(bytes.NewReader(buf.Bytes()))
	require.NoError(Te, err)
	assert.True(Te, compressed)
	got, err := io.ReadAll(r)
	require.NoError(Te, err)
	assert.Equal(Te, text, string(got))

	r, compressed, err = MaybeGzip(strings.NewReader(text))
	require.NoError(Te, err)
	assert.False(Te, compressed)
	got, _ = io.ReadAll(r)
	assert.Equal(Te, text, string(got))

	r, compressed, err = MaybeGzip(strings.NewReader(""))
	require.NoError(Te, err)
	assert.False(Te, compressed)

	name := filepath.Join(Te.TempDir(), "a.pdb.gz")
	require.NoError(Te, os.WriteFile(name, buf.Bytes(), 0o644))
	f, compressed, err := OpenFile(name)
	require.NoError(Te, err)
	assert.True(Te, compressed)
	got, err = io.ReadAll(f)
	require.NoError(Te, err)
	assert.Equal(Te, text, string(got))
	require.NoError(Te, f.Close())

	assert.Equal(Te, "pqr", Extension("/tmp/A.PQR.gz"))
	assert.Equal(Te, "dcd", Extension("traj.dcd"))
	assert.Equal(Te, "", Extension("noext"))
}
