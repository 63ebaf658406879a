/*
 * atom_test.go, part of chemio.
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
	"errors"
	"fmt"
	"testing"

	chem "github.com/rmera/chemio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// atomLine formats an ATOM/HETATM line the way Write does. name must
// already be placed in its 4 columns.
func atomLine(rec string, serial int, name string, alt byte, res, chain string, num int, pos [3]float64, occ, bfac float64, element string) string {
	return fmt.Sprintf("%-6s%5d %-4s%c%3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		rec, serial, name, alt, res, chain, num, pos[0], pos[1], pos[2], occ, bfac, element)
}

func TestParseAtomExample(Te *testing.T) {
	line := "ATOM      1  CA  ALA A   1      11.104  13.207   8.271  1.00 20.00           C"
	r, err := parseAtom(line, chem.DefaultProfile(), false)
	require.NoError(Te, err)
	assert.Equal(Te, "CA", r.Name)
	assert.Equal(Te, "ALA", r.ResName)
	assert.Equal(Te, "A", r.Chain)
	assert.Equal(Te, chem.ResNum{Num: 1}, r.ResID)
	assert.Equal(Te, [3]float64{11.104, 13.207, 8.271}, r.Pos)
	assert.Equal(Te, 1.0, r.Occupancy)
	assert.Equal(Te, 20.0, r.Bfactor)
	assert.Equal(Te, "C", r.Element)
	assert.Equal(Te, 1, r.Serial)
	assert.False(Te, r.Het)
	assert.Equal(Te, byte(0), r.AltLoc)
}

func TestParseAtomFields(Te *testing.T) {
	line := atomLine("HETATM", 12, "FE", 'B', "HEM", "C", 401, [3]float64{-1.5, 2, 3.25}, 0.5, 7, "FE")
	line = line[:26] + "A" + line[27:]
	r, err := parseAtom(line, chem.DefaultProfile(), false)
	require.NoError(Te, err)
	assert.True(Te, r.Het)
	assert.Equal(Te, byte('B'), r.AltLoc)
	assert.Equal(Te, chem.ResNum{Num: 401, ICode: 'A'}, r.ResID)
	assert.Equal(Te, "Fe", r.Element)
	assert.Equal(Te, 0.5, r.Occupancy)

	//blank serial, occupancy and b-factor
	blank := line[:6] + "     " + line[11:54] + "            " + line[66:]
	r, err = parseAtom(blank, chem.DefaultProfile(), false)
	require.NoError(Te, err)
	assert.Equal(Te, 0, r.Serial)
	assert.Equal(Te, 1.0, r.Occupancy)
	assert.Equal(Te, 0.0, r.Bfactor)

	//no element columns at all
	r, err = parseAtom(line[:66], chem.DefaultProfile(), false)
	require.NoError(Te, err)
	assert.Equal(Te, "", r.Element)
}

func TestElementJustification(Te *testing.T) {
	base := atomLine("ATOM", 1, " CA ", ' ', "ALA", "A", 1, [3]float64{}, 1, 0, "")
	base = base[:76]
	for _, c := range []struct {
		cols, want string
	}{
		{"  ", ""},
		{" C", "C"},
		{"C ", "C"},
		{"FE", "Fe"},
		{"Se", "Se"},
		{"1 ", ""},
	} {
		assert.Equal(Te, c.want, elementField(base+c.cols), "element columns %q", c.cols)
	}
}

func TestParseAtomCHARMM(Te *testing.T) {
	l := newLine(lineWidth)
	l.put(0, "ATOM      5  HE2 HSD    12      -1.000   0.500   2.000  1.00  0.00")
	l.put(72, "PROA")
	l.put(77, "H")
	p := chem.DefaultProfile()
	p.Dialect = chem.CHARMM
	r, err := parseAtom(l.String(), p, false)
	require.NoError(Te, err)
	assert.Equal(Te, "HSD", r.ResName)
	assert.Equal(Te, "PROA", r.Chain)
	assert.Equal(Te, 12, r.ResID.Num)
	assert.Equal(Te, "HE2", r.Name)
}

func TestParseAtomPQR(Te *testing.T) {
	line := "ATOM      1  N   MET A   1      27.340  24.430   2.614 -0.3000 1.8240"
	r, err := parseAtom(line, chem.DefaultProfile(), true)
	require.NoError(Te, err)
	assert.InDelta(Te, -0.3, r.Charge, 1e-9)
	assert.InDelta(Te, 1.824, r.Radius, 1e-9)
	assert.Equal(Te, 1.0, r.Occupancy)
	assert.Equal(Te, 0.0, r.Bfactor)

	_, err = parseAtom(line[:55]+" junk  "+line[62:], chem.DefaultProfile(), true)
	assert.True(Te, errors.Is(err, chem.InvalidNumericField))
}

func TestParseAtomErrors(Te *testing.T) {
	good := atomLine("ATOM", 1, " N  ", ' ', "ALA", "A", 1, [3]float64{11.104, 13.207, 8.271}, 1, 20, "N")
	for name, c := range badLines(good) {
		_, err := parseAtom(c.line, chem.DefaultProfile(), false)
		require.Error(Te, err, name)
		assert.Equal(Te, c.kind, chem.KindOf(err), name)
	}
}

type badLine struct {
	line string
	kind chem.Kind
}

// badLines returns variations of the ATOM line good, each violating one
// of the conditions checked by parseAtom.
func badLines(good string) map[string]badLine {
	return map[string]badLine{
		"short":       {good[:40], chem.MalformedRecord},
		"blank name":  {good[:12] + "    " + good[16:], chem.MalformedRecord},
		"bad residue": {good[:22] + "  X1" + good[26:], chem.InvalidNumericField},
		"bad x":       {good[:30] + "  11.1x4" + good[38:], chem.InvalidNumericField},
		"bad y":       {good[:38] + "    ----" + good[46:], chem.InvalidNumericField},
		"blank z":     {good[:46] + "        " + good[54:], chem.InvalidNumericField},
	}
}

func TestParseAniso(Te *testing.T) {
	line := "ANISOU    1  N   ALA A   1     1000   2000   3000   -100      0     50       N"
	a, err := parseAniso(line)
	require.NoError(Te, err)
	assert.Equal(Te, 1, a.Serial)
	assert.Equal(Te, "N", a.Name)
	assert.InDeltaSlice(Te, []float64{0.1, 0.2, 0.3, -0.01, 0, 0.005}, a.U[:], 1e-12)

	_, err = parseAniso(line[:50])
	assert.True(Te, errors.Is(err, chem.MalformedRecord))
}

func TestFields(Te *testing.T) {
	assert.Equal(Te, "", cols("abc", 5, 8))
	assert.Equal(Te, "c", cols("abc", 2, 8))
	assert.Equal(Te, byte(' '), charAt("abc", 3))
	assert.Equal(Te, "  ab", padLeft("ab", 4))
	assert.Equal(Te, "ab  ", padRight("ab", 4))
	assert.Equal(Te, "99999", serialField(99999))
	assert.Equal(Te, "*****", serialField(100000))
	assert.Equal(Te, "   12", serialField(12))
}
