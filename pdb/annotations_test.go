/*
 * annotations_test.go, part of chemio.
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
	"testing"

	chem "github.com/rmera/chemio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompndContinuation(Te *testing.T) {
	var C compndState
	for _, l := range []string{
		"COMPND    MOL_ID: 1;",
		"COMPND   2 MOLECULE: HEMOGLOBIN ALPHA,",
		"COMPND   3 CHAIN: Z;", //continues MOLECULE, so it is not a chain
		"COMPND   4 CHAIN: A,",
		"COMPND   5 B;",
		"COMPND   6 ENGINEERED: YES;",
		"COMPND   7 MOL_ID: 2;",
		"COMPND   8 CHAIN: C, D;",
	} {
		require.NoError(Te, C.parse(l))
	}
	assert.Equal(Te, map[string]int{"A": 1, "B": 1, "C": 2, "D": 2}, C.chainMol)
	assert.Equal(Te, []string{"A", "B", "C", "D"}, C.order)

	assert.Equal(Te, chem.InvalidNumericField, chem.KindOf(C.parse("COMPND    MOL_ID: ONE;")))
}

func TestSeqres(Te *testing.T) {
	chain, seq, err := parseSeqres("SEQRES   1 A    3  ALA GLY XYZ", chem.DefaultDictionary)
	require.NoError(Te, err)
	assert.Equal(Te, "A", chain)
	assert.Equal(Te, "AG?", string(seq))

	full := "SEQRES   2 B   28  MET VAL LEU SER PRO ALA ASP LYS THR ASN VAL LYS ALA ALA TRP"
	_, seq, err = parseSeqres(full, chem.DefaultDictionary)
	require.NoError(Te, err)
	assert.Equal(Te, "MVLSPADKTNVKAA", string(seq), "at most 14 names per line")

	_, _, err = parseSeqres("SEQRES   1 A", chem.DefaultDictionary)
	assert.Equal(Te, chem.MalformedRecord, chem.KindOf(err))
}

func TestHelixSheetHet(Te *testing.T) {
	h, err := parseHelix("HELIX    1   1 ALA A    1  GLY A    2  1                                    2")
	require.NoError(Te, err)
	assert.Equal(Te, ssRange{kind: chem.Helix, chain: "A", start: chem.ResNum{Num: 1}, end: chem.ResNum{Num: 2}}, h)

	s, err := parseSheet("SHEET    1   A 2 GLY B  10  SER B  11  0")
	require.NoError(Te, err)
	assert.Equal(Te, "B", s.chain)
	assert.Equal(Te, 10, s.start.Num)
	assert.Equal(Te, 11, s.end.Num)
	assert.Equal(Te, chem.Sheet, s.kind)

	_, err = parseHelix("HELIX    1   1 ALA A    X  GLY A    2  1")
	assert.Equal(Te, chem.InvalidNumericField, chem.KindOf(err))

	het, err := parseHet("HET    HEM  C   1      43")
	require.NoError(Te, err)
	assert.Equal(Te, "HEM", het.name)
	assert.Equal(Te, "C", het.chain)
	assert.Equal(Te, chem.ResNum{Num: 1}, het.id)
}
