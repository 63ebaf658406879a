/*
 * v3_test.go, part of chemio.
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

package v3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(t, err)

	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, A.NVecs())
	assert.Equal(t, [3]float64{4, 5, 6}, A.Vec(1))

	view := A.VecView(1)
	view.Set(0, 0, 100)
	assert.Equal(t, 100.0, A.At(1, 0), "a VecView shares data with its matrix")
}

func TestSwapAndClone(t *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	B := A.Clone()
	A.SwapVecs(0, 2)
	assert.Equal(t, [3]float64{7, 8, 9}, A.Vec(0))
	assert.Equal(t, [3]float64{1, 2, 3}, B.Vec(0), "Clone must not share data")
}

func TestRMSD(t *testing.T) {
	A := Zeros(4)
	B := Zeros(4)
	for i := 0; i < 4; i++ {
		B.SetVec(i, [3]float64{1, 0, 0})
	}
	r, err := RMSD(A, B)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	//views are not contiguous.
	r, err = RMSD(A.VecView(1), B.VecView(2))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	_, err = RMSD(A, Zeros(3))
	assert.Error(t, err)
	assert.False(t, math.IsNaN(r))
}
