/*
 * gocoords.go, part of chemio.
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

	"gonum.org/v1/gonum/floats"
)

//SwapVecs swaps the vectors i and j in F.
func (F *Matrix) SwapVecs(i, j int) {
	if i >= F.NVecs() || j >= F.NVecs() {
		panic("Indexes out of range")
	}
	vi := F.Vec(i)
	F.SetVec(i, F.Vec(j))
	F.SetVec(j, vi)
}

//flat returns the data of F as a contiguous slice. If F is not
//contiguous (a view) the data is copied.
func (F *Matrix) flat() []float64 {
	raw := F.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	ret := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		ret = append(ret, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return ret
}

//RMSD returns the root mean square deviation between the vectors of A and B,
//without superimposing them first.
func RMSD(A, B *Matrix) (float64, error) {
	n := A.NVecs()
	if n != B.NVecs() {
		return 0, Error{"Matrices of different sizes", []string{"RMSD"}, true}
	}
	d := floats.Distance(A.flat(), B.flat(), 2)
	return d / math.Sqrt(float64(n)), nil
}
