/*
 * frame.go, part of chemio.
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

package dcd

import (
	"math"

	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
)

// UnitCell is the box of a frame. Depending on the program that wrote
// the file, the "Cos" fields contain the cosines of the angles or the angles
// in degrees. They are returned as they are in the file.
type UnitCell struct {
	A, B, C                     float64
	CosAlpha, CosBeta, CosGamma float64
}

// Frame is one snapshot of a trajectory.
type Frame struct {
	Coords *v3.Matrix
	Cell   *UnitCell //nil if the trajectory has no unit cell information
}

func newFrame(h *Header) *Frame {
	f := &Frame{Coords: v3.Zeros(h.Natoms)}
	if h.Ucell {
		f.Cell = new(UnitCell)
	}
	return f
}

// frameDecoder decodes frames with the layout and byte order of one header.
type frameDecoder struct {
	h *Header
}

// block checks the length markers around the block of size bytes that starts
// at buf[off+4], and returns the block.
func (F frameDecoder) block(buf []byte, off int, size int) ([]byte, error) {
	o := F.h.Order
	if int(int32(o.Uint32(buf[off:]))) != size || int(int32(o.Uint32(buf[off+4+size:]))) != size {
		return nil, headerError(chem.MalformedRecord, "decodeFrame", "frame block not bracketed by its length %d", size)
	}
	return buf[off+4 : off+4+size], nil
}

// decode fills fr with the frame in buf, which must have h.FrameSize bytes.
// The unit cell block is stored in the order A, gamma, B, beta, alpha, C.
func (F frameDecoder) decode(buf []byte, fr *Frame) error {
	h := F.h
	o := h.Order
	off := 0
	if h.Ucell {
		cell, err := F.block(buf, off, cellBlock)
		if err != nil {
			return err
		}
		var v [6]float64
		for i := range v {
			v[i] = math.Float64frombits(o.Uint64(cell[8*i:]))
		}
		if fr.Cell == nil {
			fr.Cell = new(UnitCell)
		}
		*fr.Cell = UnitCell{A: v[0], CosGamma: v[1], B: v[2], CosBeta: v[3], CosAlpha: v[4], C: v[5]}
		off += 8 + cellBlock
	}
	size := 4 * h.Natoms
	for axis := 0; axis < 3; axis++ {
		data, err := F.block(buf, off, size)
		if err != nil {
			return err
		}
		for i := 0; i < h.Natoms; i++ {
			fr.Coords.Set(i, axis, float64(math.Float32frombits(o.Uint32(data[4*i:]))))
		}
		off += 8 + size
	}
	return nil
}

// encode puts coords and cell in buf, which must have h.FrameSize bytes.
func (F frameDecoder) encode(buf []byte, coords *v3.Matrix, cell *UnitCell) {
	h := F.h
	o := h.Order
	off := 0
	mark := func(v int) {
		o.PutUint32(buf[off:], uint32(int32(v)))
		off += 4
	}
	if h.Ucell {
		var c UnitCell
		if cell != nil {
			c = *cell
		}
		mark(cellBlock)
		for _, v := range []float64{c.A, c.CosGamma, c.B, c.CosBeta, c.CosAlpha, c.C} {
			o.PutUint64(buf[off:], math.Float64bits(v))
			off += 8
		}
		mark(cellBlock)
	}
	size := 4 * h.Natoms
	for axis := 0; axis < 3; axis++ {
		mark(size)
		for i := 0; i < h.Natoms; i++ {
			o.PutUint32(buf[off:], math.Float32bits(float32(coords.At(i, axis))))
			off += 4
		}
		mark(size)
	}
}
