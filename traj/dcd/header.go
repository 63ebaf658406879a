/*
 * header.go, part of chemio.
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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chem "github.com/rmera/chemio"
)

const (
	magic      = "CORD"
	maxTitle   = 80      //bytes per title line
	maxCntrl   = 1000000 //control integers above this mean the block was decoded in the wrong byte order
	firstBlock = 84      //size of the magic+control block
	firstLen   = firstBlock + 8
	cellBlock  = 48 //six float64
)

// Positions in the control block.
const (
	iNSet    = 0  //number of frames
	iStart   = 1  //first step
	iNSavc   = 2  //steps between frames
	iFixed   = 8  //number of fixed atoms
	iDelta   = 9  //time step, as a float32
	iUcell   = 10 //1 if there is a unit cell block in each frame
	i4D      = 11 //1 if there is a 4th dimension block
	iVersion = 19 //CHARMM version, 0 for X-PLOR files
)

// Header is the decoded header of a DCD file.
type Header struct {
	Icntrl [20]int32
	Title  string
	Natoms int
	Order  binary.ByteOrder //the byte order of the file
	Swap   bool             //the file's byte order is not the native one
	Ucell  bool
	Gap    bool //always true: every block is surrounded by its length
	Charmm bool
	//Offset of the first frame, and size in bytes of each frame.
	FrameStart int64
	FrameSize  int64
}

// NSet returns the number of frames declared in the header. Some
// programs leave it as 0.
func (H *Header) NSet() int {
	return int(H.Icntrl[iNSet])
}

// Fixed returns the number of fixed atoms declared in the header.
func (H *Header) Fixed() int {
	return int(H.Icntrl[iFixed])
}

func (H *Header) setSizes() {
	H.FrameSize = 3 * (8 + 4*int64(H.Natoms))
	if H.Ucell {
		H.FrameSize += 8 + cellBlock
	}
}

func nativeOrder() (native, swapped binary.ByteOrder) {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian, binary.BigEndian
	}
	return binary.BigEndian, binary.LittleEndian
}

func headerError(kind chem.Kind, caller, format string, a ...interface{}) *chem.CError {
	return chem.NewError(kind, "DCD", fmt.Sprintf(format, a...), caller)
}

// plausible tells whether the first block of a DCD file makes sense when
// decoded with the byte order o.
func plausible(raw []byte, o binary.ByteOrder) bool {
	if int32(o.Uint32(raw)) != firstBlock {
		return false
	}
	nset := int32(o.Uint32(raw[8+4*iNSet:]))
	start := int32(o.Uint32(raw[8+4*iStart:]))
	fixed := int32(o.Uint32(raw[8+4*iFixed:]))
	return nset >= 0 && start >= 0 && start <= maxCntrl && fixed >= 0 && fixed <= maxCntrl
}

// DetectOrder decodes the first block of a DCD file (the first 92 bytes:
// the length marker, the magic tag and the 20 control integers). It tries
// the native byte order first, then the other one. swap is true if the
// file is not in the native order. The returned header only has the
// control block and the flags derived from it.
func DetectOrder(raw []byte) (swap bool, h Header, err error) {
	if len(raw) < firstLen {
		return false, h, headerError(chem.FormatIdentificationFailure, "DetectOrder", "header has %d bytes, at least %d needed", len(raw), firstLen)
	}
	if string(raw[4:8]) != magic {
		return false, h, headerError(chem.FormatIdentificationFailure, "DetectOrder", "wrong magic tag %q", raw[4:8])
	}
	native, swapped := nativeOrder()
	switch {
	case plausible(raw, native):
		h.Order = native
	case plausible(raw, swapped):
		h.Order = swapped
		h.Swap = true
	default:
		return false, h, headerError(chem.FormatIdentificationFailure, "DetectOrder", "control block is not plausible in either byte order")
	}
	for i := range h.Icntrl {
		h.Icntrl[i] = int32(h.Order.Uint32(raw[8+4*i:]))
	}
	if end := int32(h.Order.Uint32(raw[firstBlock+4:])); end != firstBlock {
		return h.Swap, h, headerError(chem.MalformedRecord, "DetectOrder", "control block closed by %d, expected %d", end, firstBlock)
	}
	h.Gap = true
	h.Charmm = h.Icntrl[iVersion] != 0
	//X-PLOR files store the time step as a float64 over slots 9 and 10,
	//so those don't have the CHARMM flags.
	h.Ucell = h.Charmm && h.Icntrl[iUcell] != 0
	return h.Swap, h, nil
}

// readHeader reads and decodes a DCD header from r, leaving r at the
// beginning of the first frame.
func readHeader(r io.Reader) (Header, error) {
	raw := make([]byte, firstLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		var h Header
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, headerError(chem.FormatIdentificationFailure, "readHeader", "input too short for a DCD header")
		}
		return h, err
	}
	_, h, err := DetectOrder(raw)
	if err != nil {
		return h, err
	}
	if h.Charmm && h.Icntrl[i4D] != 0 {
		return h, headerError(chem.MalformedRecord, "readHeader", "4-dimensional trajectories are not supported")
	}
	if h.Fixed() > 0 {
		return h, headerError(chem.MalformedRecord, "readHeader", "trajectories with %d fixed atoms are not supported", h.Fixed())
	}
	o := h.Order
	var ints [2]int32
	if err := binary.Read(r, o, &ints); err != nil {
		return h, premature("readHeader", err)
	}
	titlelen, ntitle := ints[0], ints[1]
	if ntitle < 0 || titlelen != 4+maxTitle*ntitle {
		return h, headerError(chem.MalformedRecord, "readHeader", "title block of %d bytes for %d lines", titlelen, ntitle)
	}
	title := make([]byte, maxTitle*ntitle+4)
	if _, err := io.ReadFull(r, title); err != nil {
		return h, premature("readHeader", err)
	}
	if end := int32(o.Uint32(title[len(title)-4:])); end != titlelen {
		return h, headerError(chem.MalformedRecord, "readHeader", "title block closed by %d, expected %d", end, titlelen)
	}
	h.Title = strings.TrimRight(string(title[:len(title)-4]), "\x00 ")
	var natoms [3]int32
	if err := binary.Read(r, o, &natoms); err != nil {
		return h, premature("readHeader", err)
	}
	if natoms[0] != 4 || natoms[2] != 4 {
		return h, headerError(chem.MalformedRecord, "readHeader", "atom number block is not bracketed by 4s")
	}
	if natoms[1] <= 0 {
		return h, headerError(chem.FormatIdentificationFailure, "readHeader", "implausible atom number %d", natoms[1])
	}
	h.Natoms = int(natoms[1])
	h.FrameStart = int64(firstLen + 8 + len(title) + 12)
	h.setSizes()
	return h, nil
}

func premature(caller string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return headerError(chem.PrematureEnd, caller, "input ended too soon")
	}
	return err
}

// EncodeHeader writes h to w in the byte order o. Natoms and Icntrl
// are used as given. The title is padded to a multiple of 80 bytes.
func EncodeHeader(w io.Writer, h Header, o binary.ByteOrder) error {
	ntitle := titleLines(h.Title)
	var b bytes.Buffer
	put := func(v int32) {
		var tmp [4]byte
		o.PutUint32(tmp[:], uint32(v))
		b.Write(tmp[:])
	}
	put(firstBlock)
	b.WriteString(magic)
	for _, v := range h.Icntrl {
		put(v)
	}
	put(firstBlock)
	put(int32(4 + maxTitle*ntitle))
	put(int32(ntitle))
	title := []byte(h.Title)
	for len(title) < maxTitle*ntitle {
		title = append(title, ' ')
	}
	b.Write(title)
	put(int32(4 + maxTitle*ntitle))
	put(4)
	put(int32(h.Natoms))
	put(4)
	_, err := w.Write(b.Bytes())
	return err
}

// newHeader returns the header used for writing a trajectory with
// natoms atoms.
func newHeader(natoms int, stepsize int, ucell bool, title string) Header {
	var h Header
	h.Natoms = natoms
	h.Title = title
	h.Icntrl[iNSavc] = int32(stepsize)
	h.Icntrl[iDelta] = int32(math.Float32bits(1))
	if ucell {
		h.Icntrl[iUcell] = 1
	}
	h.Icntrl[iVersion] = 24 //pretend to be CHARMM 24
	h.Charmm, h.Ucell, h.Gap = true, ucell, true
	h.FrameStart = int64(firstLen + 8 + maxTitle*titleLines(title) + 4 + 12)
	h.setSizes()
	return h
}

// titleLines returns the number of 80-byte lines needed for title. There
// is always at least one.
func titleLines(title string) int {
	n := (len(title) + maxTitle - 1) / maxTitle
	if n == 0 {
		n = 1
	}
	return n
}
