/*
 * dcd_write.go, part of chemio.
 *
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
 *
 */

package dcd

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
)

// WriterOptions control the output of a Writer.
type WriterOptions struct {
	//Write one of each Stepsize frames given to WNext. 0 and 1 mean all.
	Stepsize int
	//Byte order of the file. Little endian if nil.
	Order binary.ByteOrder
	Title string
}

// Writer writes DCD trajectories. Since the DCD header contains the
// number of frames, the output needs to be seekable, so the header can be
// updated after each frame.
type Writer struct {
	w        io.WriteSeeker
	closer   io.Closer
	filename string
	header   Header
	natoms   int
	stepsize int
	title    string
	calls    int //calls to WNext
	written  int
	started  bool
	buf      []byte
}

// NewWriter returns a Writer for trajectories of natoms atoms.
// Nothing is written to w until the first frame, or Close, is called.
func NewWriter(w io.WriteSeeker, natoms int, o WriterOptions) (*Writer, error) {
	if natoms <= 0 {
		return nil, fmt.Errorf("dcd.NewWriter: can't write trajectories with %d atoms", natoms)
	}
	W := &Writer{w: w, natoms: natoms, stepsize: o.Stepsize, title: o.Title}
	if W.stepsize < 1 {
		W.stepsize = 1
	}
	W.header.Order = o.Order
	if W.header.Order == nil {
		W.header.Order = binary.LittleEndian
	}
	return W, nil
}

// Create creates the file name and returns a Writer for it.
func Create(name string, natoms int, o WriterOptions) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	W, err := NewWriter(f, natoms, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	W.closer = f
	W.filename = name
	return W, nil
}

// Header returns the header of the trajectory being written. It is
// empty until the first frame is written.
func (W *Writer) Header() Header {
	return W.header
}

// Frames returns the number of frames written so far.
func (W *Writer) Frames() int {
	return W.written
}

func (W *Writer) writeError(err error, caller string) error {
	return chem.NewError(chem.NoKind, "DCD", err.Error(), caller).At(W.filename, 0)
}

// start writes the header. Whether the frames have a unit cell can't be
// changed afterwards.
func (W *Writer) start(ucell bool) error {
	order := W.header.Order
	W.header = newHeader(W.natoms, W.stepsize, ucell, W.title)
	W.header.Order = order
	W.buf = make([]byte, W.header.FrameSize)
	W.started = true
	if err := EncodeHeader(W.w, W.header, order); err != nil {
		return W.writeError(err, "start")
	}
	return nil
}

// WNext writes coords, and the unit cell, if not nil, as the next frame.
// Only one of each stepsize calls actually writes a frame. Either all the
// frames of a trajectory have a unit cell, or none has.
func (W *Writer) WNext(coords *v3.Matrix, cell *UnitCell) error {
	if coords == nil {
		return fmt.Errorf("dcd.WNext: got nil coordinates")
	}
	if coords.NVecs() != W.natoms {
		return chem.NewError(chem.AtomCountMismatch, "DCD", fmt.Sprintf("got %d atoms for a trajectory of %d", coords.NVecs(), W.natoms), "WNext").At(W.filename, 0)
	}
	if !W.started {
		if err := W.start(cell != nil); err != nil {
			return err
		}
	}
	if W.header.Ucell != (cell != nil) {
		return fmt.Errorf("dcd.WNext: the unit cell must be given for all frames or for none")
	}
	W.calls++
	if (W.calls-1)%W.stepsize != 0 {
		return nil
	}
	(frameDecoder{h: &W.header}).encode(W.buf, coords, cell)
	if _, err := W.w.Write(W.buf); err != nil {
		return W.writeError(err, "WNext")
	}
	W.written++
	return W.updateFrames()
}

// updateFrames puts the current number of frames in the header.
func (W *Writer) updateFrames() error {
	current, err := W.w.Seek(0, io.SeekCurrent) //we'll need it to go back
	if err != nil {
		return W.writeError(err, "updateFrames")
	}
	if _, err = W.w.Seek(8+4*iNSet, io.SeekStart); err != nil {
		return W.writeError(err, "updateFrames")
	}
	W.header.Icntrl[iNSet] = int32(W.written)
	if err := binary.Write(W.w, W.header.Order, W.header.Icntrl[iNSet]); err != nil {
		return W.writeError(err, "updateFrames")
	}
	if _, err = W.w.Seek(current, io.SeekStart); err != nil {
		return W.writeError(err, "updateFrames")
	}
	return nil
}

// Close writes the header if no frame was written, and closes the
// file, if the Writer was created with Create.
func (W *Writer) Close() error {
	var err error
	if !W.started {
		err = W.start(false)
	}
	if W.closer != nil {
		if cerr := W.closer.Close(); err == nil {
			err = cerr
		}
		W.closer = nil
	}
	return err
}
