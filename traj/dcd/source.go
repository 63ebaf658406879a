/*
 * source.go, part of chemio.
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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	chem "github.com/rmera/chemio"
	v3 "github.com/rmera/chemio/v3"
)

// CoordSource gives access to the frames of a DCD trajectory, either
// from memory (Eager) or from the file, on demand (Lazy). A CoordSource is
// also a chem.Traj, for reading the frames in order.
type CoordSource interface {
	chem.Traj
	Header() Header
	//NFrames returns the number of frames available, after the stride.
	NFrames() (int, error)
	//Frame returns frame i (counted after the stride). The frame returned
	//by a Lazy source is overwritten by the next call.
	Frame(i int) (*Frame, error)
	Close() error
}

// Options control how a trajectory is opened.
type Options struct {
	//Keep one of each Stride frames. 0 and 1 mean every frame.
	Stride int
	//Read frames only when asked for, instead of loading all of them.
	//Ignored for gzipped files, which are always read eagerly.
	Lazy bool
	//With Lazy, read the file through a memory map.
	Mmap bool
}

func (o Options) stride() int {
	if o.Stride < 1 {
		return 1
	}
	return o.Stride
}

// Open opens the DCD file name. natoms is the number of atoms of the
// topology that goes with the trajectory. A trajectory with a different
// number of atoms is an error. If natoms is 0 the check is not done.
func Open(name string, natoms int, o Options) (CoordSource, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	var head [2]byte
	n, _ := f.ReadAt(head[:], 0)
	gzipped := n == 2 && head[0] == 0x1f && head[1] == 0x8b
	if gzipped || !o.Lazy {
		defer f.Close()
		var r io.Reader = f
		if gzipped {
			if r, _, err = chem.MaybeGzip(f); err != nil {
				return nil, err
			}
		}
		E, err := NewEager(r, natoms, o.stride())
		if err != nil {
			return nil, fileError(err, name)
		}
		E.filename = name
		return E, nil
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	var src io.ReaderAt = f
	var closer io.Closer = f
	if o.Mmap {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			f.Close()
			return nil, err
		}
		src = bytes.NewReader(m)
		closer = &mmapCloser{m: m, f: f}
	}
	L, err := NewLazy(src, info.Size(), natoms, o.stride())
	if err != nil {
		closer.Close()
		return nil, fileError(err, name)
	}
	L.closer = closer
	L.filename = name
	return L, nil
}

type mmapCloser struct {
	m mmap.MMap
	f *os.File
}

func (M *mmapCloser) Close() error {
	return errors.Join(M.m.Unmap(), M.f.Close())
}

func fileError(err error, name string) error {
	var e *chem.CError
	if errors.As(err, &e) {
		e.At(name, 0)
	}
	return chem.ErrDecorate(err, "dcd.Open")
}

func checkAtoms(h *Header, natoms int) error {
	if natoms > 0 && h.Natoms != natoms {
		return headerError(chem.AtomCountMismatch, "checkAtoms", "trajectory has %d atoms, topology has %d", h.Natoms, natoms)
	}
	return nil
}

// traj implements chem.Traj on top of the Frame method of a source.
type traj struct {
	frame    func(int) (*Frame, error)
	nframes  func() (int, error)
	natoms   int
	current  int
	ended    bool
	filename string
}

func (T *traj) Readable() bool {
	if T.ended {
		return false
	}
	n, err := T.nframes()
	return err == nil && T.current < n
}

func (T *traj) Len() int {
	return T.natoms
}

// Next puts the next frame in output, which can be nil to skip the frame.
// If a box slice is given and the trajectory has a unit cell, the first 6
// elements of box are set to A, B, C and the three angle fields.
// A frame cut short by the end of the file ends the trajectory.
func (T *traj) Next(output *v3.Matrix, box ...[]float64) error {
	if !T.Readable() {
		T.ended = true
		return chem.NewLastFrameError(T.filename, "DCD", "Next")
	}
	fr, err := T.frame(T.current)
	if chem.KindOf(err) == chem.PrematureEnd {
		T.ended = true
		return chem.NewLastFrameError(T.filename, "DCD", "Next")
	}
	if err != nil {
		return chem.ErrDecorate(err, "Next")
	}
	T.current++
	if output != nil {
		output.Copy(fr.Coords)
	}
	if len(box) > 0 && len(box[0]) >= 6 && fr.Cell != nil {
		c := fr.Cell
		copy(box[0], []float64{c.A, c.B, c.C, c.CosAlpha, c.CosBeta, c.CosGamma})
	}
	return nil
}

// Eager holds every frame of a trajectory in memory.
type Eager struct {
	traj
	header Header
	frames []*Frame
}

// NewEager reads the whole trajectory in r, keeping one of each stride
// frames. If the header declares the number of frames, no more than
// that are read. Otherwise frames are read until the input ends. A frame
// cut short by the end of the input is discarded.
func NewEager(r io.Reader, natoms int, stride int) (*Eager, error) {
	if stride < 1 {
		stride = 1
	}
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := checkAtoms(&h, natoms); err != nil {
		return nil, err
	}
	E := &Eager{header: h}
	E.traj = traj{frame: E.Frame, nframes: E.NFrames, natoms: h.Natoms}
	dec := frameDecoder{h: &E.header}
	buf := make([]byte, h.FrameSize)
	limit := -1
	if h.NSet() > 0 {
		limit = (h.NSet() + stride - 1) / stride
	}
	for limit < 0 || len(E.frames) < limit {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, err
		}
		fr := newFrame(&E.header)
		if err := dec.decode(buf, fr); err != nil {
			return nil, err
		}
		E.frames = append(E.frames, fr)
		if err := skip(r, int64(stride-1)*h.FrameSize); err != nil {
			break
		}
	}
	return E, nil
}

// skip advances r by n bytes, with Seek if r allows it.
func skip(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(n, io.SeekCurrent)
		return err
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

func (E *Eager) Header() Header { return E.header }

func (E *Eager) NFrames() (int, error) { return len(E.frames), nil }

func (E *Eager) Frame(i int) (*Frame, error) {
	if i < 0 || i >= len(E.frames) {
		return nil, fmt.Errorf("frame %d requested from a trajectory with %d frames", i, len(E.frames))
	}
	return E.frames[i], nil
}

func (E *Eager) Close() error {
	E.frames = nil
	return nil
}

// Lazy reads each frame from its source when it is requested.
// Only one frame is kept in memory at any time.
type Lazy struct {
	traj
	header Header
	src    io.ReaderAt
	size   int64
	stride int
	count  int //-1 until computed
	buf    []byte
	last   *Frame
	closer io.Closer
}

// NewLazy reads the header of the trajectory in src, which has size bytes.
func NewLazy(src io.ReaderAt, size int64, natoms int, stride int) (*Lazy, error) {
	if stride < 1 {
		stride = 1
	}
	h, err := readHeader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, err
	}
	if err := checkAtoms(&h, natoms); err != nil {
		return nil, err
	}
	L := &Lazy{header: h, src: src, size: size, stride: stride, count: -1}
	L.traj = traj{frame: L.Frame, nframes: L.NFrames, natoms: h.Natoms}
	return L, nil
}

func (L *Lazy) Header() Header { return L.header }

// NFrames returns the declared number of frames divided by the stride,
// rounded up. If the header doesn't declare the number of frames, it is
// obtained from the size of the source.
func (L *Lazy) NFrames() (int, error) {
	if L.count >= 0 {
		return L.count, nil
	}
	n := L.header.NSet()
	if n == 0 {
		n = int((L.size - L.header.FrameStart) / L.header.FrameSize)
		if n < 0 {
			n = 0
		}
	}
	L.count = (n + L.stride - 1) / L.stride
	return L.count, nil
}

// Offset returns the position of frame i in the source.
func (L *Lazy) Offset(i int) int64 {
	return L.header.FrameStart + int64(i)*int64(L.stride)*L.header.FrameSize
}

func (L *Lazy) Frame(i int) (*Frame, error) {
	n, _ := L.NFrames()
	if i < 0 || i >= n {
		return nil, fmt.Errorf("frame %d requested from a trajectory with %d frames", i, n)
	}
	if L.buf == nil {
		L.buf = make([]byte, L.header.FrameSize)
		L.last = newFrame(&L.header)
	}
	read, err := L.src.ReadAt(L.buf, L.Offset(i))
	if read < len(L.buf) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, headerError(chem.PrematureEnd, "Lazy.Frame", "frame %d is incomplete", i)
		}
		return nil, err
	}
	if err := (frameDecoder{h: &L.header}).decode(L.buf, L.last); err != nil {
		return nil, err
	}
	return L.last, nil
}

func (L *Lazy) Close() error {
	if L.closer == nil {
		return nil
	}
	err := L.closer.Close()
	L.closer = nil
	return err
}
