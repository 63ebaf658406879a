/*
 * files.go, part of chemio.
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

package chem

import (
	"bufio"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// gzReadCloser closes the decompressor, and then the underlying file.
type gzReadCloser struct {
	zrdr *gzip.Reader
	rdr  io.Reader
	fp   io.Closer
}

func (G *gzReadCloser) Read(p []byte) (int, error) {
	if G.zrdr != nil {
		return G.zrdr.Read(p)
	}
	return G.rdr.Read(p)
}

func (G *gzReadCloser) Close() error {
	var err1, err2 error
	if G.zrdr != nil {
		err1 = G.zrdr.Close()
	}
	if G.fp != nil {
		err2 = G.fp.Close()
	}
	return errors.Join(err1, err2)
}

// MaybeGzip looks at the first bytes of r, and if they are the gzip magic
// number, returns a reader that decompresses r. Otherwise it returns a
// reader with the same data as r. The second value is true if r was compressed.
func MaybeGzip(r io.Reader) (io.Reader, bool, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, err
	}
	if len(head) == len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		z, err := gzip.NewReader(br)
		if err != nil {
			return nil, true, err
		}
		return z, true, nil
	}
	return br, false, nil
}

// OpenFile opens the file name for reading. Gzip-compressed files are
// decompressed transparently. Closing the returned value closes the file.
func OpenFile(name string) (io.ReadCloser, bool, error) {
	fp, err := os.Open(name)
	if err != nil {
		return nil, false, err
	}
	r, compressed, err := MaybeGzip(fp)
	if err != nil {
		fp.Close()
		return nil, compressed, err
	}
	ret := &gzReadCloser{rdr: r, fp: fp}
	if z, ok := r.(*gzip.Reader); ok {
		ret.zrdr = z
	}
	return ret, compressed, nil
}

// Extension returns the lower case extension of name, without the dot,
// ignoring a final .gz (so "a.pqr.gz" gives "pqr").
func Extension(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
