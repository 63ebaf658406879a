/*
 * annotations.go, part of chemio.
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
	"strconv"
	"strings"

	chem "github.com/rmera/chemio"
)

// compndState remembers where a COMPND record is between physical lines.
type compndState struct {
	lastKey   string
	continues bool //the last value ended with a comma
	skipping  bool //lastKey is not one we interpret
	molID     int
	chainMol  map[string]int
	order     []string //chain names in the order they were declared
}

// parse handles one COMPND line. Only the MOL_ID and CHAIN keys are
// interpreted. A value that ends in a comma continues in the next line,
// under the same key, even if that line contains a colon.
func (C *compndState) parse(line string) error {
	text := field(line, 10, 80)
	if text == "" {
		return nil
	}
	key, value := C.lastKey, text
	if !C.continues {
		i := strings.IndexByte(text, ':')
		if i < 0 {
			//old style free text COMPND
			C.lastKey = ""
			C.skipping = true
			return nil
		}
		key = strings.ToUpper(strings.TrimSpace(text[:i]))
		value = strings.TrimSpace(text[i+1:])
		C.lastKey = key
		C.skipping = key != "MOL_ID" && key != "CHAIN"
	}
	C.continues = strings.HasSuffix(value, ",")
	if C.skipping {
		return nil
	}
	value = strings.TrimRight(value, ",;")
	switch key {
	case "MOL_ID":
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return badNumber("compndState.parse", "MOL_ID %q", value)
		}
		C.molID = id
	case "CHAIN":
		if C.chainMol == nil {
			C.chainMol = make(map[string]int)
		}
		for _, c := range strings.Split(value, ",") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if _, ok := C.chainMol[c]; !ok {
				C.order = append(C.order, c)
			}
			C.chainMol[c] = C.molID
		}
	}
	return nil
}

// parseSeqres returns the chain of a SEQRES line and the one-letter
// codes of its residues. Names unknown to dict give '?'.
func parseSeqres(line string, dict chem.CompoundDictionary) (string, []byte, error) {
	if len(line) < 22 {
		return "", nil, malformed("parseSeqres", "SEQRES line has %d columns, at least 22 needed", len(line))
	}
	chain := field(line, 11, 12)
	seq := make([]byte, 0, 14)
	for i := 0; i < 14; i++ {
		start := 19 + 4*i
		name := field(line, start, start+3)
		if name == "" {
			continue
		}
		c, ok := dict.OneLetter(name)
		if !ok {
			c = '?'
		}
		seq = append(seq, c)
	}
	return chain, seq, nil
}

// ssRange is a HELIX or SHEET declaration. It is applied after the whole
// file has been read.
type ssRange struct {
	kind       chem.SecondaryStructure
	chain      string
	start, end chem.ResNum
	line       int
}

// ssColumns has the columns of the initial chain, initial residue
// number and insertion code, and terminal residue number and insertion code.
type ssColumns struct {
	chain, start, startIcode, end, endIcode int
}

var helixCols = ssColumns{chain: 19, start: 21, startIcode: 25, end: 33, endIcode: 37}
var sheetCols = ssColumns{chain: 21, start: 22, startIcode: 26, end: 33, endIcode: 37}

func parseSS(line string, kind chem.SecondaryStructure, c ssColumns) (ssRange, error) {
	var r ssRange
	var err error
	if len(line) < 38 {
		return r, malformed("parseSS", "HELIX/SHEET line has %d columns, at least 38 needed", len(line))
	}
	r.kind = kind
	r.chain = field(line, c.chain, c.chain+1)
	if r.start.Num, err = atoi(line, c.start, c.start+4); err != nil {
		return r, badNumber("parseSS", "initial residue %q", cols(line, c.start, c.start+4))
	}
	r.start.ICode = optChar(line, c.startIcode)
	if r.end.Num, err = atoi(line, c.end, c.end+4); err != nil {
		return r, badNumber("parseSS", "terminal residue %q", cols(line, c.end, c.end+4))
	}
	r.end.ICode = optChar(line, c.endIcode)
	return r, nil
}

func parseHelix(line string) (ssRange, error) {
	return parseSS(line, chem.Helix, helixCols)
}

func parseSheet(line string) (ssRange, error) {
	return parseSS(line, chem.Sheet, sheetCols)
}

// hetSite is a residue declared in a HET record.
type hetSite struct {
	name  string
	chain string
	id    chem.ResNum
	line  int
}

func parseHet(line string) (hetSite, error) {
	var h hetSite
	var err error
	if len(line) < 17 {
		return h, malformed("parseHet", "HET line has %d columns, at least 17 needed", len(line))
	}
	h.name = field(line, 7, 10)
	h.chain = field(line, 12, 13)
	if h.id.Num, err = atoi(line, 13, 17); err != nil {
		return h, badNumber("parseHet", "residue number %q", cols(line, 13, 17))
	}
	h.id.ICode = optChar(line, 17)
	return h, nil
}
