/*
 * fields.go, part of chemio.
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
)

//All column positions in this package are 0-based and ranges are half-open,
//so cols(line, 30, 38) gives the 8 characters of the X coordinate.

// cols returns line[start:end], clipped to the length of the line.
// If start is past the end of the line, it returns the empty string.
func cols(line string, start, end int) string {
	if start < 0 || start >= len(line) || end <= start {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// field is cols with the surrounding blanks removed.
func field(line string, start, end int) string {
	return strings.TrimSpace(cols(line, start, end))
}

// charAt returns the byte in column i, or a blank if the line is shorter.
func charAt(line string, i int) byte {
	if i < 0 || i >= len(line) {
		return ' '
	}
	return line[i]
}

// optChar returns 0 for blank columns, and the byte otherwise.
func optChar(line string, i int) byte {
	c := charAt(line, i)
	if c == ' ' || c == '\t' {
		return 0
	}
	return c
}

func atoi(line string, start, end int) (int, error) {
	return strconv.Atoi(field(line, start, end))
}

func atof(line string, start, end int) (float64, error) {
	return strconv.ParseFloat(field(line, start, end), 64)
}

// padLeft right-justifies s in a field of width w.
// s is not truncated if it is longer than w.
func padLeft(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}

// padRight left-justifies s in a field of width w.
// s is not truncated if it is longer than w.
func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

// fit returns s right-justified in w columns, or w asterisks if s does
// not fit.
func fit(s string, w int) string {
	if len(s) > w {
		return strings.Repeat("*", w)
	}
	return padLeft(s, w)
}

// serialField renders an atom serial number in a 5 column field.
func serialField(n int) string {
	return fit(strconv.Itoa(n), 5)
}

// lineBuf is an output line being filled column by column.
type lineBuf []byte

func newLine(width int) lineBuf {
	l := make(lineBuf, width)
	for i := range l {
		l[i] = ' '
	}
	return l
}

// put copies s starting at column start. s is cut if it goes past the line.
func (L lineBuf) put(start int, s string) {
	for i := 0; i < len(s) && start+i < len(L); i++ {
		L[start+i] = s[i]
	}
}

// putByte sets column i to c, leaving a blank if c is 0.
func (L lineBuf) putByte(i int, c byte) {
	if c == 0 {
		c = ' '
	}
	L[i] = c
}

// String returns the line without trailing blanks.
func (L lineBuf) String() string {
	return strings.TrimRight(string(L), " ")
}
