/*
 * errors.go, part of chemio.
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

package chem

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the problems a codec can find in its input.
// A Kind is itself an error, so errors.Is(err, chem.AtomCountMismatch) works
// on any error returned by the codecs.
type Kind int

const (
	NoKind Kind = iota
	MalformedRecord
	InvalidNumericField
	FormatIdentificationFailure
	AtomCountMismatch
	PrematureEnd
	DuplicateAtom
	ResidueIdentityConflict
)

var kindNames = [...]string{
	"unclassified error",
	"malformed record",
	"invalid numeric field",
	"format identification failure",
	"atom count mismatch",
	"premature end of input",
	"duplicate atom",
	"residue identity conflict",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[0]
	}
	return kindNames[k]
}

func (k Kind) Error() string { return k.String() }

// AlwaysFatal returns true for the kinds that mean the wrong codec is being
// used. Those are never downgraded to warnings, fault-tolerant or not.
func (k Kind) AlwaysFatal() bool {
	return k == FormatIdentificationFailure || k == AtomCountMismatch
}

// CError is the error type returned by all the codecs in chemio.
// It fulfills Error and TrajError.
type CError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //1-based line number for text formats, 0 if not relevant
	format   string
	kind     Kind
	deco     []string
	critical bool
}

// NewError returns a critical error of the given kind, raised by caller
// while processing a file in the given format.
func NewError(kind Kind, format, message, caller string) *CError {
	return &CError{message: message, format: format, kind: kind, deco: []string{caller}, critical: true}
}

// At sets the file name and line where the error was found, and
// returns the receiver.
func (E *CError) At(filename string, line int) *CError {
	E.filename = filename
	E.line = line
	return E
}

func (E *CError) Error() string {
	var b strings.Builder
	b.WriteString(E.format)
	if E.filename != "" {
		fmt.Fprintf(&b, " file %s", E.filename)
	}
	if E.line > 0 {
		fmt.Fprintf(&b, " line %d", E.line)
	}
	fmt.Fprintf(&b, ": %s: %s", E.kind, E.message)
	return b.String()
}

// Decorate adds dec to the list of functions the error went through
// and returns the list.
func (E *CError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

func (E *CError) Kind() Kind { return E.kind }

func (E *CError) Line() int { return E.line }

func (E *CError) FileName() string { return E.filename }

func (E *CError) Format() string { return E.format }

func (E *CError) Critical() bool { return E.critical }

// Is allows errors.Is to match a CError against its Kind.
func (E *CError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == E.kind
}

// KindOf returns the Kind of err, or NoKind if err is not a CError.
func KindOf(err error) Kind {
	var e *CError
	if errors.As(err, &e) {
		return e.kind
	}
	return NoKind
}

// ErrDecorate adds caller to the decoration of err if err implements Error,
// and returns err. Other errors are returned untouched.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
	format   string
}

// NewLastFrameError returns the harmless error that signals that a trajectory
// has no more frames to give.
func NewLastFrameError(filename, format, caller string) LastFrameError {
	return &lastFrameError{fileName: filename, format: format, deco: []string{caller}}
}

//lastFrameError does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return E.format }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var e LastFrameError
	return errors.As(err, &e)
}
