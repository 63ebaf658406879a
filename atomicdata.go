/*
 * atomicdata.go, part of chemio.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
	"fmt"
	"strings"
)

//A map for assigning mass to elements.
//Note that just common "bio-elements" and ions are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"D":  2.014,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"Li": 6.94,
	"K":  39.1,
	"Rb": 85.47,
	"Cs": 132.91,
	"Ca": 40.08,
	"Sr": 87.62,
	"Ba": 137.33,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Ni": 58.69,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Mo": 95.95,
	"W":  183.84,
	"V":  50.94,
	"Cd": 112.41,
	"Hg": 200.59,
	"Pt": 195.08,
	"Au": 196.97,
	"Ag": 107.87,
	"Al": 26.98,
	"As": 74.92,
	"Si": 28.08,
	"Be": 9.012,
	"B":  10.81,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map for assigning van der Waals radii to elements
//Values from 10.1021/j100785a001 and 10.1021/jp8111556
//metal radii from 10.1023/A:1011625728803
//Note that just common "bio-elements" are present
var symbolVdwrad = map[string]float64{
	"H":  1.10,
	"C":  1.70,
	"O":  1.52,
	"N":  1.55,
	"P":  1.80,
	"S":  1.80,
	"Se": 1.90,
	"K":  2.75,
	"Ca": 2.31,
	"Mg": 1.73,
	"Cl": 1.75,
	"Na": 2.27,
	"Cu": 2.00,
	"Zn": 2.02,
	"Co": 1.95,
	"Fe": 1.96,
	"Mn": 1.96,
	"Cr": 1.97,
	"Si": 2.10,
	"Be": 1.53,
	"F":  1.47,
	"Br": 1.83,
	"I":  1.98,
}

//alkali and alkaline earth metals. Their atom names in PDB files
//are aligned as the element symbol.
var alkaliMetals = map[string]bool{
	"Li": true, "Na": true, "K": true, "Rb": true, "Cs": true,
	"Be": true, "Mg": true, "Ca": true, "Sr": true, "Ba": true,
}

//A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
//Nucleotides (1 and 2 letter names) are also included.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"PYL": 'O',
	"CYS": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"MSE": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"HSD": 'H',
	"HSE": 'H',
	"HSP": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
	"DA":  'A',
	"DC":  'C',
	"DG":  'G',
	"DT":  'T',
	"A":   'A',
	"C":   'C',
	"G":   'G',
	"U":   'U',
}

//residues that are not peptide-linking even if they have a one letter code.
var nucleotides = map[string]bool{
	"DA": true, "DC": true, "DG": true, "DT": true,
	"A": true, "C": true, "G": true, "U": true,
}

// SymbolMass returns the mass for an element symbol, and false if the
// symbol is not in the table.
func SymbolMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

// VdwRadius returns the van der Waals radius for an element symbol, or 0
// if unknown.
func VdwRadius(symbol string) float64 {
	return symbolVdwrad[symbol]
}

// IsAlkaliMetal returns true for alkali and alkaline earth metals.
func IsAlkaliMetal(symbol string) bool {
	return alkaliMetals[symbol]
}

// NormalizeSymbol turns "FE", "fe" or "Fe" into "Fe".
func NormalizeSymbol(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if len(s) == 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

//This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	name = strings.TrimLeft(strings.ToUpper(name), "0123456789")
	symbol := ""
	if name == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from an empty PDB name")
	}
	switch {
	case len(name) == 4 || name[0] == 'H': //I thiiink only Hs can have 4-char names in amber.
		symbol = "H"
	case name[0] == 'C': //Ca is not considered here
		switch name {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		default:
			symbol = "C"
		}
	case name[0] == 'N':
		if name == "NA" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	case name[0] == 'O':
		symbol = "O"
	case name[0] == 'P':
		symbol = "P"
	case name[0] == 'S':
		if name == "SE" {
			symbol = "Se"
		} else {
			symbol = "S"
		}
	case strings.HasPrefix(name, "ZN"):
		symbol = "Zn"
	case strings.HasPrefix(name, "FE"):
		symbol = "Fe"
	case strings.HasPrefix(name, "MG"):
		symbol = "Mg"
	case name == "K":
		symbol = "K"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}

// SymbolFromName guesses an element symbol from an atom name. It returns
// an empty string if it can't.
func SymbolFromName(name string) string {
	s, _ := symbolFromName(name)
	return s
}

//the dictionary used when none is given.
type builtinDictionary struct{}

func (builtinDictionary) OneLetter(name string) (byte, bool) {
	b, ok := three2OneLetter[strings.ToUpper(strings.TrimSpace(name))]
	return b, ok
}

func (builtinDictionary) PeptideLinking(name string) bool {
	name = strings.ToUpper(strings.TrimSpace(name))
	_, ok := three2OneLetter[name]
	return ok && !nucleotides[name]
}

// DefaultDictionary knows the standard amino acids, their common
// protonation-state names and nucleotides.
var DefaultDictionary CompoundDictionary = builtinDictionary{}
