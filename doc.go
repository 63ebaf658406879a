/*
 * doc.go, part of chemio.
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
 */

/*Package chem is the root package of chemio. It provides the chain/residue/atom
structures the file codecs build and serialize, the reading profile shared by
all text readers, and the error types every codec returns.


	**chemio capabilities**


    Reads/writes PDB files, including the PQR and CHARMM dialects. Reading is
	fault-tolerant on request: bad lines are skipped with a warning instead
	of aborting the whole import.

    Reads/writes CHARMM/NAMD DCD trajectories, big or little endian (detected),
	either loading every frame in memory or seeking to the requested frame on
	demand (optionally over a memory map).

    Reads/writes CHARMM CRD coordinate files, standard and expanded.

    Gzip-compressed input is decompressed transparently.

Coordinates are kept in v3.Matrix values (github.com/rmera/chemio/v3), an Nx3
matrix based on gonum's Dense. Each row is the position of one atom.

The packages pdb, crd and traj/dcd contain the codecs. The config package loads
a Profile from files, the environment or command line flags.*/
package chem
