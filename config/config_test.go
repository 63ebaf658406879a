/*
 * config_test.go, part of chemio.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/chemio"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(Te *testing.T) {
	p, err := Load("", nil)
	require.NoError(Te, err)
	assert.Equal(Te, chem.DefaultProfile(), p)
}

func TestPriorities(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "chemio.yaml")
	yaml := "fault-tolerant: true\ncalpha-only: true\ndialect: charmm\n"
	require.NoError(Te, os.WriteFile(name, []byte(yaml), 0o644))

	p, err := Load(name, nil)
	require.NoError(Te, err)
	assert.Equal(Te, chem.Profile{FaultTolerant: true, CAlphaOnly: true, Dialect: chem.CHARMM}, p)

	Te.Setenv("CHEMIO_QUACK_MODE", "true")
	Te.Setenv("CHEMIO_CALPHA_ONLY", "false")
	p, err = Load(name, nil)
	require.NoError(Te, err)
	assert.True(Te, p.QuackMode)
	assert.False(Te, p.CAlphaOnly, "the environment overrides the file")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(Te, fs.Parse([]string{"--dialect=default", "--no-hetatms"}))
	p, err = Load(name, fs)
	require.NoError(Te, err)
	assert.Equal(Te, chem.DefaultDialect, p.Dialect, "flags override everything")
	assert.True(Te, p.NoHetatms)
	assert.True(Te, p.FaultTolerant, "flags not given don't override the file")
	assert.True(Te, p.QuackMode)
}

func TestBadSettings(Te *testing.T) {
	_, err := Load(filepath.Join(Te.TempDir(), "missing.yaml"), nil)
	assert.Error(Te, err)

	Te.Setenv("CHEMIO_DIALECT", "gromacs")
	_, err = Load("", nil)
	assert.Error(Te, err)
}
