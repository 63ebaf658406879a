/*
 * config.go, part of chemio.
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

// Package config builds the reading profile from a settings file, the
// environment (CHEMIO_* variables) and command line flags, in increasing
// order of priority.
package config

import (
	"fmt"
	"strings"

	chem "github.com/rmera/chemio"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by Load,
// so fault-tolerant is set with CHEMIO_FAULT_TOLERANT.
const EnvPrefix = "CHEMIO"

// Settings mirrors chem.Profile with the names used in files, flags and
// the environment.
type Settings struct {
	FaultTolerant         bool   `mapstructure:"fault-tolerant"`
	CAlphaOnly            bool   `mapstructure:"calpha-only"`
	NoHetatms             bool   `mapstructure:"no-hetatms"`
	JoinSpreadAtomRecords bool   `mapstructure:"join-spread-atom-records"`
	QuackMode             bool   `mapstructure:"quack-mode"`
	Dialect               string `mapstructure:"dialect"`
}

// Profile converts the settings into a chem.Profile.
func (S Settings) Profile() (chem.Profile, error) {
	d, err := chem.ParseDialect(S.Dialect)
	if err != nil {
		return chem.Profile{}, err
	}
	return chem.Profile{
		FaultTolerant:         S.FaultTolerant,
		CAlphaOnly:            S.CAlphaOnly,
		NoHetatms:             S.NoHetatms,
		JoinSpreadAtomRecords: S.JoinSpreadAtomRecords,
		QuackMode:             S.QuackMode,
		Dialect:               d,
	}, nil
}

// AddFlags adds one flag per profile option to fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.Bool("fault-tolerant", false, "turn recoverable errors into warnings")
	fs.Bool("calpha-only", false, "keep only the atoms named CA")
	fs.Bool("no-hetatms", false, "skip HETATM and ANISOU records")
	fs.Bool("join-spread-atom-records", false, "allow the atoms of a residue to be non-contiguous")
	fs.Bool("quack-mode", false, "tolerate duplicate atom names and residue name mismatches")
	fs.String("dialect", "default", "PDB column layout: default or charmm")
}

// New returns a viper instance with the profile defaults and the
// environment bindings. If path is not empty, the file is read. The format
// is taken from the extension (yaml, toml, json...).
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	def := Settings{Dialect: chem.DefaultDialect.String()}
	v.SetDefault("fault-tolerant", def.FaultTolerant)
	v.SetDefault("calpha-only", def.CAlphaOnly)
	v.SetDefault("no-hetatms", def.NoHetatms)
	v.SetDefault("join-spread-atom-records", def.JoinSpreadAtomRecords)
	v.SetDefault("quack-mode", def.QuackMode)
	v.SetDefault("dialect", def.Dialect)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.New: %w", err)
		}
	}
	return v, nil
}

// Load returns the profile given by the file in path (ignored if empty),
// the environment and flags (ignored if nil). Only the flags that were
// set in the command line override the other sources.
func Load(path string, flags *pflag.FlagSet) (chem.Profile, error) {
	v, err := New(path)
	if err != nil {
		return chem.Profile{}, err
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return chem.Profile{}, err
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return chem.Profile{}, fmt.Errorf("config.Load: %w", err)
	}
	p, err := s.Profile()
	if err != nil {
		return p, fmt.Errorf("config.Load: %w", err)
	}
	return p, nil
}
