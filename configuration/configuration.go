// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - registryd configuration file handling
//
// the configuration is a Lua program whose final expression is the
// configuration table; relative paths are resolved against the data
// directory
package configuration

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/publish"
)

// MirrorConfiguration - the redis read-model block
type MirrorConfiguration struct {
	Enable   bool   `gluamapper:"enable" json:"enable"`
	Address  string `gluamapper:"address" json:"address"`
	Database int    `gluamapper:"database" json:"database"`
}

// ChainConfiguration - chain context defaults for offline commands
type ChainConfiguration struct {
	Height     uint64 `gluamapper:"height" json:"height"`
	MedianTime int64  `gluamapper:"median_time" json:"median_time"`
}

// AliasConfiguration - one fixture entry of the identity registry
//
// the real identity subsystem lives in the host chain; offline
// commands resolve against this list instead
type AliasConfiguration struct {
	Id               string `gluamapper:"id" json:"id"` // base58
	Lease            int64  `gluamapper:"lease" json:"lease"`
	AcceptsTransfers bool   `gluamapper:"accepts_transfers" json:"accepts_transfers"`
}

// Configuration - the file layout
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	Database      string                `gluamapper:"database" json:"database"`
	Chain         ChainConfiguration    `gluamapper:"chain" json:"chain"`
	Aliases       []AliasConfiguration  `gluamapper:"aliases" json:"aliases"`
	Mirror        MirrorConfiguration   `gluamapper:"mirror" json:"mirror"`
	Publish       publish.Configuration `gluamapper:"publish" json:"publish"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read and execute the configuration file
func GetConfiguration(fileName string) (*Configuration, error) {

	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	// set up defaults overridable by the file
	options := &Configuration{
		DataDirectory: filepath.Dir(fileName),
		Database:      "registry.leveldb",
		Logging: logger.Configuration{
			Directory: "log",
			File:      "registryd.log",
			Size:      1048576,
			Count:     10,
			Levels: map[string]string{
				logger.DefaultTag: "info",
			},
		},
	}

	if err := ParseConfigurationFile(fileName, options); nil != err {
		return nil, err
	}

	// resolve file paths relative to the data directory, which itself
	// resolves against the configuration file's directory
	options.DataDirectory = ensureAbsolute(filepath.Dir(fileName), options.DataDirectory)
	options.Database = ensureAbsolute(options.DataDirectory, options.Database)
	options.Logging.Directory = ensureAbsolute(options.DataDirectory, options.Logging.Directory)

	return options, nil
}

// resolve a relative path against a base directory
func ensureAbsolute(directory string, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(directory, filePath)
}
