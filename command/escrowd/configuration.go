// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/configuration"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/publish"
	"github.com/bitmark-inc/escrowd/rpc/listeners"
	"github.com/bitmark-inc/escrowd/util"
	"github.com/bitmark-inc/logger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublisherPublicKeyFile  = "publisher.public"
	defaultPublisherPrivateKeyFile = "publisher.private"
	defaultKeyFile                 = "rpc.key"
	defaultCertificateFile         = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultLiveDatabase     = chain.Live
	defaultTestingDatabase  = chain.Testing
	defaultLocalDatabase    = chain.Local

	defaultRegistryName = "escrow"

	defaultLogDirectory = "log"
	defaultLogFile      = "escrowd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location of the LevelDB files
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// ContractType - an asset contract served by this node
//
// a blank minter allows anyone to mint, only on a test chain
type ContractType struct {
	Name   string `gluamapper:"name" json:"name"`
	Minter string `gluamapper:"minter" json:"minter"`
}

// Configuration - the whole daemon configuration
type Configuration struct {
	DataDirectory string         `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string         `gluamapper:"pidfile" json:"pidfile"`
	Chain         string         `gluamapper:"chain" json:"chain"`
	Database      DatabaseType   `gluamapper:"database" json:"database"`
	Registry      string         `gluamapper:"registry" json:"registry"`
	Contracts     []ContractType `gluamapper:"contracts" json:"contracts"`

	ClientRPC  listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC   listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Publishing publish.Configuration        `gluamapper:"publishing" json:"publishing"`
	Logging    logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Live,
		Registry:      defaultRegistryName,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultLiveDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		// default: share config with normal RPC
		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Publishing: publish.Configuration{
			PublicKey:  defaultPublisherPublicKeyFile,
			PrivateKey: defaultPublisherPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// if any test mode and the database file was not specified
	// switch to appropriate default.  Abort if then chain name is
	// not recognised.
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("Chain: %q is not supported", options.Chain)
	}

	// if database was not changed from default
	if options.Database.Name == defaultLiveDatabase {
		switch options.Chain {
		case chain.Live:
			// already correct default
		case chain.Testing:
			options.Database.Name = defaultTestingDatabase
		case chain.Local:
			options.Database.Name = defaultLocalDatabase
		default:
			return nil, fmt.Errorf("Chain: %s no default database setting", options.Chain)
		}
	}

	if "" == strings.TrimSpace(options.Registry) {
		return nil, fmt.Errorf("Registry: name cannot be blank")
	}
	if 0 == len(options.Contracts) {
		return nil, fmt.Errorf("Contracts: at least one contract is required")
	}
	names := make(map[string]struct{})
	for i, c := range options.Contracts {
		if "" == c.Name {
			return nil, fmt.Errorf("Contracts: [%d] has a blank name", i)
		}
		if len(c.Name) > custody.MaximumIdLength {
			return nil, fmt.Errorf("Contracts: %q is longer than %d bytes", c.Name, custody.MaximumIdLength)
		}
		if _, ok := names[c.Name]; ok {
			return nil, fmt.Errorf("Contracts: %q is duplicated", c.Name)
		}
		names[c.Name] = struct{}{}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
