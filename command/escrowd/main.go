// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/background"
	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/publish"
	"github.com/bitmark-inc/escrowd/rpc"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/token"
	"github.com/bitmark-inc/escrowd/zmqutil"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "var", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'D'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	variables, err := parseVariables(options["var"])
	if nil != err {
		exitwithstatus.Message("%s: %s", program, err)
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, variables)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	m, err := mode.New(logger.New("mode"), theConfiguration.Chain)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer m.Set(mode.Stopped)

	// general info
	log.Infof("test mode: %v", m.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "HttpsRPC", theConfiguration.HttpsRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	l := ledger.New(logger.New("ledger"), store)
	f := funds.New(logger.New("funds"), l)

	// one custody provider per configured contract
	tokens, providers, err := makeTokens(l, theConfiguration.Contracts, m.IsTesting())
	if nil != err {
		log.Criticalf("contracts initialise error: %s", err)
		exitwithstatus.Message("contracts initialise error: %s", err)
	}

	bus := messagebus.New()
	defer bus.Release()

	registryAccount := escrow.RegistryAccount(theConfiguration.Registry, m.IsTesting())
	registry := escrow.New(logger.New("escrow"), l, f, providers, registryAccount, bus)
	log.Infof("registry: %q  account: %s", theConfiguration.Registry, registryAccount)

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, registry) {
		return
	}

	processes := background.Processes{}

	// start up the publishing background process
	publicKey := []byte{}
	if 0 != len(theConfiguration.Publishing.Broadcast) {
		publisher, err := publish.New(logger.New("publisher"), &theConfiguration.Publishing, bus)
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		defer zmqutil.StopAuthentication()
		publicKey = publisher.PublicKey()
		processes = append(processes, publisher)
	} else {
		log.Info("publishing disabled")
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, &memoryStats{
			log:   logger.New("memory"),
			delay: statsDelay,
		})
	}

	bg := background.Start(processes, nil)
	defer bg.Stop()

	// start up the rpc listeners
	services := &server.Services{
		Mode:      m,
		Ledger:    l,
		Funds:     f,
		Registry:  registry,
		Tokens:    tokens,
		Bus:       bus,
		Start:     time.Now(),
		Version:   version,
		Count:     new(counter.Counter),
		PublicKey: publicKey,
	}
	r, err := rpc.New(logger.New("rpc"), &theConfiguration.ClientRPC, &theConfiguration.HttpsRPC, services)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer r.Stop()

	m.Set(mode.Normal)

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// split each NAME=VALUE into the configuration variables
func parseVariables(definitions []string) (map[string]string, error) {
	variables := make(map[string]string)
	for _, d := range definitions {
		s := strings.SplitN(d, "=", 2)
		name := strings.TrimSpace(s[0])
		if 2 != len(s) || "" == name {
			return nil, fmt.Errorf("variable: %q is not NAME=VALUE", d)
		}
		variables[name] = s[1]
	}
	return variables, nil
}

// create a token for each contract and register it as a custody provider
func makeTokens(l *ledger.Ledger, contracts []ContractType, testing bool) ([]*token.Token, *custody.Providers, error) {
	log := logger.New("token")

	tokens := make([]*token.Token, 0, len(contracts))
	providers := custody.NewProviders()

	for _, c := range contracts {
		var minter *account.Account
		if "" != c.Minter {
			var err error
			minter, err = account.AccountFromBase58(c.Minter)
			if nil != err {
				return nil, nil, err
			}
			if minter.IsTesting() != testing {
				return nil, nil, fault.WrongNetworkForPublicKey
			}
		} else if !testing {
			return nil, nil, fault.MissingParameters
		}

		t := token.New(log, l, custody.ContractId(c.Name), minter, testing)
		if err := providers.Register(t.Name(), t); nil != err {
			return nil, nil, err
		}
		tokens = append(tokens, t)
		log.Infof("contract: %q  minter: %s", c.Name, minter)
	}
	return tokens, providers, nil
}
