// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/zmqutil"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
)

const (
	publisherPublicKeyFilename  = "publisher.public"
	publisherPrivateKeyFilename = "publisher.private"

	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-publisher-identity", "publisher":
		publicKeyFilename := getFilenameWithDirectory(arguments, publisherPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publisherPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "registry-account", "account":
		return false // defer processing until configuration is read

	case "start", "run":
		return false // continue processing

	case "listing", "l", "events", "ev":
		return false // defer processing until database is loaded

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--var=NAME=VALUE...] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                            (h)         - display this message\n\n")
		fmt.Printf("  version                         (v)         - display version sting\n\n")

		fmt.Printf("  gen-publisher-identity [DIR]    (publisher) - create private key in: %q\n", "DIR/"+publisherPrivateKeyFilename)
		fmt.Printf("                                                and the public key in: %q\n", "DIR/"+publisherPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR]              (rpc)       - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                                and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]                 - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                                and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  registry-account                (account)   - display the custody account that sellers approve\n")
		fmt.Printf("\n")

		fmt.Printf("  start                           (run)       - just run the program, same as no arguments\n")
		fmt.Printf("                                                for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                     (cfg)       - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  listing ID                      (l)         - display one listing as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  events START [COUNT]            (ev)        - display events from the log as JSON\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "registry-account", "account":
		registry := escrow.RegistryAccount(options.Registry, chain.IsTesting(options.Chain))
		fmt.Printf("registry: %q  account: %s\n", options.Registry, registry)

	case "config-test", "cfg":
		if err := printJSON(os.Stdout, options); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the registry is open so these commands can read the listings and
// the event log
func processDataCommand(log *logger.L, arguments []string, registry *escrow.Registry) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	ctx := context.Background()

	switch command {

	case "start", "run":
		return false // continue processing

	case "listing", "l":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing listing id argument")
		}

		id, err := strconv.ParseUint(arguments[0], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in listing id: %s", err)
		}

		l, err := registry.Get(ctx, id)
		if nil != err {
			exitwithstatus.Message("listing: %d  error: %s", id, err)
		}
		log.Debugf("listing: %d  status: %s", id, l.Status)
		if err := printJSON(os.Stdout, l); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

	case "events", "ev":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing start sequence argument")
		}

		start, err := strconv.ParseUint(arguments[0], 10, 64)
		if nil != err {
			exitwithstatus.Message("error in start sequence: %s", err)
		}

		count := escrow.MaximumEventCount
		if len(arguments) > 1 {
			count, err = strconv.Atoi(arguments[1])
			if nil != err {
				exitwithstatus.Message("error in count: %s", err)
			}
		}

		events, err := registry.Events(ctx, start, count)
		if nil != err {
			exitwithstatus.Message("events from: %d  error: %s", start, err)
		}
		log.Debugf("events from: %d  returned: %d", start, len(events))
		if err := printJSON(os.Stdout, events); nil != err {
			exitwithstatus.Message("error: %s", err)
		}

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}

// indented JSON followed by a newline
func printJSON(w io.Writer, data interface{}) error {
	b, err := json.Marshal(data)
	if nil != err {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); nil != err {
		return err
	}
	out.WriteString("\n")
	_, err = out.WriteTo(w)
	return err
}
