// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/command/escrow-cli/configuration"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	save    bool
	testnet bool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "escrow-cli"
	app.Usage = "client for the escrowd listing registry"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "network, n",
			Value: "testing",
			Usage: " connect to escrowd `NETWORK` [live|testing|local]",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "",
			Usage: " identity `NAME` [default identity]",
		},
		cli.StringFlag{
			Name:  "password, p",
			Value: "",
			Usage: " identity `PASSWORD`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "setup",
			Usage:     "initialise escrow-cli configuration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "connect, c",
					Value: "",
					Usage: "*escrowd host/IP and port, `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "privateKey, k",
					Value: "",
					Usage: " using existing base58 `KEY`",
				},
			},
			Action: runSetup,
		},
		{
			Name:      "add",
			Usage:     "add a new identity to config file",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "description, d",
					Value: "",
					Usage: "*identity description `STRING`",
				},
				cli.StringFlag{
					Name:  "privateKey, k",
					Value: "",
					Usage: "+using existing base58 `KEY`",
				},
				cli.BoolFlag{
					Name:  "new, n",
					Usage: "+generate a new private key",
				},
				cli.StringFlag{
					Name:  "account, a",
					Value: "",
					Usage: "+receive only `ACCOUNT`",
				},
			},
			Action: runAdd,
		},
		{
			Name:      "list",
			Usage:     "list identities",
			ArgsUsage: " ",
			Action:    runList,
		},
		{
			Name:      "info",
			Usage:     "display escrowd status",
			ArgsUsage: " ",
			Action:    runInfo,
		},
		{
			Name:      "sell",
			Usage:     "list an asset for sale in escrow",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				contractFlag,
				assetFlag,
				cli.StringFlag{
					Name:  "price, P",
					Value: "",
					Usage: "*sale price `AMOUNT`",
				},
			},
			Action: runSell,
		},
		{
			Name:      "buy",
			Usage:     "buy a listed asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				listingFlag,
				cli.StringFlag{
					Name:  "payment, P",
					Value: "",
					Usage: "*payment `AMOUNT`, must equal the price",
				},
			},
			Action: runBuy,
		},
		{
			Name:      "cancel",
			Usage:     "cancel a listing and return the asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				listingFlag,
			},
			Action: runCancel,
		},
		{
			Name:      "listing",
			Usage:     "display a listing",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				listingFlag,
			},
			Action: runListing,
		},
		{
			Name:      "events",
			Usage:     "display listing events",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "start, s",
					Value: "0",
					Usage: " first event `SEQUENCE`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 20,
					Usage: " maximum `NUMBER` of events",
				},
			},
			Action: runEvents,
		},
		{
			Name:      "mint",
			Usage:     "mint an asset on a test contract",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				contractFlag,
				assetFlag,
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: " receiving identity `NAME` or account [minter]",
				},
			},
			Action: runMint,
		},
		{
			Name:      "approve",
			Usage:     "approve an account to move one asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				contractFlag,
				assetFlag,
				cli.StringFlag{
					Name:  "approved, A",
					Value: "",
					Usage: " approved identity `NAME` or account [registry]",
				},
			},
			Action: runApprove,
		},
		{
			Name:      "operator",
			Usage:     "set or revoke an operator for all assets",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				contractFlag,
				cli.StringFlag{
					Name:  "operator, o",
					Value: "",
					Usage: " operator identity `NAME` or account [registry]",
				},
				cli.BoolFlag{
					Name:  "revoke, r",
					Usage: " revoke instead of approve",
				},
			},
			Action: runOperator,
		},
		{
			Name:      "owner",
			Usage:     "display the owner of an asset",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				contractFlag,
				assetFlag,
			},
			Action: runOwner,
		},
		{
			Name:      "balance",
			Usage:     "display the funds balance of an account",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " identity `NAME` or account [default identity]",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "deposit",
			Usage:     "credit test funds to an identity",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "amount, A",
					Value: "",
					Usage: "*deposit `AMOUNT`",
				},
			},
			Action: runDeposit,
		},
		{
			Name:      "version",
			Usage:     "display escrow-cli version",
			ArgsUsage: " ",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// read the configuration
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		network, err := checkNetwork(c.GlobalString("network"))
		if nil != err {
			return err
		}

		p := os.Getenv("XDG_CONFIG_HOME")
		if "" == p {
			return fmt.Errorf("XDG_CONFIG_HOME environment is not set")
		}
		dir, err := checkFileExists(p)
		if nil != err {
			return err
		}
		if !dir {
			return fmt.Errorf("not a directory: %q", p)
		}
		file := path.Join(p, app.Name, network+"-"+app.Name+".json")

		if verbose {
			fmt.Fprintf(e, "file: %q\n", file)
		}

		if "setup" == command {
			// do not run setup if there is an existing configuration
			if _, err := checkFileExists(file); nil == err {
				return fmt.Errorf("not overwriting existing configuration: %q", file)
			}

			c.App.Metadata["config"] = &metadata{
				file:    file,
				save:    false,
				testnet: "live" != network,
				verbose: verbose,
				e:       e,
				w:       w,
			}
			return nil
		}

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		config, err := configuration.Load(file)
		if nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  config,
			testnet: config.TestNet,
			save:    false,
			verbose: verbose,
			e:       e,
			w:       w,
		}

		return nil
	}

	// update the configuration if required
	app.After = func(c *cli.Context) error {
		e := c.App.ErrWriter
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.save {
			if m.verbose {
				fmt.Fprintf(e, "updating config file: %s\n", m.file)
			}
			err := configuration.Save(m.file, m.config)
			if nil != err {
				return err
			}
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

var (
	contractFlag = cli.StringFlag{
		Name:  "contract, C",
		Value: "",
		Usage: "*asset contract `NAME`",
	}
	assetFlag = cli.StringFlag{
		Name:  "asset, a",
		Value: "",
		Usage: "*asset `ID`",
	}
	listingFlag = cli.StringFlag{
		Name:  "id, l",
		Value: "",
		Usage: "*listing `ID`",
	}
)
