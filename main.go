// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"
)

type globalFlags struct {
	verbose bool
	config  string
}

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	globals := globalFlags{}

	app := cli.NewApp()
	app.Name = "registryd"
	app.Usage = "asset registry commands"
	app.Version = version
	app.HideVersion = false
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "verbose, v",
			Usage:       " verbose result",
			Destination: &globals.verbose,
		},
		cli.StringFlag{
			Name:        "config, c",
			Value:       "registryd.conf",
			Usage:       "registryd config file",
			Destination: &globals.config,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "activate",
			Usage:     "compose an unsigned asset activation",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owning alias id (base58)",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*asset name",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: " public data",
				},
				cli.StringFlag{
					Name:  "category, g",
					Value: "assets",
					Usage: " category inside the assets namespace",
				},
			},
			Action: func(c *cli.Context) error {
				runActivate(c, globals)
				return nil
			},
		},
		{
			Name:      "update",
			Usage:     "compose an unsigned asset update",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Value: "",
					Usage: "*asset id (hex)",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: " public data, empty keeps the stored value",
				},
				cli.StringFlag{
					Name:  "category, g",
					Value: "",
					Usage: " category, empty keeps the stored value",
				},
			},
			Action: func(c *cli.Context) error {
				runUpdate(c, globals)
				return nil
			},
		},
		{
			Name:      "transfer",
			Usage:     "compose an unsigned asset transfer",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Value: "",
					Usage: "*asset id (hex)",
				},
				cli.StringFlag{
					Name:  "to, t",
					Value: "",
					Usage: "*recipient alias id (base58)",
				},
			},
			Action: func(c *cli.Context) error {
				runTransfer(c, globals)
				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "show the stored record and its derived expiration",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "asset, a",
					Value: "",
					Usage: "*asset id (hex)",
				},
			},
			Action: func(c *cli.Context) error {
				runInfo(c, globals)
				return nil
			},
		},
		{
			Name:      "apply",
			Usage:     "validate a hex transaction against the store",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "tx, x",
					Value: "",
					Usage: "*packed transaction (hex)",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*alias consumed by the transaction inputs (base58)",
				},
				cli.BoolFlag{
					Name:  "strict, s",
					Usage: " settled (block-connect) validation",
				},
				cli.BoolFlag{
					Name:  "check-only, k",
					Usage: " validate without writing to the store",
				},
			},
			Action: func(c *cli.Context) error {
				runApply(c, globals)
				return nil
			},
		},
		{
			Name:  "sweep",
			Usage: "physically delete expired asset records",
			Action: func(c *cli.Context) error {
				runSweep(c, globals)
				return nil
			},
		},
	}

	if err := app.Run(os.Args); nil != err {
		exitwithstatus.Message("registryd: error: %s", err)
	}
}
