// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/asset"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/configuration"
	"github.com/regchain/registryd/mirror"
	"github.com/regchain/registryd/publish"
	"github.com/regchain/registryd/rpccalls"
	"github.com/regchain/registryd/storage"
	"github.com/regchain/registryd/transaction"
)

// everything a command needs, built from the configuration file
type runtime struct {
	options   *configuration.Configuration
	store     *storage.Store
	resolver  alias.Resolver
	view      chainview.ChainView
	client    *rpccalls.Client
	publisher *publish.Publisher
	log       *logger.L
}

func openRuntime(globals globalFlags) *runtime {

	options, err := configuration.GetConfiguration(globals.config)
	if nil != err {
		exitwithstatus.Message("registryd: configuration error: %s", err)
	}

	if err := logger.Initialise(options.Logging); nil != err {
		exitwithstatus.Message("registryd: logger error: %s", err)
	}

	// identity fixtures for offline resolution
	resolver := alias.NewMemory()
	for _, entry := range options.Aliases {
		id, err := alias.FromString(entry.Id)
		if nil != err {
			exitwithstatus.Message("registryd: bad alias id: %q  error: %s", entry.Id, err)
		}
		resolver.Add(id, alias.Info{
			UnprunableExpiration:  entry.Lease,
			AcceptsAssetTransfers: entry.AcceptsTransfers,
		})
	}

	sinks := mirror.Multi(nil)
	var publisher *publish.Publisher
	if options.Mirror.Enable {
		redis, err := mirror.NewRedis(options.Mirror.Address, options.Mirror.Database)
		if nil != err {
			exitwithstatus.Message("registryd: mirror error: %s", err)
		}
		sinks = append(sinks, redis)
	}
	if 0 != len(options.Publish.Broadcast) {
		publisher, err = publish.New(&options.Publish)
		if nil != err {
			exitwithstatus.Message("registryd: publish error: %s", err)
		}
		sinks = append(sinks, publisher)
	}

	var sink mirror.Sink
	if 0 != len(sinks) {
		sink = sinks
	}
	store, err := storage.New(options.Database, sink)
	if nil != err {
		exitwithstatus.Message("registryd: storage error: %s", err)
	}

	view := chainview.Fixed{
		BlockHeight: options.Chain.Height,
		Median:      options.Chain.MedianTime,
	}

	return &runtime{
		options:   options,
		store:     store,
		resolver:  resolver,
		view:      view,
		client:    rpccalls.New(store, resolver, view),
		publisher: publisher,
		log:       logger.New("main"),
	}
}

func (r *runtime) close() {
	if nil != r.publisher {
		r.publisher.Stop()
	}
	r.store.Close()
	logger.Finalise()
}

func runActivate(c *cli.Context, globals globalFlags) {
	owner := c.String("owner")
	name := c.String("name")
	if "" == owner || "" == name {
		exitwithstatus.Message("registryd: owner and name are required")
	}

	r := openRuntime(globals)
	defer r.close()

	tx, assetId, err := r.client.Activate(owner, name, c.String("data"), c.String("category"))
	if nil != err {
		exitwithstatus.Message("registryd: activate error: %s", err)
	}
	printJson("activate", composedTx(tx, assetId))
}

func runUpdate(c *cli.Context, globals globalFlags) {
	assetId := c.String("asset")
	if "" == assetId {
		exitwithstatus.Message("registryd: asset is required")
	}

	r := openRuntime(globals)
	defer r.close()

	tx, err := r.client.Update(assetId, c.String("data"), c.String("category"))
	if nil != err {
		exitwithstatus.Message("registryd: update error: %s", err)
	}
	printJson("update", composedTx(tx, assetId))
}

func runTransfer(c *cli.Context, globals globalFlags) {
	assetId := c.String("asset")
	to := c.String("to")
	if "" == assetId || "" == to {
		exitwithstatus.Message("registryd: asset and to are required")
	}

	r := openRuntime(globals)
	defer r.close()

	tx, err := r.client.Transfer(assetId, to)
	if nil != err {
		exitwithstatus.Message("registryd: transfer error: %s", err)
	}
	printJson("transfer", composedTx(tx, assetId))
}

func runInfo(c *cli.Context, globals globalFlags) {
	assetId := c.String("asset")
	if "" == assetId {
		exitwithstatus.Message("registryd: asset is required")
	}

	r := openRuntime(globals)
	defer r.close()

	info, err := r.client.Info(assetId)
	if nil != err {
		exitwithstatus.Message("registryd: info error: %s", err)
	}
	printJson("info", info)
}

func runApply(c *cli.Context, globals globalFlags) {
	txHex := c.String("tx")
	owner := c.String("owner")
	if "" == txHex || "" == owner {
		exitwithstatus.Message("registryd: tx and owner are required")
	}
	ownerId, err := alias.FromString(owner)
	if nil != err {
		exitwithstatus.Message("registryd: bad owner alias: %s", err)
	}

	tx := &transaction.Tx{}
	if err := tx.UnmarshalText([]byte(txHex)); nil != err {
		exitwithstatus.Message("registryd: bad transaction: %s", err)
	}

	r := openRuntime(globals)
	defer r.close()

	validator := asset.New(r.store, r.resolver, r.store)
	result, ok := validator.ValidateTransaction(r.view, tx, ownerId, c.Bool("strict"), !c.Bool("check-only"))
	if !ok {
		exitwithstatus.Message("registryd: no registry operation in transaction")
	}

	reason := ""
	if nil != result.Reason {
		reason = result.Reason.Error()
	}
	printJson("apply", map[string]interface{}{
		"status": result.Status.String(),
		"reason": reason,
		"record": result.Record,
	})
	if asset.StatusInvalid == result.Status {
		exitwithstatus.Exit(1)
	}
}

func runSweep(c *cli.Context, globals globalFlags) {
	r := openRuntime(globals)
	defer r.close()

	// allow ^C to abandon a long sweep cleanly
	shutdown := make(chan struct{})
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		close(shutdown)
	}()

	removed, err := r.store.Sweep(r.resolver, r.view, shutdown)
	if nil != err {
		exitwithstatus.Message("registryd: sweep error: %s", err)
	}
	printJson("sweep", map[string]interface{}{
		"removed": removed,
	})
}

// hex transaction plus the asset id it operates on
func composedTx(tx *transaction.Tx, assetId string) map[string]interface{} {
	txHex, _ := tx.MarshalText()
	return map[string]interface{}{
		"asset_id": assetId,
		"txid":     tx.TxId().String(),
		"tx":       string(txHex),
	}
}

func printJson(title string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		exitwithstatus.Message("registryd: json error: %s", err)
	}
	fmt.Printf("%s:\n%s\n", title, b)
}
