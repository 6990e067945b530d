// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpccalls - the command layer above the registry core
//
// builds unsigned transactions for the host wallet to fund and sign;
// lookup failures surface immediately as local errors, before any
// transaction is composed, and have no chain effect
package rpccalls

import (
	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/expiry"
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/storage"
	"github.com/regchain/registryd/transaction"
)

// Client - local command handler over one store and resolver
type Client struct {
	store    *storage.Store
	resolver alias.Resolver
	view     chainview.ChainView
	log      *logger.L
}

// New - create a command handler
func New(store *storage.Store, resolver alias.Resolver, view chainview.ChainView) *Client {
	return &Client{
		store:    store,
		resolver: resolver,
		view:     view,
		log:      logger.New("rpc"),
	}
}

// AssetView - record view returned by Info
type AssetView struct {
	AssetId    string `json:"asset_id"`
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	PublicData string `json:"public_data"`
	Category   string `json:"category"`
	Height     uint64 `json:"height"`
	TxId       string `json:"txid"`
	ExpiresOn  int64  `json:"expires_on"`
	Expired    bool   `json:"expired"`
}

// Activate - compose an unsigned activation transaction
//
// returns the transaction and the generated asset id
func (c *Client) Activate(ownerAlias string, name string, publicData string, category string) (*transaction.Tx, string, error) {

	owner, err := alias.FromString(ownerAlias)
	if nil != err {
		return nil, "", err
	}
	if _, ok := c.resolver.Resolve(owner); !ok {
		return nil, "", fault.ErrAliasNotFound
	}

	record := &assetrecord.Record{
		Operation:  script.OpActivate,
		AssetId:    assetrecord.NewAssetId(),
		Owner:      owner,
		Name:       name,
		PublicData: []byte(publicData),
		Category:   category,
	}
	tx, err := composeTx(record)
	if nil != err {
		return nil, "", err
	}

	c.log.Infof("activate: asset: %x  tx: %s", record.AssetId, tx.TxId())
	return tx, assetrecord.IdToString(record.AssetId), nil
}

// Update - compose an unsigned update transaction
//
// empty public data or category fields inherit the stored values at
// validation time
func (c *Client) Update(assetId string, publicData string, category string) (*transaction.Tx, error) {

	stored, err := c.lookup(assetId)
	if nil != err {
		return nil, err
	}

	record := &assetrecord.Record{
		Operation:  script.OpUpdate,
		AssetId:    stored.AssetId,
		Owner:      stored.Owner,
		PublicData: []byte(publicData),
		Category:   category,
	}
	return composeTx(record)
}

// Transfer - compose an unsigned transfer transaction
func (c *Client) Transfer(assetId string, targetAlias string) (*transaction.Tx, error) {

	target, err := alias.FromString(targetAlias)
	if nil != err {
		return nil, err
	}
	if _, ok := c.resolver.Resolve(target); !ok {
		return nil, fault.ErrTransferTargetUnknown
	}

	stored, err := c.lookup(assetId)
	if nil != err {
		return nil, err
	}

	record := &assetrecord.Record{
		Operation: script.OpTransfer,
		AssetId:   stored.AssetId,
		Owner:     stored.Owner,
		LinkAlias: target,
	}
	return composeTx(record)
}

// Info - the stored record with its derived expiration
func (c *Client) Info(assetId string) (*AssetView, error) {

	stored, err := c.lookup(assetId)
	if nil != err {
		return nil, err
	}

	expiresOn := expiry.Expiration(stored, c.resolver, c.view)
	return &AssetView{
		AssetId:    assetrecord.IdToString(stored.AssetId),
		Owner:      alias.ToString(stored.Owner),
		Name:       stored.Name,
		PublicData: string(stored.PublicData),
		Category:   stored.Category,
		Height:     stored.Height,
		TxId:       stored.TxId.String(),
		ExpiresOn:  expiresOn,
		Expired:    expiry.IsExpired(stored, c.resolver, c.view),
	}, nil
}

// read the raw stored record so even an expired asset stays inspectable
func (c *Client) lookup(assetId string) (*assetrecord.Record, error) {
	id, err := assetrecord.IdFromString(assetId)
	if nil != err {
		return nil, err
	}
	stored, err := c.store.ReadAsset(id)
	if nil != err {
		return nil, err
	}
	if nil == stored {
		return nil, fault.ErrAssetRecordNotFound
	}
	return stored, nil
}

// wrap a record in the extended envelope with its commitment prefix
// and auxiliary data output; the host wallet appends funding inputs
// and the real spend condition before signing
func composeTx(record *assetrecord.Record) (*transaction.Tx, error) {
	payload, err := record.Pack()
	if nil != err {
		return nil, err
	}
	commitment := digest.NewDigest(payload)
	outputs := []script.Script{
		script.AssetPrefix(record.Operation, commitment[:]),
		script.DataCarrier(payload),
	}
	return transaction.New(transaction.ExtendedVersion, outputs), nil
}
