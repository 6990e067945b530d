// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/fault"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/storage"
	"github.com/regchain/registryd/transaction"
)

// activity feed descriptions
const (
	describeActivate = "Asset activated"
	describeUpdate   = "Asset updated"
	describeTransfer = "Asset transferred"
)

// Validator - validates operations against one store
type Validator struct {
	store    *storage.Store
	resolver alias.Resolver
	history  alias.HistoryWriter
	log      *logger.L
}

// New - create a validator
//
// history may be nil for hosts without an identity activity feed
func New(store *storage.Store, resolver alias.Resolver, history alias.HistoryWriter) *Validator {
	if nil == history {
		history = alias.NoHistory{}
	}
	return &Validator{
		store:    store,
		resolver: resolver,
		history:  history,
		log:      logger.New("asset"),
	}
}

// ValidateTransaction - scan a transaction for a registry operation and
// validate it
//
// the second result is false when the transaction carries no registry
// operation at all, a normal no-op outcome
func (v *Validator) ValidateTransaction(view chainview.ChainView, tx *transaction.Tx, ownerAlias []byte, strict bool, addToStore bool) (Result, bool) {
	op, args, _, ok := tx.AssetOperation()
	if !ok {
		return Result{}, false
	}
	return v.Validate(view, tx, op, args, ownerAlias, strict, addToStore), true
}

// Validate - run one decoded operation through the state machine
//
// ownerAlias is the already-validated identity consumed by the
// transaction's inputs; strict marks settled (block-connect) validation
// and addToStore false runs a check-only pass with no writes
func (v *Validator) Validate(view chainview.ChainView, tx *transaction.Tx, op script.Operation, args [][]byte, ownerAlias []byte, strict bool, addToStore bool) Result {

	if nil == view {
		return invalid(fault.ErrInvalidChainView)
	}

	// structural pre-checks
	if !tx.IsExtended() {
		return invalid(fault.ErrNonRegistryTransaction)
	}
	switch op {
	case script.OpActivate, script.OpUpdate, script.OpTransfer:
	default:
		return invalid(fault.ErrUnknownOperation)
	}
	if strict && 1 != len(args) {
		return invalid(fault.ErrArgumentsIncorrectSize)
	}
	if 0 == len(args) {
		return invalid(fault.ErrArgumentsIncorrectSize)
	}

	payload, ok := tx.AuxPayload()
	if !ok {
		return invalid(fault.ErrCannotUnpackPayload)
	}
	var claimed digest.Digest
	if err := digest.FromBytes(&claimed, args[0]); nil != err {
		return invalid(fault.ErrCannotUnpackPayload)
	}
	record, err := assetrecord.Unpack(payload, claimed)
	if nil != err {
		if e, ok := err.(fault.ConsensusError); ok {
			return invalid(e)
		}
		return invalid(fault.ErrCannotUnpackPayload)
	}
	if record.Operation != op {
		return invalid(fault.ErrCannotUnpackPayload)
	}
	if !bytes.Equal(ownerAlias, record.Owner) {
		return invalid(fault.ErrAliasInputMismatch)
	}

	stored, err := v.store.GetAsset(record.AssetId, v.resolver, view)
	if nil != err {
		return rejected(fault.ErrAssetNotFound)
	}

	// ordering and settlement reconciliation
	height := view.Height()
	if nil != stored {
		if stored.Height > height {
			return rejected(fault.ErrHeightOutOfOrder)
		}
		if stored.Height == height {
			result, done := v.reconcile(record.AssetId, stored, tx, op, strict, addToStore, &stored)
			if done {
				return result
			}
		}
	}

	// life-cycle rules
	var final *assetrecord.Record
	var recipient []byte
	description := ""

	switch op {
	case script.OpActivate:
		if nil != stored {
			return rejected(fault.ErrAssetAlreadyExists)
		}
		if reason := checkActivate(record); nil != reason {
			return rejected(reason)
		}
		final = record.Copy()
		description = describeActivate

	case script.OpUpdate:
		if nil == stored {
			return rejected(fault.ErrAssetNotFound)
		}
		if reason := checkUpdate(record, stored); nil != reason {
			return rejected(reason)
		}
		final = mergeUpdate(record, stored)
		description = describeUpdate

	case script.OpTransfer:
		if nil == stored {
			return rejected(fault.ErrAssetNotFound)
		}
		if !bytes.Equal(stored.Owner, record.Owner) {
			return rejected(fault.ErrOwnerMustSign)
		}
		target := record.LinkAlias
		info, ok := v.resolver.Resolve(target)
		if !ok {
			return rejected(fault.ErrTransferAliasNotFound)
		}
		if !info.AcceptsAssetTransfers {
			return rejected(fault.ErrTransferNotAccepted)
		}
		final = stored.Copy()
		final.Owner = append([]byte(nil), target...)
		recipient = target
		description = describeTransfer
	}

	// stamp and clear the transient field
	final.Operation = op
	final.Height = height
	final.TxId = tx.TxId()
	final.LinkAlias = nil

	if !addToStore {
		return applied(final)
	}

	if err := v.store.PutAsset(final, stored, !strict); nil != err {
		v.log.Errorf("store write error: asset: %x  error: %s", final.AssetId, err)
		if e, ok := err.(fault.ConsensusError); ok {
			return invalid(e)
		}
		return invalid(fault.ErrStoreWriteFailure)
	}
	v.history.WriteTxHistory(record.Owner, recipient, final.TxId.String(), height, description, final.AssetId)

	v.log.Infof("%s: asset: %x  tx: %s", op, final.AssetId, final.TxId)
	return applied(final)
}

// resolve an equal-height collision against the settlement lock
//
// done=true short-circuits validation with the given result; otherwise
// *stored has been rewound to the surviving before-value (possibly nil,
// in which case only activation may proceed and the caller's per-op
// rules enforce exactly that)
func (v *Validator) reconcile(assetId []byte, current *assetrecord.Record, tx *transaction.Tx, op script.Operation, strict bool, addToStore bool, stored **assetrecord.Record) (Result, bool) {

	// already-applied transaction seen again
	if current.TxId == tx.TxId() {
		result, done := v.acceptSettled(assetId, current, strict, addToStore)
		return result, done
	}

	lockTxId, locked, err := v.store.ReadLock(assetId)
	if nil != err {
		return rejected(fault.ErrAssetNotFound), true
	}
	if !locked {
		// a second transaction at a settled height has nothing to
		// reconcile against
		return rejected(fault.ErrHeightLocked), true
	}

	if lockTxId == tx.TxId() {
		result, done := v.acceptSettled(assetId, current, strict, addToStore)
		return result, done
	}

	// a conflicting transaction supersedes the locked one
	if addToStore {
		if err := v.store.RollbackAsset(assetId, lockTxId); nil != err {
			v.log.Errorf("rollback error: asset: %x  error: %s", assetId, err)
			return invalid(fault.ErrLockEraseFailure), true
		}
		previous, err := v.store.ReadAsset(assetId)
		if nil != err {
			return rejected(fault.ErrAssetNotFound), true
		}
		*stored = previous
	} else {
		previous, err := v.store.ReadPreviousAsset(assetId)
		if nil != err {
			return rejected(fault.ErrAssetNotFound), true
		}
		*stored = previous
	}
	v.log.Warnf("superseded: asset: %x  tx: %s", assetId, lockTxId)
	return Result{}, false
}

// idempotent re-accept of an already written transaction
//
// settled validation releases the lock and drops the snapshot since
// the write can no longer be superseded; an unsettled re-check keeps
// the before-value available for rollback
func (v *Validator) acceptSettled(assetId []byte, current *assetrecord.Record, strict bool, addToStore bool) (Result, bool) {
	if addToStore {
		if strict {
			if err := v.store.SettleLock(assetId); nil != err {
				return invalid(fault.ErrLockEraseFailure), true
			}
		} else {
			if err := v.store.SnapshotPrevious(current); nil != err {
				return invalid(fault.ErrPreviousWriteFailure), true
			}
		}
	}
	return applied(current), true
}

// activation rules, in checking order
func checkActivate(record *assetrecord.Record) error {
	if 0 != len(record.LinkAlias) {
		return fault.ErrLinkAliasInActivate
	}
	if 0 == len(record.Name) || len(record.Name) > assetrecord.MaxNameLength {
		return fault.ErrNameLengthInvalid
	}
	if len(record.PublicData) > assetrecord.MaxPublicDataLength {
		return fault.ErrPublicDataTooLong
	}
	if len(record.Category) > assetrecord.MaxCategoryLength {
		return fault.ErrCategoryTooLong
	}
	if !strings.HasPrefix(record.Category, assetrecord.ReservedCategoryPrefix) {
		return fault.ErrCategoryNotReserved
	}
	return nil
}

// update rules, in checking order
func checkUpdate(record *assetrecord.Record, stored *assetrecord.Record) error {
	if 0 != len(record.Name) {
		return fault.ErrNameImmutable
	}
	if len(record.PublicData) > assetrecord.MaxPublicDataLength {
		return fault.ErrPublicDataTooLong
	}
	if len(record.Category) > assetrecord.MaxCategoryLength {
		return fault.ErrCategoryTooLong
	}
	if 0 != len(record.Category) && !strings.HasPrefix(strings.ToLower(record.Category), assetrecord.ReservedCategoryPrefix) {
		return fault.ErrUpdateCategoryInvalid
	}
	if !bytes.Equal(stored.Owner, record.Owner) {
		return fault.ErrOwnerMustSign
	}
	return nil
}

// build the post-update record: unset fields inherit the stored value
// and the name always carries forward
func mergeUpdate(record *assetrecord.Record, stored *assetrecord.Record) *assetrecord.Record {
	final := stored.Copy()
	if 0 != len(record.PublicData) {
		final.PublicData = append([]byte(nil), record.PublicData...)
	}
	if 0 != len(record.Category) {
		final.Category = record.Category
	}
	return final
}
