// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import "strconv"

// ConsensusError - structural failure, the containing transaction is
// rejected and, at strict validation time, can invalidate the block
type ConsensusError struct {
	Code   int
	Reason string
}

// RuleError - life-cycle rule violation, the containing transaction
// stays valid but the operation produces no state change
type RuleError struct {
	Code   int
	Reason string
}

// error base for simple local errors
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// consensus errors - structural pre-check and store failures
var (
	ErrNonRegistryTransaction = ConsensusError{2000, "non-registry transaction found"}
	ErrCannotUnpackPayload    = ConsensusError{2001, "cannot deserialize asset data in transaction"}
	ErrArgumentsIncorrectSize = ConsensusError{2002, "asset arguments incorrect size"}
	ErrDataHashMismatch       = ConsensusError{2003, "hash provided does not match the calculated hash of the data"}
	ErrAliasInputMismatch     = ConsensusError{4003, "alias input mismatch"}
	ErrUnknownOperation       = ConsensusError{2021, "asset transaction has unknown operation"}
	ErrStoreWriteFailure      = ConsensusError{2028, "failed to write to asset store"}
	ErrLockWriteFailure       = ConsensusError{1096, "failed to write settlement lock"}
	ErrLockEraseFailure       = ConsensusError{1096, "failed to erase settlement lock"}
	ErrPreviousWriteFailure   = ConsensusError{1096, "failed to write previous asset version"}
)

// rule errors - soft failures, keep in operation order
var (
	ErrCategoryTooLong       = RuleError{2005, "asset category too big"}
	ErrPublicDataTooLong     = RuleError{2007, "asset public data too big"}
	ErrLinkAliasInActivate   = RuleError{2010, "asset link alias not allowed in activate"}
	ErrNameLengthInvalid     = RuleError{2012, "asset name too big or is empty"}
	ErrCategoryNotReserved   = RuleError{2013, "must use an asset category"}
	ErrNameImmutable         = RuleError{2015, "asset name cannot be changed"}
	ErrUpdateCategoryInvalid = RuleError{2017, "must use an asset category"}
	ErrAssetNotFound         = RuleError{2022, "failed to read from asset store"}
	ErrTransferAliasNotFound = RuleError{2024, "cannot find alias you are transferring to"}
	ErrTransferNotAccepted   = RuleError{2025, "the alias you are transferring to does not accept assets"}
	ErrHeightLocked          = RuleError{2026, "block height of request must be less than or equal to the stored block height"}
	ErrHeightOutOfOrder      = RuleError{2026, "block height of request cannot be lower than stored block height"}
	ErrOwnerMustSign         = RuleError{2026, "cannot edit this asset, asset owner must sign off on this change"}
	ErrAssetAlreadyExists    = RuleError{2027, "asset already exists"}
)

// local errors for the RPC/CLI layer - no chain effect
var (
	ErrAliasNotFound         = NotFoundError("failed to read alias from alias registry")
	ErrAssetRecordNotFound   = NotFoundError("could not find an asset with this key")
	ErrTransferTargetUnknown = NotFoundError("failed to read transfer alias")
)

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised  = ProcessError("already initialised")
	ErrAssetIdTooLong      = InvalidError("asset id too long")
	ErrInvalidChainView    = InvalidError("invalid chain view")
	ErrInvalidDigestLength = InvalidError("invalid digest length")
	ErrNoDataPayload       = NotFoundError("transaction has no data payload")
	ErrNotAssetTransaction = NotFoundError("no asset operation in transaction")
	ErrNotInitialised      = ProcessError("not initialised")
	ErrSweepInterrupted    = ProcessError("sweep interrupted")
	ErrSweepReadFailure    = ProcessError("sweep storage read failed")
)

// the error interface methods
func (e ConsensusError) Error() string {
	return "ASSET_CONSENSUS_ERROR: ERRCODE: " + strconv.Itoa(e.Code) + " - " + e.Reason
}

func (e RuleError) Error() string {
	return "ASSET_RULE_ERROR: ERRCODE: " + strconv.Itoa(e.Code) + " - " + e.Reason
}

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrConsensus(e error) bool { _, ok := e.(ConsensusError); return ok }
func IsErrRule(e error) bool      { _, ok := e.(RuleError); return ok }
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
