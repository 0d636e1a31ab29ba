package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// NOTE: Error status code must start from 2.
var (
	// ErrUnauthorized is returned when the sender is not the locker manager.
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")
	// ErrInvalidLsmShares is returned for malformed or missing liquid staking receipts.
	ErrInvalidLsmShares = sdkerrors.Register(ModuleName, 3, "invalid lsm shares")
	// ErrValidatorNotFound is returned when the locker validator does not exist.
	ErrValidatorNotFound = sdkerrors.Register(ModuleName, 4, "validator not found")
	// ErrInvalidValidator is returned when a receipt names another validator.
	ErrInvalidValidator = sdkerrors.Register(ModuleName, 5, "invalid validator")
	// ErrZeroAmount is returned for zero amounts.
	ErrZeroAmount = sdkerrors.Register(ModuleName, 6, "amount cannot be zero")
	// ErrProposalNotFound is returned when the proposal cannot be queried.
	ErrProposalNotFound = sdkerrors.Register(ModuleName, 7, "proposal not found")
	// ErrProposalNotInVoting is returned when the proposal is outside its voting period.
	ErrProposalNotInVoting = sdkerrors.Register(ModuleName, 8, "proposal is not in voting period")
	// ErrLockerExists is returned when a locker for the proposal option already exists.
	ErrLockerExists = sdkerrors.Register(ModuleName, 9, "locker already exists")
	// ErrLockerNotFound is returned for unknown locker addresses.
	ErrLockerNotFound = sdkerrors.Register(ModuleName, 10, "locker not found")
	// ErrLockerDestroyed is returned for operations on a dissolved locker.
	ErrLockerDestroyed = sdkerrors.Register(ModuleName, 11, "locker destroyed")
	// ErrContinuationNotFound is returned for replies without a hand-off record.
	ErrContinuationNotFound = sdkerrors.Register(ModuleName, 12, "continuation not found")
	// ErrInvalidLocker is returned for invalid locker state.
	ErrInvalidLocker = sdkerrors.Register(ModuleName, 13, "invalid locker")
)
