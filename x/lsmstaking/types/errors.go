package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// NOTE: Error status code must start from 2.
var (
	// ErrUnauthorized is returned when the sender is not the pool owner.
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")
	// ErrInvalidLsmShares is returned for malformed or missing liquid staking receipts.
	ErrInvalidLsmShares = sdkerrors.Register(ModuleName, 3, "invalid lsm shares")
	// ErrValidatorNotFound is returned when the delegation target does not exist.
	ErrValidatorNotFound = sdkerrors.Register(ModuleName, 4, "validator not found")
	// ErrInvalidValidator is returned when a receipt or argument names another validator.
	ErrInvalidValidator = sdkerrors.Register(ModuleName, 5, "invalid validator")
	// ErrInvalidFunds is returned when the attached funds are not a single staking denom coin.
	ErrInvalidFunds = sdkerrors.Register(ModuleName, 6, "invalid funds")
	// ErrInsufficientStakedAmount is returned when a withdrawal exceeds the staker's backing.
	ErrInsufficientStakedAmount = sdkerrors.Register(ModuleName, 7, "insufficient staked amount")
	// ErrNoRewards is returned when a claim settles to zero.
	ErrNoRewards = sdkerrors.Register(ModuleName, 8, "no rewards to claim")
	// ErrZeroAmount is returned for zero amounts.
	ErrZeroAmount = sdkerrors.Register(ModuleName, 9, "amount cannot be zero")
	// ErrMaxCapReached is returned when a deposit would exceed the pool cap.
	ErrMaxCapReached = sdkerrors.Register(ModuleName, 10, "maximum cap reached")
	// ErrPaused is returned for deposits and withdrawals while a voting session is active.
	ErrPaused = sdkerrors.Register(ModuleName, 11, "pool is paused")
	// ErrSessionExists is returned when a voting session already exists for the proposal.
	ErrSessionExists = sdkerrors.Register(ModuleName, 12, "voting session already exists")
	// ErrSessionNotFound is returned when no voting session exists for the proposal.
	ErrSessionNotFound = sdkerrors.Register(ModuleName, 13, "voting session not found")
	// ErrCannotUnpause is returned when other voting sessions remain active.
	ErrCannotUnpause = sdkerrors.Register(ModuleName, 14, "cannot unpause")
	// ErrInvalidLocker is returned when the sender is not the registered locker.
	ErrInvalidLocker = sdkerrors.Register(ModuleName, 15, "invalid locker")
	// ErrProposalStillActive is returned when destroying lockers of an unfinished proposal.
	ErrProposalStillActive = sdkerrors.Register(ModuleName, 16, "proposal is still active")
	// ErrInsufficientStakedTokens is returned when the pool delegation cannot back a rental.
	ErrInsufficientStakedTokens = sdkerrors.Register(ModuleName, 17, "insufficient staked tokens")
	// ErrLockerNotFound is returned when the session has no locker for the vote option.
	ErrLockerNotFound = sdkerrors.Register(ModuleName, 18, "locker not found")
	// ErrStakerNotFound is returned for addresses that never deposited.
	ErrStakerNotFound = sdkerrors.Register(ModuleName, 19, "staker not found")
	// ErrSessionInactive is returned for operations on a destroyed voting session.
	ErrSessionInactive = sdkerrors.Register(ModuleName, 20, "voting session is inactive")
	// ErrOperationPending is returned when a conflicting operation awaits its continuation.
	ErrOperationPending = sdkerrors.Register(ModuleName, 21, "operation already pending")
	// ErrContinuationNotFound is returned for replies without a hand-off record.
	ErrContinuationNotFound = sdkerrors.Register(ModuleName, 22, "continuation not found")
	// ErrArithmetic is returned on fixed-point overflow.
	ErrArithmetic = sdkerrors.Register(ModuleName, 23, "arithmetic error")
	// ErrInvalidConfig is returned for invalid pool configuration.
	ErrInvalidConfig = sdkerrors.Register(ModuleName, 24, "invalid config")
)
