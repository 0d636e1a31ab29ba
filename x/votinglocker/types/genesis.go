package types

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisLocker is the exported state of one locker.
type GenesisLocker struct {
	Address string `json:"address"`
	Locker  Locker `json:"locker"`
}

// GenesisState is the module genesis.
type GenesisState struct {
	Lockers []GenesisLocker `json:"lockers"`
}

// DefaultGenesisState returns genesis state with default values.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Lockers: []GenesisLocker{},
	}
}

// Validate validates genesis parameters.
func (m *GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(m.Lockers))
	for i, entry := range m.Lockers {
		addr, err := sdk.AccAddressFromBech32(entry.Address)
		if err != nil {
			return errorsmod.Wrapf(err, "locker %d: invalid address %s", i, entry.Address)
		}
		if _, ok := seen[entry.Address]; ok {
			return errorsmod.Wrapf(ErrLockerExists, "locker %d: duplicate address %s", i, entry.Address)
		}
		seen[entry.Address] = struct{}{}
		if err := entry.Locker.ValidateBasic(); err != nil {
			return errorsmod.Wrapf(err, "locker %d", i)
		}
		if !addr.Equals(LockerAddress(entry.Locker.ProposalID, entry.Locker.Option)) {
			return errorsmod.Wrapf(ErrInvalidLocker, "locker %d: address does not match proposal %d option %s",
				i, entry.Locker.ProposalID, entry.Locker.Option)
		}
	}
	return nil
}
