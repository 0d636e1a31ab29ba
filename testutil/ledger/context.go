package ledger

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// NewContext mounts the keys on a fresh in-memory multistore and returns a context on top of it.
func NewContext(logger log.Logger, keys ...storetypes.StoreKey) sdk.Context {
	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		panic(err)
	}

	header := cmtproto.Header{
		ChainID: "lsm-staking-1",
		Height:  1,
		Time:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return sdk.NewContext(cms, header, false, logger)
}
