package types

// Event types.
const (
	EventTypeInstantiate       = "voting_locker_instantiate"
	EventTypeDepositLsmShares  = "voting_locker_deposit_lsm_shares"
	EventTypeDestroy           = "voting_locker_destroy"
	EventTypeRewardsForwarded  = "voting_locker_claim_rewards_reply"
	EventTypeSharesForwarded   = "voting_locker_tokenize_shares_reply"
	EventTypeContinuationFails = "voting_locker_continuation_failed"
)

// Event attribute keys.
const (
	AttributeKeyLocker           = "locker"
	AttributeKeyProposalID       = "proposal_id"
	AttributeKeyVoteOption       = "vote_option"
	AttributeKeyValidator        = "validator"
	AttributeKeyManager          = "manager"
	AttributeKeyRecordID         = "record_id"
	AttributeKeyAmount           = "amount"
	AttributeKeyTotalVotingPower = "total_voting_power"
	AttributeKeyTotalStaked      = "total_staked"
	AttributeKeyRewards          = "rewards"
	AttributeKeyLsmDenom         = "lsm_denom"
	AttributeKeyOperationID      = "operation_id"
	AttributeKeyKind             = "kind"
)
