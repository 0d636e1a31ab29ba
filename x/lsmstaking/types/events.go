package types

// Event types.
const (
	EventTypeDepositLsmShares     = "lsm_deposit_lsm_shares"
	EventTypeClaimRewards         = "lsm_claim_rewards"
	EventTypeRewardsClaimed       = "lsm_rewards_claimed"
	EventTypeDepositRewards       = "lsm_deposit_rewards"
	EventTypeWithdraw             = "lsm_withdraw"
	EventTypeWithdrawForwarded    = "lsm_tokenize_shares_withdraw_reply"
	EventTypeUpdateConfig         = "lsm_update_config"
	EventTypeCreateVotingLockers  = "lsm_create_voting_lockers"
	EventTypeDestroyVotingLockers = "lsm_destroy_voting_lockers"
	EventTypeReturnLsmShares      = "lsm_return_lsm_shares"
	EventTypeRentVotingPower      = "lsm_rent_voting_power"
	EventTypeRentalForwarded      = "lsm_tokenize_shares_rental_reply"
	EventTypeRentalReverted       = "lsm_tokenize_shares_rental_reverted"
	EventTypeContinuationFailed   = "lsm_continuation_failed"
)

// Event attribute keys.
const (
	AttributeKeySender          = "sender"
	AttributeKeyValidator       = "validator"
	AttributeKeyRecordID        = "record_id"
	AttributeKeyAmount          = "amount"
	AttributeKeyUser            = "user"
	AttributeKeyRewardsReceived = "rewards_received"
	AttributeKeyUserAmount      = "user_amount"
	AttributeKeySharesDeducted  = "shares_deducted"
	AttributeKeyRewardsClaimed  = "rewards_claimed"
	AttributeKeyWithdrawer      = "withdrawer"
	AttributeKeyLsmDenom        = "lsm_denom"
	AttributeKeyNewOwner        = "new_owner"
	AttributeKeyNewMaxCap       = "new_max_cap"
	AttributeKeyProposalID      = "proposal_id"
	AttributeKeyNumLockers      = "num_lockers"
	AttributeKeyUnpaused        = "unpaused"
	AttributeKeyLocker          = "locker"
	AttributeKeyVoteOption      = "vote_option"
	AttributeKeyRenter          = "renter"
	AttributeKeyPayment         = "payment"
	AttributeKeyVotingPower     = "vp_amount"
	AttributeKeyOperationID     = "operation_id"
	AttributeKeyKind            = "kind"
	AttributeKeyGlobalIndex     = "global_reward_index"
	AttributeKeyReason          = "reason"
)
